package store

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// RaftOptions configures a single raft node.
type RaftOptions struct {
	NodeID    string
	BindAddr  string
	DataDir   string
	Bootstrap bool
}

// OpenRaft starts a raft node for fsm with BoltDB log storage, file
// snapshots and a TCP transport. With Bootstrap set, a fresh node forms a
// single-voter cluster. fresh reports that the node had no persisted raft
// state before this call.
func OpenRaft(opts RaftOptions, fsm raft.FSM, logger hclog.Logger) (r *raft.Raft, fresh bool, err error) {
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("create raft dir: %w", err)
	}

	cfg := raft.DefaultConfig()
	cfg.LocalID = raft.ServerID(opts.NodeID)
	cfg.Logger = logger.Named("raft")

	boltStore, err := raftboltdb.NewBoltStore(filepath.Join(opts.DataDir, "raft.db"))
	if err != nil {
		return nil, false, fmt.Errorf("open bolt store: %w", err)
	}

	snapshots, err := raft.NewFileSnapshotStoreWithLogger(opts.DataDir, 2, logger.Named("snapshot"))
	if err != nil {
		return nil, false, fmt.Errorf("create snapshot store: %w", err)
	}

	addr, err := net.ResolveTCPAddr("tcp", opts.BindAddr)
	if err != nil {
		return nil, false, fmt.Errorf("resolve raft addr: %w", err)
	}
	transport, err := raft.NewTCPTransportWithLogger(opts.BindAddr, addr, 3, 10*time.Second, logger.Named("transport"))
	if err != nil {
		return nil, false, fmt.Errorf("create transport: %w", err)
	}

	hasState, err := raft.HasExistingState(boltStore, boltStore, snapshots)
	if err != nil {
		return nil, false, fmt.Errorf("inspect raft state: %w", err)
	}

	r, err = raft.NewRaft(cfg, fsm, boltStore, boltStore, snapshots, transport)
	if err != nil {
		return nil, false, fmt.Errorf("start raft: %w", err)
	}

	if opts.Bootstrap && !hasState {
		f := r.BootstrapCluster(raft.Configuration{
			Servers: []raft.Server{{ID: cfg.LocalID, Address: transport.LocalAddr()}},
		})
		if err := f.Error(); err != nil {
			return nil, false, fmt.Errorf("bootstrap cluster: %w", err)
		}
		logger.Info("bootstrapped raft cluster", "node", opts.NodeID)
	}
	return r, !hasState, nil
}

// Join adds a voter to the cluster. It must run on the leader.
func Join(r *raft.Raft, nodeID, addr string) error {
	if r.State() != raft.Leader {
		return raft.ErrNotLeader
	}
	f := r.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(addr), 0, 0)
	return f.Error()
}
