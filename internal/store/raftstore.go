package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/pyaztext/pkg/kv"
)

const applyTimeout = 10 * time.Second

// ErrNotAttached is returned by writes issued before a raft node is attached.
var ErrNotAttached = errors.New("raft store: no raft node attached")

// RaftCommand represents a set/delete operation to be applied via Raft.
type RaftCommand struct {
	Op    string `json:"op"` // "set" or "delete"
	Key   string `json:"key"`
	Value string `json:"value,omitempty"` // only for set
}

// RaftStore replicates writes to a MemStore through Raft consensus.
// Reads are served from the local replica.
type RaftStore struct {
	store  *MemStore
	raft   *raft.Raft
	logger hclog.Logger
}

var (
	_ kv.Store = (*RaftStore)(nil)
	_ raft.FSM = (*RaftStore)(nil)
)

// NewRaftStore creates the FSM. Call Attach once the raft node exists.
func NewRaftStore(store *MemStore, logger hclog.Logger) *RaftStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &RaftStore{store: store, logger: logger.Named("fsm")}
}

// Attach binds the raft node that writes are submitted to.
func (rs *RaftStore) Attach(r *raft.Raft) {
	rs.raft = r
}

// GetRaft returns the underlying raft.Raft pointer (for API layer leader checks)
func (rs *RaftStore) GetRaft() *raft.Raft {
	return rs.raft
}

// Apply applies a Raft log entry to the local store.
func (rs *RaftStore) Apply(log *raft.Log) interface{} {
	var cmd RaftCommand
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		rs.logger.Error("failed to decode command", "index", log.Index, "error", err)
		return err
	}
	switch cmd.Op {
	case "set":
		return rs.store.Set(cmd.Key, cmd.Value)
	case "delete":
		return rs.store.Delete(cmd.Key)
	default:
		rs.logger.Warn("unknown command", "op", cmd.Op, "index", log.Index)
		return fmt.Errorf("raft store: unknown op %q", cmd.Op)
	}
}

// snapshotPair is one key-value pair of an FSM snapshot.
type snapshotPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Snapshot captures the replica as an ordered JSON array of pairs.
func (rs *RaftStore) Snapshot() (raft.FSMSnapshot, error) {
	pairs := make([]snapshotPair, 0, rs.store.Len())
	rs.store.Range(func(key, value string) bool {
		pairs = append(pairs, snapshotPair{Key: key, Value: value})
		return true
	})
	return &pairSnapshot{pairs: pairs}, nil
}

// Restore replaces the replica with the pairs of a snapshot, in order.
// The replica is left untouched when the snapshot does not decode.
func (rs *RaftStore) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var pairs []snapshotPair
	if err := json.NewDecoder(rc).Decode(&pairs); err != nil {
		return fmt.Errorf("raft store: decode snapshot: %w", err)
	}
	rs.store.Reset()
	for _, p := range pairs {
		if err := rs.store.Set(p.Key, p.Value); err != nil {
			return fmt.Errorf("raft store: restore %q: %w", p.Key, err)
		}
	}
	rs.logger.Info("restored snapshot", "keys", len(pairs))
	return nil
}

type pairSnapshot struct {
	pairs []snapshotPair
}

func (s *pairSnapshot) Persist(sink raft.SnapshotSink) error {
	if err := json.NewEncoder(sink).Encode(s.pairs); err != nil {
		sink.Cancel()
		return fmt.Errorf("raft store: persist snapshot: %w", err)
	}
	return sink.Close()
}

func (s *pairSnapshot) Release() {}

// Set submits a set command to Raft.
func (rs *RaftStore) Set(key, value string) error {
	return rs.submit(RaftCommand{Op: "set", Key: key, Value: value})
}

// Delete submits a delete command to Raft.
func (rs *RaftStore) Delete(key string) error {
	return rs.submit(RaftCommand{Op: "delete", Key: key})
}

func (rs *RaftStore) submit(cmd RaftCommand) error {
	if rs.raft == nil {
		return ErrNotAttached
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	f := rs.raft.Apply(data, applyTimeout)
	if err := f.Error(); err != nil {
		return err
	}
	if resp, ok := f.Response().(error); ok && resp != nil {
		return resp
	}
	return nil
}

// Get reads directly from the local store.
func (rs *RaftStore) Get(key string) (string, bool) {
	return rs.store.Get(key)
}

// Range reads directly from the local store.
func (rs *RaftStore) Range(fn func(key, value string) bool) {
	rs.store.Range(fn)
}

// Len reads directly from the local store.
func (rs *RaftStore) Len() int {
	return rs.store.Len()
}
