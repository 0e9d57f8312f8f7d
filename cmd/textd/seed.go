package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/pyaztext/internal/textfile"
	"github.com/heysubinoy/pyaztext/internal/usertext"
)

const seedLeaderTimeout = 10 * time.Second

// leaderState is the part of *raft.Raft seeding needs.
type leaderState interface {
	State() raft.RaftState
}

// seedStore imports path into a store that has never held data. Nodes with
// persisted raft state, non-empty stores, and nodes that do not become
// leader within timeout are left alone. It reports whether it imported.
func seedStore(ctx context.Context, st *usertext.Store, node leaderState, fresh bool, path string, timeout time.Duration, logger hclog.Logger) (bool, error) {
	if path == "" {
		return false, nil
	}
	if !fresh {
		logger.Info("skipping seed, node has existing state", "file", path)
		return false, nil
	}
	if node != nil {
		if !waitForLeader(ctx, node, timeout) {
			logger.Warn("skipping seed, node is not leader", "file", path)
			return false, nil
		}
	}
	if st.Len() > 0 {
		logger.Info("skipping seed, store is not empty", "keys", st.Len())
		return false, nil
	}

	res, err := textfile.Import(st, path, true)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	logger.Info("seeded store", "summary", res.Summary)
	for _, line := range res.Failed {
		logger.Warn("seed line skipped", "line", line)
	}
	return true, nil
}

// waitForLeader reports whether node became leader before timeout.
func waitForLeader(ctx context.Context, node leaderState, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for node.State() != raft.Leader {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}
