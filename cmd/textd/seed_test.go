package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/pyaztext/internal/store"
	"github.com/heysubinoy/pyaztext/internal/usertext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedState raft.RaftState

func (s fixedState) State() raft.RaftState { return raft.RaftState(s) }

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, os.WriteFile(path, []byte("\"a\",\"1\"\n\"S\\b\",\"2\"\n"), 0o644))
	return path
}

func TestSeedStoreFreshLeader(t *testing.T) {
	st := usertext.New(store.NewMemStore())
	seeded, err := seedStore(context.Background(), st, fixedState(raft.Leader), true, writeSeed(t), time.Second, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, 2, st.Len())
}

func TestSeedStoreStandalone(t *testing.T) {
	st := usertext.New(store.NewMemStore())
	seeded, err := seedStore(context.Background(), st, nil, true, writeSeed(t), time.Second, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestSeedStoreKeepsExistingState(t *testing.T) {
	st := usertext.New(store.NewMemStore())
	require.NoError(t, st.Set("a", "2"))

	seeded, err := seedStore(context.Background(), st, fixedState(raft.Leader), false, writeSeed(t), time.Second, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.False(t, seeded)

	seeded, err = seedStore(context.Background(), st, fixedState(raft.Leader), true, writeSeed(t), time.Second, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.False(t, seeded)

	v, _ := st.Get("a")
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, st.Len())
}

func TestSeedStoreFollowerDoesNotBlock(t *testing.T) {
	st := usertext.New(store.NewMemStore())

	start := time.Now()
	seeded, err := seedStore(context.Background(), st, fixedState(raft.Follower), true, writeSeed(t), 100*time.Millisecond, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Zero(t, st.Len())
}
