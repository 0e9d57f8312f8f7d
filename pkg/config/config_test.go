package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("NODE_ID", "n1")
	t.Setenv("RAFT_ADDR", "127.0.0.1:9000")
	t.Setenv("RAFT_BOOTSTRAP", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.Replicated())
	assert.True(t, cfg.RaftBootstrap)
	assert.Equal(t, "./pyaz/n1", cfg.RaftData)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFileWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":8081"
grpc_addr: ":9091"
log_level: debug
seed_file: seed.csv
`), 0o644))
	t.Setenv("GRPC_ADDR", ":9999")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, ":9999", cfg.GRPCAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "seed.csv", cfg.SeedFile)
	assert.False(t, cfg.Replicated())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("HTTP_ADDR", "")
	t.Setenv("GRPC_ADDR", "")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "HTTP_ADDR or GRPC_ADDR")

	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("RAFT_ADDR", "127.0.0.1:9000")
	t.Setenv("NODE_ID", "")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "NODE_ID")

	t.Setenv("RAFT_ADDR", "")
	t.Setenv("RAFT_BOOTSTRAP", "maybe")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "RAFT_BOOTSTRAP")
}
