package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/heysubinoy/pyaztext/internal/api"
	"github.com/heysubinoy/pyaztext/internal/store"
	"github.com/heysubinoy/pyaztext/internal/usertext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func startServer(t *testing.T) (string, *usertext.Store) {
	t.Helper()
	st := usertext.New(store.NewMemStore())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	api.RegisterTextServiceServer(srv, api.NewGRPCServer(st, nil))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	return lis.Addr().String(), st
}

func execute(t *testing.T, addr string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--addr", addr}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSplitPairs(t *testing.T) {
	names, values := splitPairs([]string{"a", "1", "b", "2"})
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, []string{"1", "2"}, values)

	assert.Error(t, pairArgs(nil, []string{"a"}))
	assert.Error(t, pairArgs(nil, nil))
	assert.NoError(t, pairArgs(nil, []string{"a", "1"}))
}

func TestCLISetRequiresFire(t *testing.T) {
	addr, st := startServer(t)

	out, err := execute(t, addr, "set", "k", "v")
	require.NoError(t, err)
	assert.Contains(t, out, "Ready to set 1 key(s).")
	assert.Zero(t, st.Len())

	out, err = execute(t, addr, "set", "--fire", "k", "v")
	require.NoError(t, err)
	assert.Contains(t, out, "Set 1 key(s).")

	out, err = execute(t, addr, "get", "k")
	require.NoError(t, err)
	assert.Equal(t, "v\n", out)
}

func TestCLISections(t *testing.T) {
	addr, st := startServer(t)
	require.NoError(t, st.SetSectionMany("S", []string{"a", "b"}, []string{"1", "2"}))

	out, err := execute(t, addr, "section", "-s", "S", "b")
	require.NoError(t, err)
	assert.Contains(t, out, `S\b = 2`)
	assert.NotContains(t, out, `S\a`)

	out, err = execute(t, addr, "section")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to do")

	_, err = execute(t, addr, "delete-section", "-s", "S", "--fire")
	require.NoError(t, err)
	assert.Zero(t, st.Len())
}

func TestCLIExportImport(t *testing.T) {
	addr, st := startServer(t)
	require.NoError(t, st.Set(`S\k`, `say "hi"`))
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, addr, "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ready to export.")

	_, err = execute(t, addr, "export", "--fire", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"S\\k\",\"say \"\"hi\"\"\"\n", string(data))

	require.NoError(t, st.DeleteKey(`S\k`))
	out, err = execute(t, addr, "import", "--fire", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 item(s).")

	v, ok := st.Get(`S\k`)
	require.True(t, ok)
	assert.Equal(t, `say "hi"`, v)

	_, err = execute(t, addr, "import", "--fire", filepath.Join(t.TempDir(), "x.json"))
	assert.Error(t, err)
}
