package textfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/heysubinoy/pyaztext/internal/store"
	"github.com/heysubinoy/pyaztext/internal/usertext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath("a.csv"))
	assert.NoError(t, ValidatePath("dir/A.TXT"))
	assert.ErrorIs(t, ValidatePath(""), ErrNoPath)
	assert.ErrorIs(t, ValidatePath("a.json"), ErrBadExtension)
	assert.ErrorIs(t, ValidatePath("csv"), ErrBadExtension)
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.csv")

	src := usertext.New(store.NewMemStore())
	require.NoError(t, src.SetSection("S", "e", `say "x"`))
	require.NoError(t, src.Set("root", "r"))

	res, err := Export(src, path, false)
	require.NoError(t, err)
	assert.Equal(t, "Ready to export.", res.Summary)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	res, err = Export(src, path, true)
	require.NoError(t, err)
	assert.True(t, res.Fired)
	assert.Equal(t, "Exported 2 items to CSV file: "+path, res.Summary)

	dst := usertext.New(store.NewMemStore())
	res, err = Import(dst, path, false)
	require.NoError(t, err)
	assert.Equal(t, "Ready to import.", res.Summary)
	assert.Zero(t, dst.Len())

	res, err = Import(dst, path, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, src.Export(), dst.Export())
}

func TestExportEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	res, err := Export(usertext.New(store.NewMemStore()), path, true)
	require.NoError(t, err)
	assert.Equal(t, "No document user text found.", res.Summary)
	assert.False(t, res.Fired)
}

func TestImportMissingFile(t *testing.T) {
	s := usertext.New(store.NewMemStore())
	_, err := Import(s, filepath.Join(t.TempDir(), "missing.csv"), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportPartialFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.csv")
	content := "\"a\",\"1\"\r\n\"b\",\"2\"\r\nbad\r\n\"c\",\"3\"\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := usertext.New(store.NewMemStore())
	res, err := Import(s, path, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Affected)
	assert.Equal(t, []string{"bad"}, res.Failed)
	assert.Equal(t, "Imported 3 item(s) from file: "+path+". Failed to import 1 line(s).", res.Summary)
}

func TestReadChecksPath(t *testing.T) {
	dir := t.TempDir()
	_, err := Read(filepath.Join(dir, "a.json"))
	assert.ErrorIs(t, err, ErrBadExtension)

	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte(`"k","v"`), 0o644))
	text, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, `"k","v"`, text)
}
