package documents

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T) (*Tree, string) {
	t.Helper()
	test.NewTempApp(t)

	dir := t.TempDir()
	tree, err := FromURI(storage.NewFileURI(dir))
	require.NoError(t, err)
	return tree, dir
}

func TestOpenRejectsEmptyToken(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, ErrNoTree)

	_, err = Open("   ")
	assert.ErrorIs(t, err, ErrNoTree)

	_, err = FromURI(nil)
	assert.ErrorIs(t, err, ErrNoTree)
}

func TestOpenRoundTripsToken(t *testing.T) {
	tree, _ := newTree(t)

	reopened, err := Open(tree.Token())
	require.NoError(t, err)
	assert.Equal(t, tree.Token(), reopened.Token())
	assert.True(t, reopened.CanWrite())
}

func TestCanWriteFalseWhenFolderRemoved(t *testing.T) {
	tree, dir := newTree(t)
	require.True(t, tree.CanWrite())

	require.NoError(t, os.RemoveAll(dir))
	assert.False(t, tree.CanWrite())
}

func TestCanWriteFalseForPlainFile(t *testing.T) {
	test.NewTempApp(t)
	file := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tree, err := FromURI(storage.NewFileURI(file))
	require.NoError(t, err)
	assert.False(t, tree.CanWrite())
}

func TestCreateFileDeduplicatesNames(t *testing.T) {
	tree, dir := newTree(t)

	first, err := tree.CreateFile("20240101_000000.png")
	require.NoError(t, err)
	second, err := tree.CreateFile("20240101_000000.png")
	require.NoError(t, err)

	assert.Equal(t, "20240101_000000.png", first.Name())
	assert.Equal(t, "20240101_000000 (1).png", second.Name())
	assert.FileExists(t, filepath.Join(dir, "20240101_000000.png"))
	assert.FileExists(t, filepath.Join(dir, "20240101_000000 (1).png"))

	listed, err := tree.List()
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCreateFileRejectsBadInput(t *testing.T) {
	tree, dir := newTree(t)

	_, err := tree.CreateFile("")
	assert.Error(t, err)
	_, err = tree.CreateFile("../escape.png")
	assert.Error(t, err)

	require.NoError(t, os.RemoveAll(dir))
	_, err = tree.CreateFile("late.png")
	assert.ErrorIs(t, err, ErrNotWritable)
}

func TestWriterTruncatesAndReaderReads(t *testing.T) {
	tree, _ := newTree(t)
	u, err := tree.CreateFile("data.bin")
	require.NoError(t, err)

	for _, payload := range []string{"a longer first payload", "short"} {
		w, err := OpenWriter(u)
		require.NoError(t, err)
		_, err = w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	r, err := OpenReader(u)
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestEnsureDirAndDelete(t *testing.T) {
	test.NewTempApp(t)
	root := storage.NewFileURI(t.TempDir())

	dir, err := EnsureDir(root, "SimpleSAFDemo")
	require.NoError(t, err)
	assert.True(t, Exists(dir))

	again, err := EnsureDir(root, "SimpleSAFDemo")
	require.NoError(t, err)
	assert.Equal(t, dir.String(), again.String())

	file, err := storage.Child(dir, "x.txt")
	require.NoError(t, err)
	w, err := OpenWriter(file)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, Delete(file))
	assert.False(t, Exists(file))
}
