package saver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"saf-demo/internal/codec"
	"saf-demo/internal/documents"
	"saf-demo/internal/raster"

	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTree struct {
	tree *documents.Tree
	err  error
}

func (f fixedTree) Tree() (*documents.Tree, error) { return f.tree, f.err }

func grantedDir(t *testing.T) (fixedTree, string) {
	t.Helper()
	dir := t.TempDir()
	tree, err := documents.FromURI(storage.NewFileURI(dir))
	require.NoError(t, err)
	return fixedTree{tree: tree}, dir
}

func noGrant() fixedTree {
	return fixedTree{err: documents.ErrNoTree}
}

func newImage(t *testing.T, w, h int) *raster.Image {
	t.Helper()
	img, err := raster.Filled(w, h, 10, 200, 30)
	require.NoError(t, err)
	t.Cleanup(func() { img.Release() })
	return img
}

func assertDecodes(t *testing.T, path string, wantFormat string, w, h int) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	name, cfg, err := codec.DecodeConfig(data)
	require.NoError(t, err)
	assert.Equal(t, wantFormat, name)
	assert.Equal(t, w, cfg.Width)
	assert.Equal(t, h, cfg.Height)
}

func TestPrivateStorageSaveEachFormat(t *testing.T) {
	test.NewTempApp(t)

	tests := []struct {
		format   codec.Format
		wantName string
	}{
		{codec.JPEG, "jpeg"},
		{codec.PNG, "png"},
		{codec.WEBP, "webp"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			root := t.TempDir()
			p := NewPrivateStorage(storage.NewFileURI(root), nil, "SimpleSAFDemo", nil)
			img := newImage(t, 30, 12)

			res := p.Save(context.Background(), "20240101_000000", img, tt.format)
			require.True(t, res.OK(), "failure %s: %v", res.Failure, res.Err)

			want := filepath.Join(root, "SimpleSAFDemo", "20240101_000000"+tt.format.Extension())
			assert.Equal(t, want, res.Destination)
			assertDecodes(t, res.Destination, tt.wantName, 30, 12)
			assert.True(t, img.Released())
		})
	}
}

func TestPrivateStorageSaveTwiceSameName(t *testing.T) {
	test.NewTempApp(t)
	p := NewPrivateStorage(storage.NewFileURI(t.TempDir()), nil, "SimpleSAFDemo", nil)

	first := p.Save(context.Background(), "dup", newImage(t, 8, 8), codec.JPEG)
	second := p.Save(context.Background(), "dup", newImage(t, 16, 4), codec.JPEG)

	require.True(t, first.OK())
	require.True(t, second.OK())
	assert.NoError(t, first.Err)
	assert.NoError(t, second.Err)
	assertDecodes(t, second.Destination, "jpeg", 16, 4)
}

func TestPrivateStorageFallsBackToLegacyRoot(t *testing.T) {
	test.NewTempApp(t)
	legacy := t.TempDir()
	p := NewPrivateStorage(nil, storage.NewFileURI(legacy), "SimpleSAFDemo", nil)

	res := p.Save(context.Background(), "legacy", newImage(t, 4, 4), codec.PNG)
	require.True(t, res.OK())
	assert.Equal(t, filepath.Join(legacy, "SimpleSAFDemo", "legacy.png"), res.Destination)
}

func TestPrivateStorageFallsBackToRootWhenFolderCannotBeCreated(t *testing.T) {
	test.NewTempApp(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "SimpleSAFDemo"), []byte("in the way"), 0o644))
	p := NewPrivateStorage(storage.NewFileURI(root), nil, "SimpleSAFDemo", nil)

	res := p.Save(context.Background(), "flat", newImage(t, 4, 4), codec.PNG)
	require.True(t, res.OK())
	assert.Equal(t, filepath.Join(root, "flat.png"), res.Destination)
}

func TestPrivateStorageWithoutAnyRoot(t *testing.T) {
	test.NewTempApp(t)
	p := NewPrivateStorage(nil, nil, "SimpleSAFDemo", nil)

	res := p.Save(context.Background(), "nowhere", newImage(t, 4, 4), codec.PNG)
	assert.False(t, res.OK())
	assert.Equal(t, IOError, res.Failure)
}

func TestSaveSkipsReleasedImage(t *testing.T) {
	test.NewTempApp(t)
	root := t.TempDir()
	p := NewPrivateStorage(storage.NewFileURI(root), nil, "SimpleSAFDemo", nil)

	img := newImage(t, 4, 4)
	img.Release()

	res := p.Save(context.Background(), "gone", img, codec.PNG)
	assert.Equal(t, ImageReleased, res.Failure)
	assert.Empty(t, res.Destination)
	assert.NoFileExists(t, filepath.Join(root, "SimpleSAFDemo", "gone.png"))
}

func TestSaveHonoursCanceledContext(t *testing.T) {
	test.NewTempApp(t)
	trees, dir := grantedDir(t)
	g := NewGrantedFolder(trees, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := g.Save(ctx, "late", newImage(t, 4, 4), codec.PNG)
	assert.Equal(t, Canceled, res.Failure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGrantedFolderSavePNG(t *testing.T) {
	test.NewTempApp(t)
	trees, dir := grantedDir(t)
	g := NewGrantedFolder(trees, nil)

	res := g.Save(context.Background(), "20240101_000000", newImage(t, 64, 48), codec.PNG)
	require.True(t, res.OK(), "failure %s: %v", res.Failure, res.Err)

	path := filepath.Join(dir, "20240101_000000.png")
	assert.Equal(t, storage.NewFileURI(path).String(), res.Destination)
	assertDecodes(t, path, "png", 64, 48)
}

func TestGrantedFolderSaveTwiceCreatesTwoDocuments(t *testing.T) {
	test.NewTempApp(t)
	trees, dir := grantedDir(t)
	g := NewGrantedFolder(trees, nil)

	first := g.Save(context.Background(), "same", newImage(t, 4, 4), codec.JPEG)
	second := g.Save(context.Background(), "same", newImage(t, 4, 4), codec.JPEG)

	require.True(t, first.OK())
	require.True(t, second.OK())
	assert.NotEqual(t, first.Destination, second.Destination)
	assert.FileExists(t, filepath.Join(dir, "same.jpeg"))
	assert.FileExists(t, filepath.Join(dir, "same (1).jpeg"))
}

func TestGrantedFolderWithoutGrant(t *testing.T) {
	test.NewTempApp(t)
	g := NewGrantedFolder(noGrant(), nil)
	img := newImage(t, 4, 4)

	res := g.Save(context.Background(), "denied", img, codec.JPEG)
	assert.Equal(t, PermissionDenied, res.Failure)
	assert.ErrorIs(t, res.Err, ErrPermissionDenied)
	assert.True(t, img.Released())
}

func TestPickedDestinationSaveTo(t *testing.T) {
	test.NewTempApp(t)
	path := filepath.Join(t.TempDir(), "picked.jpeg")
	w, err := storage.Writer(storage.NewFileURI(path))
	require.NoError(t, err)

	p := NewPickedDestination(nil)
	assert.Equal(t, "20240101_000000.jpeg", p.SuggestedName("20240101_000000", codec.JPEG))

	res := p.SaveTo(context.Background(), w, newImage(t, 20, 10), codec.JPEG)
	require.True(t, res.OK(), "failure %s: %v", res.Failure, res.Err)
	assert.Equal(t, storage.NewFileURI(path).String(), res.Destination)
	assertDecodes(t, path, "jpeg", 20, 10)
}

func TestPickedDestinationDismissedDialog(t *testing.T) {
	img := newImage(t, 4, 4)

	res := NewPickedDestination(nil).SaveTo(context.Background(), nil, img, codec.JPEG)
	assert.Equal(t, Canceled, res.Failure)
	assert.True(t, img.Released())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Failure
	}{
		{nil, NoFailure},
		{ErrPermissionDenied, PermissionDenied},
		{documents.ErrNotWritable, PermissionDenied},
		{context.Canceled, Canceled},
		{ErrCanceled, Canceled},
		{raster.ErrReleased, ImageReleased},
		{errors.New("disk full"), IOError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}
