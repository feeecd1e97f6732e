package documents

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

// OpenWriter opens u for writing, truncating existing content.
func OpenWriter(u fyne.URI) (fyne.URIWriteCloser, error) {
	w, err := storage.Writer(u)
	if err != nil {
		return nil, fmt.Errorf("open writer %s: %w", u, err)
	}
	return w, nil
}

func OpenReader(u fyne.URI) (fyne.URIReadCloser, error) {
	r, err := storage.Reader(u)
	if err != nil {
		return nil, fmt.Errorf("open reader %s: %w", u, err)
	}
	return r, nil
}

func Delete(u fyne.URI) error {
	if err := storage.Delete(u); err != nil {
		return fmt.Errorf("delete %s: %w", u, err)
	}
	return nil
}

func Exists(u fyne.URI) bool {
	ok, err := storage.Exists(u)
	return err == nil && ok
}

// EnsureDir returns parent/name, creating it when missing.
func EnsureDir(parent fyne.URI, name string) (fyne.URI, error) {
	dir, err := storage.Child(parent, name)
	if err != nil {
		return nil, fmt.Errorf("resolve %q under %s: %w", name, parent, err)
	}

	if ok, err := storage.CanList(dir); err == nil && ok {
		return dir, nil
	}

	if err := storage.CreateListable(dir); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}
