// Package documents wraps fyne storage URIs in the document-tree model:
// a granted folder identified by an opaque token, into which new documents
// are created and written.
package documents

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

var (
	ErrNoTree      = errors.New("no document tree token")
	ErrNotWritable = errors.New("document tree is not writable")
	ErrNameTaken   = errors.New("no free document name")
)

// maxNameAttempts bounds the "name (n).ext" probing in CreateFile.
const maxNameAttempts = 100

// Tree is a folder the user granted access to.
type Tree struct {
	root fyne.URI
}

// Open parses a persisted token back into a Tree. It does not touch storage.
func Open(token string) (*Tree, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoTree
	}

	u, err := storage.ParseURI(token)
	if err != nil {
		return nil, fmt.Errorf("parse tree token: %w", err)
	}
	return &Tree{root: u}, nil
}

func FromURI(u fyne.URI) (*Tree, error) {
	if u == nil {
		return nil, ErrNoTree
	}
	return &Tree{root: u}, nil
}

func (t *Tree) URI() fyne.URI {
	return t.root
}

// Token is the string persisted for this tree.
func (t *Tree) Token() string {
	return t.root.String()
}

// CanWrite reports whether the folder still exists, is a folder and accepts writes.
// Any storage error counts as "no".
func (t *Tree) CanWrite() bool {
	exists, err := storage.Exists(t.root)
	if err != nil || !exists {
		return false
	}

	listable, err := storage.CanList(t.root)
	if err != nil || !listable {
		return false
	}

	writable, err := storage.CanWrite(t.root)
	return err == nil && writable
}

// CreateFile creates an empty document called name inside the tree and returns
// its URI. When name is taken the provider convention "base (n).ext" is used.
func (t *Tree) CreateFile(name string) (fyne.URI, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("invalid document name %q", name)
	}
	if !t.CanWrite() {
		return nil, ErrNotWritable
	}

	u, err := t.freeChild(name)
	if err != nil {
		return nil, err
	}

	w, err := storage.Writer(u)
	if err != nil {
		return nil, fmt.Errorf("create document %s: %w", u.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("create document %s: %w", u.Name(), err)
	}
	return u, nil
}

// List returns the documents directly inside the tree.
func (t *Tree) List() ([]fyne.URI, error) {
	lister, err := storage.ListerForURI(t.root)
	if err != nil {
		return nil, fmt.Errorf("list tree: %w", err)
	}
	return lister.List()
}

func (t *Tree) freeChild(name string) (fyne.URI, error) {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; i <= maxNameAttempts; i++ {
		u, err := storage.Child(t.root, candidate)
		if err != nil {
			return nil, fmt.Errorf("resolve child %q: %w", candidate, err)
		}

		exists, err := storage.Exists(u)
		if err != nil {
			return nil, fmt.Errorf("stat child %q: %w", candidate, err)
		}
		if !exists {
			return u, nil
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}
	return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
}
