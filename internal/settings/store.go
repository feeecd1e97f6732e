// Package settings persists the granted-folder token.
//
// A Store is built once by the entry point from the application's
// fyne.Preferences and passed to whoever needs it. There is no package-level
// instance.
package settings

import (
	"errors"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
)

const treeTokenKey = "tree_uri"

// Backend is the subset of fyne.Preferences the store writes through to.
type Backend interface {
	String(key string) string
	SetString(key string, value string)
	RemoveValue(key string)
}

var _ Backend = (fyne.Preferences)(nil)

type Store struct {
	mu      sync.Mutex
	backend Backend
}

func New(backend Backend) (*Store, error) {
	if backend == nil {
		return nil, errors.New("preferences backend is nil")
	}
	return &Store{backend: backend}, nil
}

// TreeToken returns the persisted folder token and whether one is set.
// Blank values count as unset.
func (s *Store) TreeToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.backend.String(treeTokenKey)
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// SetTreeToken stores token, or clears it when token is blank. The backend
// has the value before SetTreeToken returns.
func (s *Store) SetTreeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(token) == "" {
		s.backend.RemoveValue(treeTokenKey)
		return
	}
	s.backend.SetString(treeTokenKey, token)
}

func (s *Store) ClearTreeToken() {
	s.SetTreeToken("")
}
