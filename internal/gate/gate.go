// Package gate decides whether a granted-folder save may run now or must first
// send the user to the folder chooser.
package gate

import (
	"errors"
	"fmt"
	"sync"

	"saf-demo/internal/documents"
	"saf-demo/internal/logger"

	"fyne.io/fyne/v2"
)

// ErrNotWritable is returned by Grant when the chosen folder refuses writes.
var ErrNotWritable = errors.New("chosen folder is not writable")

type State int

const (
	NoPermission State = iota
	Permitted
)

func (s State) String() string {
	if s == Permitted {
		return "permitted"
	}
	return "no_permission"
}

// TokenStore persists the granted folder token.
type TokenStore interface {
	TreeToken() (string, bool)
	SetTreeToken(token string)
}

// Prompter asks the user to pick a folder. The answer arrives later through Grant.
type Prompter interface {
	RequestFolder()
}

type Gate struct {
	store    TokenStore
	prompter Prompter
	logger   logger.Logger

	mu    sync.Mutex
	state State
}

func New(store TokenStore, prompter Prompter, log logger.Logger) *Gate {
	if log == nil {
		log = logger.NewNop()
	}
	return &Gate{
		store:    store,
		prompter: prompter,
		logger:   log,
		state:    NoPermission,
	}
}

// SetPrompter replaces the prompter. The view is built after the gate, so the
// entry point wires it late.
func (g *Gate) SetPrompter(p Prompter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompter = p
}

// CheckAccess returns true when a token is stored and its folder is writable.
// Otherwise it asks the prompter for a folder and returns false; the caller
// should retry once Grant has been called, not treat false as a failure.
func (g *Gate) CheckAccess() bool {
	tree, reason := g.currentTree()
	if tree != nil {
		g.setState(Permitted)
		return true
	}

	g.setState(NoPermission)
	g.logger.Debug("PermissionGate", "folder access required", map[string]interface{}{
		"reason": reason,
	})
	g.prompt()
	return false
}

// Tree returns the granted folder without prompting, or an error when there is
// no usable grant.
func (g *Gate) Tree() (*documents.Tree, error) {
	tree, reason := g.currentTree()
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", documents.ErrNotWritable, reason)
	}
	return tree, nil
}

// Grant records the folder the user picked. The token is only persisted when
// the folder accepts writes.
func (g *Gate) Grant(folder fyne.URI) error {
	tree, err := documents.FromURI(folder)
	if err != nil {
		return err
	}
	if !tree.CanWrite() {
		g.setState(NoPermission)
		return fmt.Errorf("%w: %s", ErrNotWritable, tree.Token())
	}

	g.store.SetTreeToken(tree.Token())
	g.setState(Permitted)

	g.logger.Info("PermissionGate", "folder granted", map[string]interface{}{
		"tree_uri": tree.Token(),
	})
	return nil
}

// State is the result of the last CheckAccess or Grant.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) currentTree() (*documents.Tree, string) {
	token, ok := g.store.TreeToken()
	if !ok {
		return nil, "no token"
	}

	tree, err := documents.Open(token)
	if err != nil {
		return nil, "unparsable token"
	}
	if !tree.CanWrite() {
		return nil, "folder not writable"
	}
	return tree, ""
}

func (g *Gate) prompt() {
	g.mu.Lock()
	p := g.prompter
	g.mu.Unlock()

	if p != nil {
		p.RequestFolder()
	}
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != s {
		g.logger.Debug("PermissionGate", "state changed", map[string]interface{}{
			"from": g.state.String(),
			"to":   s.String(),
		})
	}
	g.state = s
}
