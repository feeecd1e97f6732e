package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the three save actions.
type Toolbar struct {
	container    *fyne.Container
	saveButton   *widget.Button
	moveButton   *widget.Button
	chooseButton *widget.Button

	// Event handlers
	saveHandler   func()
	moveHandler   func()
	chooseHandler func()
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.saveButton = widget.NewButton("Save", nil)
	t.saveButton.Importance = widget.HighImportance

	t.moveButton = widget.NewButton("Save & move", nil)
	t.moveButton.Importance = widget.MediumImportance

	t.chooseButton = widget.NewButton("Choose file", nil)
	t.chooseButton.Importance = widget.MediumImportance

	// Nothing to save until the first image arrives.
	t.saveButton.Disable()
	t.moveButton.Disable()
	t.chooseButton.Disable()
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.saveButton,
		widget.NewSeparator(),
		t.moveButton,
		widget.NewSeparator(),
		t.chooseButton,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.saveButton.OnTapped = func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	}

	t.moveButton.OnTapped = func() {
		if t.moveHandler != nil {
			t.moveHandler()
		}
	}

	t.chooseButton.OnTapped = func() {
		if t.chooseHandler != nil {
			t.chooseHandler()
		}
	}
}

// SetSaveHandler sets the handler for saving into the granted folder
func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

// SetMoveHandler sets the handler for save-then-relocate
func (t *Toolbar) SetMoveHandler(handler func()) {
	t.moveHandler = handler
}

// SetChooseHandler sets the handler for saving to a picked document
func (t *Toolbar) SetChooseHandler(handler func()) {
	t.chooseHandler = handler
}

// EnableImageActions enables or disables every action that needs an image.
func (t *Toolbar) EnableImageActions(enabled bool) {
	fyne.Do(func() {
		for _, b := range []*widget.Button{t.saveButton, t.moveButton, t.chooseButton} {
			if enabled {
				b.Enable()
			} else {
				b.Disable()
			}
		}
	})
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

// SaveButton returns the Save button
func (t *Toolbar) SaveButton() *widget.Button {
	return t.saveButton
}
