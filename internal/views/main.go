package views

import (
	"image"
	"path/filepath"

	"saf-demo/internal/controllers"
	"saf-demo/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

const (
	folderPromptTitle   = "Choose a folder"
	folderPromptMessage = "Saving needs a folder you grant access to.\nPick one in the next screen; it is remembered for later saves."
)

var _ controllers.View = (*MainView)(nil)

// MainView is the single screen: the image, the three save actions and a
// status line.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	imageDisplay  *components.ImageDisplay
	statusBar     *components.StatusBar
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.toolbar = components.NewToolbar()
	view.imageDisplay = components.NewImageDisplay()
	view.statusBar = components.NewStatusBar()

	view.mainContainer = container.NewBorder(
		view.toolbar.GetContainer(),
		view.statusBar.GetContainer(),
		nil,
		nil,
		view.imageDisplay.GetContainer(),
	)
	window.SetContent(view.mainContainer)

	return view
}

// Event handler setters, called when wiring the controller.

// SetSaveHandler sets the handler for the Save button
func (mv *MainView) SetSaveHandler(handler func()) {
	mv.toolbar.SetSaveHandler(handler)
}

// SetMoveHandler sets the handler for the Save & move button
func (mv *MainView) SetMoveHandler(handler func()) {
	mv.toolbar.SetMoveHandler(handler)
}

// SetChooseHandler sets the handler for the Choose file button
func (mv *MainView) SetChooseHandler(handler func()) {
	mv.toolbar.SetChooseHandler(handler)
}

// SetImage shows img and enables the save actions.
func (mv *MainView) SetImage(img image.Image) {
	mv.imageDisplay.SetImage(img)
	mv.toolbar.EnableImageActions(img != nil)

	if img == nil {
		mv.statusBar.SetImageInfo(0, 0)
		return
	}
	b := img.Bounds()
	mv.statusBar.SetImageInfo(b.Dx(), b.Dy())
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// PromptForFolder explains the request before showing the folder chooser.
// Declining reports a dismissed chooser.
func (mv *MainView) PromptForFolder(onChosen func(fyne.ListableURI, error)) {
	dialog.NewConfirm(folderPromptTitle, folderPromptMessage, func(ok bool) {
		if !ok {
			onChosen(nil, nil)
			return
		}
		dialog.NewFolderOpen(onChosen, mv.window).Show()
	}, mv.window).Show()
}

// PromptForDestination opens the create-document dialog seeded with
// suggestedName and filtered to its extension.
func (mv *MainView) PromptForDestination(suggestedName string, onChosen func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(onChosen, mv.window)
	d.SetFileName(suggestedName)
	if ext := filepath.Ext(suggestedName); ext != "" {
		d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	}
	d.Show()
}

// NotifySaved posts a short system notification naming the destination.
func (mv *MainView) NotifySaved(destination string) {
	fyne.CurrentApp().SendNotification(fyne.NewNotification("Image saved", destination))
}

// Status returns the current status line text.
func (mv *MainView) Status() string {
	return mv.statusBar.GetStatus()
}

// Show displays the main window
func (mv *MainView) Show() {
	mv.window.ShowAndRun()
}
