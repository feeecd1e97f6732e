package controllers

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"saf-demo/internal/codec"
	"saf-demo/internal/gate"
	"saf-demo/internal/logger"
	"saf-demo/internal/saver"
	"saf-demo/internal/services"
	"saf-demo/internal/tasks"

	"fyne.io/fyne/v2"
)

const (
	placeholderWidth  = 640
	placeholderHeight = 480
)

// View is what the controller needs from the screen.
type View interface {
	SetImage(img image.Image)
	UpdateStatus(status string)
	// PromptForFolder explains why a folder is needed and opens the folder
	// chooser. onChosen receives the chooser result, nil when dismissed.
	PromptForFolder(onChosen func(fyne.ListableURI, error))
	// PromptForDestination opens the create-document dialog.
	PromptForDestination(suggestedName string, onChosen func(fyne.URIWriteCloser, error))
	NotifySaved(destination string)
}

// Dependencies groups what NewMainController wires together.
type Dependencies struct {
	Images  *services.ImageService
	Gate    *gate.Gate
	Granted *saver.GrantedFolder
	Mover   *saver.Mover
	Picked  *saver.PickedDestination
	Runner  *tasks.Runner
	Logger  logger.Logger
}

// MainController turns the three button presses and the dialog results into
// gated saves on the task runner.
type MainController struct {
	images  *services.ImageService
	gate    *gate.Gate
	granted *saver.GrantedFolder
	mover   *saver.Mover
	picked  *saver.PickedDestination
	runner  *tasks.Runner
	logger  logger.Logger

	format codec.Format
	now    func() time.Time

	mu       sync.RWMutex
	mainView View
}

func NewMainController(deps Dependencies) *MainController {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &MainController{
		images:  deps.Images,
		gate:    deps.Gate,
		granted: deps.Granted,
		mover:   deps.Mover,
		picked:  deps.Picked,
		runner:  deps.Runner,
		logger:  log,
		format:  codec.JPEG,
		now:     time.Now,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.mainView = view
}

func (mc *MainController) view() View {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.mainView
}

// LoadImage fetches uri in the background and shows it. A placeholder is used
// when loading fails so the save actions still have something to write.
func (mc *MainController) LoadImage(uri string) *tasks.Handle[error] {
	mc.updateStatus("Loading image...")

	return tasks.Go(mc.runner, "load_image", func(ctx context.Context) error {
		img, err := mc.images.Load(ctx, uri)
		if err != nil {
			mc.logger.Warning("MainController", "image load failed, using placeholder", map[string]interface{}{
				"source": uri,
				"error":  err.Error(),
			})
			img = mc.images.UsePlaceholder(placeholderWidth, placeholderHeight)
		}

		fyne.Do(func() {
			if v := mc.view(); v != nil {
				v.SetImage(img)
				v.UpdateStatus("Ready")
			}
		})
		return err
	}, func() error { return context.Canceled })
}

// SaveNow saves the current image into the granted folder. It returns nil when
// nothing was started: no image yet, or the gate sent the user to the folder
// chooser first.
func (mc *MainController) SaveNow() *tasks.Handle[saver.Result] {
	if mc.images.Current() == nil || !mc.gate.CheckAccess() {
		return nil
	}

	img, err := mc.images.Snapshot()
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{"action": "save_now"})
		return nil
	}

	name := saver.TimestampName(mc.now())
	return mc.dispatch("save_now", func(ctx context.Context) saver.Result {
		return mc.granted.Save(ctx, name, img, mc.format)
	})
}

// SaveAndRelocate writes to private storage first and then moves the file into
// the granted folder.
func (mc *MainController) SaveAndRelocate() *tasks.Handle[saver.Result] {
	if mc.images.Current() == nil || !mc.gate.CheckAccess() {
		return nil
	}

	img, err := mc.images.Snapshot()
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{"action": "save_and_relocate"})
		return nil
	}

	name := saver.TimestampName(mc.now())
	return mc.dispatch("save_and_relocate", func(ctx context.Context) saver.Result {
		return mc.mover.SaveAndRelocate(ctx, name, img, mc.format)
	})
}

// ChooseDestination opens the create-document dialog. No folder grant is needed.
func (mc *MainController) ChooseDestination() {
	v := mc.view()
	if v == nil || mc.images.Current() == nil {
		return
	}

	suggested := mc.picked.SuggestedName(saver.TimestampName(mc.now()), mc.format)
	v.PromptForDestination(suggested, func(w fyne.URIWriteCloser, err error) {
		mc.OnDestinationChosen(w, err)
	})
}

// OnDestinationChosen saves into the document the dialog returned. A dismissed
// dialog is a no-op.
func (mc *MainController) OnDestinationChosen(w fyne.URIWriteCloser, err error) *tasks.Handle[saver.Result] {
	if err != nil {
		mc.logger.Warning("MainController", "save dialog failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if w == nil {
		return nil
	}

	img, err := mc.images.Snapshot()
	if err != nil {
		w.Close()
		mc.logger.Error("MainController", err, map[string]interface{}{"action": "choose_destination"})
		return nil
	}

	return mc.dispatch("save_picked", func(ctx context.Context) saver.Result {
		return mc.picked.SaveTo(ctx, w, img, mc.format)
	})
}

// RequestFolder is called by the gate when no usable grant exists.
func (mc *MainController) RequestFolder() {
	v := mc.view()
	if v == nil {
		return
	}

	fyne.Do(func() {
		v.PromptForFolder(func(folder fyne.ListableURI, err error) {
			mc.OnFolderChosen(folder, err)
		})
	})
}

// OnFolderChosen records the grant and retries the save that needed it.
func (mc *MainController) OnFolderChosen(folder fyne.ListableURI, err error) *tasks.Handle[saver.Result] {
	if err != nil {
		mc.logger.Warning("MainController", "folder chooser failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if folder == nil {
		return nil
	}

	if err := mc.gate.Grant(folder); err != nil {
		mc.logger.Warning("MainController", "folder not usable", map[string]interface{}{"error": err.Error()})
		return nil
	}

	return mc.SaveNow()
}

func (mc *MainController) dispatch(action string, fn func(context.Context) saver.Result) *tasks.Handle[saver.Result] {
	mc.updateStatus("Saving...")

	h := tasks.Go(mc.runner, action, fn, func() saver.Result {
		return saver.Result{Failure: saver.Canceled, Err: saver.ErrCanceled}
	})

	go mc.report(action, h)
	return h
}

// report waits for the task and shows the outcome. Failures are logged by
// the saver and only clear the status line here.
func (mc *MainController) report(action string, h *tasks.Handle[saver.Result]) {
	res := h.Wait()

	mc.logger.Debug("MainController", "action finished", map[string]interface{}{
		"action":  action,
		"task_id": h.ID(),
		"failure": res.Failure.String(),
	})

	fyne.Do(func() {
		v := mc.view()
		if v == nil {
			return
		}
		if res.OK() {
			v.NotifySaved(res.Destination)
			v.UpdateStatus(fmt.Sprintf("Saved to %s", res.Destination))
			return
		}
		v.UpdateStatus("Ready")
	})
}

func (mc *MainController) updateStatus(status string) {
	fyne.Do(func() {
		if v := mc.view(); v != nil {
			v.UpdateStatus(status)
		}
	})
}

// Shutdown cancels every outstanding save.
func (mc *MainController) Shutdown() {
	mc.runner.Shutdown()
}
