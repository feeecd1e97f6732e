package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"saf-demo/internal/config"
	"saf-demo/internal/controllers"
	"saf-demo/internal/gate"
	"saf-demo/internal/logger"
	"saf-demo/internal/saver"
	"saf-demo/internal/services"
	"saf-demo/internal/settings"
	"saf-demo/internal/shutdown"
	"saf-demo/internal/tasks"
	"saf-demo/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/storage"
)

const (
	AppName    = "Simple SAF Demo"
	AppVersion = "1.0.0"
)

// Application holds the wired components for one run.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  config.Config

	controller *controllers.MainController
	view       *views.MainView
	shutdown   *shutdown.Manager
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "application initialization failed: %v\n", err)
		os.Exit(1)
	}

	application.Run()
}

func newLogger(cfg config.Config) logger.Logger {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logger.InfoLevel
	}
	if cfg.LogFormat == "json" {
		return logger.NewJSONLogger(level)
	}
	return logger.NewConsoleLogger(level)
}

// NewApplication builds every component and wires them together.
func NewApplication(cfg config.Config) (*Application, error) {
	appLogger := newLogger(cfg)

	app.SetMetadata(fyne.AppMetadata{
		ID:      cfg.AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(cfg.AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(640, 520))
	window.CenterOnScreen()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":    AppVersion,
		"app_id":     cfg.AppID,
		"go_version": runtime.Version(),
		"log_level":  cfg.LogLevel,
	})

	store, err := settings.New(fyneApp.Preferences())
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	privateRoot, legacyRoot, err := storageRoots(fyneApp, cfg)
	if err != nil {
		return nil, err
	}

	folderGate := gate.New(store, nil, appLogger)
	private := saver.NewPrivateStorage(privateRoot, legacyRoot, cfg.PrivateDirName, appLogger)
	runner := tasks.NewRunner(context.Background(), appLogger)

	mainController := controllers.NewMainController(controllers.Dependencies{
		Images:  services.NewImageService(appLogger),
		Gate:    folderGate,
		Granted: saver.NewGrantedFolder(folderGate, appLogger),
		Mover:   saver.NewMover(private, saver.NewRelocator(folderGate, appLogger)),
		Picked:  saver.NewPickedDestination(appLogger),
		Runner:  runner,
		Logger:  appLogger,
	})
	folderGate.SetPrompter(mainController)

	mainView := views.NewMainView(window)
	mainController.SetMainView(mainView)
	mainView.SetSaveHandler(func() { mainController.SaveNow() })
	mainView.SetMoveHandler(func() { mainController.SaveAndRelocate() })
	mainView.SetChooseHandler(mainController.ChooseDestination)

	manager := shutdown.NewManager(appLogger)
	manager.Register("controller", mainController)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		controller: mainController,
		view:       mainView,
		shutdown:   manager,
	}
	application.setupWindowEvents()

	appLogger.Info("Application", "initialized", map[string]interface{}{
		"folder_state": folderGate.State().String(),
		"private_root": privateRoot.String(),
	})

	return application, nil
}

// storageRoots resolves the private storage root and its legacy fallback.
func storageRoots(a fyne.App, cfg config.Config) (fyne.URI, fyne.URI, error) {
	var root, legacy fyne.URI

	switch {
	case cfg.PrivateRoot != "":
		root = storage.NewFileURI(cfg.PrivateRoot)
	case a.Storage() != nil:
		root = a.Storage().RootURI()
	}
	if cfg.LegacyRoot != "" {
		legacy = storage.NewFileURI(cfg.LegacyRoot)
	}

	if root == nil && legacy == nil {
		return nil, nil, fmt.Errorf("no private storage root available")
	}
	return root, legacy, nil
}

// Run loads the sample image and blocks in the UI loop.
func (a *Application) Run() {
	a.shutdown.Listen()
	go func() {
		<-a.shutdown.Done()
		fyne.Do(a.fyneApp.Quit)
	}()

	a.controller.LoadImage(a.config.SampleImage)
	a.view.Show()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "terminated", nil)
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)

		// Outstanding saves are canceled off the UI goroutine.
		go func() {
			a.shutdown.Shutdown()
			fyne.Do(a.window.Close)
		}()
	})
}
