package main

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"rts-lobby/internal/config"
	"rts-lobby/internal/controllers"
	"rts-lobby/internal/localization"
	"rts-lobby/internal/logger"
	"rts-lobby/internal/mappreview"
	"rts-lobby/internal/models"
	"rts-lobby/internal/online"
	"rts-lobby/internal/shutdown"
	"rts-lobby/internal/views"
	"rts-lobby/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
)

const (
	AppName    = "RTS Lobby"
	AppID      = "com.rtslobby.client"
	AppVersion = "1.0.0"

	// UpdateInterval is the UI tick that drives the lobby controller.
	UpdateInterval = 50 * time.Millisecond
	dialTimeout    = 15 * time.Second
	leaveTimeout   = 5 * time.Second
)

// Application owns the window, the online session and the lobby screen
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config
	text    *localization.Localizer

	client     *online.Client
	previews   *mappreview.Loader
	controller *controllers.LobbyController
	lobbyView  *views.LobbyView
	screens    *views.ScreenStack
	transition *views.FadeTransition

	shutdown     *shutdown.Manager
	windowClosed atomic.Bool
}

// screen wraps a canvas object for the screen stack
type screen struct {
	content fyne.CanvasObject
}

func (s screen) Content() fyne.CanvasObject { return s.content }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run()
	log.Println("Application terminated successfully")
}

// NewApplication connects to the online service and builds the lobby screen
func NewApplication(cfg *config.Config) (*Application, error) {
	appLogger := logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel, cfg.Debug))

	text, err := localization.New(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	crc := models.CRCInfo{ExeCRC: cfg.ExeCRC, IniCRC: cfg.IniCRC}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	client, err := online.Dial(ctx, cfg.ServerURL, online.LoginInfo{Name: cfg.PlayerName, CRC: crc}, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.ServerURL, err)
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(text.Text("lobby.title", nil))
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.SetMaster()

	previews := mappreview.NewLoader(cfg.MapDir, components.PreviewWidth, components.PreviewHeight)
	transition := views.NewFadeTransition(views.DefaultFadeDuration)
	screens := views.NewScreenStack(window, appLogger)
	lobbyView := views.NewLobbyView(fyneApp, window, text, previews)

	controller := controllers.NewLobbyController(controllers.Dependencies{
		Services:    client,
		View:        lobbyView,
		Navigator:   screens,
		Transition:  transition,
		Preferences: fyneApp.Preferences(),
		Localizer:   text,
		Logger:      appLogger,
	}, controllers.Options{
		CRC:           crc,
		DebugCommands: cfg.DebugCommands,
		DefaultMap:    cfg.DefaultMap,
		ChatRate:      cfg.ChatRate,
		ChatBurst:     cfg.ChatBurst,
	})

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		text:       text,
		client:     client,
		previews:   previews,
		controller: controller,
		lobbyView:  lobbyView,
		screens:    screens,
		transition: transition,
		shutdown:   shutdown.NewManager(appLogger),
	}

	application.setupNavigation()
	application.setupShutdown()

	appLogger.Info("Application", "application initialized", map[string]interface{}{
		"version":    AppVersion,
		"server":     cfg.ServerURL,
		"player":     cfg.PlayerName,
		"locale":     cfg.Locale,
		"go_version": runtime.Version(),
	})

	return application, nil
}

func (a *Application) setupNavigation() {
	a.screens.SetStagingFactory(func(room models.StagingRoom) views.Screen {
		return views.NewStagingView(room, a.text, a.previews, a.leaveStaging)
	})
	a.screens.SetResumeHandler(func(depth int) {
		if depth == 1 {
			a.controller.Resume()
		}
	})
	a.screens.SetEmptyHandler(func() {
		a.window.Close()
	})
}

func (a *Application) leaveStaging() {
	a.previews.Forget()
	a.screens.Pop()
	leaveGameAsync(a.shutdown.Context(), a.client, a.logger)
}

type gameLeaver interface {
	LeaveGame(ctx context.Context) error
}

// leaveGameAsync sends the leave request off the UI goroutine. The returned
// channel is closed once the request has finished.
func leaveGameAsync(ctx context.Context, leaver gameLeaver, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(ctx, leaveTimeout)
		defer cancel()
		if err := leaver.LeaveGame(ctx); err != nil {
			log.Error("Application", err, map[string]interface{}{"request": "leave game"})
		}
	}()
	return done
}

// setupShutdown registers components in start order; they stop in reverse.
func (a *Application) setupShutdown() {
	a.shutdown.Register("online client", a.client)
	a.shutdown.Register("map previews", a.previews)
	a.shutdown.Register("window", shutdown.Func(func() {
		if !a.windowClosed.Load() {
			fyne.Do(a.window.Close)
		}
	}))

	a.window.SetOnClosed(func() {
		a.windowClosed.Store(true)
		a.logger.Info("Application", "window closed", nil)
		a.controller.Shutdown()
		go a.shutdown.Shutdown()
	})

	a.shutdown.Listen()
}

// Run shows the lobby and blocks until the window closes
func (a *Application) Run() {
	a.screens.Push(screen{content: container.NewStack(a.lobbyView.Content(), a.transition.Overlay())})
	a.controller.Init(time.Now())

	go a.tick()

	a.window.ShowAndRun()
	a.shutdown.Shutdown()
}

func (a *Application) tick() {
	ticker := time.NewTicker(UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fyne.Do(func() {
				a.controller.Update(time.Now())
			})
		case <-a.shutdown.Done():
			return
		}
	}
}
