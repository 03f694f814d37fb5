// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/bethropolis/redline/internal/config"
	"github.com/bethropolis/redline/internal/core/clipboard"
	"github.com/bethropolis/redline/internal/core/improve"
	"github.com/bethropolis/redline/internal/core/session"
	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/input"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/statusbar"
	"github.com/bethropolis/redline/internal/theme"
	"github.com/bethropolis/redline/internal/tui"
	"github.com/bethropolis/redline/internal/watch"
	"github.com/gdamore/tcell/v2"
)

// Options are the parts of the review screen built by the caller.
type Options struct {
	TUI         *tui.TUI
	Session     *session.Session
	Coordinator *improve.Coordinator
	Events      *event.Manager
	Editor      config.EditorConfig
	Theme       *theme.Theme
}

// App encapsulates the review screen and its main loop.
type App struct {
	tuiManager     *tui.TUI
	session        *session.Session
	coordinator    *improve.Coordinator
	statusBar      *statusbar.StatusBar
	eventManager   *event.Manager
	inputProcessor *input.InputProcessor
	activeTheme    *theme.Theme
	cfg            config.EditorConfig
	watcher        *watch.Watcher
	clipboard      *clipboard.Manager

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // Improvement requests in flight

	mu        sync.Mutex // Guards the view state below
	focusID   string     // Focused suggestion
	sentence  int        // Sentence cursor
	scroll    int
	follow    int // Offset to bring into view on the next draw, -1 for none
	busy      int
	quitArmed bool // Quit was refused once because of unsaved changes

	quit          chan struct{}
	quitOnce      sync.Once
	redrawRequest chan struct{}
}

// New creates the review screen for an already loaded session.
func New(opts Options) (*App, error) {
	if opts.TUI == nil || opts.Session == nil || opts.Coordinator == nil {
		return nil, fmt.Errorf("app: TUI, session and coordinator are required")
	}
	if opts.Events == nil {
		opts.Events = event.NewManager()
	}
	if opts.Theme == nil {
		opts.Theme = theme.GetCurrentTheme()
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		tuiManager:     opts.TUI,
		session:        opts.Session,
		coordinator:    opts.Coordinator,
		statusBar:      statusbar.New(statusbar.DefaultConfig()),
		eventManager:   opts.Events,
		inputProcessor: input.NewInputProcessor(),
		activeTheme:    opts.Theme,
		cfg:            opts.Editor,
		clipboard:      clipboard.NewManager(opts.Editor.SystemClipboard),
		ctx:            ctx,
		cancel:         cancel,
		follow:         -1,
		quit:           make(chan struct{}),
		redrawRequest:  make(chan struct{}, 1),
	}

	a.eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferChanged)
	a.eventManager.Subscribe(event.TypeBufferEdited, a.handleBufferChanged)
	a.eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferSaved)
	a.eventManager.Subscribe(event.TypeSuggestionsMerged, a.handleSuggestionsMerged)
	a.eventManager.Subscribe(event.TypeBatchDiscarded, a.handleBatchDiscarded)
	for _, typ := range []event.Type{
		event.TypeSuggestionApplied,
		event.TypeSuggestionUndone,
		event.TypeSuggestionRejected,
		event.TypeSuggestionReconsidered,
	} {
		a.eventManager.Subscribe(typ, a.handleSuggestionChanged)
	}

	if opts.Editor.Watch && a.session.FilePath() != "" {
		w, err := watch.New(a.session.FilePath(), opts.Editor.WatchDelay, a.handleFileChanged)
		if err != nil {
			logger.Warnf("App: cannot watch %s: %v", a.session.FilePath(), err)
		} else {
			a.watcher = w
		}
	}

	a.focusFirst()
	return a, nil
}

// Run starts the application's main event and drawing loops.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.wg.Wait()
	defer a.cancel()

	if a.watcher != nil {
		a.watcher.Start(a.ctx)
		defer a.watcher.Close()
	}

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("j/k move  a apply  u undo  r reject  i improve  I improve all  q quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.session.View().Modified {
				logger.Warnf("App: exited with unsaved changes")
			}
			logger.Infof("App: exiting")
			return nil
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

// eventLoop handles TUI events. Interrupts carry work posted from other
// goroutines so that it runs here, one at a time.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.tuiManager.GetScreen().Sync()
			needsRedraw = true

		case *tcell.EventKey:
			needsRedraw = a.handleAction(a.inputProcessor.ProcessEvent(eventData))

		case *tcell.EventInterrupt:
			if fn, ok := eventData.Data().(func()); ok {
				fn()
				needsRedraw = true
			}
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

// post runs fn on the event loop.
func (a *App) post(fn func()) {
	if err := a.tuiManager.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		logger.Warnf("App: event queue full, running inline: %v", err)
		fn()
		a.requestRedraw()
	}
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}

// Quit stops the main loop.
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// SetStatusMessage shows a temporary message in the status bar.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
}
