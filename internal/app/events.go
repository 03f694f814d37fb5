package app

import (
	"os"

	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/logger"
)

// handleBufferChanged refocuses when the focused suggestion went away.
func (a *App) handleBufferChanged(e event.Event) bool {
	a.mu.Lock()
	focus := a.focusID
	a.mu.Unlock()
	if _, err := a.session.Suggestion(focus); focus == "" || err != nil {
		a.focusFirst()
	}
	a.requestRedraw()
	return false // Not consumed
}

func (a *App) handleBufferSaved(e event.Event) bool {
	if data, ok := e.Data.(event.BufferSavedData); ok {
		logger.Infof("App: saved %s", data.FilePath)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleSuggestionsMerged(e event.Event) bool {
	if data, ok := e.Data.(event.BatchData); ok {
		logger.DebugTagf("batch", "App: merged %d suggestions (%d significant, %d replaced)",
			data.Created, data.Significant, data.Replaced)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleBatchDiscarded(e event.Event) bool {
	if data, ok := e.Data.(event.BatchDiscardedData); ok {
		logger.Infof("App: discarded batch from revision %d, transcript is at %d",
			data.TicketRevision, data.CurrentRevision)
	}
	return false
}

func (a *App) handleSuggestionChanged(e event.Event) bool {
	a.requestRedraw()
	return false
}

// handleFileChanged runs on the watcher goroutine after the transcript file
// changed on disk.
func (a *App) handleFileChanged(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("App: cannot read changed file %s: %v", path, err)
		return
	}
	a.post(func() { a.reloadExternal(string(data)) })
}

// reloadExternal takes text written by another program as a hand edit.
// Our own saves come back with identical content and are ignored.
func (a *App) reloadExternal(content string) {
	changed, err := a.session.ReplaceAll(content)
	if err != nil {
		logger.Errorf("App: reload failed: %v", err)
		a.SetStatusMessage("Reload failed: %v", err)
		return
	}
	if !changed {
		return
	}
	logger.Infof("App: reloaded external changes to %s", a.session.FilePath())
	a.SetStatusMessage("Reloaded external changes; improved regions cleared")
}
