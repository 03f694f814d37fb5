package app

import (
	"context"
	"errors"

	"github.com/bethropolis/redline/internal/core/improve"
	"github.com/bethropolis/redline/internal/core/session"
	"github.com/bethropolis/redline/internal/improver"
	"github.com/bethropolis/redline/internal/logger"
)

// improveSentence asks for a rewrite of the sentence under the cursor.
func (a *App) improveSentence() {
	sentences := improve.LocateSentences(a.session.Text())
	if len(sentences) == 0 {
		a.SetStatusMessage("No sentence to improve")
		return
	}
	a.mu.Lock()
	if a.sentence >= len(sentences) {
		a.sentence = len(sentences) - 1
	}
	sent := sentences[a.sentence]
	a.mu.Unlock()

	a.runImprove("improving sentence", func(ctx context.Context) (session.BatchReport, error) {
		return a.coordinator.ImproveSelection(ctx, sent.Start, sent.End)
	})
}

// improveAll asks for corrections to every sentence.
func (a *App) improveAll() {
	a.runImprove("improving transcript", a.coordinator.ImproveAll)
}

// runImprove runs work in its own goroutine and reports the outcome on the
// event loop.
func (a *App) runImprove(label string, work func(ctx context.Context) (session.BatchReport, error)) {
	a.mu.Lock()
	a.busy++
	a.mu.Unlock()
	a.statusBar.SetBusy(label)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		report, err := work(a.ctx)
		a.post(func() { a.finishImprove(report, err) })
	}()
}

func (a *App) finishImprove(report session.BatchReport, err error) {
	a.mu.Lock()
	a.busy--
	idle := a.busy == 0
	focus := a.focusID
	a.mu.Unlock()
	if idle {
		a.statusBar.SetBusy("")
	}

	if err != nil {
		var apiErr *improver.APIError
		switch {
		case errors.Is(err, session.ErrStaleData):
			logger.Infof("App: %v", err)
			a.SetStatusMessage("Transcript changed during the request; result discarded")
		case errors.Is(err, context.Canceled):
			logger.Debugf("App: improvement canceled")
		case errors.As(err, &apiErr):
			logger.Errorf("App: improvement failed: %v", err)
			a.SetStatusMessage("Backend error %d: %s", apiErr.Status, apiErr.Detail)
		default:
			logger.Errorf("App: improvement failed: %v", err)
			a.SetStatusMessage("Improvement failed: %v", err)
		}
		return
	}

	a.SetStatusMessage("%s", report.Message())
	if _, ferr := a.session.Suggestion(focus); focus == "" || ferr != nil {
		a.focusFirst()
	}
}
