package app

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/bethropolis/redline/internal/core/improve"
	"github.com/bethropolis/redline/internal/core/session"
	"github.com/bethropolis/redline/internal/core/suggestion"
	"github.com/bethropolis/redline/internal/export"
	"github.com/bethropolis/redline/internal/input"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/tui"
)

// handleAction runs a decoded key. It reports whether the screen needs a redraw.
func (a *App) handleAction(ev input.ActionEvent) bool {
	if ev.Action != input.ActionQuit {
		a.mu.Lock()
		a.quitArmed = false
		a.mu.Unlock()
	}

	switch ev.Action {
	case input.ActionQuit:
		a.quitChecked()
	case input.ActionForceQuit:
		a.Quit()
	case input.ActionSave:
		a.save()
	case input.ActionNextSuggestion:
		a.moveFocus(1)
	case input.ActionPrevSuggestion:
		a.moveFocus(-1)
	case input.ActionNextSentence:
		a.moveSentence(1)
	case input.ActionPrevSentence:
		a.moveSentence(-1)
	case input.ActionApply:
		a.review("apply", a.session.Apply)
	case input.ActionUndo:
		a.review("undo", a.session.Undo)
	case input.ActionReject:
		a.review("reject", a.session.Reject)
	case input.ActionReconsider:
		a.review("reconsider", a.session.Reconsider)
	case input.ActionImproveSentence:
		a.improveSentence()
	case input.ActionImproveAll:
		a.improveAll()
	case input.ActionYank:
		a.yank()
	case input.ActionExport:
		a.exportDocx()
	case input.ActionPageUp:
		a.page(-1)
	case input.ActionPageDown:
		a.page(1)
	default:
		return false
	}
	return true
}

// quitChecked quits, asking for a second press when there are unsaved changes.
func (a *App) quitChecked() {
	a.mu.Lock()
	armed := a.quitArmed
	a.quitArmed = true
	a.mu.Unlock()

	if armed || !a.session.View().Modified {
		a.Quit()
		return
	}
	a.SetStatusMessage("Unsaved changes: press q again to quit, s to save")
}

func (a *App) save() {
	if err := a.session.Save(""); err != nil {
		logger.Errorf("App: save failed: %v", err)
		a.SetStatusMessage("Save failed: %v", err)
		return
	}
	a.SetStatusMessage("Saved %s", a.session.FilePath())
}

// significant lists the suggestions worth reviewing, in buffer order.
func significant(list []suggestion.Suggestion) []suggestion.Suggestion {
	var out []suggestion.Suggestion
	for _, sg := range list {
		if sg.HasChanges {
			out = append(out, sg)
		}
	}
	return out
}

// indexOf returns the position of id in list, or -1.
func indexOf(list []suggestion.Suggestion, id string) int {
	for i, sg := range list {
		if sg.ID == id {
			return i
		}
	}
	return -1
}

// focusFirst focuses the first pending suggestion, or the first one at all.
func (a *App) focusFirst() {
	list := significant(a.session.Suggestions())
	a.mu.Lock()
	defer a.mu.Unlock()
	a.focusID = ""
	for _, sg := range list {
		if sg.Status == suggestion.StatusPending {
			a.focusID = sg.ID
			a.follow = sg.Start
			return
		}
	}
	if len(list) > 0 {
		a.focusID = list[0].ID
		a.follow = list[0].Start
	}
}

func (a *App) moveFocus(step int) {
	list := significant(a.session.Suggestions())
	if len(list) == 0 {
		a.SetStatusMessage("No suggestions: press I to improve the transcript")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	i := indexOf(list, a.focusID)
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = len(list) - 1
	default:
		i = (i + step + len(list)) % len(list)
	}
	a.focusID = list[i].ID
	a.follow = list[i].Start
}

// focused returns the focused suggestion.
func (a *App) focused() (suggestion.Suggestion, bool) {
	a.mu.Lock()
	id := a.focusID
	a.mu.Unlock()
	if id == "" {
		return suggestion.Suggestion{}, false
	}
	sg, err := a.session.Suggestion(id)
	return sg, err == nil
}

// review runs one of the review operations on the focused suggestion.
func (a *App) review(name string, op func(id string) error) {
	sg, ok := a.focused()
	if !ok {
		a.SetStatusMessage("No suggestion selected")
		return
	}
	if err := op(sg.ID); err != nil {
		logger.DebugTagf("review", "App: %s %s: %v", name, sg.ID, err)
		var stateErr *session.StateError
		switch {
		case errors.As(err, &stateErr):
			a.SetStatusMessage("Cannot %s: %s", name, stateErr.Reason)
		default:
			a.SetStatusMessage("Cannot %s: %v", name, err)
		}
		return
	}

	after, _ := a.session.Suggestion(sg.ID)
	switch name {
	case "apply":
		a.SetStatusMessage("Applied (%s), total %s", tui.FormatCost(after.Cost), tui.FormatCost(a.session.TotalCost()))
		a.advanceFocus()
	case "reject":
		a.SetStatusMessage("Rejected")
		a.advanceFocus()
	default:
		a.SetStatusMessage("Suggestion is %s again", after.Status)
	}
}

// advanceFocus moves to the next pending suggestion after the focused one.
func (a *App) advanceFocus() {
	list := significant(a.session.Suggestions())
	a.mu.Lock()
	defer a.mu.Unlock()
	start := indexOf(list, a.focusID)
	for k := 1; k <= len(list); k++ {
		sg := list[(start+k+len(list))%len(list)]
		if sg.Status == suggestion.StatusPending {
			a.focusID = sg.ID
			a.follow = sg.Start
			return
		}
	}
}

func (a *App) moveSentence(step int) {
	sentences := improve.LocateSentences(a.session.Text())
	if len(sentences) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sentence += step
	if a.sentence < 0 {
		a.sentence = 0
	}
	if a.sentence >= len(sentences) {
		a.sentence = len(sentences) - 1
	}
	a.follow = sentences[a.sentence].Start
}

func (a *App) yank() {
	system, err := a.clipboard.Yank(a.session.Text())
	switch {
	case err != nil:
		logger.Warnf("App: %v", err)
		a.SetStatusMessage("Yanked transcript; %v", err)
	case system:
		a.SetStatusMessage("Copied transcript to clipboard")
	default:
		a.SetStatusMessage("Yanked transcript")
	}
}

func (a *App) exportDocx() {
	src := a.session.FilePath()
	if src == "" {
		a.SetStatusMessage("Nothing to export: transcript has no file name")
		return
	}
	dest := export.Path(a.cfg.ExportDir, src)
	title := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if err := export.WriteDocx(dest, title, a.session.Fragments()); err != nil {
		logger.Errorf("App: export failed: %v", err)
		a.SetStatusMessage("Export failed: %v", err)
		return
	}
	a.SetStatusMessage("Exported %s", dest)
}

func (a *App) page(dir int) {
	_, height := a.tuiManager.Size()
	text, _ := tui.Layout(0, height, a.detailHeight(), a.cfg.StatusBarHeight)
	step := text.Height - 1
	if step < 1 {
		step = 1
	}
	a.mu.Lock()
	a.scroll += dir * step
	a.follow = -1
	a.mu.Unlock()
}
