package app

import (
	"fmt"

	"github.com/bethropolis/redline/internal/config"
	"github.com/bethropolis/redline/internal/core/improve"
	"github.com/bethropolis/redline/internal/core/suggestion"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/statusbar"
	"github.com/bethropolis/redline/internal/theme"
	"github.com/bethropolis/redline/internal/tui"
	"github.com/bethropolis/redline/internal/types"
)

func (a *App) detailHeight() int {
	return config.DetailPaneHeight
}

// draw clears the screen and redraws all components.
func (a *App) draw() {
	view := a.session.View()
	list := significant(view.Suggestions)
	sentences := improve.LocateSentences(view.Text)

	a.mu.Lock()
	focusID, sentence, scroll, follow := a.focusID, a.sentence, a.scroll, a.follow
	a.follow = -1
	a.mu.Unlock()

	var highlights []tui.Highlight
	for _, r := range view.Regions {
		highlights = append(highlights, tui.Highlight{Span: r, Style: theme.StyleImproved})
	}
	if sentence < len(sentences) {
		s := sentences[sentence]
		highlights = append(highlights, tui.Highlight{Span: types.Span{Start: s.Start, End: s.End}, Style: theme.StyleSentence})
	}

	focusIdx := indexOf(list, focusID)
	var detail *tui.Detail
	if focusIdx >= 0 {
		sg := list[focusIdx]
		highlights = append(highlights, focusHighlight(sg))
		detail = detailFor(sg, focusIdx, len(list))
	}

	width, height := a.tuiManager.Size()
	textArea, detailArea := tui.Layout(width, height, a.detailHeight(), a.cfg.StatusBarHeight)
	logger.DebugTagf("draw", "App: screen %dx%d, text %d rows, detail %d rows", width, height, textArea.Height, detailArea.Height)

	a.tuiManager.Clear()
	scroll = tui.DrawTranscript(a.tuiManager, tui.Transcript{
		Text:       view.Text,
		Highlights: highlights,
		Scroll:     scroll,
		Follow:     follow,
		ScrollOff:  a.cfg.ScrollOff,
	}, a.activeTheme, textArea)
	tui.DrawDetail(a.tuiManager, detail, a.activeTheme, detailArea)

	a.mu.Lock()
	a.scroll = scroll
	a.mu.Unlock()

	a.statusBar.SetFileInfo(view.FilePath, view.Modified)
	a.statusBar.SetInfo(statusbar.Info{
		Revision:    view.Revision,
		Significant: len(list),
		Applied:     view.Stats.AppliedCorrections,
		Pending:     view.Stats.PendingCorrections,
		TotalCost:   view.TotalCost,
		Focus:       focusIdx + 1,
	})
	a.statusBar.Draw(a.tuiManager.GetScreen(), width, height)
	a.tuiManager.Show()
}

// focusHighlight marks the text the focused suggestion covers right now.
func focusHighlight(sg suggestion.Suggestion) tui.Highlight {
	switch sg.Status {
	case suggestion.StatusApplied:
		return tui.Highlight{Span: types.Span{Start: sg.Start, End: sg.ImprovedEnd()}, Style: theme.StyleSuggestionApplied}
	case suggestion.StatusRejected:
		return tui.Highlight{Span: types.Span{Start: sg.Start, End: sg.End}, Style: theme.StyleSuggestionRejected}
	}
	return tui.Highlight{Span: types.Span{Start: sg.Start, End: sg.End}, Style: theme.StyleSuggestion}
}

var helpByStatus = map[suggestion.Status]string{
	suggestion.StatusPending:  "a apply  r reject  j/k next/prev  i improve sentence  I improve all",
	suggestion.StatusApplied:  "u undo  j/k next/prev  e export  s save",
	suggestion.StatusRejected: "c reconsider  j/k next/prev",
}

func detailFor(sg suggestion.Suggestion, idx, total int) *tui.Detail {
	return &tui.Detail{
		Title:    fmt.Sprintf("Suggestion %d/%d (%s)", idx+1, total, sg.Status),
		Meta:     fmt.Sprintf("%s, similarity %.2f, cost %s", sg.Verdict.Reason, sg.Verdict.Similarity, tui.FormatCost(sg.Cost)),
		Original: sg.OriginalText,
		Improved: sg.ImprovedText,
		Help:     helpByStatus[sg.Status],
	}
}
