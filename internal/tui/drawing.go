// internal/tui/drawing.go
package tui

import (
	"fmt"
	"unicode"

	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/theme"
	"github.com/bethropolis/redline/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// cell is one grapheme cluster of the transcript.
type cell struct {
	runes  []rune
	width  int
	offset int // Rune offset of the cluster in the transcript
}

// Line is one wrapped screen line. Start and End are the rune offsets it
// covers, including the whitespace or newline it was broken at.
type Line struct {
	Start int
	End   int
	cells []cell
}

// Wrap breaks text into lines of at most width columns, preferring to break
// after whitespace. Newlines always end a line.
func Wrap(text string, width int) []Line {
	if width <= 0 {
		return nil
	}
	var lines []Line
	var cur []cell
	curWidth, lastSpace, lineStart, offset := 0, -1, 0, 0

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		c := cell{runes: runes, width: gr.Width(), offset: offset}
		offset += len(runes)

		if runes[0] == '\n' || runes[0] == '\r' {
			lines = append(lines, Line{Start: lineStart, End: offset, cells: cur})
			cur, curWidth, lastSpace, lineStart = nil, 0, -1, offset
			continue
		}
		if runes[0] == '\t' {
			c.runes, c.width = []rune{' '}, 1
		}

		if curWidth+c.width > width && len(cur) > 0 {
			var tail []cell
			if lastSpace >= 0 {
				tail = append(tail, cur[lastSpace+1:]...)
				cur = cur[:lastSpace+1]
			}
			end := c.offset
			if len(tail) > 0 {
				end = tail[0].offset
			}
			lines = append(lines, Line{Start: lineStart, End: end, cells: cur})
			cur, curWidth, lastSpace, lineStart = tail, 0, -1, end
			for _, t := range cur {
				curWidth += t.width
			}
		}

		cur = append(cur, c)
		curWidth += c.width
		if unicode.IsSpace(runes[0]) {
			lastSpace = len(cur) - 1
		}
	}
	return append(lines, Line{Start: lineStart, End: offset, cells: cur})
}

// LineOf returns the index of the line holding offset.
func LineOf(lines []Line, offset int) int {
	for i, l := range lines {
		if offset < l.End {
			return i
		}
	}
	if len(lines) == 0 {
		return 0
	}
	return len(lines) - 1
}

// Highlight styles a rune range of the transcript. Later highlights win.
type Highlight struct {
	Span  types.Span
	Style string
}

// Transcript is what the transcript pane shows.
type Transcript struct {
	Text       string
	Highlights []Highlight
	Scroll     int // First visible line
	Follow     int // Offset to keep visible, -1 for none
	ScrollOff  int // Lines kept around Follow
}

// Area is the part of the screen a pane draws into.
type Area struct {
	Y, Width, Height int
}

// Layout splits the screen into transcript, detail pane and status bar.
func Layout(width, height, detailHeight, statusHeight int) (text, detail Area) {
	textHeight := height - detailHeight - statusHeight
	if textHeight < 1 {
		detailHeight += textHeight - 1
		textHeight = 1
	}
	if detailHeight < 0 {
		detailHeight = 0
	}
	return Area{Y: 0, Width: width, Height: textHeight},
		Area{Y: textHeight, Width: width, Height: detailHeight}
}

// clampScroll keeps the first line in range and, when follow is set, moves
// it just enough to show the followed line with scrollOff lines of margin.
func clampScroll(lines []Line, scroll, follow, scrollOff, height int) int {
	if follow >= 0 {
		target := LineOf(lines, follow)
		margin := scrollOff
		if 2*margin >= height {
			margin = (height - 1) / 2
		}
		if target-margin < scroll {
			scroll = target - margin
		}
		if target+margin >= scroll+height {
			scroll = target + margin - height + 1
		}
	}
	if maxScroll := len(lines) - height; scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}

// DrawTranscript draws the wrapped transcript into area and returns the
// scroll offset it used.
func DrawTranscript(t *TUI, view Transcript, activeTheme *theme.Theme, area Area) int {
	if activeTheme == nil {
		logger.Warnf("DrawTranscript called with nil theme, using package default.")
		activeTheme = theme.GetCurrentTheme()
	}
	defaultStyle := activeTheme.GetStyle(theme.StyleDefault)
	if area.Height <= 0 || area.Width <= 0 {
		return view.Scroll
	}

	lines := Wrap(view.Text, area.Width)
	scroll := clampScroll(lines, view.Scroll, view.Follow, view.ScrollOff, area.Height)

	styles := make([]tcell.Style, len(view.Highlights))
	for i, h := range view.Highlights {
		styles[i] = activeTheme.GetStyle(h.Style)
	}

	for row := 0; row < area.Height; row++ {
		y := area.Y + row
		for x := 0; x < area.Width; x++ {
			t.screen.SetContent(x, y, ' ', nil, defaultStyle)
		}
		idx := scroll + row
		if idx >= len(lines) {
			continue
		}
		x := 0
		for _, c := range lines[idx].cells {
			style := defaultStyle
			for i, h := range view.Highlights {
				if h.Span.Contains(c.offset) {
					style = styles[i]
				}
			}
			if x+c.width > area.Width {
				break
			}
			t.screen.SetContent(x, y, c.runes[0], c.runes[1:], style)
			for cw := 1; cw < c.width; cw++ {
				t.screen.SetContent(x+cw, y, ' ', nil, style)
			}
			x += c.width
		}
	}
	return scroll
}

// Detail is the content of the suggestion pane.
type Detail struct {
	Title    string // e.g. "Suggestion 2/5 (pending)"
	Meta     string // Verdict and cost
	Original string
	Improved string
	Help     string
}

// DrawDetail draws d into area. A nil d draws only Help.
func DrawDetail(t *TUI, d *Detail, activeTheme *theme.Theme, area Area) {
	if area.Height <= 0 || area.Width <= 0 {
		return
	}
	base := activeTheme.GetStyle(theme.StyleDetail)
	label := activeTheme.GetStyle(theme.StyleDetailLabel)
	for row := 0; row < area.Height; row++ {
		for x := 0; x < area.Width; x++ {
			t.screen.SetContent(x, area.Y+row, ' ', nil, base)
		}
	}

	type part struct {
		text  string
		style tcell.Style
	}
	var rows [][]part
	if d != nil {
		rows = append(rows,
			[]part{{d.Title, base.Bold(true)}, {"  " + d.Meta, label}},
			[]part{{"- ", label}, {oneLine(d.Original), activeTheme.GetStyle(theme.StyleDetailOriginal)}},
			[]part{{"+ ", label}, {oneLine(d.Improved), activeTheme.GetStyle(theme.StyleDetailImproved)}},
		)
	}
	if d == nil || d.Help != "" {
		help := "no suggestion selected"
		if d != nil {
			help = d.Help
		}
		rows = append(rows, []part{{help, label}})
	}

	for i, parts := range rows {
		if i >= area.Height {
			break
		}
		x := 1
		for _, p := range parts {
			x = drawString(t.screen, x, area.Y+i, area.Width, p.text, p.style)
		}
	}
}

// oneLine flattens text for a single pane row.
func oneLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}

// drawString draws text from x and stops before limit, marking a cut with
// an ellipsis. It returns the column after the last cluster drawn.
func drawString(screen tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	width := uniseg.StringWidth(text)
	cut := x+width > limit
	if cut {
		limit--
	}
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if x+w > limit {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	if cut {
		screen.SetContent(x, y, '…', nil, style)
		x++
	}
	return x
}

// FormatCost renders a dollar amount the way the panes show it.
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.4f", cost)
}
