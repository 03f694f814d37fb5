package tui

import (
	"strings"
	"testing"

	"github.com/bethropolis/redline/internal/theme"
	"github.com/bethropolis/redline/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
)

func lineTexts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		var b strings.Builder
		for _, c := range l.cells {
			b.WriteString(string(c.runes))
		}
		out[i] = b.String()
	}
	return out
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "Hola mundo", 20, []string{"Hola mundo"}},
		{"breaks after space", "Hola mundo cruel", 11, []string{"Hola mundo ", "cruel"}},
		{"long word is cut", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"newline", "uno.\n\ndos.", 20, []string{"uno.", "", "dos."}},
		{"wide runes", "日本語です", 5, []string{"日本", "語で", "す"}},
		{"empty", "", 10, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineTexts(Wrap(tt.text, tt.width))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapOffsetsCoverText(t *testing.T) {
	text := "Había una vez.\nUn perro muy grande que ladraba."
	lines := Wrap(text, 9)
	if lines[0].Start != 0 {
		t.Fatalf("first line starts at %d", lines[0].Start)
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].Start != lines[i-1].End {
			t.Errorf("line %d starts at %d, previous ends at %d", i, lines[i].Start, lines[i-1].End)
		}
	}
	if last := lines[len(lines)-1].End; last != len([]rune(text)) {
		t.Errorf("last line ends at %d, want %d", last, len([]rune(text)))
	}
	if got := LineOf(lines, 15); got != 2 {
		t.Errorf("LineOf(15) = %d, want 2", got)
	}
}

func TestClampScroll(t *testing.T) {
	lines := Wrap(strings.Repeat("x\n", 19)+"x", 10) // 20 lines
	tests := []struct {
		name                              string
		scroll, follow, scrollOff, height int
		want                              int
	}{
		{"no follow", 3, -1, 0, 5, 3},
		{"clamped to end", 30, -1, 0, 5, 15},
		{"negative", -2, -1, 0, 5, 0},
		{"follow below", 0, 2 * 12, 1, 5, 9},
		{"follow above", 10, 2 * 4, 1, 5, 3},
		{"follow visible", 2, 2 * 4, 1, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampScroll(lines, tt.scroll, tt.follow, tt.scrollOff, tt.height); got != tt.want {
				t.Errorf("clampScroll = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	text, detail := Layout(80, 24, 5, 1)
	if diff := cmp.Diff(Area{Y: 0, Width: 80, Height: 18}, text); diff != "" {
		t.Errorf("text area mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Area{Y: 18, Width: 80, Height: 5}, detail); diff != "" {
		t.Errorf("detail area mismatch (-want +got):\n%s", diff)
	}

	text, detail = Layout(80, 4, 5, 1)
	if text.Height != 1 || detail.Height != 2 {
		t.Errorf("small screen: text %d detail %d", text.Height, detail.Height)
	}
}

func newSimTUI(t *testing.T, w, h int) (*TUI, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	ui, err := NewWithScreen(s)
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(ui.Close)
	return ui, s
}

func cellAt(s tcell.SimulationScreen, x, y int) tcell.SimCell {
	cells, w, _ := s.GetContents()
	return cells[y*w+x]
}

func rowText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteString(string(cells[y*w+x].Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func TestDrawTranscriptHighlights(t *testing.T) {
	ui, s := newSimTUI(t, 20, 4)
	th := &theme.RedlineDark
	view := Transcript{
		Text: "Hola mundo. Adiós amigo.",
		Highlights: []Highlight{
			{Span: types.Span{Start: 0, End: 4}, Style: theme.StyleImproved},
			{Span: types.Span{Start: 12, End: 17}, Style: theme.StyleSuggestion},
		},
		Follow: -1,
	}
	scroll := DrawTranscript(ui, view, th, Area{Y: 0, Width: 20, Height: 4})
	s.Show()
	if scroll != 0 {
		t.Errorf("scroll = %d, want 0", scroll)
	}

	if diff := cmp.Diff("Hola mundo. Adiós", rowText(s, 0)); diff != "" {
		t.Errorf("row 0 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("amigo.", rowText(s, 1)); diff != "" {
		t.Errorf("row 1 mismatch (-want +got):\n%s", diff)
	}

	_, _, attrs := th.GetStyle(theme.StyleImproved).Decompose()
	_, _, got := cellAt(s, 0, 0).Style.Decompose()
	if got != attrs {
		t.Errorf("improved text attrs = %v, want %v", got, attrs)
	}
	if got := cellAt(s, 12, 0).Style; got != th.GetStyle(theme.StyleSuggestion) {
		t.Errorf("suggestion cell style = %v", got)
	}
	if got := cellAt(s, 5, 0).Style; got != th.GetStyle(theme.StyleDefault) {
		t.Errorf("plain cell style = %v", got)
	}
}

func TestDrawTranscriptFollowsOffset(t *testing.T) {
	ui, s := newSimTUI(t, 10, 2)
	text := "uno\ndos\ntres\ncuatro\ncinco"
	view := Transcript{Text: text, Follow: strings.Index(text, "cinco"), ScrollOff: 0}
	scroll := DrawTranscript(ui, view, &theme.RedlineDark, Area{Width: 10, Height: 2})
	s.Show()
	if scroll != 3 {
		t.Errorf("scroll = %d, want 3", scroll)
	}
	if got := rowText(s, 1); got != "cinco" {
		t.Errorf("last row = %q, want cinco", got)
	}
}

func TestDrawDetail(t *testing.T) {
	ui, s := newSimTUI(t, 30, 5)
	d := &Detail{
		Title:    "1/2 pending",
		Meta:     "sim 0.91",
		Original: "Hola mundo",
		Improved: "Hola, mundo, qué tal estás hoy amigo mío",
		Help:     "a apply  r reject",
	}
	DrawDetail(ui, d, &theme.RedlineDark, Area{Y: 1, Width: 30, Height: 4})
	s.Show()

	want := []string{
		" 1/2 pending  sim 0.91",
		" - Hola mundo",
		" + Hola, mundo, qué tal estás…",
		" a apply  r reject",
	}
	for i, w := range want {
		if got := rowText(s, i+1); got != w {
			t.Errorf("row %d = %q, want %q", i+1, got, w)
		}
	}
	if got := rowText(s, 0); got != "" {
		t.Errorf("row above pane = %q, want empty", got)
	}
}

func TestDrawDetailNil(t *testing.T) {
	ui, s := newSimTUI(t, 30, 2)
	DrawDetail(ui, nil, &theme.RedlineDark, Area{Y: 0, Width: 30, Height: 2})
	s.Show()
	if got := rowText(s, 0); got != " no suggestion selected" {
		t.Errorf("row 0 = %q", got)
	}
}
