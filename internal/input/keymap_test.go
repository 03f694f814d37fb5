package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"j", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), ActionNextSuggestion},
		{"k", tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone), ActionPrevSuggestion},
		{"a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), ActionApply},
		{"u", tcell.NewEventKey(tcell.KeyRune, 'u', tcell.ModNone), ActionUndo},
		{"r", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), ActionReject},
		{"c", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), ActionReconsider},
		{"n", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone), ActionNextSentence},
		{"p", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), ActionPrevSentence},
		{"i", tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModNone), ActionImproveSentence},
		{"shift I", tcell.NewEventKey(tcell.KeyRune, 'I', tcell.ModShift), ActionImproveAll},
		{"s", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), ActionSave},
		{"y", tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone), ActionYank},
		{"e", tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone), ActionExport},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionQuit},
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"pgdn", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), ActionPageDown},
		{"pgup", tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone), ActionPageUp},
		{"ctrl s", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), ActionSave},
		{"ctrl q", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), ActionForceQuit},
		{"unbound rune", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), ActionUnknown},
		{"alt a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModAlt), ActionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ProcessEvent(tt.ev).Action; got != tt.want {
				t.Errorf("ProcessEvent(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestBind(t *testing.T) {
	p := NewInputProcessor()
	p.Bind('x', ActionReject)
	ev := p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	if ev.Action != ActionReject || ev.Rune != 'x' {
		t.Errorf("got %+v, want reject on 'x'", ev)
	}
}
