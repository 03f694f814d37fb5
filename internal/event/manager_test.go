package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDispatchOrderAndConsume(t *testing.T) {
	m := NewManager()
	var calls []string
	m.Subscribe(TypeSuggestionApplied, func(e Event) bool {
		calls = append(calls, "first:"+e.Data.(SuggestionData).ID)
		return false
	})
	m.Subscribe(TypeSuggestionApplied, func(e Event) bool {
		calls = append(calls, "second")
		return true
	})
	m.Subscribe(TypeSuggestionApplied, func(e Event) bool {
		calls = append(calls, "third")
		return false
	})
	m.Subscribe(TypeSuggestionUndone, func(e Event) bool {
		calls = append(calls, "undone")
		return false
	})

	m.Dispatch(TypeSuggestionApplied, SuggestionData{ID: "s1"})

	if diff := cmp.Diff([]string{"first:s1", "second"}, calls); diff != "" {
		t.Errorf("handler calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchWithoutHandlers(t *testing.T) {
	NewManager().Dispatch(TypeAppReady, AppReadyData{})
	var m *Manager
	m.Dispatch(TypeAppQuit, AppQuitData{})
}

func TestSubscribeDuringDispatch(t *testing.T) {
	m := NewManager()
	count := 0
	m.Subscribe(TypeBufferEdited, func(e Event) bool {
		count++
		m.Subscribe(TypeBufferEdited, func(Event) bool { count += 10; return false })
		return false
	})
	m.Dispatch(TypeBufferEdited, BufferEditedData{})
	if count != 1 {
		t.Errorf("count after first dispatch = %d, want 1", count)
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeBatchDiscarded.String(); got != "BatchDiscarded" {
		t.Errorf("String() = %q", got)
	}
	if got := Type(999).String(); got != "Unknown" {
		t.Errorf("String() = %q", got)
	}
}
