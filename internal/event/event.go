// internal/event/event.go
package event

import (
	"github.com/bethropolis/redline/internal/types"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Buffer Events
	TypeBufferLoaded // Fired after a transcript is loaded or reset
	TypeBufferSaved  // Fired after the transcript is written to disk
	TypeBufferEdited // Fired after a hand edit (regions cleared)

	// Suggestion Events
	TypeSuggestionCreated
	TypeSuggestionApplied
	TypeSuggestionUndone
	TypeSuggestionRejected
	TypeSuggestionReconsidered
	TypeSuggestionsMerged // A batch was merged into the ledger
	TypeBatchDiscarded    // A batch arrived for an outdated revision

	// Application Lifecycle Events
	TypeAppReady // Fired when the application is fully initialized
	TypeAppQuit  // Fired just before application termination begins
)

func (t Type) String() string {
	switch t {
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeBufferSaved:
		return "BufferSaved"
	case TypeBufferEdited:
		return "BufferEdited"
	case TypeSuggestionCreated:
		return "SuggestionCreated"
	case TypeSuggestionApplied:
		return "SuggestionApplied"
	case TypeSuggestionUndone:
		return "SuggestionUndone"
	case TypeSuggestionRejected:
		return "SuggestionRejected"
	case TypeSuggestionReconsidered:
		return "SuggestionReconsidered"
	case TypeSuggestionsMerged:
		return "SuggestionsMerged"
	case TypeBatchDiscarded:
		return "BatchDiscarded"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// --- Specific Event Data Structures ---

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
	Revision uint64
}

// BufferSavedData contains info about the saved buffer.
type BufferSavedData struct {
	FilePath string
}

// BufferEditedData describes a hand edit.
type BufferEditedData struct {
	Edit     types.EditInfo
	Revision uint64
}

// SuggestionData identifies the suggestion an event is about.
type SuggestionData struct {
	ID       string
	Span     types.Span // Span of the suggestion's current text in the buffer
	Revision uint64
}

// BatchData summarizes a merged batch.
type BatchData struct {
	Created     int
	Significant int
	Replaced    int
}

// BatchDiscardedData reports the revisions of a stale batch.
type BatchDiscardedData struct {
	TicketRevision  uint64
	CurrentRevision uint64
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
