// Package suggestion defines proposed transcript corrections and the ledger
// that holds them.
package suggestion

import (
	"time"
	"unicode/utf8"

	"github.com/bethropolis/redline/internal/classifier"
	"github.com/google/uuid"
)

// Status is the review state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
)

// Draft is a correction before it has been classified and given an ID.
type Draft struct {
	OriginalText string
	ImprovedText string
	Start        int
	End          int
	Cost         float64
}

// Suggestion is a proposed replacement of [Start, End) in the transcript.
// While applied, the buffer holds ImprovedText at [Start, ImprovedEnd()).
type Suggestion struct {
	ID           string
	OriginalText string
	ImprovedText string
	Start        int
	End          int
	Cost         float64
	HasChanges   bool
	Verdict      classifier.Verdict
	Status       Status
	CreatedAt    time.Time
}

// New creates a pending suggestion from a draft and its verdict.
func New(d Draft, v classifier.Verdict) Suggestion {
	return Suggestion{
		ID:           uuid.NewString(),
		OriginalText: d.OriginalText,
		ImprovedText: d.ImprovedText,
		Start:        d.Start,
		End:          d.End,
		Cost:         d.Cost,
		HasChanges:   v.Significant,
		Verdict:      v,
		Status:       StatusPending,
		CreatedAt:    time.Now(),
	}
}

// OriginalLen is the length of OriginalText in runes.
func (s Suggestion) OriginalLen() int {
	return utf8.RuneCountInString(s.OriginalText)
}

// ImprovedLen is the length of ImprovedText in runes.
func (s Suggestion) ImprovedLen() int {
	return utf8.RuneCountInString(s.ImprovedText)
}

// ImprovedEnd is where ImprovedText ends once applied.
func (s Suggestion) ImprovedEnd() int {
	return s.Start + s.ImprovedLen()
}

// Delta is the change in buffer length caused by applying the suggestion.
func (s Suggestion) Delta() int {
	return s.ImprovedLen() - s.OriginalLen()
}

// Overlaps reports whether the original span of s intersects [start, end).
func (s Suggestion) Overlaps(start, end int) bool {
	return s.Start < end && start < s.End
}
