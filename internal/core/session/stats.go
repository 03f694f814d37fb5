package session

import (
	"time"

	"github.com/bethropolis/redline/internal/core/suggestion"
)

// Stats aggregates correction counts and backend usage for the session.
type Stats struct {
	TotalCorrections   int // Significant suggestions in the ledger
	AppliedCorrections int
	PendingCorrections int
	InputTokens        int
	OutputTokens       int
	Model              string
	InputCost          float64
	OutputCost         float64
	TotalCost          float64 // Spent on backend calls
	AppliedCost        float64 // Sum of applied suggestion costs
	ProcessingTime     time.Duration
}

// Stats returns the current statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *Session) statsLocked() Stats {
	st := Stats{
		InputTokens:    s.usage.InputTokens,
		OutputTokens:   s.usage.OutputTokens,
		Model:          s.usage.Model,
		InputCost:      s.usage.InputCost,
		OutputCost:     s.usage.OutputCost,
		TotalCost:      s.usage.TotalCost,
		AppliedCost:    s.totalCost,
		ProcessingTime: s.usage.Elapsed,
	}
	for _, sg := range s.ledger.List() {
		if !sg.HasChanges {
			continue
		}
		st.TotalCorrections++
		switch sg.Status {
		case suggestion.StatusApplied:
			st.AppliedCorrections++
		case suggestion.StatusPending:
			st.PendingCorrections++
		}
	}
	return st
}
