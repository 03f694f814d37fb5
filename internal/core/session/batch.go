package session

import (
	"fmt"

	"github.com/bethropolis/redline/internal/core/suggestion"
	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/types"
)

// Ticket records the revision and text an improvement request was built from.
type Ticket struct {
	Revision uint64
	Text     string
}

// Begin captures a ticket for an improvement request.
func (s *Session) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{Revision: s.revision, Text: s.buf.Text()}
}

// MergeMode selects what happens to existing suggestions when a batch lands.
type MergeMode int

const (
	// MergeAppend keeps every existing suggestion.
	MergeAppend MergeMode = iota
	// MergeReplace drops every suggestion that is not applied.
	MergeReplace
)

// Outcome classifies the result of an improvement request.
type Outcome int

const (
	OutcomeCreated       Outcome = iota // at least one significant suggestion
	OutcomeNoSignificant                // suggestions merged, none significant
	OutcomeNoChange                     // the backend returned the text unchanged
	OutcomeTooSubtle                    // the change did not pass the selection gate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeNoSignificant:
		return "no-significant"
	case OutcomeNoChange:
		return "no-change"
	case OutcomeTooSubtle:
		return "too-subtle"
	}
	return "unknown"
}

// BatchReport describes a merged batch.
type BatchReport struct {
	Outcome     Outcome
	Created     []suggestion.Suggestion
	Significant int
	Replaced    int // Suggestions dropped by MergeReplace
}

// Message is the user-facing summary of the report.
func (r BatchReport) Message() string {
	switch r.Outcome {
	case OutcomeCreated:
		return fmt.Sprintf("%d significant improvement(s) found", r.Significant)
	case OutcomeNoSignificant:
		return "no significant improvements found"
	case OutcomeNoChange:
		return "no changes proposed"
	case OutcomeTooSubtle:
		return "changes too subtle to suggest"
	}
	return ""
}

// MergeBatch stores drafts produced from ticket. If the buffer has changed
// since the ticket was taken the batch is discarded with a
// *StaleDataWarning. Drafts are validated as a whole; one bad draft rejects
// the batch. usage is added to the statistics of a merged batch.
func (s *Session) MergeBatch(ticket Ticket, mode MergeMode, drafts []suggestion.Draft, usage types.Usage) (BatchReport, error) {
	s.mu.Lock()
	if ticket.Revision != s.revision {
		warn := &StaleDataWarning{TicketRevision: ticket.Revision, CurrentRevision: s.revision}
		s.mu.Unlock()
		logger.Warnf("Session: %v", warn)
		s.emit([]notice{{event.TypeBatchDiscarded, event.BatchDiscardedData{
			TicketRevision: warn.TicketRevision, CurrentRevision: warn.CurrentRevision,
		}}})
		return BatchReport{}, warn
	}

	for i, d := range drafts {
		if err := s.validateDraft(d); err != nil {
			s.mu.Unlock()
			return BatchReport{}, fmt.Errorf("draft %d: %w", i, err)
		}
	}

	var report BatchReport
	if mode == MergeReplace {
		report.Replaced = s.ledger.RemoveWhere(func(sg suggestion.Suggestion) bool {
			return sg.Status != suggestion.StatusApplied
		})
	}
	for _, d := range drafts {
		sg := s.createLocked(d)
		report.Created = append(report.Created, sg)
		if sg.HasChanges {
			report.Significant++
		}
	}
	s.usage = s.usage.Add(usage)

	report.Outcome = OutcomeCreated
	if report.Significant == 0 {
		report.Outcome = OutcomeNoSignificant
	}
	logger.Infof("Session: merged %d draft(s), %d significant, %d replaced",
		len(report.Created), report.Significant, report.Replaced)
	s.mu.Unlock()

	s.emit([]notice{{event.TypeSuggestionsMerged, event.BatchData{
		Created: len(report.Created), Significant: report.Significant, Replaced: report.Replaced,
	}}})
	return report, nil
}

// RecordUsage adds backend usage that produced no merged batch.
func (s *Session) RecordUsage(usage types.Usage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage = s.usage.Add(usage)
}
