package session

import (
	"errors"
	"testing"
	"time"

	"github.com/bethropolis/redline/internal/core/suggestion"
	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/types"
	"github.com/google/go-cmp/cmp"
)

func TestMergeBatchDiscardsStaleTicket(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, s *Session)
	}{
		{"hand edit", func(t *testing.T, s *Session) {
			if _, err := s.Edit(0, 0, "x"); err != nil {
				t.Fatal(err)
			}
		}},
		{"apply", func(t *testing.T, s *Session) {
			sg := mustCreate(t, s, 0, 3, "AAA", "A", 0)
			if err := s.Apply(sg.ID); err != nil {
				t.Fatal(err)
			}
		}},
		{"replace all", func(t *testing.T, s *Session) {
			if _, err := s.ReplaceAll("AAA BBB"); err != nil {
				t.Fatal(err)
			}
		}},
		{"reset", func(t *testing.T, s *Session) { s.Reset("AAA BBB CCC") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, events := newSession(t, "AAA BBB CCC")
			var discarded []event.BatchDiscardedData
			events.Subscribe(event.TypeBatchDiscarded, func(e event.Event) bool {
				discarded = append(discarded, e.Data.(event.BatchDiscardedData))
				return false
			})

			ticket := s.Begin()
			tt.mutate(t, s)
			before := len(s.Suggestions())

			_, err := s.MergeBatch(ticket, MergeAppend, []suggestion.Draft{
				{OriginalText: "BBB", ImprovedText: "LONGWORD", Start: 4, End: 7},
			}, types.Usage{})

			if !errors.Is(err, ErrStaleData) {
				t.Fatalf("MergeBatch() error = %v, want ErrStaleData", err)
			}
			var warn *StaleDataWarning
			if !errors.As(err, &warn) || warn.TicketRevision != ticket.Revision {
				t.Errorf("StaleDataWarning = %+v", warn)
			}
			if got := len(s.Suggestions()); got != before {
				t.Errorf("stale batch stored suggestions: %d, want %d", got, before)
			}
			if len(discarded) != 1 {
				t.Errorf("BatchDiscarded dispatched %d time(s), want 1", len(discarded))
			}
		})
	}
}

func TestMergeBatchReportsNoSignificant(t *testing.T) {
	s, _ := newSession(t, "AAA BBB CCC")
	report, err := s.MergeBatch(s.Begin(), MergeAppend, []suggestion.Draft{
		{OriginalText: "AAA", ImprovedText: "AAA", Start: 0, End: 3},
		{OriginalText: "CCC", ImprovedText: "CCC", Start: 8, End: 11},
	}, types.Usage{InputTokens: 10})
	if err != nil {
		t.Fatalf("MergeBatch() error = %v", err)
	}
	if report.Outcome != OutcomeNoSignificant {
		t.Errorf("Outcome = %v, want %v", report.Outcome, OutcomeNoSignificant)
	}
	if got := report.Message(); got != "no significant improvements found" {
		t.Errorf("Message() = %q", got)
	}
	if len(report.Created) != 2 {
		t.Errorf("Created %d, want 2", len(report.Created))
	}
}

func TestMergeBatchRejectsInvalidDraftAtomically(t *testing.T) {
	s, _ := newSession(t, "AAA BBB CCC")
	_, err := s.MergeBatch(s.Begin(), MergeAppend, []suggestion.Draft{
		{OriginalText: "AAA", ImprovedText: "A", Start: 0, End: 3},
		{OriginalText: "CCC", ImprovedText: "C", Start: 8, End: 30},
	}, types.Usage{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("MergeBatch() error = %v, want ErrValidation", err)
	}
	if n := len(s.Suggestions()); n != 0 {
		t.Errorf("%d suggestion(s) stored from an invalid batch", n)
	}
}

func TestMergeReplaceKeepsApplied(t *testing.T) {
	s, _ := newSession(t, "AAA BBB CCC")
	first, err := s.MergeBatch(s.Begin(), MergeAppend, []suggestion.Draft{
		{OriginalText: "AAA", ImprovedText: "A", Start: 0, End: 3, Cost: 0.5},
		{OriginalText: "BBB", ImprovedText: "B", Start: 4, End: 7, Cost: 0.5},
		{OriginalText: "CCC", ImprovedText: "C", Start: 8, End: 11, Cost: 0.5},
	}, types.Usage{})
	if err != nil {
		t.Fatal(err)
	}
	applied := first.Created[0]
	if err := s.Apply(applied.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Reject(first.Created[1].ID); err != nil {
		t.Fatal(err)
	}

	report, err := s.MergeBatch(s.Begin(), MergeReplace, []suggestion.Draft{
		{OriginalText: "CCC", ImprovedText: "DDDD", Start: 6, End: 9, Cost: 0.25},
	}, types.Usage{})
	if err != nil {
		t.Fatalf("MergeBatch(replace) error = %v", err)
	}
	if report.Replaced != 2 || report.Outcome != OutcomeCreated {
		t.Errorf("report = %+v, want 2 replaced and created", report)
	}

	var ids []string
	for _, sg := range s.Suggestions() {
		ids = append(ids, sg.ID)
	}
	if diff := cmp.Diff([]string{applied.ID, report.Created[0].ID}, ids); diff != "" {
		t.Errorf("remaining suggestions mismatch (-want +got):\n%s", diff)
	}
	if err := s.Apply(report.Created[0].ID); err != nil {
		t.Fatalf("Apply() of merged suggestion error = %v", err)
	}
	if got := s.Text(); got != "A BBB DDDD" {
		t.Errorf("Text() = %q", got)
	}
}

func TestStats(t *testing.T) {
	s, _ := newSession(t, "AAA BBB CCC")
	report, err := s.MergeBatch(s.Begin(), MergeAppend, []suggestion.Draft{
		{OriginalText: "AAA", ImprovedText: "A", Start: 0, End: 3, Cost: 0.5},
		{OriginalText: "BBB", ImprovedText: "BBB", Start: 4, End: 7},
		{OriginalText: "CCC", ImprovedText: "C", Start: 8, End: 11, Cost: 0.25},
	}, types.Usage{
		Model: "test-model", InputTokens: 100, OutputTokens: 40,
		InputCost: 0.5, OutputCost: 0.25, TotalCost: 0.75, Elapsed: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(report.Created[0].ID); err != nil {
		t.Fatal(err)
	}
	s.RecordUsage(types.Usage{InputTokens: 1, Elapsed: time.Second})

	want := Stats{
		TotalCorrections:   2,
		AppliedCorrections: 1,
		PendingCorrections: 1,
		InputTokens:        101,
		OutputTokens:       40,
		Model:              "test-model",
		InputCost:          0.5,
		OutputCost:         0.25,
		TotalCost:          0.75,
		AppliedCost:        0.5,
		ProcessingTime:     2 * time.Second,
	}
	if diff := cmp.Diff(want, s.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}
