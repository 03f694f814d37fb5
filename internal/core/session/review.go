package session

import (
	"github.com/bethropolis/redline/internal/core/suggestion"
	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/types"
)

// Apply replaces the suggestion's original text with the improved text.
// Applying an applied suggestion does nothing. A rejected suggestion must be
// reconsidered first.
func (s *Session) Apply(id string) error {
	s.mu.Lock()
	notices, err := s.applyLocked(id)
	s.mu.Unlock()
	s.emit(notices)
	return err
}

func (s *Session) applyLocked(id string) ([]notice, error) {
	sg, ok := s.ledger.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	switch sg.Status {
	case suggestion.StatusApplied:
		return nil, nil
	case suggestion.StatusRejected:
		return nil, &StateError{Op: "apply", ID: id, Status: sg.Status, Reason: "reconsider it before applying"}
	}

	current, err := s.buf.Slice(sg.Start, sg.End)
	if err != nil {
		return nil, &StateError{Op: "apply", ID: id, Status: sg.Status, Reason: "span is outside the buffer", Err: err}
	}
	if current != sg.OriginalText {
		return nil, &StateError{Op: "apply", ID: id, Status: sg.Status, Reason: "buffer no longer holds the original text"}
	}

	edit, err := s.buf.Replace(sg.Start, sg.End, sg.ImprovedText)
	if err != nil {
		return nil, &StateError{Op: "apply", ID: id, Status: sg.Status, Reason: "replace failed", Err: err}
	}
	s.regions.Splice(edit.Start, edit.OldEnd, edit.NewEnd)
	s.regions.Add(edit.Start, edit.NewEnd)
	s.ledger.ShiftFrom(sg.End, edit.Delta(), id)

	sg.Status = suggestion.StatusApplied
	s.ledger.Put(sg)
	s.totalCost += sg.Cost
	s.revision++
	s.appliedAt[id] = s.revision

	logger.DebugTagf("session", "Session: applied %s [%d,%d)->[%d,%d), cost %.6f, revision %d",
		id, edit.Start, edit.OldEnd, edit.Start, edit.NewEnd, sg.Cost, s.revision)
	return []notice{{event.TypeSuggestionApplied, event.SuggestionData{
		ID: id, Span: types.Span{Start: edit.Start, End: edit.NewEnd}, Revision: s.revision,
	}}}, nil
}

// Undo restores the original text of an applied suggestion and returns it
// to pending.
func (s *Session) Undo(id string) error {
	s.mu.Lock()
	notices, err := s.undoLocked(id)
	s.mu.Unlock()
	s.emit(notices)
	return err
}

func (s *Session) undoLocked(id string) ([]notice, error) {
	sg, ok := s.ledger.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	if sg.Status != suggestion.StatusApplied {
		return nil, &StateError{Op: "undo", ID: id, Status: sg.Status, Reason: "only applied suggestions can be undone"}
	}

	improvedEnd := sg.ImprovedEnd()
	current, err := s.buf.Slice(sg.Start, improvedEnd)
	if err != nil {
		return nil, &StateError{Op: "undo", ID: id, Status: sg.Status, Reason: "span is outside the buffer", Err: err}
	}
	if current != sg.ImprovedText {
		return nil, &StateError{Op: "undo", ID: id, Status: sg.Status, Reason: "buffer no longer holds the improved text"}
	}

	staged := s.regions.Clone()
	if s.appliedAt[id] > s.clearedAt {
		if err := staged.Remove(sg.Start, improvedEnd); err != nil {
			return nil, &StateError{Op: "undo", ID: id, Status: sg.Status, Reason: "improved region is missing", Err: err}
		}
	}

	edit, err := s.buf.Replace(sg.Start, improvedEnd, sg.OriginalText)
	if err != nil {
		return nil, &StateError{Op: "undo", ID: id, Status: sg.Status, Reason: "replace failed", Err: err}
	}
	staged.Splice(edit.Start, edit.OldEnd, edit.NewEnd)
	s.regions = staged
	s.ledger.ShiftFrom(improvedEnd, edit.Delta(), id)

	sg.Status = suggestion.StatusPending
	s.ledger.Put(sg)
	s.totalCost = max(0, s.totalCost-sg.Cost)
	delete(s.appliedAt, id)
	s.revision++

	logger.DebugTagf("session", "Session: undid %s, revision %d", id, s.revision)
	return []notice{{event.TypeSuggestionUndone, event.SuggestionData{
		ID: id, Span: types.Span{Start: edit.Start, End: edit.NewEnd}, Revision: s.revision,
	}}}, nil
}

// Reject marks a pending suggestion as rejected. The buffer is untouched.
func (s *Session) Reject(id string) error {
	return s.transition(id, "reject", suggestion.StatusPending, suggestion.StatusRejected, event.TypeSuggestionRejected)
}

// Reconsider returns a rejected suggestion to pending.
func (s *Session) Reconsider(id string) error {
	return s.transition(id, "reconsider", suggestion.StatusRejected, suggestion.StatusPending, event.TypeSuggestionReconsidered)
}

func (s *Session) transition(id, op string, from, to suggestion.Status, typ event.Type) error {
	s.mu.Lock()
	sg, ok := s.ledger.Get(id)
	if !ok {
		s.mu.Unlock()
		return notFound(id)
	}
	if sg.Status != from {
		s.mu.Unlock()
		return &StateError{Op: op, ID: id, Status: sg.Status, Reason: "requires status " + string(from)}
	}
	sg.Status = to
	s.ledger.Put(sg)
	data := event.SuggestionData{ID: id, Span: types.Span{Start: sg.Start, End: sg.End}, Revision: s.revision}
	s.mu.Unlock()

	s.emit([]notice{{typ, data}})
	return nil
}
