package suggestion

import (
	"sort"

	"github.com/bethropolis/redline/internal/logger"
)

// Counts summarizes the ledger by status.
type Counts struct {
	Total       int
	Significant int
	Pending     int
	Applied     int
	Rejected    int
}

// Ledger stores suggestions in creation order and lists them by position.
// It is not safe for concurrent use; the session serializes access.
type Ledger struct {
	items []Suggestion
	index map[string]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Add stores s. An existing suggestion with the same ID is overwritten.
func (l *Ledger) Add(s Suggestion) {
	if i, ok := l.index[s.ID]; ok {
		l.items[i] = s
		return
	}
	l.index[s.ID] = len(l.items)
	l.items = append(l.items, s)
}

// Get looks a suggestion up by ID.
func (l *Ledger) Get(id string) (Suggestion, bool) {
	i, ok := l.index[id]
	if !ok {
		return Suggestion{}, false
	}
	return l.items[i], true
}

// Put replaces a stored suggestion. It returns false for unknown IDs.
func (l *Ledger) Put(s Suggestion) bool {
	i, ok := l.index[s.ID]
	if !ok {
		return false
	}
	l.items[i] = s
	return true
}

// Len returns the number of stored suggestions.
func (l *Ledger) Len() int {
	return len(l.items)
}

// List returns a copy of every suggestion ordered by Start. Suggestions
// starting at the same offset keep their creation order.
func (l *Ledger) List() []Suggestion {
	out := append([]Suggestion(nil), l.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// ShiftFrom moves every suggestion other than skipID whose Start is at or
// after pivot by delta. It returns how many were moved.
func (l *Ledger) ShiftFrom(pivot, delta int, skipID string) int {
	if delta == 0 {
		return 0
	}
	moved := 0
	for i := range l.items {
		s := &l.items[i]
		if s.ID == skipID || s.Start < pivot {
			continue
		}
		s.Start += delta
		s.End += delta
		moved++
	}
	if moved > 0 {
		logger.DebugTagf("ledger", "Ledger: shifted %d suggestion(s) at >= %d by %d", moved, pivot, delta)
	}
	return moved
}

// RemoveWhere deletes every suggestion matching drop and returns the count.
func (l *Ledger) RemoveWhere(drop func(Suggestion) bool) int {
	kept := l.items[:0]
	removed := 0
	for _, s := range l.items {
		if drop(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	l.items = kept
	l.reindex()
	return removed
}

// Clear deletes every suggestion.
func (l *Ledger) Clear() {
	l.items = nil
	l.reindex()
}

func (l *Ledger) reindex() {
	l.index = make(map[string]int, len(l.items))
	for i, s := range l.items {
		l.index[s.ID] = i
	}
}

// Counts tallies the stored suggestions.
func (l *Ledger) Counts() Counts {
	c := Counts{Total: len(l.items)}
	for _, s := range l.items {
		if s.HasChanges {
			c.Significant++
		}
		switch s.Status {
		case StatusPending:
			c.Pending++
		case StatusApplied:
			c.Applied++
		case StatusRejected:
			c.Rejected++
		}
	}
	return c
}
