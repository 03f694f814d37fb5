// Package region tracks which parts of the transcript came from applied
// suggestions.
package region

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/types"
)

// ErrNotTracked is returned when a removed range is not covered by a region.
var ErrNotTracked = errors.New("region not tracked")

// Tracker keeps a sorted set of disjoint, non-adjacent spans.
// It is not safe for concurrent use; the session serializes access.
type Tracker struct {
	regions []types.Span
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Clone returns an independent copy, used to stage all-or-nothing updates.
func (t *Tracker) Clone() *Tracker {
	return &Tracker{regions: append([]types.Span(nil), t.regions...)}
}

// Regions returns a copy of the tracked spans in order.
func (t *Tracker) Regions() []types.Span {
	return append([]types.Span(nil), t.regions...)
}

// Len returns the number of tracked spans.
func (t *Tracker) Len() int {
	return len(t.regions)
}

// Add inserts [start, end) and merges it with every overlapping or adjacent span.
func (t *Tracker) Add(start, end int) {
	if end <= start {
		return
	}
	merged := types.Span{Start: start, End: end}
	out := make([]types.Span, 0, len(t.regions)+1)
	for _, r := range t.regions {
		if r.End < merged.Start || r.Start > merged.End {
			out = append(out, r)
			continue
		}
		merged.Start = min(merged.Start, r.Start)
		merged.End = max(merged.End, r.End)
	}
	out = append(out, merged)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	t.regions = out
	logger.DebugTagf("region", "Region: added [%d,%d) -> %d region(s)", start, end, len(t.regions))
}

// Remove deletes [start, end). The range must lie inside one tracked span,
// which is split when the range does not cover it entirely.
func (t *Tracker) Remove(start, end int) error {
	if end <= start {
		return nil
	}
	for i, r := range t.regions {
		if start < r.Start || end > r.End {
			continue
		}
		var pieces []types.Span
		if r.Start < start {
			pieces = append(pieces, types.Span{Start: r.Start, End: start})
		}
		if end < r.End {
			pieces = append(pieces, types.Span{Start: end, End: r.End})
		}
		out := make([]types.Span, 0, len(t.regions)+1)
		out = append(out, t.regions[:i]...)
		out = append(out, pieces...)
		out = append(out, t.regions[i+1:]...)
		t.regions = out
		return nil
	}
	return fmt.Errorf("remove [%d,%d): %w", start, end, ErrNotTracked)
}

// ShiftAfter moves every span starting after pivot by delta. A span that
// contains pivot keeps its start and has its end moved by delta, never
// below pivot.
func (t *Tracker) ShiftAfter(pivot, delta int) {
	if delta == 0 {
		return
	}
	for i, r := range t.regions {
		switch {
		case r.Start > pivot:
			t.regions[i] = types.Span{Start: r.Start + delta, End: r.End + delta}
		case r.Start <= pivot && pivot < r.End:
			t.regions[i].End = max(pivot, r.End+delta)
		}
	}
	t.normalize()
}

// Splice re-indexes the spans for a buffer edit that replaced [start, oldEnd)
// with text ending at newEnd. Coverage of the replaced text is dropped and
// everything after it moves by the length change.
func (t *Tracker) Splice(start, oldEnd, newEnd int) {
	delta := newEnd - oldEnd
	out := make([]types.Span, 0, len(t.regions)+1)
	for _, r := range t.regions {
		switch {
		case r.End <= start:
			out = append(out, r)
		case r.Start >= oldEnd:
			out = append(out, types.Span{Start: r.Start + delta, End: r.End + delta})
		default:
			// The span overlaps the replaced text or strictly contains the
			// insertion point: keep only what lies outside the edit.
			if r.Start < start {
				out = append(out, types.Span{Start: r.Start, End: start})
			}
			if r.End > oldEnd {
				out = append(out, types.Span{Start: oldEnd + delta, End: r.End + delta})
			}
		}
	}
	t.regions = out
	t.normalize()
}

// Clear drops every span. Called when a hand edit invalidates provenance.
func (t *Tracker) Clear() {
	if len(t.regions) > 0 {
		logger.DebugTagf("region", "Region: clearing %d region(s)", len(t.regions))
	}
	t.regions = nil
}

// normalize restores the sorted, disjoint, non-adjacent invariant.
func (t *Tracker) normalize() {
	sort.Slice(t.regions, func(i, j int) bool { return t.regions[i].Start < t.regions[j].Start })
	out := t.regions[:0]
	for _, r := range t.regions {
		if r.Empty() {
			continue
		}
		if n := len(out); n > 0 && r.Start <= out[n-1].End {
			out[n-1].End = max(out[n-1].End, r.End)
			continue
		}
		out = append(out, r)
	}
	t.regions = out
}

// Fragments splits text into consecutive pieces, marking the ones covered by
// a span. Spans reaching past the end of text are cut at the end.
func (t *Tracker) Fragments(text string) []types.Fragment {
	runes := []rune(text)
	var out []types.Fragment
	pos := 0
	for _, r := range t.regions {
		start, end := min(max(r.Start, pos), len(runes)), min(r.End, len(runes))
		if start > pos {
			out = append(out, types.Fragment{Text: string(runes[pos:start])})
		}
		if end > start {
			out = append(out, types.Fragment{Text: string(runes[start:end]), Improved: true})
			pos = end
		} else {
			pos = start
		}
	}
	if pos < len(runes) {
		out = append(out, types.Fragment{Text: string(runes[pos:])})
	}
	return out
}
