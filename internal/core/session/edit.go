package session

import (
	"fmt"

	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/types"
)

// Edit is a hand edit: it replaces [start, end) with text, clears every
// improved region and moves the suggestions that follow the edit.
func (s *Session) Edit(start, end int, text string) (types.EditInfo, error) {
	s.mu.Lock()
	edit, notices, err := s.editLocked(start, end, text)
	s.mu.Unlock()
	s.emit(notices)
	return edit, err
}

func (s *Session) editLocked(start, end int, text string) (types.EditInfo, []notice, error) {
	if start < 0 || end < start || end > s.buf.Len() {
		return types.EditInfo{}, nil, &ValidationError{
			Field:  "range",
			Reason: fmt.Sprintf("[%d,%d) in buffer of length %d", start, end, s.buf.Len()),
		}
	}
	if start == end && text == "" {
		return types.EditInfo{Start: start, OldEnd: start, NewEnd: start}, nil, nil
	}

	edit, err := s.buf.Replace(start, end, text)
	if err != nil {
		return types.EditInfo{}, nil, fmt.Errorf("hand edit: %w", err)
	}
	s.regions.Clear()
	s.ledger.ShiftFrom(end, edit.Delta(), "")
	s.revision++
	s.clearedAt = s.revision

	logger.DebugTagf("session", "Session: hand edit [%d,%d)->[%d,%d), revision %d",
		edit.Start, edit.OldEnd, edit.Start, edit.NewEnd, s.revision)
	return edit, []notice{{event.TypeBufferEdited, event.BufferEditedData{Edit: edit, Revision: s.revision}}}, nil
}

// ReplaceAll turns a whole new text into the smallest hand edit covering
// the differing middle. It reports whether anything changed.
func (s *Session) ReplaceAll(text string) (bool, error) {
	s.mu.Lock()
	old, next := []rune(s.buf.Text()), []rune(text)
	prefix := commonPrefix(old, next)
	suffix := commonSuffix(old[prefix:], next[prefix:])
	if prefix == len(old) && prefix == len(next) {
		s.mu.Unlock()
		return false, nil
	}
	_, notices, err := s.editLocked(prefix, len(old)-suffix, string(next[prefix:len(next)-suffix]))
	s.mu.Unlock()
	s.emit(notices)
	return err == nil, err
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
