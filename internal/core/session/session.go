// Package session owns the transcript and everything derived from it: the
// suggestion ledger, the improved-region tracker, the applied cost and the
// buffer revision. Every mutation goes through one mutex; events are
// dispatched after it is released.
package session

import (
	"fmt"
	"math"
	"sync"

	"github.com/bethropolis/redline/internal/buffer"
	"github.com/bethropolis/redline/internal/classifier"
	"github.com/bethropolis/redline/internal/core/region"
	"github.com/bethropolis/redline/internal/core/suggestion"
	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/types"
)

// Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	buf        buffer.Buffer
	classifier *classifier.Classifier
	events     *event.Manager // May be nil

	ledger    *suggestion.Ledger
	regions   *region.Tracker
	totalCost float64
	usage     types.Usage

	revision  uint64
	clearedAt uint64            // Revision of the last hand edit that cleared regions
	appliedAt map[string]uint64 // Revision at which each applied suggestion was applied
}

// notice is an event queued while the lock is held.
type notice struct {
	typ  event.Type
	data interface{}
}

// New creates a session over buf. A nil classifier selects the defaults.
func New(buf buffer.Buffer, cls *classifier.Classifier, events *event.Manager) *Session {
	if cls == nil {
		cls = classifier.NewDefault()
	}
	return &Session{
		buf:        buf,
		classifier: cls,
		events:     events,
		ledger:     suggestion.NewLedger(),
		regions:    region.NewTracker(),
		appliedAt:  make(map[string]uint64),
	}
}

func (s *Session) emit(notices []notice) {
	for _, n := range notices {
		s.events.Dispatch(n.typ, n.data)
	}
}

// Classifier returns the classifier used to judge new suggestions.
func (s *Session) Classifier() *classifier.Classifier {
	return s.classifier
}

// resetLocked drops all derived state after the whole text was replaced.
func (s *Session) resetLocked() {
	s.ledger.Clear()
	s.regions.Clear()
	s.totalCost = 0
	s.usage = types.Usage{}
	s.appliedAt = make(map[string]uint64)
	s.revision++
	s.clearedAt = s.revision
}

// Load reads a transcript file, discarding all suggestions and regions.
func (s *Session) Load(filePath string) error {
	s.mu.Lock()
	if err := s.buf.Load(filePath); err != nil {
		s.mu.Unlock()
		return err
	}
	s.resetLocked()
	data := event.BufferLoadedData{FilePath: filePath, Revision: s.revision}
	logger.Infof("Session: loaded '%s' (%d runes), revision %d", filePath, s.buf.Len(), s.revision)
	s.mu.Unlock()

	s.emit([]notice{{event.TypeBufferLoaded, data}})
	return nil
}

// Reset replaces the whole transcript with text, discarding all suggestions
// and regions.
func (s *Session) Reset(text string) {
	s.mu.Lock()
	s.buf.Reset(text)
	s.resetLocked()
	data := event.BufferLoadedData{FilePath: s.buf.FilePath(), Revision: s.revision}
	s.mu.Unlock()

	s.emit([]notice{{event.TypeBufferLoaded, data}})
}

// Save writes the transcript to filePath, or to the loaded path when empty.
func (s *Session) Save(filePath string) error {
	s.mu.Lock()
	if err := s.buf.Save(filePath); err != nil {
		s.mu.Unlock()
		return err
	}
	data := event.BufferSavedData{FilePath: s.buf.FilePath()}
	s.mu.Unlock()

	s.emit([]notice{{event.TypeBufferSaved, data}})
	return nil
}

// Text returns the current transcript.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Text()
}

// Revision returns the buffer revision. It grows on every buffer mutation.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// FilePath returns the transcript's file path.
func (s *Session) FilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.FilePath()
}

// Slice returns the transcript text in [start, end).
func (s *Session) Slice(start, end int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Slice(start, end)
}

// Suggestions returns every suggestion ordered by position.
func (s *Session) Suggestions() []suggestion.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.List()
}

// Suggestion looks one suggestion up by ID.
func (s *Session) Suggestion(id string) (suggestion.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.ledger.Get(id)
	if !ok {
		return suggestion.Suggestion{}, notFound(id)
	}
	return sg, nil
}

// Regions returns the improved regions of the current transcript.
func (s *Session) Regions() []types.Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regions.Regions()
}

// Fragments splits the transcript into improved and untouched pieces.
func (s *Session) Fragments() []types.Fragment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regions.Fragments(s.buf.Text())
}

// TotalCost is the summed cost of the applied suggestions.
func (s *Session) TotalCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCost
}

// View is a consistent snapshot for rendering.
type View struct {
	Text        string
	FilePath    string
	Modified    bool
	Revision    uint64
	Regions     []types.Span
	Fragments   []types.Fragment
	Suggestions []suggestion.Suggestion
	TotalCost   float64
	Stats       Stats
}

// View captures everything the UI draws under a single lock.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.buf.Text()
	return View{
		Text:        text,
		FilePath:    s.buf.FilePath(),
		Modified:    s.buf.IsModified(),
		Revision:    s.revision,
		Regions:     s.regions.Regions(),
		Fragments:   s.regions.Fragments(text),
		Suggestions: s.ledger.List(),
		TotalCost:   s.totalCost,
		Stats:       s.statsLocked(),
	}
}

func (s *Session) validateDraft(d suggestion.Draft) error {
	switch {
	case d.Start < 0:
		return &ValidationError{Field: "start", Reason: fmt.Sprintf("%d is negative", d.Start)}
	case d.Start > d.End:
		return &ValidationError{Field: "range", Reason: fmt.Sprintf("start %d is after end %d", d.Start, d.End)}
	case d.End > s.buf.Len():
		return &ValidationError{Field: "end", Reason: fmt.Sprintf("%d is past the end of the buffer (%d)", d.End, s.buf.Len())}
	case d.Cost < 0 || math.IsNaN(d.Cost) || math.IsInf(d.Cost, 0):
		return &ValidationError{Field: "cost", Reason: fmt.Sprintf("%v is not a non-negative amount", d.Cost)}
	}
	return nil
}

func (s *Session) createLocked(d suggestion.Draft) suggestion.Suggestion {
	sg := suggestion.New(d, s.classifier.Judge(d.OriginalText, d.ImprovedText))
	s.ledger.Add(sg)
	logger.DebugTagf("session", "Session: created %s [%d,%d) significant=%t (%s)",
		sg.ID, sg.Start, sg.End, sg.HasChanges, sg.Verdict.Reason)
	return sg
}

// CreateSuggestion classifies a draft and stores it as a pending suggestion.
func (s *Session) CreateSuggestion(d suggestion.Draft) (suggestion.Suggestion, error) {
	s.mu.Lock()
	if err := s.validateDraft(d); err != nil {
		s.mu.Unlock()
		return suggestion.Suggestion{}, err
	}
	sg := s.createLocked(d)
	data := event.SuggestionData{ID: sg.ID, Span: types.Span{Start: sg.Start, End: sg.End}, Revision: s.revision}
	s.mu.Unlock()

	s.emit([]notice{{event.TypeSuggestionCreated, data}})
	return sg, nil
}
