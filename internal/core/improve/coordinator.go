// Package improve turns backend improvements into session suggestions.
package improve

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/redline/internal/core/session"
	"github.com/bethropolis/redline/internal/core/suggestion"
	"github.com/bethropolis/redline/internal/improver"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/types"
)

// Coordinator requests improvements and merges them into a session. Its
// methods block on the backend and may be called from any goroutine.
type Coordinator struct {
	session     *session.Session
	improver    improver.Improver
	concurrency int
	fallback    bool
}

// New creates a coordinator. cfg supplies the fallback switch and its
// concurrency.
func New(s *session.Session, imp improver.Improver, cfg improver.Config) *Coordinator {
	return &Coordinator{
		session:     s,
		improver:    imp,
		concurrency: max(cfg.Concurrency, 1),
		fallback:    cfg.Fallback,
	}
}

// ImproveSelection asks for a rewrite of [start, end) and stores it as one
// suggestion when it is significant and still close to the selection.
func (c *Coordinator) ImproveSelection(ctx context.Context, start, end int) (session.BatchReport, error) {
	ticket := c.session.Begin()
	runes := []rune(ticket.Text)
	if start < 0 || end < start || end > len(runes) {
		return session.BatchReport{}, &session.ValidationError{
			Field:  "selection",
			Reason: fmt.Sprintf("[%d,%d) in buffer of length %d", start, end, len(runes)),
		}
	}
	original := string(runes[start:end])
	if strings.TrimSpace(original) == "" {
		return session.BatchReport{}, &session.ValidationError{Field: "selection", Reason: "nothing selected"}
	}

	res, err := c.improver.ImproveText(ctx, improver.TextRequest{Text: original, Context: ticket.Text, SegmentID: -1})
	if err != nil {
		return session.BatchReport{}, fmt.Errorf("improve selection with %s: %w", c.improver.Name(), err)
	}

	if res.ImprovedText == original {
		c.session.RecordUsage(res.Usage)
		return session.BatchReport{Outcome: session.OutcomeNoChange}, nil
	}
	if v, ok := c.session.Classifier().AcceptSelection(original, res.ImprovedText); !ok {
		logger.DebugTagf("improve", "Improve: selection rejected (%s, similarity %.3f)", v.Reason, v.Similarity)
		c.session.RecordUsage(res.Usage)
		return session.BatchReport{Outcome: session.OutcomeTooSubtle}, nil
	}

	return c.session.MergeBatch(ticket, session.MergeAppend, []suggestion.Draft{{
		OriginalText: original,
		ImprovedText: res.ImprovedText,
		Start:        start,
		End:          end,
		Cost:         res.Usage.TotalCost,
	}}, res.Usage)
}

// ImproveAll asks for every sentence of the transcript to be improved and
// replaces the unapplied suggestions with the result. When the batch call
// fails and fallback is enabled, sentences are sent one by one.
func (c *Coordinator) ImproveAll(ctx context.Context) (session.BatchReport, error) {
	ticket := c.session.Begin()
	sentences := LocateSentences(ticket.Text)
	if len(sentences) == 0 {
		return c.session.MergeBatch(ticket, session.MergeReplace, nil, types.Usage{})
	}

	res, err := c.improver.ImproveSentences(ctx, improver.SentencesRequest{Sentences: sentences, Context: ticket.Text})
	if err != nil {
		if !c.fallback {
			return session.BatchReport{}, fmt.Errorf("improve sentences with %s: %w", c.improver.Name(), err)
		}
		logger.Warnf("Improve: batch request failed (%v), falling back to one request per sentence", err)
		res, err = c.eachSentence(ctx, ticket.Text, sentences)
		if err != nil {
			return session.BatchReport{}, err
		}
	}

	return c.session.MergeBatch(ticket, session.MergeReplace, c.drafts(sentences, res), res.Usage)
}

// drafts builds one draft per sentence. Sentences the backend left alone,
// or rewrote into something unrelated, become no-op drafts with no cost.
func (c *Coordinator) drafts(sentences []improver.Sentence, res improver.SentencesResult) []suggestion.Draft {
	byID := make(map[int]improver.SentenceResult, len(res.Results))
	for _, r := range res.Results {
		byID[r.ID] = r
	}
	share := 0.0
	if len(res.Results) > 0 {
		share = res.Usage.TotalCost / float64(len(res.Results))
	}

	cls := c.session.Classifier()
	drafts := make([]suggestion.Draft, 0, len(sentences))
	for _, s := range sentences {
		d := suggestion.Draft{OriginalText: s.Text, ImprovedText: s.Text, Start: s.Start, End: s.End}
		r, ok := byID[s.ID]
		switch {
		case !ok || !r.IsImproved:
		case !cls.Related(s.Text, r.ImprovedText):
			logger.DebugTagf("improve", "Improve: sentence %d rewritten into an unrelated one, ignored", s.ID)
		default:
			d.ImprovedText = r.ImprovedText
			d.Cost = share
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// eachSentence improves sentences with one request each, at most
// c.concurrency at a time. Failed sentences come back unchanged; the call
// fails only when every request fails.
func (c *Coordinator) eachSentence(ctx context.Context, text string, sentences []improver.Sentence) (improver.SentencesResult, error) {
	started := time.Now()
	sem := newSemaphore(c.concurrency)
	results := make([]improver.SentenceResult, len(sentences))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		usage    types.Usage
		failures int
		lastErr  error
	)

	for i, s := range sentences {
		results[i] = improver.SentenceResult{ID: s.ID, OriginalText: s.Text, ImprovedText: s.Text}
		if err := sem.acquire(ctx); err != nil {
			wg.Wait()
			return improver.SentencesResult{}, err
		}
		wg.Add(1)
		go func(i int, s improver.Sentence) {
			defer wg.Done()
			defer sem.release()

			r, err := c.improver.ImproveText(ctx, improver.TextRequest{Text: s.Text, Context: text, SegmentID: s.ID})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warnf("Improve: sentence %d failed: %v", s.ID, err)
				failures++
				lastErr = err
				return
			}
			usage = usage.Add(r.Usage)
			if improved := strings.TrimSpace(r.ImprovedText); improved != "" {
				results[i].ImprovedText = improved
				results[i].IsImproved = strings.TrimSpace(s.Text) != improved
			}
		}(i, s)
	}
	wg.Wait()

	if failures == len(sentences) {
		return improver.SentencesResult{}, fmt.Errorf("improve %d sentence(s) one by one with %s: %w",
			len(sentences), c.improver.Name(), lastErr)
	}
	usage.Elapsed = time.Since(started)
	return improver.SentencesResult{Results: results, Usage: usage}, nil
}
