// Package classifier decides whether a proposed text replacement is a
// meaningful edit or just punctuation, casing or function-word noise.
package classifier

import (
	"regexp"
	"strings"

	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/similarity"
)

// Reason names the step that decided a verdict.
type Reason int

const (
	ReasonIdentical       Reason = iota // texts are equal
	ReasonRewrite                       // similarity at or below the cutoff
	ReasonPunctuationOnly               // equal after normalization
	ReasonStructural                    // token counts differ
	ReasonTrivialWords                  // only a few function words swapped
	ReasonSubstantive                   // some differing token is a content word
)

func (r Reason) String() string {
	switch r {
	case ReasonIdentical:
		return "identical"
	case ReasonRewrite:
		return "rewrite"
	case ReasonPunctuationOnly:
		return "punctuation-only"
	case ReasonStructural:
		return "structural"
	case ReasonTrivialWords:
		return "trivial-words"
	case ReasonSubstantive:
		return "substantive"
	}
	return "unknown"
}

// Verdict is the full result of judging a replacement.
type Verdict struct {
	Significant bool
	Reason      Reason
	Similarity  float64
	// DiffTokens is the number of differing aligned tokens, when counted.
	DiffTokens int
}

var separatorRun = regexp.MustCompile(`[,;:.!?"\s]+`)

// Normalize collapses punctuation and whitespace runs to single spaces,
// trims the result and lower-cases it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(separatorRun.ReplaceAllString(s, " ")))
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	cfg     Config
	trivial map[string]struct{}
	stop    map[string]struct{}
}

// New builds a classifier from cfg with opts applied on top.
func New(cfg Config, opts ...Options) *Classifier {
	for _, opt := range opts {
		opt.Apply(&cfg)
	}
	if reset := cfg.Validate(); len(reset) > 0 {
		logger.Warnf("Classifier: invalid values reset to defaults: %v", reset)
	}
	c := &Classifier{
		cfg:     cfg,
		trivial: wordSet(cfg.TrivialWords, cfg.ExtraTrivialWords),
		stop:    wordSet(cfg.Stopwords),
	}
	logger.DebugTagf("classifier", "Classifier: cutoff=%.3f maxTrivial=%d trivialWords=%d",
		cfg.SimilarityCutoff, cfg.MaxTrivialDiffs, len(c.trivial))
	return c
}

// NewDefault builds a classifier with the stock configuration.
func NewDefault(opts ...Options) *Classifier {
	return New(DefaultConfig(), opts...)
}

func wordSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, w := range list {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				set[w] = struct{}{}
			}
		}
	}
	return set
}

// Config returns a copy of the effective configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// IsTrivial reports whether word belongs to the trivial-word set.
func (c *Classifier) IsTrivial(word string) bool {
	_, ok := c.trivial[strings.ToLower(word)]
	return ok
}

// IsSignificant reports whether improved is worth showing as a change to original.
func (c *Classifier) IsSignificant(original, improved string) bool {
	return c.Judge(original, improved).Significant
}

// Judge runs the significance heuristic and explains the outcome.
func (c *Classifier) Judge(original, improved string) Verdict {
	if original == improved {
		return Verdict{Reason: ReasonIdentical, Similarity: 1}
	}

	sim := similarity.Ratio(original, improved)
	if sim <= c.cfg.SimilarityCutoff {
		return Verdict{Significant: true, Reason: ReasonRewrite, Similarity: sim}
	}

	normOriginal, normImproved := Normalize(original), Normalize(improved)
	if normOriginal == normImproved {
		return Verdict{Reason: ReasonPunctuationOnly, Similarity: sim}
	}

	origWords, impWords := strings.Fields(normOriginal), strings.Fields(normImproved)
	if len(origWords) != len(impWords) {
		return Verdict{Significant: true, Reason: ReasonStructural, Similarity: sim}
	}

	diffs := 0
	onlyTrivial := true
	for i := range origWords {
		if origWords[i] == impWords[i] {
			continue
		}
		diffs++
		if !c.IsTrivial(origWords[i]) && !c.IsTrivial(impWords[i]) {
			onlyTrivial = false
		}
	}
	if diffs <= c.cfg.MaxTrivialDiffs && onlyTrivial {
		return Verdict{Reason: ReasonTrivialWords, Similarity: sim, DiffTokens: diffs}
	}
	return Verdict{Significant: true, Reason: ReasonSubstantive, Similarity: sim, DiffTokens: diffs}
}

// AcceptSelection applies the stricter gate used for a single selected range:
// the rewrite must stay close to the selection and still be significant.
func (c *Classifier) AcceptSelection(original, improved string) (Verdict, bool) {
	v := c.Judge(original, improved)
	if !v.Significant {
		return v, false
	}
	return v, v.Similarity > c.cfg.SelectionMinSimilarity
}
