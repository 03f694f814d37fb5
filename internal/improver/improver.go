// Package improver talks to the text-improvement backends that propose
// corrections for transcript sentences.
package improver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/redline/internal/types"
)

// TextRequest asks for one piece of text to be improved.
type TextRequest struct {
	Text      string
	Context   string
	SegmentID int // -1 for the whole text
}

// TextResult is the improved text and what it cost.
type TextResult struct {
	OriginalText string
	ImprovedText string
	SegmentID    int
	Usage        types.Usage
}

// Sentence is one located sentence of the transcript.
type Sentence struct {
	ID    int
	Text  string
	Start int
	End   int
}

// SentencesRequest asks for several sentences to be improved in one call.
type SentencesRequest struct {
	Sentences []Sentence
	Context   string
}

// SentenceResult pairs a sentence with its improvement.
type SentenceResult struct {
	ID           int
	OriginalText string
	ImprovedText string
	IsImproved   bool
}

// SentencesResult holds one result per requested sentence, in order.
type SentencesResult struct {
	Results []SentenceResult
	Usage   types.Usage
}

// Improver is implemented by every backend.
type Improver interface {
	Name() string
	ImproveText(ctx context.Context, req TextRequest) (TextResult, error)
	ImproveSentences(ctx context.Context, req SentencesRequest) (SentencesResult, error)
}

// APIError is a failure reported by a backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "improver: " + e.Detail
	}
	return fmt.Sprintf("improver: status %d: %s", e.Status, e.Detail)
}

// Prices are costs in USD per million tokens.
type Prices struct {
	InputPerMillion  float64 `toml:"input_per_million"`
	OutputPerMillion float64 `toml:"output_per_million"`
}

// Usage turns token counts into a cost record.
func (p Prices) Usage(model string, inputTokens, outputTokens int, elapsed time.Duration) types.Usage {
	in := float64(inputTokens) / 1e6 * p.InputPerMillion
	out := float64(outputTokens) / 1e6 * p.OutputPerMillion
	return types.Usage{
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		InputCost:    in,
		OutputCost:   out,
		TotalCost:    in + out,
		Elapsed:      elapsed,
	}
}

// Config selects and configures a backend.
type Config struct {
	Backend     string        `toml:"backend"` // "http" or "gemini"
	BaseURL     string        `toml:"base_url"`
	Timeout     time.Duration `toml:"timeout"`
	Model       string        `toml:"model"`
	APIKeys     []string      `toml:"api_keys"`
	Prices      Prices        `toml:"prices"`
	Concurrency int           `toml:"concurrency"` // Parallel calls when falling back to per-sentence requests
	Fallback    bool          `toml:"fallback"`
}

const (
	BackendHTTP   = "http"
	BackendGemini = "gemini"
)

// DefaultConfig targets a processing server on localhost.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendHTTP,
		BaseURL:     "http://localhost:8000",
		Timeout:     60 * time.Second,
		Model:       "gemini-2.5-flash",
		Prices:      Prices{InputPerMillion: 0.30, OutputPerMillion: 2.50},
		Concurrency: 3,
		Fallback:    true,
	}
}

// Validate resets invalid values to their defaults and names the fields it reset.
func (c *Config) Validate() []string {
	def := DefaultConfig()
	var reset []string
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend != BackendHTTP && c.Backend != BackendGemini {
		c.Backend = def.Backend
		reset = append(reset, "backend")
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
		reset = append(reset, "timeout")
	}
	if c.Concurrency < 1 {
		c.Concurrency = def.Concurrency
		reset = append(reset, "concurrency")
	}
	if c.Prices.InputPerMillion < 0 || c.Prices.OutputPerMillion < 0 {
		c.Prices = def.Prices
		reset = append(reset, "prices")
	}
	return reset
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Improver, error) {
	switch cfg.Backend {
	case BackendHTTP:
		return NewHTTP(cfg), nil
	case BackendGemini:
		return NewGemini(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown improver backend %q", cfg.Backend)
}
