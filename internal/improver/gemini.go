package improver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/redline/internal/logger"
	"google.golang.org/genai"
)

const systemPrompt = `You correct automatic speech transcripts. Rules:
1. Keep the language, topic and meaning of every sentence.
2. Never add information that is not present or strongly implied.
3. Only fix wording, spelling, grammar and clarity.
4. If a sentence cannot be improved without changing its meaning, return it unchanged.
5. Reply with the corrected text only, with no explanations.`

const textPrompt = `%s

Context (for understanding only, do not rewrite it):
%s

Text to correct:
%s`

const sentencesPrompt = `%s

You will receive %d sentences separated by blank lines. Return exactly the
same number of sentences, in the same order, separated by one blank line,
without numbering.

Context (for understanding only, do not rewrite it):
%s

Sentences:
%s`

// generateFunc performs one GenerateContent call with the given API key.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (*genai.GenerateContentResponse, error)

// Gemini calls the Gemini API directly, rotating API keys when one is
// rate limited.
type Gemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	prices     Prices
	generate   generateFunc
}

// NewGemini creates a Gemini backend. At least one API key is required.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, errors.New("gemini backend needs at least one API key")
	}
	return &Gemini{
		apiKeys:  cfg.APIKeys,
		model:    cfg.Model,
		prices:   cfg.Prices,
		generate: generateContent,
	}, nil
}

func generateContent(ctx context.Context, apiKey, model, prompt string) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	})
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// call sends prompt, trying each API key once while they are rate limited.
func (g *Gemini) call(ctx context.Context, prompt string) (string, *genai.GenerateContentResponseUsageMetadata, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var lastErr error
	for range len(g.apiKeys) {
		result, err := g.generate(ctx, g.apiKeys[g.currentKey], g.model, prompt)
		if err != nil {
			if isQuotaError(err) {
				logger.Warnf("Gemini: key %d rate limited, rotating...", g.currentKey+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", nil, &APIError{Detail: "generate content: " + err.Error()}
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			return text.String(), result.UsageMetadata, nil
		}
		return "", nil, &APIError{Detail: "empty response from Gemini"}
	}
	return "", nil, &APIError{Status: 429, Detail: fmt.Sprintf("all API keys exhausted: %v", lastErr)}
}

func tokenCounts(meta *genai.GenerateContentResponseUsageMetadata) (in, out int) {
	if meta == nil {
		return 0, 0
	}
	return int(meta.PromptTokenCount), int(meta.CandidatesTokenCount)
}

// ImproveText asks Gemini to correct one piece of text.
func (g *Gemini) ImproveText(ctx context.Context, req TextRequest) (TextResult, error) {
	started := time.Now()
	text, meta, err := g.call(ctx, fmt.Sprintf(textPrompt, systemPrompt, req.Context, req.Text))
	if err != nil {
		return TextResult{}, err
	}
	in, out := tokenCounts(meta)
	improved := strings.TrimSpace(text)
	if improved == "" {
		improved = req.Text
	}
	return TextResult{
		OriginalText: req.Text,
		ImprovedText: improved,
		SegmentID:    req.SegmentID,
		Usage:        g.prices.Usage(g.model, in, out, time.Since(started)),
	}, nil
}

// ImproveSentences asks Gemini to correct every sentence in one call. When
// the reply does not split into as many sentences as were sent, every
// sentence comes back unchanged.
func (g *Gemini) ImproveSentences(ctx context.Context, req SentencesRequest) (SentencesResult, error) {
	started := time.Now()
	originals := make([]string, len(req.Sentences))
	for i, s := range req.Sentences {
		originals[i] = s.Text
	}

	prompt := fmt.Sprintf(sentencesPrompt, systemPrompt, len(originals), req.Context, strings.Join(originals, "\n\n"))
	text, meta, err := g.call(ctx, prompt)
	if err != nil {
		return SentencesResult{}, err
	}
	in, out := tokenCounts(meta)

	return SentencesResult{
		Results: pairSentences(req.Sentences, splitParagraphs(text)),
		Usage:   g.prices.Usage(g.model, in, out, time.Since(started)),
	}, nil
}

// splitParagraphs splits on blank lines, dropping empty pieces.
func splitParagraphs(text string) []string {
	var out []string
	for _, piece := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func pairSentences(sentences []Sentence, improved []string) []SentenceResult {
	if len(improved) != len(sentences) {
		logger.Warnf("Gemini: sentence count mismatch, sent %d, got %d", len(sentences), len(improved))
		improved = nil
	}
	results := make([]SentenceResult, len(sentences))
	for i, s := range sentences {
		r := SentenceResult{ID: s.ID, OriginalText: s.Text, ImprovedText: s.Text}
		if improved != nil {
			r.ImprovedText = improved[i]
			r.IsImproved = strings.TrimSpace(s.Text) != strings.TrimSpace(improved[i])
		}
		results[i] = r
	}
	return results
}
