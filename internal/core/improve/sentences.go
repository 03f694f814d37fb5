package improve

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/redline/internal/improver"
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+\s*`)

// LocateSentences finds the terminated sentences of text and their rune
// offsets. Each search starts where the previous sentence ended, so spans
// never overlap and are in increasing order. Trailing text without a
// terminator is not a sentence.
func LocateSentences(text string) []improver.Sentence {
	var out []improver.Sentence
	byteCursor, runeCursor := 0, 0
	for _, match := range sentencePattern.FindAllString(text, -1) {
		sentence := strings.TrimSpace(match)
		if sentence == "" {
			continue
		}
		idx := strings.Index(text[byteCursor:], sentence)
		if idx < 0 {
			continue
		}
		start := runeCursor + utf8.RuneCountInString(text[byteCursor:byteCursor+idx])
		end := start + utf8.RuneCountInString(sentence)
		out = append(out, improver.Sentence{ID: len(out), Text: sentence, Start: start, End: end})
		byteCursor += idx + len(sentence)
		runeCursor = end
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSentenceStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || strings.ContainsRune("ÁÉÍÓÚÑ", r)
}

// FormatParagraphs puts every sentence of a raw transcript in its own
// paragraph. Whitespace runs collapse to one space, a blank line follows
// each terminator that precedes an upper-case letter, and text ending in a
// terminator gets a trailing blank line.
func FormatParagraphs(text string) string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		if isTerminator(runes[i]) && i+2 < len(runes) && runes[i+1] == ' ' && isSentenceStart(runes[i+2]) {
			b.WriteString("\n\n")
			i++ // Drop the space
		}
	}
	if isTerminator(runes[len(runes)-1]) {
		b.WriteString("\n\n")
	}
	return b.String()
}
