package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywords lower-cases text, strips punctuation and keeps words longer than
// MinKeywordLen runes that are not stopwords.
func (c *Classifier) keywords(text string) []string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)

	var out []string
	for _, w := range strings.Fields(stripped) {
		if utf8.RuneCountInString(w) <= c.cfg.MinKeywordLen {
			continue
		}
		if _, stop := c.stop[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Related reports whether two sentences talk about the same thing: at least
// RelatedThreshold of the smaller keyword list appears in the other sentence.
// Sentences without keywords are considered related.
func (c *Classifier) Related(a, b string) bool {
	if a == b {
		return true
	}
	ka, kb := c.keywords(a), c.keywords(b)
	if len(ka) == 0 || len(kb) == 0 {
		return true
	}

	inB := make(map[string]struct{}, len(kb))
	for _, w := range kb {
		inB[w] = struct{}{}
	}
	matches := 0
	for _, w := range ka {
		if _, ok := inB[w]; ok {
			matches++
		}
	}
	return float64(matches)/float64(min(len(ka), len(kb))) >= c.cfg.RelatedThreshold
}
