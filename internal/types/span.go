package types

// Span is a half-open [Start, End) range of rune offsets.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers nothing.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Fragment is a piece of rendered transcript text. Improved marks text that
// came from an applied suggestion.
type Fragment struct {
	Text     string
	Improved bool
}
