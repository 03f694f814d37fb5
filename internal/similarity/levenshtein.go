// Package similarity measures how far apart two strings are.
package similarity

// Distance returns the Levenshtein edit distance between a and b: the minimum
// number of single-rune insertions, deletions or substitutions that turn a into b.
func Distance(a, b string) int {
	return runeDistance([]rune(a), []rune(b))
}

func runeDistance(ra, rb []rune) int {
	// Keep the shorter string on the column axis so the rows stay small.
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}
	la, lb := len(ra), len(rb)
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			x := prev[j] + 1 // deletion
			if y := curr[j-1] + 1; y < x {
				x = y // insertion
			}
			if z := prev[j-1] + cost; z < x {
				x = z // substitution
			}
			curr[j] = x
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Ratio returns 1 - Distance(a, b)/max(len(a), len(b), 1), clamped to [0, 1].
// Two empty strings are identical and score 1.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb), 1)
	r := 1 - float64(runeDistance(ra, rb))/float64(longest)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
