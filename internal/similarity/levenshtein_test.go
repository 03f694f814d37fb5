package similarity

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"el perro corre", "un perro corre", 2},
		{"Hola, mundo", "Hola mundo", 1},
		{"según", "segun", 1},
		{"ñandú", "ñandú", 0},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistanceProperties(t *testing.T) {
	words := []string{"", "a", "casa", "cosa", "el perro", "la perra corre", "según él", "AAA BBB CCC"}
	for _, a := range words {
		if got := Distance(a, a); got != 0 {
			t.Errorf("Distance(%q, %q) = %d, want 0", a, a, got)
		}
		for _, b := range words {
			if ab, ba := Distance(a, b), Distance(b, a); ab != ba {
				t.Errorf("Distance(%q, %q) = %d but Distance(%q, %q) = %d", a, b, ab, b, a, ba)
			}
			for _, c := range words {
				if Distance(a, c) > Distance(a, b)+Distance(b, c) {
					t.Errorf("triangle inequality violated for %q, %q, %q", a, b, c)
				}
			}
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "", 0},
		{"abcd", "abce", 0.75},
		{"el perro corre", "un perro corre", 1 - 2.0/14},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
