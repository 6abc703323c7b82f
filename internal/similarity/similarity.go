// Package similarity provides the approximate string-equality primitive used
// by company normalization and duplicate detection.
package similarity

import (
	"strings"
	"unicode"
)

// Score computes a similarity in [0,1] between two strings. It is symmetric,
// reflexive, and insensitive to case and punctuation. Strings that are equal
// after normalization score 1.0; strings with fully disjoint token sets
// score 0.0.
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == nb {
		if na == "" {
			return 0
		}
		return 1.0
	}

	tokensA := tokenSet(na)
	tokensB := tokenSet(nb)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	jaccard := jaccardIndex(tokensA, tokensB)

	// One title fully contained in the other (e.g. "Backend Engineer" vs
	// "Senior Backend Engineer") is stronger evidence than raw overlap.
	if containsAll(tokensA, tokensB) || containsAll(tokensB, tokensA) {
		contained := 0.85
		if jaccard > contained {
			return jaccard
		}
		return contained
	}

	return jaccard
}

// Normalize lowercases, strips punctuation, and collapses whitespace.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '/' || r == '_':
			sb.WriteRune(' ')
		}
		// All other punctuation is dropped entirely.
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccardIndex(a, b map[string]struct{}) float64 {
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// containsAll reports whether every token of inner appears in outer.
func containsAll(outer, inner map[string]struct{}) bool {
	if len(inner) == 0 || len(inner) > len(outer) {
		return false
	}
	for tok := range inner {
		if _, ok := outer[tok]; !ok {
			return false
		}
	}
	return true
}
