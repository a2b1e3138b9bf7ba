package recommender

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode normalization, drops control characters and
// collapses runs of whitespace.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.Join(strings.Fields(normed), " ")
}

// NormalizeAll normalizes every string of texts into a new slice.
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = NormalizeText(t)
	}
	return out
}

// foldKey is the comparison key for case-insensitive matching.
// A Caser keeps state, so a fresh one is used per call.
func foldKey(s string) string {
	return cases.Fold().String(NormalizeText(s))
}

// EqualFold reports whether a and b are equal after normalization and Unicode case folding.
func EqualFold(a, b string) bool {
	return foldKey(a) == foldKey(b)
}

// uniqueFolded drops blank labels and labels equal to an earlier one under EqualFold.
func uniqueFolded(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		clean := NormalizeText(l)
		if clean == "" {
			continue
		}
		key := foldKey(clean)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, clean)
	}
	return out
}
