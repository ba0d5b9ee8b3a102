// Package similarity provides text-distinctness checks for verification.
package similarity

import (
	"regexp"
	"strings"
)

// Default thresholds. Same applies within one set (two comments against each
// other), Cross applies between sets (a comment against a reply).
const (
	DefaultSame  = 0.90
	DefaultCross = 0.88
)

// Checker compares texts against configured duplicate thresholds.
type Checker struct {
	Same  float64
	Cross float64
}

// New creates a Checker with the given thresholds; non-positive values fall
// back to the defaults.
func New(same, cross float64) *Checker {
	if same <= 0 {
		same = DefaultSame
	}
	if cross <= 0 {
		cross = DefaultCross
	}
	return &Checker{Same: same, Cross: cross}
}

var stripRe = regexp.MustCompile(`[^\w\s@]`)
var spaceRe = regexp.MustCompile(`\s+`)

// normalize lowercases, collapses whitespace and strips everything except
// word characters, spaces and @.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = stripRe.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Ratio returns a similarity ratio in [0,1] between two texts after
// normalization: 1.0 for identical strings, near 0 for disjoint ones,
// monotonic in shared subsequence length.
func Ratio(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	l := lcs(ra, rb)
	return 2.0 * float64(l) / float64(len(ra)+len(rb))
}

// lcs computes the longest common subsequence length with a two-row table.
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return prev[len(b)]
}

// UniqueWithin reports whether no pair in texts reaches the Same threshold.
func (c *Checker) UniqueWithin(texts []string) bool {
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			if Ratio(texts[i], texts[j]) >= c.Same {
				return false
			}
		}
	}
	return true
}

// DistinctAcross reports whether no pair across the two sets reaches the
// Cross threshold.
func (c *Checker) DistinctAcross(setA, setB []string) bool {
	for _, a := range setA {
		for _, b := range setB {
			if Ratio(a, b) >= c.Cross {
				return false
			}
		}
	}
	return true
}
