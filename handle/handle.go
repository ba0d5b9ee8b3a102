// Package handle normalizes author handles and merges OCR alias variants.
package handle

import (
	"errors"
	"sort"
	"strings"
)

// ErrEmptyHandle is returned when a raw handle is blank after trimming.
var ErrEmptyHandle = errors.New("empty handle")

// Normalize returns the canonical form of a raw handle: trimmed,
// @-prefixed and lowercase. It is idempotent.
func Normalize(raw string) (string, error) {
	h := strings.TrimSpace(raw)
	if h == "" {
		return "", ErrEmptyHandle
	}
	if !strings.HasPrefix(h, "@") {
		h = "@" + h
	}
	return strings.ToLower(h), nil
}

// Clustering thresholds. OCR misreads rarely touch the start of a handle,
// so similarity requires a shared prefix and a small edit distance.
const (
	minSimilarLen = 6
	prefixLen     = 3
	maxLenDiff    = 2
	maxDistance   = 2
	minRatio      = 0.80
)

// Clusterer merges near-duplicate handles observed across panels.
type Clusterer struct{}

// NewClusterer creates a Clusterer with the default thresholds.
func NewClusterer() *Clusterer { return &Clusterer{} }

// Cluster maps every observed handle to the canonical handle of its alias
// cluster. evidence is the number of messages attributed to each handle.
// The canonical member of a cluster has the highest evidence count, with
// longer and then lexicographically greater handles winning ties.
func (c *Clusterer) Cluster(evidence map[string]int) map[string]string {
	handles := make([]string, 0, len(evidence))
	for h := range evidence {
		handles = append(handles, h)
	}
	sort.Strings(handles)

	// Greedy pass: each handle joins the first cluster whose representative
	// (first member added) it is similar to, otherwise starts a new one.
	var clusters [][]string
	for _, h := range handles {
		placed := false
		for i := range clusters {
			if IsSimilar(h, clusters[i][0]) {
				clusters[i] = append(clusters[i], h)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []string{h})
		}
	}

	canonical := make(map[string]string, len(handles))
	for _, members := range clusters {
		best := members[0]
		for _, m := range members[1:] {
			if betterCanonical(m, best, evidence) {
				best = m
			}
		}
		for _, m := range members {
			canonical[m] = best
		}
	}
	return canonical
}

func betterCanonical(a, b string, evidence map[string]int) bool {
	if evidence[a] != evidence[b] {
		return evidence[a] > evidence[b]
	}
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

// IsSimilar reports whether two normalized handles denote the same author.
// Identical handles are always similar; otherwise both must be at least
// six characters, share their first three, differ in length by at most two
// and sit within edit distance two at a similarity ratio of 0.80 or more.
func IsSimilar(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < minSimilarLen || len(b) < minSimilarLen {
		return false
	}
	if a[:prefixLen] != b[:prefixLen] {
		return false
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxLenDiff {
		return false
	}
	dist := boundedDistance(a, b, maxDistance)
	if dist > maxDistance {
		return false
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	ratio := 1.0 - float64(dist)/float64(longest)
	return ratio >= minRatio
}

// boundedDistance computes Levenshtein distance between a and b, giving up
// once the distance is guaranteed to exceed bound. When exceeded it returns
// bound+1 rather than the exact value.
func boundedDistance(a, b string, bound int) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		rowMin := curr[0]
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[i] + 1
			ins := curr[i-1] + 1
			sub := prev[i-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[i] = m
			if m < rowMin {
				rowMin = m
			}
		}
		if rowMin > bound {
			return bound + 1
		}
		prev, curr = curr, prev
	}
	if prev[len(ra)] > bound {
		return bound + 1
	}
	return prev[len(ra)]
}
