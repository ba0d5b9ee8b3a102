// Package aggregate folds extracted blocks into per-author records and
// selects the verification subject.
package aggregate

import (
	"sort"
	"strings"

	"github.com/devanshd78/Backend-MHD1/block"
)

// MinMessageLen is the shortest cleaned message that counts as evidence.
const MinMessageLen = 3

// Fold splits blocks into per-handle comment and reply lists, preserving
// encounter order.
func Fold(blocks []block.Block) (comments, replies map[string][]string) {
	comments = make(map[string][]string)
	replies = make(map[string][]string)
	for _, b := range blocks {
		switch {
		case b.Role.IsComment():
			comments[b.Handle] = append(comments[b.Handle], b.Text)
		case b.Role.IsReply():
			replies[b.Handle] = append(replies[b.Handle], b.Text)
		}
	}
	return comments, replies
}

// Evidence counts messages per handle across both maps, for alias clustering.
func Evidence(comments, replies map[string][]string) map[string]int {
	ev := make(map[string]int)
	for h, msgs := range comments {
		ev[h] += len(msgs)
	}
	for h, msgs := range replies {
		ev[h] += len(msgs)
	}
	return ev
}

// ApplyAliases remaps every handle to its canonical form and re-merges the
// message lists, keeping encounter order within each source handle and
// iterating source handles deterministically.
func ApplyAliases(m map[string][]string, aliases map[string]string) map[string][]string {
	handles := make([]string, 0, len(m))
	for h := range m {
		handles = append(handles, h)
	}
	sort.Strings(handles)

	out := make(map[string][]string, len(m))
	for _, h := range handles {
		canon, ok := aliases[h]
		if !ok {
			canon = h
		}
		out[canon] = append(out[canon], m[h]...)
	}
	return out
}

// Dedupe drops messages shorter than MinMessageLen after trimming and every
// repeat of an already-seen message. First occurrences keep their order.
// Running it twice yields the same result as once.
func Dedupe(msgs []string) []string {
	seen := make(map[string]bool, len(msgs))
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		t := strings.TrimSpace(m)
		if len(t) < MinMessageLen || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// SelectCandidate picks the single subject handle. Candidates come from the
// intersection of both maps when both minima are positive, otherwise from
// whichever map the rules require. Scoring prefers candidates meeting both
// minima, then total message count, then the greater handle string.
// ok is false when no candidate exists; that is a normal outcome.
func SelectCandidate(comments, replies map[string][]string, minComments, minReplies int) (selected string, ok bool) {
	var candidates []string
	switch {
	case minComments > 0 && minReplies > 0:
		for h := range comments {
			if _, both := replies[h]; both {
				candidates = append(candidates, h)
			}
		}
	case minComments > 0:
		for h := range comments {
			candidates = append(candidates, h)
		}
	case minReplies > 0:
		for h := range replies {
			candidates = append(candidates, h)
		}
	default:
		return "", false
	}
	if len(candidates) == 0 {
		return "", false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterCandidate(c, best, comments, replies, minComments, minReplies) {
			best = c
		}
	}
	return best, true
}

func betterCandidate(a, b string, comments, replies map[string][]string, minComments, minReplies int) bool {
	aMeets := len(comments[a]) >= minComments && len(replies[a]) >= minReplies
	bMeets := len(comments[b]) >= minComments && len(replies[b]) >= minReplies
	if aMeets != bMeets {
		return aMeets
	}
	aTotal := len(comments[a]) + len(replies[a])
	bTotal := len(comments[b]) + len(replies[b])
	if aTotal != bTotal {
		return aTotal > bTotal
	}
	return a > b
}
