// Package textclean normalizes raw OCR message fragments into plain text.
package textclean

import (
	"regexp"
	"strings"
)

// JunkCutset contains unicode bullets and separators that OCR commonly
// produces around handles and timestamps.
const JunkCutset = "•·●○▶►«»▪–—|>_ \t\n.:,;()[]{}"

// DefaultStopPhrases mark UI chrome that follows author content in a panel.
// The fragment is truncated at the earliest occurrence of any of them.
var DefaultStopPhrases = []string{
	"adda reply", "add a reply", "add reply",
	"add a comment", "adda comment", "add comment",
	"add a reply…",
	"replies", "reply",
	"share", "download", "remix",
}

// Trailing tokens at or below this length are dropped as fragment noise.
const maxTrailingToken = 2

var (
	isolatedNumRe  = regexp.MustCompile(`\b\d+\b`)
	singleLetterRe = regexp.MustCompile(`\b[A-Za-z]\b`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
	edgePunctRe    = regexp.MustCompile(`^[^\w']+|[^\w']+$`)
	nonWordRe      = regexp.MustCompile(`[^\w'\s]`)
)

// Cleaner turns a joined OCR fragment into usable message text.
// The zero value is not usable; construct with New.
type Cleaner struct {
	stopPhrases []string
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithStopPhrases replaces the default stop-phrase set.
func WithStopPhrases(phrases []string) Option {
	return func(c *Cleaner) { c.stopPhrases = phrases }
}

// New creates a Cleaner with the default stop phrases.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{stopPhrases: DefaultStopPhrases}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean runs the full pipeline: artifact removal, edge punctuation trim,
// stop-phrase truncation, symbol stripping and trailing-fragment drop.
// An empty result means the fragment had no usable content.
func (c *Cleaner) Clean(text string) string {
	// Isolated digits and single letters are OCR artifacts, not words.
	text = isolatedNumRe.ReplaceAllString(text, "")
	text = singleLetterRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(multiSpaceRe.ReplaceAllString(text, " "))

	text = edgePunctRe.ReplaceAllString(text, "")
	text = c.CutAtStopPhrase(text)
	text = nonWordRe.ReplaceAllString(text, "")

	// OCR tends to smear fragments of UI chrome onto the end of a message;
	// tokens of one or two characters there are never real content.
	toks := strings.Fields(text)
	for len(toks) > 0 && len(toks[len(toks)-1]) <= maxTrailingToken {
		toks = toks[:len(toks)-1]
	}
	return strings.Join(toks, " ")
}

// CutAtStopPhrase truncates text at the earliest stop phrase occurrence.
func (c *Cleaner) CutAtStopPhrase(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, p := range c.stopPhrases {
		if idx := strings.Index(lower, p); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return text[:cut]
}

// HasStopPrefix reports whether the line begins with a stop phrase.
func (c *Cleaner) HasStopPrefix(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, p := range c.stopPhrases {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Token strips junk characters from both ends of a single token.
func Token(tok string) string {
	return strings.Trim(tok, JunkCutset)
}
