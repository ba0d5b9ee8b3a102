// Package block segments a panel's OCR line stream into author turns.
package block

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/devanshd78/Backend-MHD1/handle"
	"github.com/devanshd78/Backend-MHD1/textclean"
)

// PanelRole names one screenshot's place in the upload set.
type PanelRole string

// Recognized panel roles.
const (
	RoleLike     PanelRole = "like"
	RoleComment1 PanelRole = "comment1"
	RoleComment2 PanelRole = "comment2"
	RoleReply1   PanelRole = "reply1"
	RoleReply2   PanelRole = "reply2"
)

// IsComment reports whether the role is a comment panel.
func (r PanelRole) IsComment() bool { return r == RoleComment1 || r == RoleComment2 }

// IsReply reports whether the role is a reply panel.
func (r PanelRole) IsReply() bool { return r == RoleReply1 || r == RoleReply2 }

// Block is one detected author turn within a panel.
type Block struct {
	Handle string
	Text   string
	Role   PanelRole
}

var (
	inlineHandleRe = regexp.MustCompile(`@([A-Za-z0-9_\-.]{2,})`)
	bareUserRe     = regexp.MustCompile(`^[A-Za-z0-9_\-.]{2,}$`)
	hasLetterRe    = regexp.MustCompile(`[A-Za-z]`)

	// Relative-time marker: "ago" or "<number> <unit>" as YouTube renders
	// comment timestamps ("2 days ago", "3w", "5 minutes").
	timeMarkerRe = regexp.MustCompile(`(?i)\bago\b|\b\d+\s*(s|sec|secs|seconds?|m|min|mins|minutes?|h|hr|hrs|hours?|d|days?|w|wk|wks|weeks?|mo|months?|y|yr|yrs|years?)\b`)
)

// defaultNoise are UI-chrome substrings; a line containing any of them
// terminates the current collection and never becomes message content.
var defaultNoise = []string{
	"comments", "replies", "topics", "newest", "top comments",
	"pinned", "subscribe", "sort by", "live chat", "shorts",
	"add a comment", "add a reply",
}

// Extractor walks panel lines with a two-state machine (seeking an author
// line, then collecting its message) and emits one Block per author turn.
type Extractor struct {
	cleaner *textclean.Cleaner
	noise   []string
	logger  *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// WithNoise replaces the default noise substring set.
func WithNoise(noise []string) Option {
	return func(e *Extractor) { e.noise = noise }
}

// NewExtractor creates an Extractor that cleans message text with cleaner.
func NewExtractor(cleaner *textclean.Cleaner, opts ...Option) *Extractor {
	e := &Extractor{
		cleaner: cleaner,
		noise:   defaultNoise,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract emits every author turn found in the panel's line sequence,
// in order of appearance.
func (e *Extractor) Extract(lines []string, role PanelRole) []Block {
	var blocks []Block

	i := 0
	for i < len(lines) {
		author, seed := e.authorLine(lines[i])
		if author == "" {
			i++
			continue
		}

		buf := make([]string, 0, 4)
		if seed != "" {
			buf = append(buf, seed)
		}
		i++
		for i < len(lines) {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				i++
				continue
			}
			if e.isNoise(line) || e.cleaner.HasStopPrefix(line) {
				break
			}
			// A new author line starts the next block; leave the cursor
			// on it so the outer loop re-evaluates it.
			if next, _ := e.authorLine(lines[i]); next != "" {
				break
			}
			buf = append(buf, lines[i])
			i++
		}

		text := e.cleaner.Clean(strings.Join(buf, " "))
		if text == "" {
			e.logger.Debug("author turn had no usable content", "handle", author, "role", role)
			continue
		}
		blocks = append(blocks, Block{Handle: author, Text: text, Role: role})
	}
	return blocks
}

// authorLine classifies one line. It returns the normalized handle when the
// line opens an author turn, plus any same-line message text after a colon.
func (e *Extractor) authorLine(line string) (author, seed string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", ""
	}
	lower := strings.ToLower(trimmed)
	// Moderator annotations and UI chrome never open an author turn.
	if strings.Contains(lower, "pinned by") || e.isNoise(trimmed) {
		return "", ""
	}
	if !timeMarkerRe.MatchString(trimmed) {
		return "", ""
	}

	var raw string
	if m := inlineHandleRe.FindStringSubmatch(trimmed); m != nil {
		raw = textclean.Token(m[1])
	} else {
		first := textclean.Token(strings.Fields(trimmed)[0])
		if !bareUserRe.MatchString(first) || !hasLetterRe.MatchString(first) {
			return "", ""
		}
		raw = first
	}

	h, err := handle.Normalize(raw)
	if err != nil {
		return "", ""
	}

	// Same-line layouts put the message after a colon.
	if idx := strings.Index(trimmed, ":"); idx >= 0 && idx+1 < len(trimmed) {
		seed = strings.TrimSpace(trimmed[idx+1:])
	}
	return h, seed
}

func (e *Extractor) isNoise(line string) bool {
	lower := strings.ToLower(line)
	for _, n := range e.noise {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
