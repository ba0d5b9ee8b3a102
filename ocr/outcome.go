// Package ocr wraps the external OCR collaborator behind a soft-failure
// result type: a panel that cannot be read yields an empty line sequence,
// never an error that crosses component boundaries.
package ocr

import (
	"context"
	"strings"
)

// Status classifies one recognition attempt.
type Status int

// Recognition statuses.
const (
	StatusOK Status = iota
	StatusTimedOut
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimedOut:
		return "timed_out"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of recognizing one panel. Lines is always safe to
// consume; on timeout or failure it is empty and Err carries the cause.
type Outcome struct {
	Lines  []string
	Status Status
	Err    error
}

// Success wraps recognized lines.
func Success(lines []string) Outcome {
	return Outcome{Lines: lines, Status: StatusOK}
}

// TimedOut marks a recognition that exceeded its deadline.
func TimedOut(err error) Outcome {
	return Outcome{Status: StatusTimedOut, Err: err}
}

// Failed marks a recognition that errored for any other reason.
func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// SplitLines trims raw OCR output into the ordered non-empty line sequence
// the block extractor consumes.
func SplitLines(raw string) []string {
	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

// Engine is the interface the rest of the system sees: one panel image in,
// one line-sequence outcome out. Implementations must never panic and must
// honor the context deadline.
type Engine interface {
	Recognize(ctx context.Context, image []byte) Outcome
}
