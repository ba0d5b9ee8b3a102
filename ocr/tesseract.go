package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// Tesseract invocation defaults, matching the service this engine replaced:
// English, LSTM engine, uniform-block page segmentation.
const (
	DefaultCommand = "tesseract"
	DefaultTimeout = 10 * time.Second
)

var defaultArgs = []string{"stdin", "stdout", "-l", "eng", "--oem", "3", "--psm", "6"}

// Tesseract recognizes panel text by running the tesseract binary. A nil
// cache disables result caching.
type Tesseract struct {
	command string
	timeout time.Duration
	cache   Cacher
	logger  *slog.Logger
}

// Option configures a Tesseract engine.
type Option func(*Tesseract)

// WithCommand overrides the tesseract binary path.
func WithCommand(command string) Option {
	return func(t *Tesseract) {
		if command != "" {
			t.command = command
		}
	}
}

// WithTimeout sets the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Tesseract) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithCache sets the OCR result cache.
func WithCache(cache Cacher) Option {
	return func(t *Tesseract) { t.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tesseract) { t.logger = logger }
}

// NewTesseract creates a Tesseract engine.
func NewTesseract(opts ...Option) *Tesseract {
	t := &Tesseract{
		command: DefaultCommand,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Recognize runs tesseract over the image and returns its line sequence.
// Timeouts and process failures become soft outcomes; transient failures
// are retried once. Successful output is cached by image content.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) Outcome {
	if len(image) == 0 {
		return Failed(errors.New("empty image"))
	}

	if t.cache == nil {
		raw, err := t.run(ctx, image)
		if err != nil {
			return classify(ctx, err)
		}
		return Success(SplitLines(raw))
	}

	data, err := t.cache.GetSet(ctx, ImageKey(image), func(ctx context.Context) ([]byte, error) {
		raw, runErr := t.run(ctx, image)
		if runErr != nil {
			return nil, runErr
		}
		return []byte(raw), nil
	}, t.cache.TTL())
	if err != nil {
		return classify(ctx, err)
	}
	return Success(SplitLines(string(data)))
}

// run executes tesseract with a deadline, retrying once on transient
// failure the way the profile fetchers retry HTTP calls.
func (t *Tesseract) run(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := retry.DoWithData(
		func() ([]byte, error) {
			cmd := exec.CommandContext(ctx, t.command, defaultArgs...)
			cmd.Stdin = bytes.NewReader(image)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
			if runErr := cmd.Run(); runErr != nil {
				t.logger.Debug("tesseract run failed", "error", runErr, "stderr", strings.TrimSpace(stderr.String()))
				return nil, runErr
			}
			return stdout.Bytes(), nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.RetryIf(func(err error) bool {
			// Deadline expiry is not transient within this call.
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			t.logger.Debug("retrying tesseract", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		// CommandContext reports a killed process, not the deadline; recover
		// the context cause so the caller can classify the outcome.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("tesseract: %w", ctxErr)
		}
		return "", err
	}
	return string(out), nil
}

// classify folds an error into the outcome taxonomy.
func classify(ctx context.Context, err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TimedOut(err)
	}
	return Failed(err)
}

var _ Engine = (*Tesseract)(nil)
