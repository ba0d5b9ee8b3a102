// Package engageproof verifies a social-media engagement proof (a like plus
// two distinct comments and two distinct replies by one author) from a
// fixed set of UI screenshots.
//
// Basic usage:
//
//	cfg, err := engine.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	analyzer, err := engageproof.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := analyzer.Analyze(ctx, engageproof.Request{
//	    Panels: map[block.PanelRole]engine.PanelInput{
//	        block.RoleComment1: {Image: png1},
//	        block.RoleComment2: {Image: png2},
//	        block.RoleReply1:   {Image: png3},
//	        block.RoleReply2:   {Image: png4},
//	    },
//	})
//
// Panels may alternatively carry pre-extracted OCR lines, which bypasses
// the image pipeline entirely.
package engageproof

import (
	"context"
	"log/slog"

	"github.com/devanshd78/Backend-MHD1/engine"
	"github.com/devanshd78/Backend-MHD1/ocr"
)

type (
	// Request re-exports engine.Request for convenience.
	Request = engine.Request
	// Report re-exports engine.Report for convenience.
	Report = engine.Report
)

// ErrBusy re-exports the saturation error.
var ErrBusy = engine.ErrBusy

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	logger *slog.Logger
	ocr    ocr.Engine
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithOCR replaces the Tesseract collaborator with a custom OCR engine.
func WithOCR(engine ocr.Engine) Option {
	return func(c *config) { c.ocr = engine }
}

// Analyzer is the top-level entry point; construct once and share.
type Analyzer struct {
	res *engine.Resources
}

// New builds an Analyzer from a validated configuration.
func New(cfg engine.Config, opts ...Option) (*Analyzer, error) {
	c := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	resOpts := []engine.Option{engine.WithLogger(c.logger)}
	if c.ocr != nil {
		resOpts = append(resOpts, engine.WithOCR(c.ocr))
	}
	res, err := engine.New(cfg, resOpts...)
	if err != nil {
		return nil, err
	}
	return &Analyzer{res: res}, nil
}

// Analyze runs one verification request.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Report, error) {
	return a.res.Analyze(ctx, req)
}

// Resources exposes the underlying engine resources, e.g. for the HTTP
// server wrapper.
func (a *Analyzer) Resources() *engine.Resources {
	return a.res
}
