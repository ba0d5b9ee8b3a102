// Package engine orchestrates panel recognition and verification. All
// request state lives on the stack of one Analyze call; Resources holds
// only the long-lived collaborators, constructed once at process start.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/devanshd78/Backend-MHD1/aggregate"
	"github.com/devanshd78/Backend-MHD1/block"
	"github.com/devanshd78/Backend-MHD1/handle"
	"github.com/devanshd78/Backend-MHD1/imageprep"
	"github.com/devanshd78/Backend-MHD1/like"
	"github.com/devanshd78/Backend-MHD1/ocr"
	"github.com/devanshd78/Backend-MHD1/similarity"
	"github.com/devanshd78/Backend-MHD1/textclean"
	"github.com/devanshd78/Backend-MHD1/verify"
)

// ErrBusy is returned when the concurrency gate cannot be acquired within
// the configured timeout. Callers should retry later; requests are never
// queued indefinitely.
var ErrBusy = errors.New("analyzer busy")

// MissingPanelsError reports required panels absent from a request. It is
// an input error: the verification engine never runs.
type MissingPanelsError struct {
	Roles []block.PanelRole
}

func (e *MissingPanelsError) Error() string {
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = string(r)
	}
	return "missing required panels: " + strings.Join(names, ", ")
}

// PanelInput supplies one panel's evidence: raw image bytes for the OCR
// collaborator, or an already-produced line sequence at the engine boundary.
type PanelInput struct {
	Image []byte
	Lines []string
	// HasLines marks Lines as authoritative even when empty.
	HasLines bool
}

// Request is one verification request. Rules overrides the configured
// defaults when non-nil.
type Request struct {
	Panels map[block.PanelRole]PanelInput
	Rules  *verify.Rules
	Debug  bool
}

// PanelDiag captures per-panel diagnostics for debug responses.
type PanelDiag struct {
	Role      block.PanelRole `json:"role"`
	OCRStatus string          `json:"ocr_status"`
	LineCount int             `json:"line_count"`
	Handles   []string        `json:"handles,omitempty"`
}

// Debug carries request diagnostics when debug mode is on.
type Debug struct {
	RequestID string            `json:"request_id,omitempty"`
	Panels    []PanelDiag       `json:"panels"`
	Aliases   map[string]string `json:"aliases,omitempty"`
}

// Report is the full engine answer: the verification result plus soft
// extraction warnings and optional diagnostics.
type Report struct {
	Result   verify.Result `json:"result"`
	Rules    verify.Rules  `json:"rules"`
	Warnings []string      `json:"warnings,omitempty"`
	Debug    *Debug        `json:"debug,omitempty"`
}

// Resources are the process-wide collaborators: OCR engine, concurrency
// gate, extractor, clusterer and verifier. Construct once with New and pass
// by reference into every request handler.
type Resources struct {
	cfg       Config
	ocr       ocr.Engine
	gate      *semaphore.Weighted
	cleaner   *textclean.Cleaner
	extractor *block.Extractor
	clusterer *handle.Clusterer
	verifier  *verify.Engine
	liker     like.Interpreter
	logger    *slog.Logger
}

// Option configures Resources.
type Option func(*Resources)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resources) { r.logger = logger }
}

// WithOCR replaces the OCR engine (used by tests and alternate deployments).
func WithOCR(engine ocr.Engine) Option {
	return func(r *Resources) { r.ocr = engine }
}

// New constructs Resources from a validated Config.
func New(cfg Config, opts ...Option) (*Resources, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Resources{
		cfg:    cfg,
		gate:   semaphore.NewWeighted(cfg.MaxConcurrent),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.cleaner = textclean.New()
	r.extractor = block.NewExtractor(r.cleaner, block.WithLogger(r.logger))
	r.clusterer = handle.NewClusterer()
	r.verifier = verify.NewEngine(
		similarity.New(cfg.SimilaritySame, cfg.SimilarityCross),
		verify.WithLogger(r.logger),
	)
	r.liker = like.NewInterpreter(cfg.LikeFilledMin, cfg.LikeOutlineMax, cfg.LikeCenterMin)

	if r.ocr == nil {
		ocrOpts := []ocr.Option{
			ocr.WithCommand(cfg.TesseractCmd),
			ocr.WithTimeout(cfg.OCRTimeout),
			ocr.WithLogger(r.logger),
		}
		if !cfg.CacheDisable {
			cache, err := ocr.NewCache(cfg.CacheTTL)
			if err != nil {
				r.logger.Warn("ocr cache unavailable, continuing without", "error", err)
			} else {
				ocrOpts = append(ocrOpts, ocr.WithCache(cache))
			}
		}
		r.ocr = ocr.NewTesseract(ocrOpts...)
	}
	return r, nil
}

// Config returns the resources' configuration.
func (r *Resources) Config() Config { return r.cfg }

// RequiredPanels derives the panel set the rules demand.
func RequiredPanels(rules verify.Rules) []block.PanelRole {
	var roles []block.PanelRole
	if rules.RequireLike {
		roles = append(roles, block.RoleLike)
	}
	if rules.MinComments >= 1 {
		roles = append(roles, block.RoleComment1)
	}
	if rules.MinComments >= 2 {
		roles = append(roles, block.RoleComment2)
	}
	if rules.MinReplies >= 1 {
		roles = append(roles, block.RoleReply1)
	}
	if rules.MinReplies >= 2 {
		roles = append(roles, block.RoleReply2)
	}
	return roles
}

// Analyze runs one verification request end to end. It returns ErrBusy when
// the process is saturated and *MissingPanelsError when required panels are
// absent; every other failure mode degrades to warnings inside the Report.
func (r *Resources) Analyze(ctx context.Context, req Request) (*Report, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, r.cfg.AcquireTimeout)
	defer cancel()
	if err := r.gate.Acquire(acquireCtx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	defer r.gate.Release(1)

	rules := r.cfg.Rules()
	if req.Rules != nil {
		rules = *req.Rules
	}
	rules = rules.Clamp()
	if rules.MinComments == 0 && rules.MinReplies == 0 {
		return nil, ErrNoEvidenceRequired
	}

	if missing := missingPanels(req, rules); len(missing) > 0 {
		return nil, &MissingPanelsError{Roles: missing}
	}

	report := &Report{Rules: rules}
	if req.Debug {
		report.Debug = &Debug{}
	}

	liked, likeProvided, likeWarn := r.likeOutcome(ctx, req)
	if likeWarn != "" {
		report.Warnings = append(report.Warnings, likeWarn)
	}

	// Fast path: a definitively unliked post cannot verify when a like is
	// required, so the OCR panels are skipped entirely.
	if r.cfg.SkipOCRWhenUnliked && rules.RequireLike && likeProvided && liked != nil && !*liked {
		report.Result = verify.Result{
			Verified: false,
			Liked:    liked,
			Comments: []string{},
			Replies:  []string{},
			Reasons:  []verify.ReasonCode{verify.ReasonLikeNotLiked},
		}
		return report, nil
	}

	outcomes := r.recognizePanels(ctx, req, report)

	var blocks []block.Block
	for _, role := range ocrRoles {
		oc, ok := outcomes[role]
		if !ok {
			continue
		}
		panelBlocks := r.extractor.Extract(oc.Lines, role)
		blocks = append(blocks, panelBlocks...)
		if report.Debug != nil {
			diag := PanelDiag{Role: role, OCRStatus: oc.Status.String(), LineCount: len(oc.Lines)}
			for _, b := range panelBlocks {
				diag.Handles = append(diag.Handles, b.Handle)
			}
			report.Debug.Panels = append(report.Debug.Panels, diag)
		}
	}

	comments, replies := aggregate.Fold(blocks)
	aliases := r.clusterer.Cluster(aggregate.Evidence(comments, replies))
	comments = dedupeAll(aggregate.ApplyAliases(comments, aliases))
	replies = dedupeAll(aggregate.ApplyAliases(replies, aliases))
	if report.Debug != nil {
		report.Debug.Aliases = aliases
	}

	candidate, found := aggregate.SelectCandidate(comments, replies, rules.MinComments, rules.MinReplies)

	in := verify.Input{
		Candidate:    candidate,
		Found:        found,
		Liked:        liked,
		LikeProvided: likeProvided,
	}
	if found {
		in.Comments = comments[candidate]
		in.Replies = replies[candidate]
	}
	report.Result = r.verifier.Decide(in, rules)
	return report, nil
}

var ocrRoles = []block.PanelRole{block.RoleComment1, block.RoleComment2, block.RoleReply1, block.RoleReply2}

func missingPanels(req Request, rules verify.Rules) []block.PanelRole {
	var missing []block.PanelRole
	for _, role := range RequiredPanels(rules) {
		in, ok := req.Panels[role]
		if !ok || (len(in.Image) == 0 && !in.HasLines) {
			missing = append(missing, role)
		}
	}
	return missing
}

// likeOutcome interprets the like panel. The outcome is tri-state: nil
// means the panel was present but unreadable, which is distinct from false.
func (r *Resources) likeOutcome(ctx context.Context, req Request) (liked *bool, provided bool, warning string) {
	in, ok := req.Panels[block.RoleLike]
	if !ok {
		return nil, false, ""
	}

	if in.HasLines {
		return r.liker.FromText(in.Lines), true, ""
	}
	if len(in.Image) == 0 {
		return nil, false, ""
	}

	img, err := imageprep.Decode(in.Image)
	if err != nil {
		r.logger.Warn("like panel unreadable", "error", err)
		return nil, true, "like panel unreadable: " + err.Error()
	}
	img = imageprep.Downscale(img, r.cfg.MaxSide)
	whole, center := imageprep.LikeSignal(img)
	v := r.liker.FromDarkness(whole, center)
	r.logger.Debug("like darkness measured", "whole", whole, "center", center, "liked", v)
	return &v, true, ""
}

// recognizePanels fans OCR out over the comment/reply panels with a bounded
// worker pool. A failed or timed-out panel degrades to an empty line
// sequence plus a warning; it is never fatal.
func (r *Resources) recognizePanels(ctx context.Context, req Request, report *Report) map[block.PanelRole]ocr.Outcome {
	outcomes := make(map[block.PanelRole]ocr.Outcome, len(ocrRoles))
	var mu sync.Mutex

	// Line-backed panels resolve synchronously; settle them all before the
	// first worker starts so only workers touch the map concurrently.
	var pending []block.PanelRole
	for _, role := range ocrRoles {
		in, ok := req.Panels[role]
		if !ok {
			continue
		}
		if in.HasLines {
			outcomes[role] = ocr.Success(in.Lines)
			continue
		}
		if len(in.Image) == 0 {
			continue
		}
		pending = append(pending, role)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.OCRThreads)

	for _, role := range pending {
		in := req.Panels[role]
		g.Go(func() error {
			oc := r.recognizeImage(ctx, in.Image)
			mu.Lock()
			outcomes[role] = oc
			if oc.Status != ocr.StatusOK {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("panel %s: ocr %s", role, oc.Status))
				r.logger.Warn("panel recognition degraded", "role", role, "status", oc.Status.String(), "error", oc.Err)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers only report soft outcomes

	return outcomes
}

// recognizeImage preprocesses one panel image and runs the OCR collaborator.
func (r *Resources) recognizeImage(ctx context.Context, data []byte) ocr.Outcome {
	img, err := imageprep.Decode(data)
	if err != nil {
		return ocr.Failed(err)
	}
	scaled := imageprep.Downscale(img, r.cfg.MaxSide)
	payload := data
	if scaled != img {
		if encoded, encErr := imageprep.EncodePNG(scaled); encErr == nil {
			payload = encoded
		}
	}
	return r.ocr.Recognize(ctx, payload)
}

func dedupeAll(m map[string][]string) map[string][]string {
	for h, msgs := range m {
		m[h] = aggregate.Dedupe(msgs)
	}
	return m
}
