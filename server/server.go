// Package server exposes the verification engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/devanshd78/Backend-MHD1/block"
	"github.com/devanshd78/Backend-MHD1/engine"
	"github.com/devanshd78/Backend-MHD1/verify"
)

// MaxUploadBytes caps the whole multipart body; each screenshot is small.
const MaxUploadBytes = 10 << 20 // 10 MB

var panelRoles = []block.PanelRole{
	block.RoleLike, block.RoleComment1, block.RoleComment2,
	block.RoleReply1, block.RoleReply2,
}

// Server routes HTTP requests into the engine.
type Server struct {
	res    *engine.Resources
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server around the shared engine resources.
func New(res *engine.Resources, opts ...Option) *Server {
	s := &Server{res: res, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// analyzeResponse mirrors the original service's JSON shape.
type analyzeResponse struct {
	Verified bool                `json:"verified"`
	UserID   *string             `json:"user_id"`
	Comment  []string            `json:"comment"`
	Replies  []string            `json:"replies"`
	Liked    *bool               `json:"liked"`
	Reasons  []verify.ReasonCode `json:"reasons"`
	Rules    verify.Rules        `json:"rules"`
	Message  string              `json:"message,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
	Debug    *engine.Debug       `json:"debug,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	rid := uuid.NewString()
	logger := s.logger.With("request_id", rid)

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			"expected multipart form with panels: like, comment1, comment2, reply1, reply2")
		return
	}

	req := engine.Request{Panels: make(map[block.PanelRole]engine.PanelInput, len(panelRoles))}
	for _, role := range panelRoles {
		file, _, err := r.FormFile(string(role))
		if err != nil {
			continue
		}
		data, readErr := io.ReadAll(file)
		_ = file.Close() //nolint:errcheck // read already completed
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "unreadable upload for panel "+string(role))
			return
		}
		req.Panels[role] = engine.PanelInput{Image: data}
	}

	rules, overridden, err := s.rulesOverride(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if overridden {
		req.Rules = &rules
	}
	req.Debug = s.res.Config().Debug || r.FormValue("debug") == "1"

	report, err := s.res.Analyze(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrBusy):
		logger.Warn("analyzer saturated")
		writeError(w, http.StatusTooManyRequests, "busy", "analyzer at capacity, retry shortly")
		return
	case errors.Is(err, engine.ErrNoEvidenceRequired):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	default:
		var missing *engine.MissingPanelsError
		if errors.As(err, &missing) {
			logger.Info("request missing panels", "missing", missing.Roles)
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "bad_request",
				"message": missing.Error(),
				"missing": missing.Roles,
			})
			return
		}
		logger.Error("analyze failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error", "analysis failed")
		return
	}

	if report.Debug != nil {
		report.Debug.RequestID = rid
	}

	resp := analyzeResponse{
		Verified: report.Result.Verified,
		Comment:  report.Result.Comments,
		Replies:  report.Result.Replies,
		Liked:    report.Result.Liked,
		Reasons:  report.Result.Reasons,
		Rules:    report.Rules,
		Warnings: report.Warnings,
		Debug:    report.Debug,
	}
	if report.Result.UserID != "" {
		resp.UserID = &report.Result.UserID
	}
	if resp.Reasons == nil {
		resp.Reasons = []verify.ReasonCode{}
	}
	if !resp.Verified {
		resp.Message = "Verification fails. Try uploading other screenshots."
	}

	logger.Info("analyze complete",
		"verified", resp.Verified,
		"reasons", resp.Reasons,
		"warnings", len(resp.Warnings))
	writeJSON(w, http.StatusOK, resp)
}

// rulesOverride reads optional per-request rule fields from the form,
// starting from the configured defaults. A non-numeric minimum is an input
// error, not a silent fallback.
func (s *Server) rulesOverride(r *http.Request) (rules verify.Rules, overridden bool, err error) {
	mc := r.FormValue("min_comments")
	mr := r.FormValue("min_replies")
	rl := r.FormValue("require_like")
	if mc == "" && mr == "" && rl == "" {
		return verify.Rules{}, false, nil
	}

	rules = s.res.Config().Rules()
	if mc != "" {
		n, convErr := strconv.Atoi(mc)
		if convErr != nil {
			return verify.Rules{}, false, errors.New("min_comments must be a number, got " + strconv.Quote(mc))
		}
		rules.MinComments = n
	}
	if mr != "" {
		n, convErr := strconv.Atoi(mr)
		if convErr != nil {
			return verify.Rules{}, false, errors.New("min_replies must be a number, got " + strconv.Quote(mr))
		}
		rules.MinReplies = n
	}
	if rl != "" {
		rules.RequireLike = rl == "1" || rl == "true"
	}
	return rules.Clamp(), true, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}
