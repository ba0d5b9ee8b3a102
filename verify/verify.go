// Package verify decides engagement-proof outcomes under configurable rules.
package verify

import (
	"log/slog"

	"github.com/devanshd78/Backend-MHD1/similarity"
)

// ReasonCode identifies one failed verification condition. Multiple codes
// may co-occur on a single result.
type ReasonCode string

// The stable reason-code taxonomy.
const (
	ReasonUsernameNotFound     ReasonCode = "USERNAME_NOT_FOUND"
	ReasonUsernameNotVisible   ReasonCode = "USERNAME_NOT_VISIBLE"
	ReasonInsufficientComments ReasonCode = "INSUFFICIENT_COMMENTS"
	ReasonInsufficientReplies  ReasonCode = "INSUFFICIENT_REPLIES"
	ReasonCommentsTooSimilar   ReasonCode = "COMMENTS_TOO_SIMILAR"
	ReasonRepliesTooSimilar    ReasonCode = "REPLIES_TOO_SIMILAR"
	ReasonCommentEqualsReply   ReasonCode = "COMMENT_EQUALS_REPLY"
	ReasonLikeNotProvided      ReasonCode = "LIKE_REQUIRED_BUT_NOT_PROVIDED"
	ReasonLikeNotLiked         ReasonCode = "LIKE_REQUIRED_BUT_NOT_LIKED"
	ReasonLikeUnclear          ReasonCode = "LIKE_UNCLEAR"
)

// Rules configures one verification request. At least one of MinComments
// and MinReplies must be positive; both are clamped into [0,2] before use.
type Rules struct {
	MinComments int  `json:"min_comments"`
	MinReplies  int  `json:"min_replies"`
	RequireLike bool `json:"require_like"`
}

// DefaultRules are the original service's requirements: two distinct
// comments and two distinct replies, like optional.
func DefaultRules() Rules {
	return Rules{MinComments: 2, MinReplies: 2, RequireLike: false}
}

// Clamp returns a copy with both minima forced into [0,2].
func (r Rules) Clamp() Rules {
	r.MinComments = clamp(r.MinComments)
	r.MinReplies = clamp(r.MinReplies)
	return r
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 2 {
		return 2
	}
	return n
}

// Input carries the evidence for one decision: the selected candidate with
// its merged, deduplicated messages, and the like outcome. Liked is nil
// when the like panel was unreadable; LikeProvided is false when no like
// evidence was supplied at all.
type Input struct {
	Candidate    string
	Found        bool
	Comments     []string
	Replies      []string
	Liked        *bool
	LikeProvided bool
}

// Result is the final verification outcome. Reasons is empty exactly when
// Verified is true.
type Result struct {
	Verified bool         `json:"verified"`
	UserID   string       `json:"user_id,omitempty"`
	Comments []string     `json:"comments"`
	Replies  []string     `json:"replies"`
	Liked    *bool        `json:"liked"`
	Reasons  []ReasonCode `json:"reasons"`
}

// Engine applies the decision table.
type Engine struct {
	sim    *similarity.Checker
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine using sim for distinctness checks.
func NewEngine(sim *similarity.Checker, opts ...Option) *Engine {
	e := &Engine{sim: sim, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide evaluates the evidence under the rules. Reason codes accumulate;
// nothing short-circuits, so every applicable failure is reported together.
// The message lists are capped to the rule minima before checking.
func (e *Engine) Decide(in Input, rules Rules) Result {
	rules = rules.Clamp()

	comments := truncate(in.Comments, rules.MinComments)
	replies := truncate(in.Replies, rules.MinReplies)

	var reasons []ReasonCode
	add := func(r ReasonCode) { reasons = append(reasons, r) }

	if !in.Found {
		add(ReasonUsernameNotFound)
	} else {
		if (rules.MinComments > 0 && len(comments) == 0) ||
			(rules.MinReplies > 0 && len(replies) == 0) {
			add(ReasonUsernameNotVisible)
		}
	}
	if len(comments) < rules.MinComments {
		add(ReasonInsufficientComments)
	}
	if len(replies) < rules.MinReplies {
		add(ReasonInsufficientReplies)
	}
	if len(comments) >= 2 && !e.sim.UniqueWithin(comments) {
		add(ReasonCommentsTooSimilar)
	}
	if len(replies) >= 2 && !e.sim.UniqueWithin(replies) {
		add(ReasonRepliesTooSimilar)
	}
	if len(comments) > 0 && len(replies) > 0 && !e.sim.DistinctAcross(comments, replies) {
		add(ReasonCommentEqualsReply)
	}
	if rules.RequireLike {
		switch {
		case !in.LikeProvided:
			add(ReasonLikeNotProvided)
		case in.Liked == nil:
			add(ReasonLikeUnclear)
		case !*in.Liked:
			add(ReasonLikeNotLiked)
		}
	}

	res := Result{
		Verified: len(reasons) == 0,
		Comments: comments,
		Replies:  replies,
		Liked:    in.Liked,
		Reasons:  reasons,
	}
	if in.Found {
		res.UserID = in.Candidate
	}
	if !res.Verified {
		e.logger.Debug("verification failed", "candidate", in.Candidate, "reasons", reasons)
	}
	return res
}

// truncate keeps at most the earliest n entries.
func truncate(msgs []string, n int) []string {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[:n]
}
