package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/devanshd78/Backend-MHD1/verify"
)

// ErrNoEvidenceRequired is returned when the configured rules require
// neither comments nor replies; such rules can never select a candidate.
var ErrNoEvidenceRequired = errors.New("at least one of MIN_COMMENTS and MIN_REPLIES must be positive")

// Config collects every knob of the process in one validated struct.
// Environment variable names are kept from the original service.
type Config struct {
	Port  int  `env:"PORT1" envDefault:"6000"`
	Debug bool `env:"DEBUG" envDefault:"false"`

	// OCR collaborator.
	OCRTimeout   time.Duration `env:"OCR_TIMEOUT" envDefault:"10s"`
	OCRThreads   int           `env:"OCR_THREADS" envDefault:"3"`
	TesseractCmd string        `env:"TESSERACT_CMD" envDefault:"tesseract"`
	CacheTTL     time.Duration `env:"OCR_CACHE_TTL" envDefault:"72h"`
	CacheDisable bool          `env:"OCR_CACHE_DISABLE" envDefault:"false"`

	// Image preprocessing.
	MaxSide int `env:"MAX_SIDE" envDefault:"1100"`

	// Verification rules.
	MinComments        int  `env:"MIN_COMMENTS" envDefault:"2"`
	MinReplies         int  `env:"MIN_REPLIES" envDefault:"2"`
	RequireLike        bool `env:"REQUIRE_LIKE" envDefault:"false"`
	SkipOCRWhenUnliked bool `env:"SKIP_OCR_WHEN_UNLIKED" envDefault:"true"`

	// Distinctness thresholds.
	SimilaritySame  float64 `env:"SIMILARITY_SAME" envDefault:"0.90"`
	SimilarityCross float64 `env:"SIMILARITY_CROSS" envDefault:"0.88"`

	// Like-icon darkness bands.
	LikeFilledMin  float64 `env:"LIKE_FILLED_MIN" envDefault:"0.06"`
	LikeOutlineMax float64 `env:"LIKE_OUTLINE_MAX" envDefault:"0.015"`
	LikeCenterMin  float64 `env:"CENTER_DARK_MIN" envDefault:"0.12"`

	// Backpressure: how many verification requests run at once and how long
	// a new request waits for a slot before failing fast.
	MaxConcurrent  int64         `env:"MAX_CONCURRENT" envDefault:"8"`
	AcquireTimeout time.Duration `env:"ACQUIRE_TIMEOUT" envDefault:"250ms"`
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes bounds and rejects combinations that can never
// produce a candidate. Called once at startup; invalid values never reach
// the verification engine.
func (c *Config) Validate() error {
	rules := c.Rules().Clamp()
	c.MinComments = rules.MinComments
	c.MinReplies = rules.MinReplies
	if c.MinComments == 0 && c.MinReplies == 0 {
		return ErrNoEvidenceRequired
	}
	if c.OCRThreads < 1 {
		c.OCRThreads = 1
	}
	if c.MaxConcurrent < 1 {
		c.MaxConcurrent = 1
	}
	if c.OCRTimeout <= 0 {
		c.OCRTimeout = 10 * time.Second
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = 250 * time.Millisecond
	}
	return nil
}

// Rules returns the configured default verification rules.
func (c Config) Rules() verify.Rules {
	return verify.Rules{
		MinComments: c.MinComments,
		MinReplies:  c.MinReplies,
		RequireLike: c.RequireLike,
	}
}
