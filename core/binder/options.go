package binder

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultMaxBodySize is the default maximum size for JSON and URL-encoded bodies (1MB).
	DefaultMaxBodySize = 1 << 20
	// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
	DefaultMaxMemory = 10 << 20
	// DefaultMaxMultipartSize is the default maximum size of a multipart body (32MB).
	DefaultMaxMultipartSize = 32 << 20
)

// ContentTypePolicy decides what happens when a body origin meets a request
// whose content type does not match it.
type ContentTypePolicy string

const (
	// PolicyStrict rejects the request with ErrContentTypeMismatch.
	PolicyStrict ContentTypePolicy = "strict"
	// PolicyLenient skips the body group and keeps its fields at their defaults.
	PolicyLenient ContentTypePolicy = "lenient"
)

// Config holds binder settings with environment variable support.
type Config struct {
	MaxBodySize           int64             `env:"BINDER_MAX_BODY_SIZE" envDefault:"1048576"`
	MaxMemory             int64             `env:"BINDER_MAX_MEMORY" envDefault:"10485760"`
	MaxMultipartSize      int64             `env:"BINDER_MAX_MULTIPART_SIZE" envDefault:"33554432"`
	ContentTypePolicy     ContentTypePolicy `env:"BINDER_CONTENT_TYPE_POLICY" envDefault:"strict"`
	DisallowUnknownFields bool              `env:"BINDER_DISALLOW_UNKNOWN_FIELDS" envDefault:"false"`
	SanitizeStrings       bool              `env:"BINDER_SANITIZE_STRINGS" envDefault:"true"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxBodySize:       DefaultMaxBodySize,
		MaxMemory:         DefaultMaxMemory,
		MaxMultipartSize:  DefaultMaxMultipartSize,
		ContentTypePolicy: PolicyStrict,
		SanitizeStrings:   true,
	}
}

// normalize fills zero limits with defaults and validates the policy.
func (c Config) normalize() (Config, error) {
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	if c.MaxMemory <= 0 {
		c.MaxMemory = DefaultMaxMemory
	}
	if c.MaxMultipartSize <= 0 {
		c.MaxMultipartSize = DefaultMaxMultipartSize
	}
	switch c.ContentTypePolicy {
	case "":
		c.ContentTypePolicy = PolicyStrict
	case PolicyStrict, PolicyLenient:
	default:
		return c, fmt.Errorf("%w: content type policy %q", ErrInvalidConfig, c.ContentTypePolicy)
	}
	return c, nil
}

// Option configures plan compilation.
type Option func(*settings)

type settings struct {
	cfg           Config
	logger        *slog.Logger
	defaultOrigin Origin
	table         *FieldTable
	contextKeys   map[string]any
}

func newSettings(opts []Option) *settings {
	s := &settings{
		cfg:         DefaultConfig(),
		logger:      slog.New(slog.DiscardHandler),
		contextKeys: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithConfig replaces the binder configuration.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger used for plan compilation and coercion fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultOrigin sets the record default origin when the record itself does
// not declare one with a `bind:"default(...)"` marker field.
func WithDefaultOrigin(o Origin) Option {
	return func(s *settings) {
		s.defaultOrigin = o
	}
}

// WithFieldTable applies a declarative field table on top of struct tags.
func WithFieldTable(table FieldTable) Option {
	return func(s *settings) {
		s.table = &table
	}
}

// WithContextKey maps a `ctx` lookup name to the typed key a middleware uses
// to store its value in the request context.
func WithContextKey(name string, key any) Option {
	return func(s *settings) {
		s.contextKeys[name] = key
	}
}

// WithContentTypePolicy overrides the configured content type policy.
func WithContentTypePolicy(p ContentTypePolicy) Option {
	return func(s *settings) {
		s.cfg.ContentTypePolicy = p
	}
}

// WithMaxBodySize overrides the configured body size limit.
func WithMaxBodySize(n int64) Option {
	return func(s *settings) {
		s.cfg.MaxBodySize = n
	}
}
