package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reqbind/core/binder"
)

// RequestIDKey is the context key the request ID is stored under.
// Records bind it with a `ctx:"request_id"` field of type uuid.UUID.
const RequestIDKey = binder.ContextKey("request_id")

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() uuid.UUID
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting reuses a well-formed UUID from the incoming request header
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
func RequestID() func(http.Handler) http.Handler {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig assigns a unique identifier to each request. The ID is
// stored in the request context and echoed in the response header.
func RequestIDWithConfig(cfg RequestIDConfig) func(http.Handler) http.Handler {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.New
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			id := uuid.Nil
			if cfg.UseExisting {
				if existing, err := uuid.Parse(r.Header.Get(cfg.HeaderName)); err == nil {
					id = existing
				}
			}
			if id == uuid.Nil {
				id = cfg.Generator()
			}

			w.Header().Set(cfg.HeaderName, id.String())
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDKey, id)))
		})
	}
}

// GetRequestID retrieves the request ID from a context.
func GetRequestID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(RequestIDKey).(uuid.UUID)
	return id, ok
}
