package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reqbind/core/binder"
	"github.com/dmitrymomot/reqbind/core/logger"
	"github.com/dmitrymomot/reqbind/core/middleware"
)

type tracedRequest struct {
	RequestID uuid.UUID `ctx:"request_id"`
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	plan := binder.MustCompile[tracedRequest]()

	var bound uuid.UUID
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := plan.BindHTTP(r, nil)
		require.NoError(t, err)
		bound = req.RequestID
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, uuid.Nil, bound)
	assert.Equal(t, bound.String(), rec.Header().Get("X-Request-ID"))
}

func TestRequestIDWithConfig(t *testing.T) {
	t.Parallel()

	fixed := uuid.MustParse("6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b")
	existing := uuid.MustParse("0e8a4e2c-1111-4222-8333-444455556666")

	tests := []struct {
		name   string
		cfg    middleware.RequestIDConfig
		header string
		want   uuid.UUID
	}{
		{
			name: "custom generator",
			cfg:  middleware.RequestIDConfig{Generator: func() uuid.UUID { return fixed }},
			want: fixed,
		},
		{
			name:   "reuse existing id",
			cfg:    middleware.RequestIDConfig{UseExisting: true, Generator: func() uuid.UUID { return fixed }},
			header: existing.String(),
			want:   existing,
		},
		{
			name:   "malformed existing id is replaced",
			cfg:    middleware.RequestIDConfig{UseExisting: true, Generator: func() uuid.UUID { return fixed }},
			header: "not-a-uuid",
			want:   fixed,
		},
		{
			name:   "existing id ignored by default",
			cfg:    middleware.RequestIDConfig{Generator: func() uuid.UUID { return fixed }},
			header: existing.String(),
			want:   fixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got uuid.UUID
			h := middleware.RequestIDWithConfig(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := middleware.GetRequestID(r.Context())
				assert.True(t, ok)
				got = id
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRequestIDSkip(t *testing.T) {
	t.Parallel()

	h := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Skip: func(r *http.Request) bool { return r.URL.Path == "/health" },
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := middleware.GetRequestID(r.Context())
		assert.False(t, ok)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, rec.Header().Get("X-Request-ID"))
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "level=INFO"},
		{"client error", http.StatusUnsupportedMediaType, "level=WARN"},
		{"server error", http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))

			h := middleware.RequestID()(middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "method=POST")
			assert.Contains(t, out, "path=/orders")
			assert.Contains(t, out, "request_id="+rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestLoggingSkip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	h := middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: log,
		Skip:   func(r *http.Request) bool { return true },
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, buf.String())
}
