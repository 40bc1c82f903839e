package binder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/dmitrymomot/reqbind/core/binder")

// Defaulter is implemented by records that need non-zero defaults.
// SetDefaults is called on every fresh target before any group runs; body
// decoding keeps those defaults for keys the body does not carry.
type Defaulter interface {
	SetDefaults()
}

// Binder represents a function that binds HTTP request data to a Go value.
type Binder func(r *http.Request, v any) error

// state is the per-execution data of one Bind call.
type state struct {
	ctx          context.Context
	req          *Request
	target       reflect.Value
	cfg          Config
	logger       *slog.Logger
	bodyConsumed bool
}

// Bind populates a fresh T from the request views, running each format group
// in plan order. Path, header and query values are applied before the body is
// read; any rejection aborts binding and no record is returned.
func (p *Plan[T]) Bind(ctx context.Context, req Request) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := tracer.Start(ctx, "binder.Bind", trace.WithAttributes(
		attribute.String("binder.target", p.typ.String()),
		attribute.Int("binder.groups", len(p.steps)),
	))
	defer span.End()

	out := reflect.New(p.typ)
	if d, ok := out.Interface().(Defaulter); ok {
		d.SetDefaults()
	}

	st := &state{
		ctx:    ctx,
		req:    &req,
		target: out.Elem(),
		cfg:    p.cfg,
		logger: p.logger,
	}

	for _, s := range p.steps {
		if err := s.run(st); err != nil {
			span.SetAttributes(attribute.String("binder.origin", s.origin.String()))
			span.RecordError(err)
			span.SetStatus(codes.Error, "binding rejected")
			return zero, err
		}
	}

	return out.Elem().Interface().(T), nil
}

// BindHTTP binds an *http.Request using its context for cancellation and
// `ctx` field values.
func (p *Plan[T]) BindHTTP(r *http.Request, path PathParams) (T, error) {
	return p.Bind(r.Context(), FromHTTP(r, path))
}

// Binder adapts the plan to the Binder function type. The value passed to the
// returned Binder must be a non-nil *T. pathFn may be nil when T has no path fields.
func (p *Plan[T]) Binder(pathFn func(r *http.Request) PathParams) Binder {
	return func(r *http.Request, v any) error {
		dst, ok := v.(*T)
		if !ok || dst == nil {
			return fmt.Errorf("%w: expected *%s, got %T", ErrInvalidTarget, p.typ, v)
		}
		var path PathParams
		if pathFn != nil {
			path = pathFn(r)
		}
		res, err := p.BindHTTP(r, path)
		if err != nil {
			return err
		}
		*dst = res
		return nil
	}
}

// hasBody reports whether an unconsumed body is available.
func (st *state) hasBody() bool {
	return st.req.Body != nil && !st.bodyConsumed
}

// contentType returns the raw Content-Type and its lower-cased media type.
func (st *state) contentType() (string, string) {
	ct := st.req.Header.Get("Content-Type")
	if ct == "" {
		return "", ""
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return ct, mt
	}
	mt, _, _ := strings.Cut(ct, ";")
	return ct, strings.ToLower(strings.TrimSpace(mt))
}

// takeBody hands out the body stream exactly once.
func (st *state) takeBody(o Origin) (io.Reader, error) {
	// Fail fast if request context is already cancelled to avoid processing doomed requests
	if err := st.ctx.Err(); err != nil {
		return nil, decodeErr(o, ErrRequestCanceled, "%v", err)
	}
	st.bodyConsumed = true
	return st.req.Body, nil
}

// readBody reads the whole body, enforcing the configured size limit.
func (st *state) readBody(o Origin, parseErr error) ([]byte, error) {
	body, err := st.takeBody(o)
	if err != nil {
		return nil, err
	}

	// Read entire body with +1 byte to detect oversized requests efficiently
	data, err := io.ReadAll(io.LimitReader(body, st.cfg.MaxBodySize+1))
	if err != nil {
		if ctxErr := st.ctx.Err(); ctxErr != nil {
			return nil, decodeErr(o, ErrRequestCanceled, "%v", ctxErr)
		}
		return nil, decodeErr(o, parseErr, "failed to read request body: %v", err)
	}
	if int64(len(data)) > st.cfg.MaxBodySize {
		return nil, decodeErr(o, ErrRequestBodyTooLarge, "max %d bytes", st.cfg.MaxBodySize)
	}
	return data, nil
}

// mismatch applies the content type policy to a body group that cannot run.
func (st *state) mismatch(o Origin, mediaType, expected string) error {
	if st.cfg.ContentTypePolicy == PolicyLenient {
		return nil
	}
	if mediaType == "" {
		return decodeErr(o, ErrContentTypeMismatch, "missing content-type header, expected %s", expected)
	}
	return decodeErr(o, ErrContentTypeMismatch, "got %s, expected %s", mediaType, expected)
}
