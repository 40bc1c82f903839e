package binder

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// ContextKey is the default context key type for `ctx` fields.
// A field tagged `ctx:"user"` reads ctx.Value(ContextKey("user")) unless a
// typed key was registered with WithContextKey.
type ContextKey string

// PathParams provides the path parameters captured by a router.
type PathParams interface {
	PathParam(key string) (string, bool)
}

// Params is a PathParams backed by a plain map.
type Params map[string]string

// PathParam implements PathParams.
func (p Params) PathParam(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// PathFunc adapts router extractors that return "" for missing parameters.
type PathFunc func(key string) string

// PathParam implements PathParams.
func (f PathFunc) PathParam(key string) (string, bool) {
	v := f(key)
	return v, v != ""
}

// Extract adapts a router-specific extractor such as chi.URLParam:
//
//	binder.Extract(r, chi.URLParam)
func Extract(r *http.Request, extractor func(r *http.Request, key string) string) PathFunc {
	return func(key string) string {
		return extractor(r, key)
	}
}

// StdPath reads path parameters captured by net/http.ServeMux patterns.
func StdPath(r *http.Request) PathFunc {
	return r.PathValue
}

// Request holds the read-only views of an inbound request that binding consumes.
type Request struct {
	Header   http.Header
	RawQuery string
	Path     PathParams
	Body     io.Reader // consumed at most once; nil means no body

	// attachForm hands a parsed multipart form back to its owner for cleanup.
	attachForm func(*multipart.Form)
}

// FromHTTP builds request views from an *http.Request.
// A parsed multipart form is attached to r.MultipartForm, so net/http removes
// its temporary files once the handler returns.
func FromHTTP(r *http.Request, path PathParams) Request {
	req := Request{
		Header: r.Header,
		Path:   path,
		attachForm: func(f *multipart.Form) {
			r.MultipartForm = f
		},
	}
	if r.URL != nil {
		req.RawQuery = r.URL.RawQuery
	}
	if r.Body != nil && r.Body != http.NoBody {
		req.Body = r.Body
	}
	return req
}

// headerValues performs a case-insensitive header lookup.
func headerValues(h http.Header, key string) ([]string, bool) {
	if h == nil {
		return nil, false
	}
	if values := h.Values(key); len(values) > 0 {
		return values, true
	}
	for k, values := range h {
		if strings.EqualFold(k, key) && len(values) > 0 {
			return values, true
		}
	}
	return nil, false
}
