package binder

import (
	"fmt"
	"strings"
)

// Origin identifies the part of a request a field value is extracted from.
type Origin uint8

const (
	// Path binds from router path parameters. Tag: `path`.
	Path Origin = iota + 1
	// Context binds from request-scoped context values. Tag: `ctx`.
	Context
	// Header binds from request headers. Tag: `header`.
	Header
	// Query binds from the URL query string. Tag: `query`.
	Query
	// JSON binds from a JSON request body. Tag: `json`.
	JSON
	// Form binds from a URL-encoded or multipart form body. Tag: `form`.
	Form
)

// priority is both the annotation scanning order and the plan execution order.
var priority = [...]Origin{Path, Context, Header, Query, JSON, Form}

var originNames = map[Origin]string{
	Path:    "path",
	Context: "ctx",
	Header:  "header",
	Query:   "query",
	JSON:    "json",
	Form:    "form",
}

// Origins returns all supported origins in canonical priority order.
func Origins() []Origin {
	out := make([]Origin, len(priority))
	copy(out, priority[:])
	return out
}

// String returns the origin name, which is also its struct tag key.
func (o Origin) String() string {
	if name, ok := originNames[o]; ok {
		return name
	}
	return fmt.Sprintf("origin(%d)", uint8(o))
}

// TagKey returns the struct tag key that marks a field with this origin.
func (o Origin) TagKey() string {
	return originNames[o]
}

// IsBody reports whether the origin consumes the request body.
// Body origins are mutually exclusive within one record.
func (o Origin) IsBody() bool {
	return o == JSON || o == Form
}

// AlwaysAvailable reports whether the origin can be extracted regardless of
// the body format, which exempts it from the record default-origin rule.
func (o Origin) AlwaysAvailable() bool {
	switch o {
	case Path, Context, Header, Query:
		return true
	}
	return false
}

// structural origins deliver flat strings, so pointer and slice wrappers
// must be unwrapped manually to reach the scalar type.
func (o Origin) structural() bool {
	return o == Path || o == Header
}

// ParseOrigin converts an origin literal into an Origin.
// Accepted literals are the tag keys plus the "context" alias.
func ParseOrigin(s string) (Origin, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "context" {
		return Context, nil
	}
	for o, n := range originNames {
		if n == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedOrigin, s)
}
