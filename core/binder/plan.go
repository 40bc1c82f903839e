package binder

import (
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"reflect"
	"sync"

	"github.com/dmitrymomot/reqbind/core/logger"
)

// FormatGroup holds the fields of a record that share one origin.
type FormatGroup struct {
	Origin Origin
	Fields []FieldSpec
}

// step is the decode step synthesized for one FormatGroup.
type step struct {
	origin Origin
	run    func(st *state) error
}

// Plan is the compiled, immutable binding plan for record type T.
// A Plan is safe for concurrent use by any number of goroutines.
type Plan[T any] struct {
	typ           reflect.Type
	defaultOrigin Origin
	groups        []FormatGroup
	hasJSON       bool
	steps         []step
	cfg           Config
	logger        *slog.Logger
}

// Compile builds the binding plan for T. T must be a struct type.
// Compile is meant to run once at startup; schema errors mean T cannot be bound.
func Compile[T any](opts ...Option) (*Plan[T], error) {
	t := reflect.TypeFor[T]()
	s := newSettings(opts)

	cfg, err := s.cfg.normalize()
	if err != nil {
		return nil, &SchemaError{Type: t.String(), Literal: string(s.cfg.ContentTypePolicy), Err: err}
	}

	sc, err := buildSchema(t, s)
	if err != nil {
		return nil, err
	}
	if err := validateSchema(sc); err != nil {
		return nil, err
	}

	groups, hasJSON := groupFields(sc.fields)
	contextKeys := maps.Clone(s.contextKeys)

	p := &Plan[T]{
		typ:           t,
		defaultOrigin: sc.defaultOrigin,
		groups:        groups,
		hasJSON:       hasJSON,
		cfg:           cfg,
		logger:        s.logger,
	}
	for _, g := range groups {
		p.steps = append(p.steps, compileStep(g, hasJSON, contextKeys))
	}

	p.logger.Debug("binding plan compiled",
		logger.Component("binder"),
		logger.Target(t.String()),
		logger.Origin(sc.defaultOrigin.String()),
		logger.Count("fields", len(sc.fields)),
		logger.Count("groups", len(groups)),
	)

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile[T any](opts ...Option) *Plan[T] {
	p, err := Compile[T](opts...)
	if err != nil {
		panic(err)
	}
	return p
}

var planCache sync.Map // reflect.Type -> *cacheEntry

type cacheEntry struct {
	once sync.Once
	plan any
	err  error
}

// Cached returns the process-wide plan for T compiled with default options.
// The plan is compiled on first use and shared afterwards.
func Cached[T any]() (*Plan[T], error) {
	v, _ := planCache.LoadOrStore(reflect.TypeFor[T](), &cacheEntry{})
	e := v.(*cacheEntry)
	e.once.Do(func() {
		e.plan, e.err = Compile[T]()
	})
	if e.err != nil {
		return nil, e.err
	}
	return e.plan.(*Plan[T]), nil
}

// Bind binds an HTTP request into T using the cached plan for T.
func Bind[T any](r *http.Request, path PathParams) (T, error) {
	p, err := Cached[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return p.BindHTTP(r, path)
}

// groupFields groups fields by origin in canonical priority order. Fields
// sharing an origin keep their declaration order.
func groupFields(fields []FieldSpec) ([]FormatGroup, bool) {
	var groups []FormatGroup
	hasJSON := false
	for _, o := range priority {
		var members []FieldSpec
		for _, f := range fields {
			if f.Origin == o {
				members = append(members, f)
			}
		}
		if len(members) == 0 {
			continue
		}
		if o == JSON {
			hasJSON = true
		}
		groups = append(groups, FormatGroup{Origin: o, Fields: members})
	}
	return groups, hasJSON
}

func compileStep(g FormatGroup, hasJSON bool, contextKeys map[string]any) step {
	var run func(st *state) error
	switch g.Origin {
	case Path:
		run = pathStep(g.Fields)
	case Header:
		run = headerStep(g.Fields)
	case Query:
		run = queryStep(g.Fields)
	case JSON:
		run = jsonStep(g.Fields, jsonStructType(g.Fields))
	case Form:
		run = formStep(g.Fields, hasJSON)
	case Context:
		run = contextStep(g.Fields, contextKeys)
	default:
		panic(fmt.Sprintf("binder: no decoder for origin %s", g.Origin))
	}
	return step{origin: g.Origin, run: run}
}

// DefaultOrigin returns the record default origin.
func (p *Plan[T]) DefaultOrigin() Origin { return p.defaultOrigin }

// HasJSONGroup reports whether any field is bound to the JSON body.
func (p *Plan[T]) HasJSONGroup() bool { return p.hasJSON }

// Groups returns a copy of the plan's format groups in execution order.
func (p *Plan[T]) Groups() []FormatGroup {
	out := make([]FormatGroup, len(p.groups))
	for i, g := range p.groups {
		out[i] = FormatGroup{Origin: g.Origin, Fields: append([]FieldSpec(nil), g.Fields...)}
	}
	return out
}

// Fields returns a copy of all field specs in execution order.
func (p *Plan[T]) Fields() []FieldSpec {
	var out []FieldSpec
	for _, g := range p.groups {
		out = append(out, g.Fields...)
	}
	return out
}

// Field returns the spec of the named Go field.
func (p *Plan[T]) Field(name string) (FieldSpec, bool) {
	for _, g := range p.groups {
		for _, f := range g.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldSpec{}, false
}
