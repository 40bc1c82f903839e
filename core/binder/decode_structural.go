package binder

import (
	"reflect"

	"github.com/dmitrymomot/reqbind/core/logger"
)

// pathStep reads path parameters by lookup key. Absent keys are no-ops.
func pathStep(fields []FieldSpec) func(st *state) error {
	return func(st *state) error {
		if st.req.Path == nil {
			return nil
		}
		for i := range fields {
			f := &fields[i]
			raw, ok := st.req.Path.PathParam(f.Key)
			if !ok {
				continue
			}
			st.assignStructural(f, []string{raw})
		}
		return nil
	}
}

// headerStep reads headers by case-insensitive lookup key. Absent headers are no-ops.
func headerStep(fields []FieldSpec) func(st *state) error {
	return func(st *state) error {
		for i := range fields {
			f := &fields[i]
			values, ok := headerValues(st.req.Header, f.Key)
			if !ok {
				continue
			}
			st.assignStructural(f, values)
		}
		return nil
	}
}

// assignStructural converts flat string values into a path or header field.
// Conversion failures never reject the request: scalars keep their current
// value, options become nil and list items become the zero value.
func (st *state) assignStructural(f *FieldSpec, raw []string) {
	field := st.target.Field(f.Index)
	sanitize := st.cfg.SanitizeStrings

	switch f.Shape {
	case ShapeScalar:
		v, err := parseScalar(f.Scalar, raw[0], sanitize)
		if err != nil {
			st.logFallback(f, err)
			return
		}
		field.Set(v)

	case ShapeOption:
		v, err := parseScalar(f.Scalar, raw[0], sanitize)
		if err != nil {
			st.logFallback(f, err)
			field.SetZero()
			return
		}
		ptr := reflect.New(f.Scalar)
		ptr.Elem().Set(v)
		field.Set(ptr)

	case ShapeList:
		list, failed := lenientList(f.Type, raw, sanitize)
		if failed > 0 {
			st.logListFallback(f, failed)
		}
		field.Set(list)

	case ShapeOptionList:
		list, failed := lenientList(f.Type.Elem(), raw, sanitize)
		if failed > 0 {
			st.logListFallback(f, failed)
		}
		ptr := reflect.New(list.Type())
		ptr.Elem().Set(list)
		field.Set(ptr)
	}
}

func (st *state) logFallback(f *FieldSpec, err error) {
	st.logger.DebugContext(st.ctx, "value conversion failed, keeping default",
		logger.Component("binder"),
		logger.Origin(f.Origin.String()),
		logger.FieldName(f.Name),
		logger.LookupKey(f.Key),
		logger.Error(err),
	)
}

func (st *state) logListFallback(f *FieldSpec, failed int) {
	st.logger.DebugContext(st.ctx, "list items failed to convert, using zero values",
		logger.Component("binder"),
		logger.Origin(f.Origin.String()),
		logger.FieldName(f.Name),
		logger.LookupKey(f.Key),
		logger.Count("failed_items", failed),
	)
}
