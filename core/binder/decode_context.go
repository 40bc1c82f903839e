package binder

import "github.com/dmitrymomot/reqbind/core/logger"

// contextStep copies request-scoped context values into `ctx` fields.
// Missing values and values of an unrelated type leave the field untouched.
func contextStep(fields []FieldSpec, keys map[string]any) func(st *state) error {
	return func(st *state) error {
		for i := range fields {
			f := &fields[i]
			key, ok := keys[f.Key]
			if !ok {
				key = ContextKey(f.Key)
			}
			value := st.ctx.Value(key)
			if value == nil {
				continue
			}
			if !assignContextValue(st.target.Field(f.Index), value) {
				st.logger.DebugContext(st.ctx, "context value type does not match field",
					logger.Component("binder"),
					logger.FieldName(f.Name),
					logger.LookupKey(f.Key),
					logger.Type(f.Type.String()),
				)
			}
		}
		return nil
	}
}
