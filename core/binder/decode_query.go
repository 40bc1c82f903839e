package binder

import "net/url"

// queryStep decodes the whole query group from the raw query string in one
// pass. An absent query string is a no-op.
func queryStep(fields []FieldSpec) func(st *state) error {
	return func(st *state) error {
		if st.req.RawQuery == "" {
			return nil
		}

		values, err := url.ParseQuery(st.req.RawQuery)
		if err != nil {
			return decodeErr(Query, ErrFailedToParseQuery, "%v", err)
		}

		for i := range fields {
			f := &fields[i]
			fieldValues, exists := values[f.Key]
			if !exists || len(fieldValues) == 0 {
				continue // No value provided, leave as default
			}
			if err := setFieldValue(st.target.Field(f.Index), fieldValues, st.cfg.SanitizeStrings); err != nil {
				return decodeErr(Query, ErrFailedToParseQuery, "field %s: %v", f.Name, err)
			}
		}
		return nil
	}
}
