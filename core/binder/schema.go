package binder

import (
	"errors"
	"reflect"
)

// FieldSpec is the static binding descriptor of one record field.
type FieldSpec struct {
	Name         string       // Go field name
	Index        int          // struct field index
	Type         reflect.Type // declared field type
	Scalar       reflect.Type // innermost scalar for structural origins, declared type otherwise
	Shape        Shape
	Origin       Origin
	Key          string // lookup key within the origin
	CodecOptions string // codec override, e.g. "string" from `json:"n,string"`
}

// schema is the Schema Builder output for one record type.
type schema struct {
	typ           reflect.Type
	defaultOrigin Origin
	fields        []FieldSpec
}

// buildSchema resolves the origin and lookup key of every bindable field.
// Origin annotations are scanned in priority order and the first one present
// wins. Fields without an annotation fall back to the record default origin.
func buildSchema(t reflect.Type, s *settings) (*schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, &SchemaError{Type: t.String(), Err: ErrInvalidTarget}
	}

	def, err := resolveDefaultOrigin(t, s)
	if err != nil {
		return nil, err
	}

	sc := &schema{typ: t, defaultOrigin: def}
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Name == "_" || !sf.IsExported() {
			continue
		}

		spec, skip, err := resolveField(t, sf, def, s)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		spec.Index = i
		spec.Type = sf.Type
		spec.Shape, spec.Scalar = classify(spec.Origin, sf.Type)
		sc.fields = append(sc.fields, spec)
	}

	if s.table != nil {
		for name := range s.table.Fields {
			if sf, ok := t.FieldByName(name); !ok || len(sf.Index) != 1 {
				return nil, &SchemaError{Type: t.String(), Field: name, Err: ErrUnknownField}
			}
		}
	}

	return sc, nil
}

// resolveDefaultOrigin picks the record default: marker field, then option,
// then field table, then JSON.
func resolveDefaultOrigin(t reflect.Type, s *settings) (Origin, error) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Name != "_" {
			continue
		}
		tag, ok := sf.Tag.Lookup(bindTag)
		if !ok {
			continue
		}
		o, err := parseDefaultAnnotation(tag)
		if err != nil {
			return 0, &SchemaError{Type: t.String(), Literal: tag, Err: unwrapSentinel(err)}
		}
		return o, nil
	}

	if s.defaultOrigin != 0 {
		if _, ok := originNames[s.defaultOrigin]; !ok {
			return 0, &SchemaError{Type: t.String(), Literal: s.defaultOrigin.String(), Err: ErrUnsupportedOrigin}
		}
		return s.defaultOrigin, nil
	}

	if s.table != nil && s.table.Default != "" {
		o, err := ParseOrigin(s.table.Default)
		if err != nil {
			return 0, &SchemaError{Type: t.String(), Literal: s.table.Default, Err: ErrUnsupportedOrigin}
		}
		return o, nil
	}

	return JSON, nil
}

func resolveField(t reflect.Type, sf reflect.StructField, def Origin, s *settings) (FieldSpec, bool, error) {
	spec := FieldSpec{Name: sf.Name}
	schemaErr := func(lit string, err error) error {
		return &SchemaError{Type: t.String(), Field: sf.Name, Literal: lit, Err: unwrapSentinel(err)}
	}

	rename, hasRename := sf.Tag.Lookup(bindTag)
	if hasRename {
		ann, err := parseAnnotation(rename)
		if err != nil {
			return spec, false, schemaErr(rename, err)
		}
		if ann.skip {
			return spec, true, nil
		}
	}

	if rule, ok := tableRule(s, sf.Name); ok {
		o, err := ParseOrigin(rule.Origin)
		if err != nil {
			return spec, false, schemaErr(rule.Origin, err)
		}
		spec.Origin = o
		spec.Key = sf.Name
		if hasRename {
			if ann, _ := parseAnnotation(rename); ann.key != "" {
				spec.Key = ann.key
			}
		}
		if rule.Key != "" {
			key, err := validKey(rule.Key, rule.Key)
			if err != nil {
				return spec, false, schemaErr(rule.Key, err)
			}
			spec.Key = key
		}
		return spec, false, nil
	}

	resolved := false
	for _, o := range priority {
		tag, ok := sf.Tag.Lookup(o.TagKey())
		if !ok {
			continue
		}
		ann, err := parseAnnotation(tag)
		if err != nil {
			return spec, false, schemaErr(tag, err)
		}
		if ann.skip {
			return spec, true, nil
		}
		spec.Origin = o
		spec.Key = ann.key
		spec.CodecOptions = ann.opts
		resolved = true
		break
	}
	if !resolved {
		spec.Origin = def
	}
	if spec.Key == "" {
		spec.Key = sf.Name
	}

	// The generic rename always wins over the origin annotation's own key.
	if hasRename {
		if ann, _ := parseAnnotation(rename); ann.key != "" {
			spec.Key = ann.key
		}
	}

	return spec, false, nil
}

func tableRule(s *settings, name string) (FieldRule, bool) {
	if s.table == nil {
		return FieldRule{}, false
	}
	rule, ok := s.table.Fields[name]
	return rule, ok
}

// unwrapSentinel returns the schema-time sentinel wrapped by err.
func unwrapSentinel(err error) error {
	for _, sentinel := range []error{ErrUnsupportedOrigin, ErrConflictingFieldOrigin, ErrUnsupportedFieldType} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
