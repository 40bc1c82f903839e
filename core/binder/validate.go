package binder

import "reflect"

// validateSchema enforces the record default-origin rule and checks that every
// field type can be decoded by its origin.
//
// Only one body decoding pass runs per request, so a field bound to a body
// origin must use the record's default origin. Always-available origins are exempt.
func validateSchema(sc *schema) error {
	for _, f := range sc.fields {
		if !f.Origin.AlwaysAvailable() && f.Origin != sc.defaultOrigin {
			return &SchemaError{
				Type:    sc.typ.String(),
				Field:   f.Name,
				Default: sc.defaultOrigin,
				Origin:  f.Origin,
				Err:     ErrConflictingFieldOrigin,
			}
		}
		if !supportsType(f) {
			return &SchemaError{
				Type:    sc.typ.String(),
				Field:   f.Name,
				Literal: f.Type.String(),
				Err:     ErrUnsupportedFieldType,
			}
		}
	}
	return nil
}

func supportsType(f FieldSpec) bool {
	switch f.Origin {
	case Path, Header:
		return isScalarType(f.Scalar)
	case Query:
		return isValueType(f.Type)
	case Form:
		return isValueType(f.Type) || isFileType(f.Type)
	case JSON:
		return f.Type.Kind() != reflect.Func && f.Type.Kind() != reflect.Chan
	default:
		return true
	}
}
