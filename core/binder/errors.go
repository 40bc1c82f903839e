package binder

import (
	"errors"
	"fmt"
)

// Schema-time errors. They are returned while compiling a plan and mean the
// record type cannot be bound at all.
var (
	// ErrUnsupportedOrigin indicates an unknown origin literal or a malformed
	// annotation argument.
	ErrUnsupportedOrigin = errors.New("unsupported origin")

	// ErrConflictingFieldOrigin indicates a field bound to a body origin other
	// than the record's default origin.
	ErrConflictingFieldOrigin = errors.New("conflicting field origin")

	// ErrUnsupportedFieldType indicates a field type the origin cannot decode into.
	ErrUnsupportedFieldType = errors.New("unsupported field type")

	// ErrUnknownField indicates a field table entry naming a field the record lacks.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidTarget indicates the record type is not a struct.
	ErrInvalidTarget = errors.New("binding target must be a struct")

	// ErrInvalidConfig indicates an invalid binder configuration value.
	ErrInvalidConfig = errors.New("invalid binder configuration")
)

// Request-time errors. They abort binding for the request and map to client errors.
var (
	// ErrContentTypeMismatch indicates the request content type does not match
	// the record's body origin.
	ErrContentTypeMismatch = errors.New("content type mismatch")

	// ErrFailedToParseJSON indicates the request body contains invalid JSON
	// or doesn't match the target field types.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrFailedToParseForm indicates form data parsing failed due to malformed
	// multipart boundaries, invalid URL-encoded data or a field conversion error.
	ErrFailedToParseForm = errors.New("failed to parse form data")

	// ErrFailedToParseQuery indicates the query string is malformed or a query
	// value could not be converted to its field type.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrRequestBodyTooLarge indicates the body exceeds the configured limit.
	ErrRequestBodyTooLarge = errors.New("request body too large")

	// ErrRequestCanceled indicates the request context was done before or
	// while the body was read.
	ErrRequestCanceled = errors.New("request canceled")
)

// SchemaError describes why a record type could not be compiled into a plan.
type SchemaError struct {
	Type    string // record type name
	Field   string // Go field name, empty for record-level problems
	Literal string // offending annotation literal, if any
	Default Origin // record default origin, set for origin conflicts
	Origin  Origin // resolved field origin, set for origin conflicts
	Err     error  // one of the schema-time sentinel errors
}

func (e *SchemaError) Error() string {
	switch {
	case errors.Is(e.Err, ErrConflictingFieldOrigin):
		return fmt.Sprintf("binder: %s.%s: %v: record default is %s, field is bound to %s",
			e.Type, e.Field, e.Err, e.Default, e.Origin)
	case e.Field != "" && e.Literal != "":
		return fmt.Sprintf("binder: %s.%s: %v: %q", e.Type, e.Field, e.Err, e.Literal)
	case e.Field != "":
		return fmt.Sprintf("binder: %s.%s: %v", e.Type, e.Field, e.Err)
	case e.Literal != "":
		return fmt.Sprintf("binder: %s: %v: %q", e.Type, e.Err, e.Literal)
	default:
		return fmt.Sprintf("binder: %s: %v", e.Type, e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DecodeError is returned when a request cannot be bound.
// Err wraps one of the request-time sentinel errors.
type DecodeError struct {
	Origin Origin
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("binder: %s: %v", e.Origin, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(o Origin, sentinel error, format string, args ...any) error {
	return &DecodeError{
		Origin: o,
		Err:    fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}
