package binder

import (
	"encoding"
	"mime/multipart"
	"reflect"
)

// Shape describes how a field wraps its scalar type.
type Shape uint8

const (
	// ShapeScalar is a plain value: T.
	ShapeScalar Shape = iota
	// ShapeOption is an optional value: *T.
	ShapeOption
	// ShapeList is a list of values: []T.
	ShapeList
	// ShapeOptionList is an optional list: *[]T.
	ShapeOptionList
)

func (s Shape) String() string {
	switch s {
	case ShapeOption:
		return "option"
	case ShapeList:
		return "list"
	case ShapeOptionList:
		return "option_list"
	default:
		return "scalar"
	}
}

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	fileHeaderType      = reflect.TypeFor[*multipart.FileHeader]()
)

// classify determines a field's shape and the type handed to the decoder.
// Only structural origins unwrap *T, []T and *[]T; the other origins pass the
// declared type through because their codecs handle those wrappers natively.
func classify(o Origin, t reflect.Type) (Shape, reflect.Type) {
	if !o.structural() || isScalarType(t) {
		return ShapeScalar, t
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner := t.Elem()
		if inner.Kind() == reflect.Slice && !isScalarType(inner) {
			return ShapeOptionList, inner.Elem()
		}
		return ShapeOption, inner
	case reflect.Slice:
		return ShapeList, t.Elem()
	}
	return ShapeScalar, t
}

// isScalarType reports whether a single raw string can be converted into t.
func isScalarType(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isValueType reports whether t can be populated from string values by the
// query and form decoders: scalars, pointers to them and slices of them.
func isValueType(t reflect.Type) bool {
	if isScalarType(t) {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer:
		return isValueType(t.Elem())
	case reflect.Slice:
		return isScalarType(t.Elem())
	}
	return false
}

func isFileType(t reflect.Type) bool {
	return t == fileHeaderType || (t.Kind() == reflect.Slice && t.Elem() == fileHeaderType)
}
