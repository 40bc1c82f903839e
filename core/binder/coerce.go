package binder

import (
	"encoding"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// parseScalar converts a raw string into a value of type t.
func parseScalar(t reflect.Type, raw string, sanitize bool) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, fmt.Errorf("invalid %s value %q: %w", t, raw, err)
		}
		return v.Elem(), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		if sanitize {
			raw = sanitizeStringValue(raw)
		}
		v.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid int value %q", raw)
		}
		v.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid uint value %q", raw)
		}
		v.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid float value %q", raw)
		}
		v.SetFloat(n)

	case reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)

	default:
		return reflect.Value{}, fmt.Errorf("unsupported type %s", t)
	}

	return v, nil
}

// parseBool accepts strconv.ParseBool literals plus on/off and yes/no.
func parseBool(raw string) (bool, error) {
	value := strings.TrimSpace(raw)
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", raw)
}

// splitList flattens raw values into list items, splitting each on commas.
func splitList(values []string) []string {
	items := make([]string, 0, len(values))
	for _, v := range values {
		for item := range strings.SplitSeq(v, ",") {
			items = append(items, strings.TrimSpace(item))
		}
	}
	return items
}

// lenientList parses every item independently. Items that fail to parse
// become the zero value of the element type, so the list length is kept.
// The returned count is the number of items that fell back to zero.
func lenientList(sliceType reflect.Type, values []string, sanitize bool) (reflect.Value, int) {
	items := splitList(values)
	elemType := sliceType.Elem()
	slice := reflect.MakeSlice(sliceType, len(items), len(items))
	failed := 0
	for i, item := range items {
		v, err := parseScalar(elemType, item, sanitize)
		if err != nil {
			failed++
			continue
		}
		slice.Index(i).Set(v)
	}
	return slice, failed
}

// setFieldValue sets a query or form field from its raw values.
// Unlike the structural decoders, any conversion failure is returned.
func setFieldValue(field reflect.Value, values []string, sanitize bool) error {
	if len(values) == 0 {
		return nil
	}
	t := field.Type()

	if isScalarType(t) {
		v, err := parseScalar(t, values[0], sanitize)
		if err != nil {
			return err
		}
		field.Set(v)
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		ptr := reflect.New(t.Elem())
		if err := setFieldValue(ptr.Elem(), values, sanitize); err != nil {
			return err
		}
		field.Set(ptr)
		return nil

	case reflect.Slice:
		items := splitList(values)
		slice := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			v, err := parseScalar(t.Elem(), item, sanitize)
			if err != nil {
				return err
			}
			slice.Index(i).Set(v)
		}
		field.Set(slice)
		return nil
	}

	return fmt.Errorf("unsupported type %s", t)
}

// setFileField sets uploaded files to *multipart.FileHeader or
// []*multipart.FileHeader fields.
func setFileField(field reflect.Value, fileHeaders []*multipart.FileHeader) {
	for _, fh := range fileHeaders {
		fh.Filename = sanitizeFilename(fh.Filename)
	}

	if field.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(field.Type(), len(fileHeaders), len(fileHeaders))
		for i, fh := range fileHeaders {
			slice.Index(i).Set(reflect.ValueOf(fh))
		}
		field.Set(slice)
		return
	}

	if len(fileHeaders) > 0 {
		field.Set(reflect.ValueOf(fileHeaders[0]))
	}
}

// assignContextValue copies an ambient value into a field when the types line
// up. It reports whether the value was assigned.
func assignContextValue(field reflect.Value, value any) bool {
	v := reflect.ValueOf(value)
	t := field.Type()

	switch {
	case v.Type().AssignableTo(t):
		field.Set(v)
		return true
	case t.Kind() == reflect.Pointer && v.Type().AssignableTo(t.Elem()):
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		field.Set(ptr)
		return true
	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Type().Elem().AssignableTo(t):
		field.Set(v.Elem())
		return true
	}
	return false
}

// sanitizeStringValue removes characters that could be used in injection attacks.
// It drops NUL bytes, CR/LF, other control characters and invalid UTF-8
// bytes. Printable and format characters such as ZWJ are kept.
func sanitizeStringValue(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))

	for i := 0; i < len(value); {
		r, size := utf8.DecodeRuneInString(value[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if r != '\t' && unicode.IsControl(r) {
			continue
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

// sanitizeValue recursively sanitizes strings reachable from rv.
func sanitizeValue(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(sanitizeStringValue(rv.String()))
		}

	case reflect.Struct:
		for i := range rv.NumField() {
			if field := rv.Field(i); field.CanSet() {
				sanitizeValue(field)
			}
		}

	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			sanitizeValue(rv.Index(i))
		}

	case reflect.Map:
		if rv.IsNil() || rv.Type().Elem().Kind() != reflect.String {
			return
		}
		iter := rv.MapRange()
		for iter.Next() {
			rv.SetMapIndex(iter.Key(), reflect.ValueOf(sanitizeStringValue(iter.Value().String())).Convert(rv.Type().Elem()))
		}

	case reflect.Pointer, reflect.Interface:
		if !rv.IsNil() {
			sanitizeValue(rv.Elem())
		}
	}
}

// validateBoundary performs security validation on multipart form boundaries.
func validateBoundary(boundary string) bool {
	if boundary == "" || len(boundary) > 70 {
		return false
	}
	for _, r := range boundary {
		if r == '\x00' || r == '\r' || r == '\n' {
			return false
		}
	}
	return true
}

// sanitizeFilename removes path components and dangerous characters from uploaded filenames.
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}
	return filename
}
