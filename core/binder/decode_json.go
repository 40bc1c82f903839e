package binder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

const mimeJSON = "application/json"

// isJSONMediaType matches application/json and any +json suffix type.
func isJSONMediaType(mt string) bool {
	return mt == mimeJSON || strings.HasSuffix(mt, "+json")
}

// jsonStructType synthesizes the anonymous decode target of a JSON group:
// one field per group member, tagged with its lookup key and codec options.
func jsonStructType(fields []FieldSpec) reflect.Type {
	sfs := make([]reflect.StructField, len(fields))
	for i, f := range fields {
		name := f.Key
		switch {
		case f.CodecOptions != "":
			name += "," + f.CodecOptions
		case name == "-":
			name = "-,"
		}
		sfs[i] = reflect.StructField{
			Name: f.Name,
			Type: f.Type,
			Tag:  reflect.StructTag(fmt.Sprintf("json:%q", name)),
		}
	}
	return reflect.StructOf(sfs)
}

// jsonStep decodes the JSON group. It runs only when the content type is JSON;
// otherwise the content type policy decides between rejecting and skipping.
func jsonStep(fields []FieldSpec, decodeType reflect.Type) func(st *state) error {
	return func(st *state) error {
		_, mt := st.contentType()
		if !st.hasBody() {
			if isJSONMediaType(mt) {
				return decodeErr(JSON, ErrFailedToParseJSON, "empty body")
			}
			return nil
		}
		if !isJSONMediaType(mt) {
			return st.mismatch(JSON, mt, mimeJSON)
		}

		body, err := st.readBody(JSON, ErrFailedToParseJSON)
		if err != nil {
			return err
		}

		// Seed the decode target so defaults survive keys the body lacks.
		tmp := reflect.New(decodeType).Elem()
		for i, f := range fields {
			tmp.Field(i).Set(st.target.Field(f.Index))
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		if st.cfg.DisallowUnknownFields {
			decoder.DisallowUnknownFields()
		}
		if err := decoder.Decode(tmp.Addr().Interface()); err != nil {
			if errors.Is(err, io.EOF) {
				return decodeErr(JSON, ErrFailedToParseJSON, "empty body")
			}
			return decodeErr(JSON, ErrFailedToParseJSON, "%v", err)
		}

		// Verify no trailing data exists after valid JSON to prevent injection attacks
		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return decodeErr(JSON, ErrFailedToParseJSON, "unexpected data after JSON object")
		}

		for i, f := range fields {
			field := st.target.Field(f.Index)
			field.Set(tmp.Field(i))
			if st.cfg.SanitizeStrings {
				sanitizeValue(field)
			}
		}
		return nil
	}
}
