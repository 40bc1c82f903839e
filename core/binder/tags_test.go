package binder

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tag     string
		want    annotation
		wantErr bool
	}{
		{name: "bare marker", tag: "", want: annotation{}},
		{name: "literal key", tag: "id", want: annotation{key: "id"}},
		{name: "rename assignment", tag: "rename=id", want: annotation{key: "id"}},
		{name: "rename call", tag: "rename(id)", want: annotation{key: "id"}},
		{name: "rename call with spaces", tag: "rename( id )", want: annotation{key: "id"}},
		{name: "skip", tag: "-", want: annotation{skip: true}},
		{name: "dash key", tag: "-,", want: annotation{key: "-"}},
		{name: "key with codec options", tag: "name,omitempty", want: annotation{key: "name", opts: "omitempty"}},
		{name: "options only", tag: ",string", want: annotation{opts: "string"}},
		{name: "key prefixed with rename", tag: "renamed", want: annotation{key: "renamed"}},
		{name: "unbalanced parentheses", tag: "rename(id", wantErr: true},
		{name: "empty rename", tag: "rename=", wantErr: true},
		{name: "empty rename call", tag: "rename()", wantErr: true},
		{name: "whitespace in key", tag: "user id", wantErr: true},
		{name: "quote in key", tag: `"id"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseAnnotation(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedOrigin)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDefaultAnnotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag     string
		want    Origin
		wantErr bool
	}{
		{tag: "default", want: JSON},
		{tag: "default(form)", want: Form},
		{tag: "default=query", want: Query},
		{tag: "default( header )", want: Header},
		{tag: "default(format=form)", want: Form},
		{tag: "default(format(json))", want: JSON},
		{tag: "default(context)", want: Context},
		{tag: "default(xml)", wantErr: true},
		{tag: "default(form", wantErr: true},
		{tag: "default(format(form)", wantErr: true},
		{tag: "form", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()
			got, err := parseDefaultAnnotation(tt.tag)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedOrigin)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		origin     Origin
		typ        reflect.Type
		wantShape  Shape
		wantScalar reflect.Type
	}{
		{"path scalar", Path, reflect.TypeFor[int](), ShapeScalar, reflect.TypeFor[int]()},
		{"path option", Path, reflect.TypeFor[*int](), ShapeOption, reflect.TypeFor[int]()},
		{"path text unmarshaler", Path, reflect.TypeFor[uuid.UUID](), ShapeScalar, reflect.TypeFor[uuid.UUID]()},
		{"path optional uuid", Path, reflect.TypeFor[*uuid.UUID](), ShapeOption, reflect.TypeFor[uuid.UUID]()},
		{"header list", Header, reflect.TypeFor[[]string](), ShapeList, reflect.TypeFor[string]()},
		{"header option list", Header, reflect.TypeFor[*[]int](), ShapeOptionList, reflect.TypeFor[int]()},
		{"query passes pointer through", Query, reflect.TypeFor[*int](), ShapeScalar, reflect.TypeFor[*int]()},
		{"json passes slice through", JSON, reflect.TypeFor[[]int](), ShapeScalar, reflect.TypeFor[[]int]()},
		{"form passes option list through", Form, reflect.TypeFor[*[]int](), ShapeScalar, reflect.TypeFor[*[]int]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			shape, scalar := classify(tt.origin, tt.typ)
			assert.Equal(t, tt.wantShape, shape)
			assert.Equal(t, tt.wantScalar, scalar)
		})
	}
}

func TestOrigin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Origin{Path, Context, Header, Query, JSON, Form}, Origins())

	for _, o := range Origins() {
		parsed, err := ParseOrigin(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
		assert.Equal(t, o.String(), o.TagKey())
	}

	o, err := ParseOrigin(" Context ")
	require.NoError(t, err)
	assert.Equal(t, Context, o)

	_, err = ParseOrigin("cookie")
	assert.ErrorIs(t, err, ErrUnsupportedOrigin)

	assert.True(t, JSON.IsBody())
	assert.True(t, Form.IsBody())
	assert.False(t, Query.IsBody())
	assert.True(t, Context.AlwaysAvailable())
	assert.False(t, Form.AlwaysAvailable())
	assert.Equal(t, "origin(42)", Origin(42).String())
}

func TestLenientList(t *testing.T) {
	t.Parallel()

	list, failed := lenientList(reflect.TypeFor[[]int](), []string{"1, 2,x", "4"}, false)
	assert.Equal(t, []int{1, 2, 0, 4}, list.Interface())
	assert.Equal(t, 1, failed)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"true", "1", "on", "YES", " t "} {
		b, err := parseBool(raw)
		require.NoError(t, err, raw)
		assert.True(t, b, raw)
	}
	for _, raw := range []string{"false", "0", "off", "no", ""} {
		b, err := parseBool(raw)
		require.NoError(t, err, raw)
		assert.False(t, b, raw)
	}
	_, err := parseBool("maybe")
	assert.Error(t, err)
}

func TestSanitizeStringValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab", sanitizeStringValue("a\x00b"))
	assert.Equal(t, "headerinjected", sanitizeStringValue("header\r\ninjected"))
	assert.Equal(t, "a\tb", sanitizeStringValue("a\tb"))
	assert.Equal(t, "ab", sanitizeStringValue("a\x07b"))
	assert.Equal(t, "ab", sanitizeStringValue("a\x7fb"))
	assert.Equal(t, "ab", sanitizeStringValue("a\xffb"))

	// Format characters and replacement runes are regular text.
	family := "\U0001F468\u200d\U0001F469\u200d\U0001F467"
	assert.Equal(t, family, sanitizeStringValue(family))
	assert.Equal(t, "fam\u00adily", sanitizeStringValue("fam\u00adily"))
	assert.Equal(t, "\u200fabc\u200e", sanitizeStringValue("\u200fabc\u200e"))
	assert.Equal(t, "a\ufffdb", sanitizeStringValue("a\ufffdb"))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "file.txt", sanitizeFilename(`C:\Users\file.txt`))
	assert.Equal(t, "unnamed", sanitizeFilename(".."))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
}

func TestValidateBoundary(t *testing.T) {
	t.Parallel()

	assert.True(t, validateBoundary("abc123"))
	assert.False(t, validateBoundary(""))
	assert.False(t, validateBoundary("a\r\nb"))
	assert.False(t, validateBoundary(string(make([]byte, 71))))
}
