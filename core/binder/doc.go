// Package binder populates typed request records from the parts of an HTTP
// request: path parameters, context values, headers, the query string and a
// JSON or form body.
//
// Each record type is compiled once into an immutable Plan. Compilation reads
// the struct tags, resolves every field's origin and lookup key, checks the
// record for origin conflicts and synthesizes one decode step per origin.
// Executing the plan runs those steps against a request and returns a fresh
// record. Plans are safe for concurrent use.
//
// # Annotations
//
// One struct tag key per origin marks where a field comes from:
//
//	type GetOrder struct {
//		UserID  int64     `path:"user_id"`
//		TraceID uuid.UUID `ctx:"request_id"`
//		Token   string    `header:"X-Token"`
//		Expand  []string  `query:"expand"`
//		Note    string    `json:"note"`
//	}
//
// Annotation values accept these shapes:
//
//	`path:""`           lookup key is the field name
//	`path:"id"`         lookup key is "id"
//	`path:"rename=id"`  same as above
//	`path:"rename(id)"` same as above
//	`path:"-"`          field is not bound
//
// The origin-independent `bind` tag renames (`bind:"rename(id)"`) or skips
// (`bind:"-"`) a field; its rename wins over the origin annotation's key.
// When a field carries several origin annotations, the first one in priority
// order wins: path, ctx, header, query, json, form.
//
// # Record Default Origin
//
// Fields without an origin annotation use the record default origin, which
// is JSON unless the record declares otherwise with a marker field:
//
//	type Feedback struct {
//		_       struct{} `bind:"default(form)"`
//		Message string
//		Rating  int
//	}
//
// Only one body format is decoded per request, so a field bound to JSON or
// form must use the record default origin. Compile reports any other field as
// ErrConflictingFieldOrigin. Path, context, header and query fields may be
// mixed freely with either body origin.
//
// The default can also come from WithDefaultOrigin or from a FieldTable,
// which declares origins in YAML instead of tags.
//
// # Shapes and Conversion
//
// Path and header values are flat strings. Fields bound to them may be T, *T,
// []T or *[]T where T is a string, bool, number or encoding.TextUnmarshaler.
// List values are split on commas. Numbers, booleans and list items are
// trimmed of surrounding whitespace before conversion, so " 42" binds 42
// and "a, b" binds ["a" "b"]. Conversion is lenient:
//
//   - a scalar that does not parse keeps its default
//   - an optional value that does not parse becomes nil
//   - a list item that does not parse becomes the zero value
//
// Query and form values are strict: a value that does not convert rejects
// the request with ErrFailedToParseQuery or ErrFailedToParseForm.
//
// # Usage
//
//	var getOrder = binder.MustCompile[GetOrder](
//		binder.WithLogger(log),
//		binder.WithContextKey("request_id", requestIDKey{}),
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		req, err := getOrder.BindHTTP(r, binder.Extract(r, chi.URLParam))
//		if err != nil {
//			response.Error(w, err)
//			return
//		}
//		// use req
//	}
//
// Bind[T] uses a process-wide plan cache for one-off handlers:
//
//	req, err := binder.Bind[GetOrder](r, binder.StdPath(r))
//
// # Request Bodies
//
// The body is read at most once. JSON bodies require application/json or a
// +json media type; form bodies require application/x-www-form-urlencoded or
// multipart/form-data. A mismatched content type is rejected under
// PolicyStrict and skipped under PolicyLenient. A request without a body
// skips body fields under both policies, unless it declares a JSON content
// type: an empty JSON body fails with ErrFailedToParseJSON.
//
// Size limits come from Config. Oversized bodies fail with
// ErrRequestBodyTooLarge. If the request context is done before or while the
// body is read, binding fails with ErrRequestCanceled.
//
// # Error Handling
//
// Compile returns *SchemaError values wrapping ErrUnsupportedOrigin,
// ErrConflictingFieldOrigin, ErrUnsupportedFieldType, ErrUnknownField or
// ErrInvalidTarget. Bind returns *DecodeError values wrapping the request
// errors, so callers can branch with errors.Is:
//
//	if errors.Is(err, binder.ErrContentTypeMismatch) {
//		// 415
//	}
package binder
