package binder

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
)

const (
	mimeFormURLEncoded = "application/x-www-form-urlencoded"
	mimeMultipartForm  = "multipart/form-data"
	formMediaTypes     = mimeFormURLEncoded + " or " + mimeMultipartForm
)

// formStep decodes the form group from a URL-encoded or multipart body.
// When the record also has a JSON group and the request carries JSON, the
// body belongs to the JSON group and this step is skipped.
func formStep(fields []FieldSpec, hasJSON bool) func(st *state) error {
	hasFiles := false
	for _, f := range fields {
		if isFileType(f.Type) {
			hasFiles = true
		}
	}

	return func(st *state) error {
		if !st.hasBody() {
			return nil
		}
		contentType, mt := st.contentType()
		if hasJSON && isJSONMediaType(mt) {
			return nil
		}

		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)

		switch mt {
		case mimeFormURLEncoded:
			body, err := st.readBody(Form, ErrFailedToParseForm)
			if err != nil {
				return err
			}
			parsed, err := url.ParseQuery(string(body))
			if err != nil {
				return decodeErr(Form, ErrFailedToParseForm, "%v", err)
			}
			values = parsed

		case mimeMultipartForm:
			form, err := st.readMultipart(contentType)
			if err != nil {
				return err
			}
			values, files = form.Value, form.File
			switch {
			case st.req.attachForm != nil:
				st.req.attachForm(form)
			case !hasFiles:
				_ = form.RemoveAll()
			}

		default:
			return st.mismatch(Form, mt, formMediaTypes)
		}

		sanitize := st.cfg.SanitizeStrings
		for i := range fields {
			f := &fields[i]
			field := st.target.Field(f.Index)

			if isFileType(f.Type) {
				if fileHeaders, ok := files[f.Key]; ok && len(fileHeaders) > 0 {
					setFileField(field, fileHeaders)
				}
				continue
			}

			fieldValues, ok := values[f.Key]
			if !ok || len(fieldValues) == 0 {
				continue
			}
			if err := setFieldValue(field, fieldValues, sanitize); err != nil {
				return decodeErr(Form, ErrFailedToParseForm, "field %s: %v", f.Name, err)
			}
		}
		return nil
	}
}

// readMultipart streams a multipart body; parts beyond MaxMemory spill to disk.
func (st *state) readMultipart(contentType string) (*multipart.Form, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, decodeErr(Form, ErrFailedToParseForm, "malformed content type with boundary")
	}
	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return nil, decodeErr(Form, ErrFailedToParseForm, "missing boundary in content type")
	}
	if !validateBoundary(boundary) {
		return nil, decodeErr(Form, ErrFailedToParseForm, "invalid boundary parameter")
	}

	body, err := st.takeBody(Form)
	if err != nil {
		return nil, err
	}
	limited := http.MaxBytesReader(nil, io.NopCloser(body), st.cfg.MaxMultipartSize)

	form, err := multipart.NewReader(limited, boundary).ReadForm(st.cfg.MaxMemory)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, decodeErr(Form, ErrRequestBodyTooLarge, "max %d bytes", st.cfg.MaxMultipartSize)
		case st.ctx.Err() != nil:
			return nil, decodeErr(Form, ErrRequestCanceled, "%v", st.ctx.Err())
		}
		return nil, decodeErr(Form, ErrFailedToParseForm, "%v", err)
	}
	return form, nil
}
