package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/reqbind/core/binder"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// BindError converts an error returned by the binder into an HTTPError.
// Request-time rejections become client errors carrying the origin that
// failed; schema errors mean the record type is broken and become 500.
func BindError(err error) HTTPError {
	var decodeErr *binder.DecodeError
	if errors.As(err, &decodeErr) {
		var base HTTPError
		switch {
		case errors.Is(err, binder.ErrContentTypeMismatch):
			base = ErrUnsupportedMediaType
		case errors.Is(err, binder.ErrRequestBodyTooLarge):
			base = ErrRequestEntityTooLarge
		default:
			base = ErrBadRequest.WithMessage(rejectionMessage(err))
		}
		return base.WithDetail("origin", decodeErr.Origin.String()).WithError(decodeErr.Err)
	}

	var schemaErr *binder.SchemaError
	if errors.As(err, &schemaErr) {
		// Schema details describe server code; keep them out of the response body.
		return ErrInternalServerError
	}

	return convertToHTTPError(err)
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, binder.ErrFailedToParseJSON):
		return "Invalid JSON body"
	case errors.Is(err, binder.ErrFailedToParseForm):
		return "Invalid form data"
	case errors.Is(err, binder.ErrFailedToParseQuery):
		return "Invalid query parameters"
	case errors.Is(err, binder.ErrRequestCanceled):
		return "Request canceled"
	}
	return http.StatusText(http.StatusBadRequest)
}

// convertToHTTPError converts any error to an HTTPError
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError

	// First check if it's already an HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = ErrInternalServerError
	}
	if status == http.StatusInternalServerError {
		return baseErr
	}
	return baseErr.WithError(err)
}
