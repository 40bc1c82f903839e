package response

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// Response is a function that renders an HTTP response.
type Response func(w http.ResponseWriter, r *http.Request) error

// Render executes the response. If rendering fails, it writes a plain 500.
func Render(w http.ResponseWriter, r *http.Request, resp Response) {
	if err := resp(w, r); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// JSON creates an application/json response with 200 OK status.
func JSON(v any) Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// JSON encoding is performed directly to the response writer.
func JSONWithStatus(v any, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}

		w.WriteHeader(status)

		// No body for 204 or 304
		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}

		return json.NewEncoder(w).Encode(v)
	}
}

// Error writes err as a JSON error body. Binder errors are mapped with BindError.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := BindError(err)
	Render(w, r, JSONWithStatus(httpErr, httpErr.Status))
}
