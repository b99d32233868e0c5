// Package httputil centralises JSON response writing for handlers and middleware.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "containerbase/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status and error envelope. Messages of
// errors that map to 500 are never shown to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	description := ""
	if de, ok := dErrors.As(err); ok {
		code = de.Code
		description = de.Error()
	}

	status := dErrors.ToHTTPStatus(code)
	if status == http.StatusInternalServerError {
		code = dErrors.CodeInternal
		description = ""
	}

	WriteJSON(w, status, ErrorResponse{
		Error:            string(code),
		ErrorDescription: description,
	})
}
