// Package domainerrors defines the coded error type shared by the PDPA gates,
// the HTTP boundary, and process bootstrap.
//
// Gates return *Error values; transports translate Code into a status via
// ToHTTPStatus and never inspect the message to decide behaviour.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeConsentMissing covers absent, malformed, and revoked consent records.
	// All three block a request identically.
	CodeConsentMissing Code = "consent_missing"
	// CodeServiceRoleForbidden covers a worker started with an elevated
	// credential or without its scoped credential. Always fatal at startup.
	CodeServiceRoleForbidden Code = "service_role_forbidden"

	CodeBadRequest      Code = "bad_request"
	CodeValidation      Code = "validation_error"
	CodePayloadTooLarge Code = "payload_too_large"
	CodeTimeout         Code = "timeout"
	CodeUnavailable     Code = "unavailable"
	CodeInternal        Code = "internal_error"
)

// Error is a domain error carrying a stable code and a human readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err's chain contains a domain error with code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// ToHTTPStatus maps a code to the status used by the HTTP boundary.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeConsentMissing:
		return http.StatusForbidden
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
