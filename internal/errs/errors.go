// Package errs defines the error taxonomy surfaced by the vault core.
// Callers receive a stable code per category and a human-readable message;
// the wrapped cause is for server-side logs only and is never serialized in
// production mode.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shruthikaa3007/secure-document-vault/internal/store"
)

// Stable error codes, one per failure category.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeAccessDenied  = "ACCESS_DENIED"
	CodeConfiguration = "CONFIG_ERROR"
	CodeEncryption    = "ENCRYPTION_ERROR"
	CodeDecryption    = "DECRYPTION_ERROR"
	CodeIntegrity     = "HASH_VERIFICATION_FAILED"
	CodeInternal      = "INTERNAL_ERROR"
)

// Error is a categorized failure. It implements the standard `error`
// interface and unwraps to its cause so callers can use errors.Is/As.
type Error struct {
	// Code is the stable machine-readable category.
	Code string `json:"code"`
	// Status is the HTTP-equivalent status for transport layers.
	Status int `json:"status"`
	// Message is the user-facing description.
	Message string `json:"message"`
	// Details carries field-level validation messages, when present.
	Details []string `json:"details,omitempty"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// --- Constructors ---

// Validation creates an error for bad input shape, with optional field-level detail.
func Validation(message string, details ...string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message, Details: details}
}

// NotFound creates an error for a missing document or user.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

// Forbidden creates an error for a denied operation.
func Forbidden(message string) *Error {
	return &Error{Code: CodeAccessDenied, Status: http.StatusForbidden, Message: message}
}

// Configuration creates an error for bad or missing key material. It is a
// fatal startup condition for anything touching the encryption subsystem.
func Configuration(message string) *Error {
	return &Error{Code: CodeConfiguration, Status: http.StatusInternalServerError, Message: message}
}

// Encryption wraps a failed encrypt operation. The cause stays server-side.
func Encryption(cause error) *Error {
	return &Error{Code: CodeEncryption, Status: http.StatusInternalServerError, Message: "Error encrypting document", cause: cause}
}

// Decryption wraps a failed decrypt operation, including truncated blobs and
// invalid padding, which is treated as a tamper or corruption signal.
func Decryption(cause error) *Error {
	return &Error{Code: CodeDecryption, Status: http.StatusInternalServerError, Message: "Error decrypting document", cause: cause}
}

// Integrity creates the distinct hash-mismatch error. It is surfaced
// separately from generic decryption failure and is always audited.
func Integrity() *Error {
	return &Error{
		Code:    CodeIntegrity,
		Status:  http.StatusBadRequest,
		Message: "Document integrity check failed. The file may have been tampered with.",
	}
}

// Internal wraps an unexpected server-side failure behind a generic message.
func Internal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "An unexpected error occurred. Please try again later.",
		cause:   cause,
	}
}

// --- Translation ---

// FromStoreError translates errors from the store layer into specific
// categories. This keeps callers decoupled from the persistence
// implementation details.
func FromStoreError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("The requested resource could not be found")
	}
	return Internal(err)
}

// CodeOf returns the stable code carried by err, or CodeInternal when err is
// not part of the taxonomy.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
