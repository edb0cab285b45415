package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kinds. Every expected failure wraps exactly one of these.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("Unauthenticated. Invalid or expired token.")
	ErrForbidden          = errors.New("You do not have permission to access this resource")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrConflict           = errors.New("conflict")
)

var (
	// ErrUserNotFound is returned when a user id does not exist.
	ErrUserNotFound = newKindError("User not found", ErrNotFound)
	// ErrCategoryNotFound is returned when a category id does not exist.
	ErrCategoryNotFound = newKindError("Category not found", ErrNotFound)
	// ErrProductNotFound is returned when a product id does not exist.
	ErrProductNotFound = newKindError("Product not found", ErrNotFound)
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = newKindError("The email has already been taken.", ErrConflict)
	// ErrCategoryInUse is returned when deleting a category that still has products.
	ErrCategoryInUse = newKindError("The category still has products and cannot be deleted.", ErrConflict)
)

type kindError struct {
	msg  string
	kind error
}

func newKindError(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// ValidationError carries field-level messages for a rejected payload.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// FieldError builds a ValidationError holding a single message.
func FieldError(field, msg string) *ValidationError {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

// Add appends msg to the messages of field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Merge appends every message of other.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, m := range msgs {
			e.Add(field, m)
		}
	}
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns e as an error, or nil when it holds no messages.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorResponse is the envelope of every non-validation failure.
type ErrorResponse struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

// ValidationErrorResponse is the envelope of a 422.
type ValidationErrorResponse struct {
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors"`
	StatusCode int                 `json:"status_code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error. Code defaults to the status text.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	if code == "" {
		code = http.StatusText(statusCode)
	}
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message:    e.Message,
		Error:      e.Code,
		StatusCode: e.StatusCode,
	}
}

// InternalMessage is the only message a client sees for a 500.
const InternalMessage = "Internal server error"

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// sanitized 500.
func MapErrorToHTTP(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "")
	default:
		return NewHTTPError(http.StatusInternalServerError, InternalMessage, "")
	}
}
