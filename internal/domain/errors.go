package domain

import (
	"fmt"
	"net/http"
)

// ErrorKind is the normalized outcome of a failed request
type ErrorKind string

const (
	ErrorKindUnauthorized           ErrorKind = "UNAUTHORIZED"
	ErrorKindForbiddenNotAuthorized ErrorKind = "FORBIDDEN_NOT_AUTHORIZED"
	ErrorKindNotFound               ErrorKind = "NOT_FOUND"
	ErrorKindTooManyRequests        ErrorKind = "TOO_MANY_REQUESTS"
	ErrorKindValidation             ErrorKind = "VALIDATION_ERROR"
	ErrorKindInternal               ErrorKind = "INTERNAL_ERROR"
	ErrorKindUnhandledStatus        ErrorKind = "UNHANDLED_STATUS"
)

// GenericErrorReason is the reason reported for opaque upstream failures
const GenericErrorReason = "Generic Error"

// ErrorResponse is what callers of the payment operations see on failure.
// It is built per call and never shared.
type ErrorResponse struct {
	Kind   ErrorKind
	Title  string
	Detail string
	// UpstreamStatus is set only for ErrorKindUnhandledStatus
	UpstreamStatus int
}

// Error implements the error interface so an ErrorResponse can travel as an error
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Title, e.Detail)
}

// StatusCode returns the HTTP status this response is served with.
// Unhandled upstream statuses surface as internal errors.
func (e *ErrorResponse) StatusCode() int {
	switch e.Kind {
	case ErrorKindUnauthorized:
		return http.StatusUnauthorized
	case ErrorKindForbiddenNotAuthorized:
		return http.StatusForbidden
	case ErrorKindNotFound:
		return http.StatusNotFound
	case ErrorKindTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorKindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ProblemJSON is the application/problem+json body
type ProblemJSON struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Status int    `json:"status"`
}

// Problem renders the response as a problem+json document
func (e *ErrorResponse) Problem() ProblemJSON {
	return ProblemJSON{
		Title:  e.Title,
		Detail: e.Detail,
		Status: e.StatusCode(),
	}
}

func NewUnauthorized(title, detail string) *ErrorResponse {
	return &ErrorResponse{Kind: ErrorKindUnauthorized, Title: title, Detail: detail}
}

func NewForbiddenNotAuthorized() *ErrorResponse {
	return &ErrorResponse{
		Kind:   ErrorKindForbiddenNotAuthorized,
		Title:  "You are not allowed here",
		Detail: "You do not have enough permission to complete the operation you requested",
	}
}

func NewNotFound(title, detail string) *ErrorResponse {
	return &ErrorResponse{Kind: ErrorKindNotFound, Title: title, Detail: detail}
}

func NewTooManyRequests(detail string) *ErrorResponse {
	return &ErrorResponse{Kind: ErrorKindTooManyRequests, Title: "Too many requests", Detail: detail}
}

func NewValidationError(title, detail string) *ErrorResponse {
	return &ErrorResponse{Kind: ErrorKindValidation, Title: title, Detail: detail}
}

// NewInternalError reports reason as the detail of a 500 response
func NewInternalError(reason string) *ErrorResponse {
	return &ErrorResponse{Kind: ErrorKindInternal, Title: "Internal server error", Detail: reason}
}

// NewUnhandledStatus wraps an upstream status this service has no mapping for
func NewUnhandledStatus(status int) *ErrorResponse {
	return &ErrorResponse{
		Kind:           ErrorKindUnhandledStatus,
		Title:          "Internal server error",
		Detail:         fmt.Sprintf("unhandled API response status [%d]", status),
		UpstreamStatus: status,
	}
}
