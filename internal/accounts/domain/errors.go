package domain

import "net/http"

// ErrorKind discriminates service failures. Each kind has a fixed HTTP
// status so transport code never has to guess.
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "bad_request"
	KindNotAuthenticated ErrorKind = "not_authenticated"
	KindNotAuthorized    ErrorKind = "not_authorized"
	KindNotFound         ErrorKind = "not_found"
	KindUnprocessable    ErrorKind = "unprocessable_entity"
	KindInternal         ErrorKind = "internal"
)

// Error is the tagged error value services raise. Details are safe to show
// to clients for every kind except KindInternal, whose details stay in the
// logs.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details any
}

func (e *Error) Error() string { return e.Message }

// IsInternal reports whether details must be suppressed at the boundary.
func (e *Error) IsInternal() bool { return e.Kind == KindInternal }

func BadRequest(details any) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Status:  http.StatusBadRequest,
		Message: "your request contains invalid or missing data",
		Details: details,
	}
}

func NotAuthenticated(message string) *Error {
	return &Error{
		Kind:    KindNotAuthenticated,
		Status:  http.StatusUnauthorized,
		Message: message,
	}
}

func NotAuthorized(message string) *Error {
	return &Error{
		Kind:    KindNotAuthorized,
		Status:  http.StatusForbidden,
		Message: message,
	}
}

func NotFound(message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: message,
	}
}

func Unprocessable(message string) *Error {
	return &Error{
		Kind:    KindUnprocessable,
		Status:  http.StatusUnprocessableEntity,
		Message: message,
	}
}

// Internal wraps an unexpected failure. The cause lands in Details for the
// boundary logger; callers only ever see the generic message.
func Internal(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: "an internal error occurred",
		Details: cause,
	}
}
