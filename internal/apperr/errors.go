// Package apperr defines the error taxonomy shared by the storefront
// components. Every error that reaches a handler is converted into a
// user-visible message and an HTTP status; nothing here is fatal.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindValidation
	KindNotFound
	KindAuthRequired
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthRequired:
		return "auth_required"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks.
var (
	ErrNetwork      = errors.New("network error")
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
)

type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "cart.update".
	Op string
	// Msg is safe to show to the end user.
	Msg string
	// Status is the upstream HTTP status, when the error came from one.
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind. An AuthRequired error also
// matches ErrValidation: a cart mutation without a session is a failed
// precondition of the request.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrValidation:
		return e.Kind == KindValidation || e.Kind == KindAuthRequired
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrAuthRequired:
		return e.Kind == KindAuthRequired
	case ErrForbidden:
		return e.Kind == KindForbidden
	}
	return false
}

func Network(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Msg: "upstream request failed", Err: err}
}

func Upstream(op string, status int, msg string) *Error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindNetwork, Op: op, Msg: msg, Status: status}
}

func Validation(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func NotFound(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func AuthRequired(op string) *Error {
	return &Error{Kind: KindAuthRequired, Op: op, Msg: "sign in required"}
}

func Forbidden(op, msg string) *Error {
	return &Error{Kind: KindForbidden, Op: op, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps err onto the status the storefront answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-visible text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "internal server error"
}
