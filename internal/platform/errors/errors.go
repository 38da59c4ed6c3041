package errors

import (
	stderrors "errors"
	"net/http"
)

// Error is a typed application failure.
type Error struct {
	Kind    Kind   // Machine-readable classification
	Message string // Client-safe message
	Cause   error  // Wrapped underlying error, never shown to clients
}

// Error renders the message, falling back to the kind.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
	}
	return false
}

// E builds a typed error.
func E(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a typed error around an underlying cause.
func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the first typed error in the chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	return appErr.Kind
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return KindOf(err).HTTPStatus()
}

// PublicMessage returns the client-safe message for err. Untyped and internal
// errors collapse to the generic status text so causes never leak.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if stderrors.As(err, &appErr) && appErr.Kind != KindUnknown && appErr.Message != "" {
		return appErr.Message
	}
	return http.StatusText(HTTPStatus(err))
}
