// Package apperr defines the client-facing error taxonomy of the API. Every
// failure a resolver returns is an *Error carrying a Kind, so callers branch
// on the kind (or on errors.Is against the predefined values) instead of
// parsing message text.
package apperr

import (
	"errors"
	"maps"
)

// Kind classifies an Error.
type Kind int

const (
	// KindStore is an underlying persistence failure, not further classified.
	KindStore Kind = iota
	// KindValidation carries field-keyed messages in Fields.
	KindValidation
	// KindConflict is a uniqueness clash (username or email taken).
	KindConflict
	// KindNotFound covers missing users, posts and comments.
	KindNotFound
	// KindUnauthorized means the principal is known but not allowed.
	KindUnauthorized
	// KindUnauthenticated means the request carries no usable identity.
	KindUnauthenticated
)

// Code returns the stable GraphQL extension code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "BAD_USER_INPUT"
	case KindConflict:
		return "CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnauthorized:
		return "FORBIDDEN"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "store"
	}
}

// Error is the tagged error returned to API callers.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps an input field name to its message. Set for KindValidation.
	Fields map[string]string
	// Err is the underlying cause; it is never shown to the client.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same kind and message,
// so a predefined value matches copies that carry a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Extensions is picked up by the GraphQL executor and rendered under
// "extensions" in the response.
func (e *Error) Extensions() map[string]any {
	ext := map[string]any{"code": e.Kind.Code()}
	if len(e.Fields) > 0 {
		ext["errors"] = maps.Clone(e.Fields)
	}
	return ext
}

// WithCause returns a copy of e that wraps err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// Validation builds a KindValidation error from field messages.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Errors", Fields: fields}
}

// Store wraps a persistence failure. The message stays generic.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: "internal error", Err: err}
}

// From returns err as an *Error. Anything that is not already tagged is
// treated as a store failure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Store(err)
}

// KindOf reports the kind of err, KindStore for untagged errors.
func KindOf(err error) Kind {
	return From(err).Kind
}

// Predefined errors. Compare with errors.Is.
var (
	ErrMissingAuthHeader   = &Error{Kind: KindUnauthenticated, Message: "Authorization header must be provided"}
	ErrMalformedAuthHeader = &Error{Kind: KindUnauthenticated, Message: "Authentication token must be 'Bearer [token]'"}
	ErrInvalidToken        = &Error{Kind: KindUnauthenticated, Message: "Invalid/Expired token"}

	ErrUsernameTaken = &Error{Kind: KindConflict, Message: "Username is taken"}
	ErrEmailTaken    = &Error{Kind: KindConflict, Message: "Email is taken"}

	ErrUserNotFound    = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrPostNotFound    = &Error{Kind: KindNotFound, Message: "Post not found"}
	ErrCommentNotFound = &Error{Kind: KindNotFound, Message: "Comment not found"}

	ErrWrongCredentials = &Error{Kind: KindUnauthorized, Message: "Wrong credentials"}
	ErrNotOwner         = &Error{Kind: KindUnauthorized, Message: "Action not allowed"}
)
