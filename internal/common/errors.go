package common

import "errors"

// Sentinel errors shared by repositories and the credential layer. Callers
// should use errors.Is to match these values; services translate them into
// client-facing apperr values.
var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors (invalid signature, malformed or wrong algorithm).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// UniqueViolation describes a unique-constraint failure reported by a
// repository. Field names the violated column ("username" or "email") when
// the backend can tell; it is empty otherwise.
type UniqueViolation struct {
	Field string
	Err   error
}

func (e *UniqueViolation) Error() string {
	if e.Field == "" {
		return "unique violation"
	}
	return "unique violation on " + e.Field
}

// Unwrap lets errors.Is(err, ErrorAlreadyExists) match every violation.
func (e *UniqueViolation) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrorAlreadyExists}
	}
	return []error{ErrorAlreadyExists, e.Err}
}
