package auth

import (
	"context"

	"github.com/dmitrijs2005/socialfeed/internal/server/apperr"
)

// Principal is the authenticated identity attached to a request. It is
// taken from the token as of issuance and never re-read from the store.
type Principal struct {
	ID       string
	Email    string
	Username string
}

// Identity is the result of running the gate for one request: either a
// principal or the reason there is none.
type Identity struct {
	principal Principal
	err       error
}

// Authenticated builds an Identity for a verified principal.
func Authenticated(p Principal) Identity {
	return Identity{principal: p}
}

// Anonymous builds an Identity that failed with err.
func Anonymous(err error) Identity {
	return Identity{err: err}
}

// Principal returns the principal, or the gate failure.
func (i Identity) Principal() (Principal, error) {
	if i.err != nil {
		return Principal{}, i.err
	}
	if i.principal.Username == "" {
		return Principal{}, apperr.ErrMissingAuthHeader
	}
	return i.principal, nil
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the Identity stored in ctx. A context that never
// passed the gate reads as a missing Authorization header.
func IdentityFrom(ctx context.Context) Identity {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Anonymous(apperr.ErrMissingAuthHeader)
	}
	return id
}

// Require returns the request principal or the Unauthenticated error the
// gate produced for the request.
func Require(ctx context.Context) (Principal, error) {
	return IdentityFrom(ctx).Principal()
}
