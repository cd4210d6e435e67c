package auth

import (
	"strings"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/server/apperr"
)

// FromHeader validates an Authorization header value.
//
//   - empty header: apperr.ErrMissingAuthHeader
//   - not "Bearer <token>": apperr.ErrMalformedAuthHeader
//   - bad signature or expired: apperr.ErrInvalidToken
func FromHeader(header string, secretKey []byte) (Principal, error) {
	if header == "" {
		return Principal{}, apperr.ErrMissingAuthHeader
	}

	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return Principal{}, apperr.ErrMalformedAuthHeader
	}

	p, err := ParseToken(token, secretKey)
	if err != nil {
		return Principal{}, apperr.ErrInvalidToken.WithCause(err)
	}

	return p, nil
}

// Gate is FromHeader bound to a secret.
type Gate struct {
	secret []byte
}

func NewGate(secretKey string) *Gate {
	return &Gate{secret: []byte(secretKey)}
}

// Identify runs the gate over a header value.
func (g *Gate) Identify(header string) Identity {
	p, err := FromHeader(header, g.secret)
	if err != nil {
		return Anonymous(err)
	}
	return Authenticated(p)
}
