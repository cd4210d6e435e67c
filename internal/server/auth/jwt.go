// Package auth is the credential service and authorization gate: password
// hashing, session token issue/parse, and turning an Authorization header
// into a Principal carried through the request context.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the principal fields plus registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// GenerateToken signs an HS256 token for p that expires after validity.
func GenerateToken(p Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   p.ID,
		Email:    p.Email,
		Username: p.Username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the encoded
// principal. Expired tokens yield common.ErrTokenExpired; everything else
// that fails yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, common.ErrTokenExpired
		}
		return Principal{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.Username == "" {
		return Principal{}, common.ErrInvalidToken
	}

	return Principal{ID: claims.UserID, Email: claims.Email, Username: claims.Username}, nil
}
