package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// HashPassword returns the salted bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
