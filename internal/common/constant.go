// Package common contains shared constants and sentinel errors used across
// the socialfeed server layers.
package common

// AuthorizationHeaderName is the HTTP header that carries the session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header value.
const BearerPrefix = "Bearer "
