package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/server/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHeader(t *testing.T) {
	secret := []byte("gate-secret")

	valid, err := GenerateToken(alice, secret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(alice, secret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		want    Principal
		wantErr error
	}{
		{name: "missing", header: "", wantErr: apperr.ErrMissingAuthHeader},
		{name: "no bearer prefix", header: valid, wantErr: apperr.ErrMalformedAuthHeader},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: apperr.ErrMalformedAuthHeader},
		{name: "bearer without token", header: "Bearer ", wantErr: apperr.ErrMalformedAuthHeader},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantErr: apperr.ErrInvalidToken},
		{name: "expired", header: "Bearer " + expired, wantErr: apperr.ErrInvalidToken},
		{name: "valid", header: "Bearer " + valid, want: alice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHeader(tt.header, secret)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromHeader_ExpiredKeepsCause(t *testing.T) {
	secret := []byte("s")
	expired, err := GenerateToken(alice, secret, -time.Minute)
	require.NoError(t, err)

	_, err = FromHeader("Bearer "+expired, secret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGate_IdentifyAndRequire(t *testing.T) {
	g := NewGate("k")
	tok, err := GenerateToken(alice, []byte("k"), time.Hour)
	require.NoError(t, err)

	ctx := WithIdentity(context.Background(), g.Identify("Bearer "+tok))
	p, err := Require(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, p)

	ctx = WithIdentity(context.Background(), g.Identify("Token "+tok))
	_, err = Require(ctx)
	assert.ErrorIs(t, err, apperr.ErrMalformedAuthHeader)
}

func TestRequire_WithoutGate(t *testing.T) {
	_, err := Require(context.Background())
	assert.ErrorIs(t, err, apperr.ErrMissingAuthHeader)
}

func TestIdentity_ZeroPrincipalIsAnonymous(t *testing.T) {
	_, err := Authenticated(Principal{}).Principal()
	assert.ErrorIs(t, err, apperr.ErrMissingAuthHeader)
}
