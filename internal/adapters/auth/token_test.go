package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue("relayer-client", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "relayer-client", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.Equal(t, notificationsScope, claims.Scope)
}

func TestJWTVerifier_Verify(t *testing.T) {
	secret := "test-secret"
	good, err := NewJWTIssuer(secret).Issue("relayer-client", time.Hour)
	require.NoError(t, err)
	expired, err := NewJWTIssuer(secret).Issue("relayer-client", -time.Minute)
	require.NoError(t, err)
	otherSecret, err := NewJWTIssuer("other").Issue("relayer-client", time.Hour)
	require.NoError(t, err)

	noScope, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "relayer-client",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "relayer-client",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scope: notificationsScope,
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantSub string
		wantErr bool
	}{
		{name: "valid", token: good, wantSub: "relayer-client"},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: otherSecret, wantErr: true},
		{name: "missing scope", token: noScope, wantErr: true},
		{name: "unexpected algorithm", token: hs512, wantErr: true},
		{name: "garbage", token: "not.a.jwt", wantErr: true},
	}

	verifier := NewJWTVerifier(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := verifier.Verify(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, sub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, sub)
		})
	}
}
