package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/auth"
)

var secret = []byte("test-secret")

func TestSignAndVerify(t *testing.T) {
	tok, err := auth.SignToken("665f1c2e9b1e8a0012345678", secret, time.Hour)
	require.NoError(t, err)

	claims, err := auth.VerifyToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2e9b1e8a0012345678", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyRejects(t *testing.T) {
	good, err := auth.SignToken("u1", secret, time.Hour)
	require.NoError(t, err)
	expired, err := auth.SignToken("u1", secret, -time.Minute)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{UserID: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{}).SignedString(secret)
	require.NoError(t, err)

	cases := map[string]struct {
		token  string
		secret []byte
	}{
		"empty":        {"", secret},
		"malformed":    {"not.a.jwt", secret},
		"wrong secret": {good, []byte("other")},
		"expired":      {expired, secret},
		"alg none":     {noneAlg, secret},
		"no user id":   {noSubject, secret},
		"bearer kept":  {"Bearer " + good, secret},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.VerifyToken(tc.token, tc.secret)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, auth.CheckPassword(hash, "hunter22"))
	assert.False(t, auth.CheckPassword(hash, "hunter23"))
	assert.False(t, auth.CheckPassword("not-a-hash", "hunter22"))
}
