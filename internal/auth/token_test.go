package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("super-secret", 0)

	tok, err := issuer.Issue("user-123", "alice@x.com")
	require.NoError(t, err)

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice@x.com", claims.Email)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := issuer.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	verifier := NewTokenIssuer("secret", time.Hour)
	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenValidUntilExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issued := time.Now()
	issuer.now = func() time.Time { return issued }
	tok, err := issuer.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = issuer.Verify(tok)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = issuer.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := NewTokenIssuer("right-secret", time.Hour).Issue("u2", "u2@x.com")
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong-secret", time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTamperedPayload(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	alice, err := issuer.Issue("alice", "alice@x.com")
	require.NoError(t, err)
	bob, err := issuer.Issue("bob", "bob@x.com")
	require.NoError(t, err)

	a := strings.Split(alice, ".")
	b := strings.Split(bob, ".")
	forged := strings.Join([]string{a[0], b[1], a[2]}, ".")

	_, err = issuer.Verify(forged)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	issuer := NewTokenIssuer("k", time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := issuer.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestTokenRejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("k", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRequiresUserID(t *testing.T) {
	issuer := NewTokenIssuer("k", time.Hour)
	tok, err := issuer.Issue("", "nobody@x.com")
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFailuresShareOneError(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	past := NewTokenIssuer("secret", time.Hour)
	past.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expired, err := past.Issue("u1", "u1@x.com")
	require.NoError(t, err)
	foreign, err := NewTokenIssuer("other", time.Hour).Issue("u1", "u1@x.com")
	require.NoError(t, err)

	_, errExpired := issuer.Verify(expired)
	_, errForeign := issuer.Verify(foreign)
	_, errMalformed := issuer.Verify("garbage")

	assert.Equal(t, errExpired, errForeign)
	assert.Equal(t, errForeign, errMalformed)
}
