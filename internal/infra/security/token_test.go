package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenIssueAndValidate(t *testing.T) {
	svc, err := NewTokenService("test-secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, svc.TTL())

	token, _, err := svc.Issue("rep@example.com", 0)
	require.NoError(t, err)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "rep@example.com", subject)
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	issuedAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc, err := NewTokenService("test-secret", 30*time.Minute)
	require.NoError(t, err)
	svc.Now = fixedClock(issuedAt)

	token, expiresAt, err := svc.Issue("rep@example.com", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(10*time.Minute), expiresAt)

	svc.Now = fixedClock(issuedAt.Add(9 * time.Minute))
	_, err = svc.Validate(token)
	assert.NoError(t, err)

	svc.Now = fixedClock(issuedAt.Add(10*time.Minute + time.Second))
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssueReturnsSignedExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	svc, err := NewTokenService("test-secret", 45*time.Minute)
	require.NoError(t, err)
	svc.Now = fixedClock(issuedAt)

	token, expiresAt, err := svc.Issue("rep@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(45*time.Minute), expiresAt)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(expiresAt))
}

func TestTokenRejectsForgedSignature(t *testing.T) {
	svc, err := NewTokenService("test-secret", 0)
	require.NoError(t, err)
	other, err := NewTokenService("another-secret", 0)
	require.NoError(t, err)

	token, _, err := other.Issue("rep@example.com", 0)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsMalformedInput(t *testing.T) {
	svc, err := NewTokenService("test-secret", 0)
	require.NoError(t, err)

	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestTokenRejectsMissingExpiryAndSubject(t *testing.T) {
	svc, err := NewTokenService("test-secret", 0)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "rep@example.com",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Validate(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Validate(noSub)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	svc, err := NewTokenService("test-secret", 0)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "rep@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(" ", time.Minute)
	assert.Error(t, err)
}
