package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueThenValidate(t *testing.T) {
	tm := NewTokenManager(testSecret, "account-service", 30*time.Minute)

	before := time.Now().UTC()
	tok, err := tm.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, before.Add(30*time.Minute), tok.Exp, 2*time.Second)

	id, err := tm.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestValidateExpired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := NewTokenManager(testSecret, "", 30*time.Minute).WithClock(func() time.Time { return issuedAt })
	tok, err := issuer.Issue(7)
	require.NoError(t, err)

	// still valid from the point of view of a clock just before expiry
	beforeExpiry := NewTokenManager(testSecret, "", 30*time.Minute).
		WithClock(func() time.Time { return issuedAt.Add(29 * time.Minute) })
	id, err := beforeExpiry.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = NewTokenManager(testSecret, "", 30*time.Minute).Validate(tok.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	tok, err := NewTokenManager("one", "", time.Minute).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenManager("two", "", time.Minute).Validate(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateTamperedPayload(t *testing.T) {
	tm := NewTokenManager(testSecret, "", time.Minute)
	a, err := tm.Issue(1)
	require.NoError(t, err)
	b, err := tm.Issue(2)
	require.NoError(t, err)

	pa := strings.Split(a.Token, ".")
	pb := strings.Split(b.Token, ".")
	forged := pa[0] + "." + pb[1] + "." + pa[2]

	_, err = tm.Validate(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, "", time.Minute).Validate(raw)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateMalformed(t *testing.T) {
	tm := NewTokenManager(testSecret, "", time.Minute)

	sign := func(c jwt.Claims) string {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return raw
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not.a.jwt"},
		{"empty", ""},
		{"no subject", sign(jwt.RegisteredClaims{ExpiresAt: exp})},
		{"non numeric subject", sign(jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp})},
		{"negative subject", sign(jwt.RegisteredClaims{Subject: "-3", ExpiresAt: exp})},
		{"no expiry", sign(jwt.RegisteredClaims{Subject: "1"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Validate(tt.raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
