package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/accounts/internal/model"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret, "", 0)
	require.NoError(t, err)
	return ts
}

func testProfile(id string) model.UserProfile {
	return model.UserProfile{Subject: id, ID: id, Name: "Alice", Username: "alice"}
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short", "", 0)
	assert.Error(t, err, "secrets shorter than 16 chars must be rejected")
}

func TestNewTokenService_Defaults(t *testing.T) {
	ts := newTestTokenService(t)
	assert.Equal(t, DefaultIssuer, ts.issuer)
	assert.Equal(t, DefaultTokenTTL, ts.ttl)
}

// =========================================================================
// ISSUE
// =========================================================================

func TestIssue_LooksLikeJWT(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue(context.Background(), testProfile("user-123"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "header.payload.signature")
}

func TestIssue_EmptySubject(t *testing.T) {
	ts := newTestTokenService(t)

	_, err := ts.Issue(context.Background(), model.UserProfile{ID: "x"})
	assert.Error(t, err)
}

func TestIssue_CancelledContext(t *testing.T) {
	ts := newTestTokenService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ts.Issue(ctx, testProfile("user-123"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	ts := newTestTokenService(t)

	// Same profile, same second: the jti still makes the tokens differ.
	t1, err := ts.Issue(context.Background(), testProfile("user-123"))
	require.NoError(t, err)
	t2, err := ts.Issue(context.Background(), testProfile("user-123"))
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

// =========================================================================
// VALIDATE
// =========================================================================

func TestValidate_RoundTripRestoresProfile(t *testing.T) {
	ts := newTestTokenService(t)
	want := testProfile("user-abc-123")

	token, err := ts.Issue(context.Background(), want)
	require.NoError(t, err)

	got, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueWithTTL(testProfile("user-123"), -1*time.Second)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorContains(t, err, "expired")
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Issue(context.Background(), testProfile("user-123"))
	tampered := token[:len(token)-3] + "xxx"

	_, err := ts.Validate(tampered)
	assert.Error(t, err)
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!", "", 0)
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", "", 0)

	token, _ := ts1.Issue(context.Background(), testProfile("user-123"))

	_, err := ts2.Validate(token)
	assert.Error(t, err)
}

func TestValidate_WrongIssuer(t *testing.T) {
	other, _ := NewTokenService(testSecret, "someone-else", 0)
	ts := newTestTokenService(t)

	token, _ := other.Issue(context.Background(), testProfile("user-123"))

	_, err := ts.Validate(token)
	assert.Error(t, err)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	ts := newTestTokenService(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    DefaultIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Error(t, err)
}

func TestValidate_RejectsMissingSubject(t *testing.T) {
	ts := newTestTokenService(t)

	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    DefaultIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorContains(t, err, "no subject")
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, in := range []string{"", "not.a.jwt.token", "this.is.garbage"} {
		_, err := ts.Validate(in)
		assert.Error(t, err, "Validate(%q)", in)
	}
}

func TestValidate_UsesClock(t *testing.T) {
	ts := newTestTokenService(t)
	ts.ttl = time.Minute

	token, err := ts.Issue(context.Background(), testProfile("user-123"))
	require.NoError(t, err)

	ts.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = ts.Validate(token)
	assert.Error(t, err, "token must be rejected once the clock passes its expiry")
}
