// Package auth provides password hashing, access token issuance and the
// HTTP middleware that authenticates requests.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client POSTs credentials to /users/login
//  2. The account service verifies them and projects the user to a UserProfile
//  3. TokenService signs the profile into a JWT and the client receives it
//  4. On later calls the client sends "Authorization: Bearer <jwt>"; the
//     middleware validates it and puts the profile in the request context
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"<userID>","id":"<userID>","name":"...","username":"...","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sakif/accounts/internal/model"
)

// DefaultTokenTTL is how long an access token stays valid.
const DefaultTokenTTL = 6 * time.Hour

// DefaultIssuer is the "iss" claim written into and required from tokens.
const DefaultIssuer = "accounts"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens.
// The same secret must be used for both operations.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
//
// An empty issuer or non-positive ttl falls back to the defaults.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// claims is the JWT payload: the profile claim set next to the registered
// claims. "sub" carries the subject identifier; "id" repeats it so clients
// reading the profile do not need to know JWT claim names.
type claims struct {
	UserID   string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue signs a new access token for the given profile.
//
// The context is accepted so the signer can be swapped for a remote one
// (KMS, token service) without changing callers; HMAC signing never blocks.
func (s *TokenService) Issue(ctx context.Context, profile model.UserProfile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("auth: issuing token: %w", err)
	}
	return s.IssueWithTTL(profile, s.ttl)
}

// IssueWithTTL creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) IssueWithTTL(profile model.UserProfile, ttl time.Duration) (string, error) {
	if profile.Subject == "" {
		return "", errors.New("auth: profile has no subject")
	}

	now := s.now()
	c := claims{
		UserID:   profile.ID,
		Name:     profile.Name,
		Username: profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profile.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the profile it
// carries.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired and carries an expiry at all
//   - Issuer matches ours
//   - Algorithm is HS256 (prevents "none" and key-confusion attacks)
func (s *TokenService) Validate(tokenStr string) (*model.UserProfile, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &model.UserProfile{
		Subject:  c.Subject,
		ID:       c.UserID,
		Name:     c.Name,
		Username: c.Username,
	}, nil
}
