package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/accounts/internal/model"
)

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the values stored under it.
type contextKey string

const profileKey contextKey = "profile"

// TokenCookie is the cookie consulted when no Authorization header is sent.
const TokenCookie = "token"

var errNoToken = errors.New("auth: no bearer token")

// TokenValidator turns a raw token into the profile it was issued for.
// *TokenService implements it.
type TokenValidator interface {
	Validate(token string) (*model.UserProfile, error)
}

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the token from "Authorization: Bearer <jwt>" (or the token cookie),
// validates it and stores the profile in the request context. If the token is
// missing or invalid, it returns 401 Unauthorized and stops the chain.
func RequireAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := extractProfile(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="accounts"`)
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"valid authentication required","code":"unauthorized"}` + "\n"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
		})
	}
}

// WithProfile returns a copy of ctx carrying the authenticated profile.
func WithProfile(ctx context.Context, p *model.UserProfile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// ProfileFromContext retrieves the authenticated profile from the request
// context. Returns (nil, false) for anonymous requests.
func ProfileFromContext(ctx context.Context) (*model.UserProfile, bool) {
	p, ok := ctx.Value(profileKey).(*model.UserProfile)
	return p, ok && p != nil && p.Subject != ""
}

// UserIDFromContext returns the subject identifier of the authenticated user.
func UserIDFromContext(ctx context.Context) (string, bool) {
	p, ok := ProfileFromContext(ctx)
	if !ok {
		return "", false
	}
	return p.Subject, true
}

func extractProfile(r *http.Request, tokens TokenValidator) (*model.UserProfile, error) {
	raw, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return tokens.Validate(raw)
}

// bearerToken prefers the Authorization header; the cookie is a fallback for
// browser clients.
func bearerToken(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", errNoToken
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(TokenCookie)
	if err != nil || cookie.Value == "" {
		return "", errNoToken
	}
	return cookie.Value, nil
}
