package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/accounts/internal/config"
)

// newTestServer wires the full stack against a temp-file SQLite database.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Config{
		Port:            8080,
		DBDriver:        config.DriverSQLite,
		DBPath:          filepath.Join(t.TempDir(), "accounts.db"),
		JWTSecret:       "test-secret-at-least-16-chars!!",
		JWTIssuer:       "accounts-test",
		TokenTTL:        time.Hour,
		BcryptCost:      bcrypt.MinCost,
		ShutdownTimeout: time.Second,
	}
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func call(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNew_UnsupportedDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(context.Background(), config.Config{DBDriver: "mysql"}, logger)
	assert.ErrorContains(t, err, "unsupported database driver")
}

// TestAccountFlow walks signup → login → who-am-I through the real router,
// service, token issuer and SQLite store.
func TestAccountFlow(t *testing.T) {
	s := newTestServer(t)

	// Signup
	rec := call(t, s, http.MethodPost, "/users/signup",
		`{"username":"alice","email":"a@x.com","name":"Alice","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	var user struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.NotEmpty(t, user.ID)

	// Duplicate signup
	rec = call(t, s, http.MethodPost, "/users/signup",
		`{"username":"alice","email":"other@x.com","name":"Alice Two","password":"password2"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with given username already exists")

	// Wrong password and unknown user look identical
	wrong := call(t, s, http.MethodPost, "/users/login", `{"username":"alice","password":"wrong-password"}`, "")
	unknown := call(t, s, http.MethodPost, "/users/login", `{"username":"nobody","password":"password1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	// Login by email
	rec = call(t, s, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	// GET /whoAmI
	rec = call(t, s, http.MethodGet, "/whoAmI", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var subject string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subject))
	assert.Equal(t, user.ID, subject)

	// POST /whoAmI
	rec = call(t, s, http.MethodPost, "/whoAmI", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var details struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Equal(t, user.ID, details.ID)
	assert.Equal(t, "a@x.com", details.Email)

	// No token
	rec = call(t, s, http.MethodGet, "/whoAmI", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := call(t, s, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}
