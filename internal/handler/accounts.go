package handler

import (
	"context"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/accounts/internal/apperror"
	"github.com/sakif/accounts/internal/auth"
	"github.com/sakif/accounts/internal/model"
)

// Accounts is the account business logic the handlers call into.
// *service.AccountService implements it.
type Accounts interface {
	SignUp(ctx context.Context, req model.NewUserRequest) (*model.User, error)
	Login(ctx context.Context, in model.LoginInput) (string, error)
	WhoAmI(profile model.UserProfile) string
	UserDetails(ctx context.Context, subject string) (*model.User, error)
}

// AccountHandler serves signup, login and who-am-I.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignUp      → create an account, return the stored user
//   - HandleLogin       → exchange credentials for an access token
//   - HandleWhoAmI      → return the caller's subject identifier
//   - HandleUserDetails → return the caller's full user record
//
// The handler decodes JSON and maps errors; every account rule lives in the
// service.
type AccountHandler struct {
	accounts Accounts
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts Accounts, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// TokenResponse is the login success body.
type TokenResponse struct {
	Token string `json:"token"`
}

// HandleSignUp registers a new account.
//
// HTTP: POST /users/signup
// REQUEST BODY: {"username","email","name","address"?,"password"}
// RESPONSE: 200 with the stored user; the password never appears.
func (h *AccountHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req model.NewUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.accounts.SignUp(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogin verifies credentials and returns an access token.
//
// HTTP: POST /users/login
// REQUEST BODY: {"email"? | "username"?, "password"}
// RESPONSE: 200 {"token": "..."}
//
// Every credential failure (unknown account, wrong password, missing
// credential) produces the same 401 body.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := apperror.FromValidation(in.Validate()); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// HandleWhoAmI returns the authenticated subject identifier as a JSON string.
//
// HTTP: GET /whoAmI
// Auth: Required (RequireAuth puts the profile in the context)
func (h *AccountHandler) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		// Only reachable if the route was mounted without RequireAuth.
		h.fail(w, r, apperror.Unauthorized(""))
		return
	}

	writeJSON(w, http.StatusOK, h.accounts.WhoAmI(*profile))
}

// HandleUserDetails returns the full record of the authenticated user.
//
// HTTP: POST /whoAmI
// Auth: Required
func (h *AccountHandler) HandleUserDetails(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, apperror.Unauthorized(""))
		return
	}

	user, err := h.accounts.UserDetails(r.Context(), subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// fail writes the mapped error response. Server-side failures are logged
// with the full error; the client only sees the generic message.
func (h *AccountHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := writeError(w, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("requestID", chimiddleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
}
