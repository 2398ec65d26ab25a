package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/accounts/internal/auth"
)

// Route describes one HTTP endpoint. The table is assembled once at startup
// and registered with Mount.
type Route struct {
	Method        string
	Path          string
	Summary       string
	Authenticated bool
	SuccessStatus int
	ErrorStatuses []int
	Handler       http.HandlerFunc
}

// Routes returns the full API route table.
//
// ROUTE STRUCTURE:
// POST   /users/signup  → create account               (public)
// POST   /users/login   → credentials → access token   (public)
// GET    /whoAmI        → caller's subject id          (bearer)
// POST   /whoAmI        → caller's full user record    (bearer)
// GET    /healthz       → liveness + store reachability (public)
func Routes(accounts *AccountHandler, health *HealthHandler) []Route {
	return []Route{
		{
			Method:        http.MethodPost,
			Path:          "/users/signup",
			Summary:       "Register a new account",
			SuccessStatus: http.StatusOK,
			ErrorStatuses: []int{http.StatusBadRequest, http.StatusInternalServerError},
			Handler:       accounts.HandleSignUp,
		},
		{
			Method:        http.MethodPost,
			Path:          "/users/login",
			Summary:       "Exchange credentials for an access token",
			SuccessStatus: http.StatusOK,
			ErrorStatuses: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
			Handler:       accounts.HandleLogin,
		},
		{
			Method:        http.MethodGet,
			Path:          "/whoAmI",
			Summary:       "Return the authenticated subject identifier",
			Authenticated: true,
			SuccessStatus: http.StatusOK,
			ErrorStatuses: []int{http.StatusUnauthorized},
			Handler:       accounts.HandleWhoAmI,
		},
		{
			Method:        http.MethodPost,
			Path:          "/whoAmI",
			Summary:       "Return the authenticated user's record",
			Authenticated: true,
			SuccessStatus: http.StatusOK,
			ErrorStatuses: []int{http.StatusUnauthorized, http.StatusInternalServerError},
			Handler:       accounts.HandleUserDetails,
		},
		{
			Method:        http.MethodGet,
			Path:          "/healthz",
			Summary:       "Liveness probe",
			SuccessStatus: http.StatusOK,
			ErrorStatuses: []int{http.StatusServiceUnavailable},
			Handler:       health.HandleHealth,
		},
	}
}

// Mount registers every route on r. Authenticated routes get
// auth.RequireAuth in front of their handler.
func Mount(r chi.Router, routes []Route, tokens auth.TokenValidator) {
	requireAuth := auth.RequireAuth(tokens)
	for _, rt := range routes {
		if rt.Authenticated {
			r.With(requireAuth).Method(rt.Method, rt.Path, rt.Handler)
			continue
		}
		r.Method(rt.Method, rt.Path, rt.Handler)
	}
}
