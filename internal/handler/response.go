package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"error": "Invalid username or password.", "code": "invalid_credentials"}
//
// "error" is the human-readable message clients already display; "code" is
// the stable machine-readable kind to branch on.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/accounts/internal/apperror"
)

// Machine-readable error codes.
const (
	CodeValidation         = "validation_error"
	CodeDuplicateUser      = "duplicate_user"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal_error"
)

// msgInternal is the only thing a client ever learns about a 500.
const msgInternal = "An internal error occurred"

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"` // Human-readable description
	Code  string `json:"code"`  // Machine-readable error kind
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body is written; once Encode
// writes, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// classify maps a domain error to its HTTP status, code and client message.
//
// errors.Is walks the whole chain, so a service error like
//
//	fmt.Errorf("service/account: creating user: %w", apperror.DuplicateUser())
//
// still maps to duplicate_user.
func classify(err error) (status int, resp ErrorResponse) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		// NEVER expose internal error details: they may contain SQL or paths.
		return http.StatusInternalServerError, ErrorResponse{Error: msgInternal, Code: CodeInternal}
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: appErr.Message, Code: CodeValidation}
	case errors.Is(err, apperror.ErrDuplicateUser):
		return http.StatusBadRequest, ErrorResponse{Error: appErr.Message, Code: CodeDuplicateUser}
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: appErr.Message, Code: CodeInvalidCredentials}
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: appErr.Message, Code: CodeUnauthorized}
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: appErr.Message, Code: CodeNotFound}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: msgInternal, Code: CodeInternal}
}

// writeError maps a domain error to the appropriate HTTP status and sends it.
// The service layer never knows about status codes; this is the only place
// they are decided.
func writeError(w http.ResponseWriter, err error) int {
	status, resp := classify(err)
	writeJSON(w, status, resp)
	return status
}
