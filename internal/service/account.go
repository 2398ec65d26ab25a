// Package service contains the business logic layer of the application.
//
// THE LAYERS:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces account rules, orchestrates
//	Repository (Data layer)  → reads/writes users and credentials
//
// AccountService owns the four account flows: signup, credential
// verification, login (verify + token issue) and who-am-I. It never touches
// HTTP types and never sees SQL; it depends on interfaces only, so the tests
// in this package run against in-memory fakes.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/accounts/internal/events"
	"github.com/sakif/accounts/internal/model"
	"github.com/sakif/accounts/internal/repository"
)

// PasswordHasher hashes and checks passwords. Verify returns nil on a match,
// auth.ErrPasswordMismatch on a mismatch, and any other error when the hash
// itself is unusable.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
}

// TokenIssuer signs an access token for a profile.
type TokenIssuer interface {
	Issue(ctx context.Context, profile model.UserProfile) (string, error)
}

// AccountService handles the account business logic.
//
// DEPENDENCIES (injected via NewAccountService):
//   - users      repository.UserRepository → users + credentials
//   - passwords  PasswordHasher            → bcrypt hashing and comparison
//   - tokens     TokenIssuer               → signs access tokens on login
//   - events     events.Publisher          → user.registered notifications
//   - logger     *slog.Logger              → structured logging
type AccountService struct {
	users     repository.UserRepository
	passwords PasswordHasher
	tokens    TokenIssuer
	events    events.Publisher
	logger    *slog.Logger

	// dummyHash is compared against when no account or credential matches,
	// so a failed login costs one bcrypt comparison whatever the cause.
	dummyHash func() (string, error)
}

// NewAccountService creates an AccountService with all required dependencies.
// A nil publisher disables event publishing.
func NewAccountService(
	users repository.UserRepository,
	passwords PasswordHasher,
	tokens TokenIssuer,
	publisher events.Publisher,
	logger *slog.Logger,
) *AccountService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AccountService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		events:    publisher,
		logger:    logger,
		dummyHash: sync.OnceValues(func() (string, error) {
			// A random throwaway password; its hash only needs the right cost.
			return passwords.Hash(xid.New().String())
		}),
	}
}
