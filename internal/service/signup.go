package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/accounts/internal/apperror"
	"github.com/sakif/accounts/internal/events"
	"github.com/sakif/accounts/internal/model"
)

// SignUp registers a new account and returns the stored user.
//
// FLOW:
//  1. Validate the request shape
//  2. Reject a taken username (fast path; the unique index is authoritative)
//  3. Hash the password
//  4. Persist the User (no password field)
//  5. Persist the Credential for the new user ID
//  6. Publish user.registered (best effort)
//
// User and Credential are written separately. If step 5 fails the user row
// stays behind without a credential; the error is logged with the user ID
// and returned. Such an account can never log in.
func (s *AccountService) SignUp(ctx context.Context, req model.NewUserRequest) (*model.User, error) {
	if err := apperror.FromValidation(req.Validate()); err != nil {
		return nil, err
	}

	_, err := s.users.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, apperror.DuplicateUser()
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/account: checking username: %w", err)
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	user := req.User()
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateUser) {
			return nil, err
		}
		return nil, fmt.Errorf("service/account: creating user: %w", err)
	}

	if _, err := s.users.CreateCredential(ctx, user.ID, hash); err != nil {
		s.logger.Error("orphaned account: credential not stored",
			slog.String("userID", user.ID),
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/account: creating credential for user %s: %w", user.ID, err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	s.publishRegistered(ctx, user)
	return user, nil
}

func (s *AccountService) publishRegistered(ctx context.Context, user *model.User) {
	err := s.events.Publish(ctx, events.Event{
		Type:       events.TypeUserRegistered,
		UserID:     user.ID,
		Username:   user.Username,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publishing user.registered failed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}
}
