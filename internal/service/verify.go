package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/accounts/internal/apperror"
	"github.com/sakif/accounts/internal/auth"
	"github.com/sakif/accounts/internal/model"
)

// Verify checks a login attempt and returns the matching user.
//
// The account is looked up by email when one is given, otherwise by
// username. An unknown account, a missing credential and a wrong password
// all return the same apperror.InvalidCredentials value, so callers cannot
// tell them apart. Store failures are returned wrapped.
func (s *AccountService) Verify(ctx context.Context, in model.LoginInput) (*model.User, error) {
	hasEmail := strings.TrimSpace(in.Email) != ""
	hasUsername := strings.TrimSpace(in.Username) != ""
	if in.Password == "" || (!hasEmail && !hasUsername) {
		return nil, apperror.InvalidCredentials()
	}

	var (
		user *model.User
		err  error
	)
	if hasEmail {
		user, err = s.users.FindByEmail(ctx, in.Email)
	} else {
		user, err = s.users.FindByUsername(ctx, in.Username)
	}
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.burnComparison(in.Password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/account: resolving account: %w", err)
	}

	cred, err := s.users.FindCredentialByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("login for account without credential", slog.String("userID", user.ID))
			s.burnComparison(in.Password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/account: loading credential: %w", err)
	}

	if err := s.passwords.Verify(cred.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/account: comparing password: %w", err)
	}

	return user, nil
}

// burnComparison runs one throwaway bcrypt comparison.
func (s *AccountService) burnComparison(password string) {
	hash, err := s.dummyHash()
	if err != nil {
		return
	}
	_ = s.passwords.Verify(hash, password)
}
