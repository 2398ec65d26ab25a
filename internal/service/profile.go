package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakif/accounts/internal/apperror"
	"github.com/sakif/accounts/internal/model"
)

// ProjectProfile reduces a user to the claims carried in its access token.
// Subject is always the user ID.
func ProjectProfile(user *model.User) model.UserProfile {
	return model.UserProfile{
		Subject:  user.ID,
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
	}
}

// Login verifies the credentials and issues an access token for the user.
func (s *AccountService) Login(ctx context.Context, in model.LoginInput) (string, error) {
	user, err := s.Verify(ctx, in)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(ctx, ProjectProfile(user))
	if err != nil {
		return "", fmt.Errorf("service/account: issuing token for user %s: %w", user.ID, err)
	}
	return token, nil
}

// WhoAmI returns the subject identifier of an authenticated profile.
func (s *AccountService) WhoAmI(profile model.UserProfile) string {
	return profile.Subject
}

// UserDetails loads the full record for an authenticated subject. A token
// whose subject no longer exists is treated as unauthenticated.
func (s *AccountService) UserDetails(ctx context.Context, subject string) (*model.User, error) {
	if subject == "" {
		return nil, apperror.Unauthorized("")
	}

	user, err := s.users.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid User")
		}
		return nil, fmt.Errorf("service/account: fetching user %s: %w", subject, err)
	}
	return user, nil
}
