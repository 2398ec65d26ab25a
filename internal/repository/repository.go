// Package repository declares the persistence interface the account service
// depends on. Implementations live in sub-packages (sqlite, postgres).
package repository

import (
	"context"

	"github.com/sakif/accounts/internal/model"
)

// UserRepository stores users and their one-to-one credentials.
//
// Lookups return an error wrapping apperror.ErrNotFound when nothing matches.
// CreateUser returns apperror.DuplicateUser when the username is already
// taken at the storage layer. Every other error means the store is
// unavailable and is not interpreted further by callers.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByEmail returns the earliest-created user with this email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	FindCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error)

	// CreateUser assigns ID, CreatedAt and UpdatedAt on the passed user.
	CreateUser(ctx context.Context, user *model.User) error
	CreateCredential(ctx context.Context, userID, passwordHash string) (*model.Credential, error)

	Close() error
}
