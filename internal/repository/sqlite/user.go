package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/accounts/internal/apperror"
	"github.com/sakif/accounts/internal/model"
	"github.com/sakif/accounts/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, email, name, address, created_at, updated_at`

// CreateUser inserts a new user, generating its ID and timestamps.
//
// The UNIQUE index on username is the authoritative duplicate check: a
// violation is returned as apperror.DuplicateUser even when the caller's
// pre-check raced with another signup.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	id := xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		user.Username,
		user.Email,
		user.Name,
		nullString(user.Address),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateUser()
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// FindByUsername returns the user with the given username.
func (db *DB) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row, "username", username)
}

// FindByEmail returns the earliest-created user with the given email.
// Email is not unique, so ordering makes the pick deterministic.
func (db *DB) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?
		 ORDER BY created_at, id LIMIT 1`, email)
	return scanUser(row, "email", email)
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row, "id", id)
}

// CreateCredential stores the password hash for userID. A second credential
// for the same user violates UNIQUE(user_id) and is returned as an error.
func (db *DB) CreateCredential(ctx context.Context, userID, passwordHash string) (*model.Credential, error) {
	cred := &model.Credential{
		ID:           xid.New().String(),
		UserID:       userID,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_credentials (id, user_id, password, created_at)
		 VALUES (?, ?, ?, ?)`,
		cred.ID, cred.UserID, cred.PasswordHash, cred.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: inserting credential for user %s: %w", userID, err)
	}
	return cred, nil
}

// FindCredentialByUserID returns the credential owned by userID.
func (db *DB) FindCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	var c model.Credential
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, password, created_at
		 FROM user_credentials WHERE user_id = ?`, userID,
	).Scan(&c.ID, &c.UserID, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("credential", userID)
		}
		return nil, fmt.Errorf("sqlite: getting credential for user %s: %w", userID, err)
	}
	return &c, nil
}

func scanUser(row *sql.Row, by, value string) (*model.User, error) {
	var (
		u       model.User
		address sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Name,
		&address,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s: %w", by, err)
	}
	if address.Valid {
		u.Address = &address.String
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
