package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/xid"

	"github.com/sakif/accounts/internal/apperror"
	"github.com/sakif/accounts/internal/model"
	"github.com/sakif/accounts/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// usernameIndex is the unique index created by the users migration.
const usernameIndex = "idx_users_username"

const userColumns = `id, username, email, name, address, created_at, updated_at`

func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	id := xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, user.Username, user.Email, user.Name, nullString(user.Address), now, now,
	)
	if err != nil {
		if isUniqueViolation(err, usernameIndex) {
			return apperror.DuplicateUser()
		}
		return fmt.Errorf("postgres: inserting user %q: %w", user.Username, err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row, "username", username)
}

func (db *DB) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1
		 ORDER BY created_at, id LIMIT 1`, email)
	return scanUser(row, "email", email)
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, "id", id)
}

func (db *DB) CreateCredential(ctx context.Context, userID, passwordHash string) (*model.Credential, error) {
	cred := &model.Credential{
		ID:           xid.New().String(),
		UserID:       userID,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_credentials (id, user_id, password, created_at)
		 VALUES ($1, $2, $3, $4)`,
		cred.ID, cred.UserID, cred.PasswordHash, cred.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: inserting credential for user %s: %w", userID, err)
	}
	return cred, nil
}

func (db *DB) FindCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	var c model.Credential
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, password, created_at
		 FROM user_credentials WHERE user_id = $1`, userID,
	).Scan(&c.ID, &c.UserID, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("credential", userID)
		}
		return nil, fmt.Errorf("postgres: getting credential for user %s: %w", userID, err)
	}
	return &c, nil
}

func scanUser(row *sql.Row, by, value string) (*model.User, error) {
	var (
		u       model.User
		address sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("postgres: getting user by %s: %w", by, err)
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

// isUniqueViolation reports a unique_violation on the named constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
