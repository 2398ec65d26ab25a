// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// The field set is closed: there is no password here and no free-form
// attribute bag. Secret material lives in Credential, which is owned by
// exactly one User and stored in its own table.
//
// WHY Address *string?
// Address is the only optional attribute. A nil pointer maps to SQL NULL and
// is omitted from JSON, so "not provided" and "empty string" stay distinct.
type User struct {
	ID        string    `json:"id"                db:"id"`
	Username  string    `json:"username"          db:"username"` // unique, e.g. "alice"
	Email     string    `json:"email"             db:"email"`    // not unique
	Name      string    `json:"name"              db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"createdAt"         db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"         db:"updated_at"`
}

// NewUserRequest is the signup input: the public User fields plus the
// plaintext password, which must never reach the users table.
type NewUserRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Address  *string `json:"address,omitempty"`
	Password string  `json:"password"`
}

// User returns the entity to persist for this request. The password is
// deliberately not carried over.
func (r NewUserRequest) User() *User {
	return &User{
		Username: r.Username,
		Email:    r.Email,
		Name:     r.Name,
		Address:  r.Address,
	}
}

// LoginInput is the raw login payload. Exactly one of Email or Username is
// expected to identify the account; Email wins when both are set.
type LoginInput struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// UserProfile is the reduced claim set embedded in access tokens.
// Subject is the stable identity claim and always equals ID.
type UserProfile struct {
	Subject  string `json:"sub"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}
