package model

import "time"

// Credential holds the secret material for one User.
//
// There is at most one Credential per User (UNIQUE user_id) and its lifetime
// is tied to the owner: deleting the user cascades to the credential.
// PasswordHash is a bcrypt string and is never serialised.
type Credential struct {
	ID           string    `json:"id"        db:"id"`
	UserID       string    `json:"userId"    db:"user_id"`
	PasswordHash string    `json:"-"         db:"password"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
