package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account allowed to record expenses on behalf of the group.
// Users are independent of participants: a participant is a name in the ledger,
// a user is someone who can log in.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's login (unique).
	Email string

	// DisplayName is shown in logs and the current-user endpoint.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
