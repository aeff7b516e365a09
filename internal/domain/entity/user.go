package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash is a bcrypt hash; the plain password never reaches storage.
// ActivationToken is non-empty exactly while Activated is false.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Activated       bool
	ActivationToken string
	AvatarURL       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
