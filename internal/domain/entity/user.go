package entity

import (
	"strings"
	"time"
)

// User is a registered customer account. The password is kept only as a bcrypt hash.
type User struct {
	ID           string    `json:"id"`           // UUID of the account.
	Name         string    `json:"name"`         // Display name.
	Email        string    `json:"email"`        // Login identifier, unique ignoring case.
	PasswordHash string    `json:"passwordHash"` // bcrypt hash of the password.
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an email for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasEmail reports whether the account uses email, ignoring case.
func (u *User) HasEmail(email string) bool {
	return NormalizeEmail(u.Email) == NormalizeEmail(email)
}

// Validate checks the identity fields.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrUserNameRequired
	}
	if NormalizeEmail(u.Email) == "" {
		return ErrUserEmailRequired
	}

	return nil
}
