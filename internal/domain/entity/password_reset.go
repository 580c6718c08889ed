package entity

import "time"

// PasswordReset is a pending reset request. Only the hash of the code is stored.
type PasswordReset struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the request is no longer usable at now.
func (r PasswordReset) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// PasswordResetEmail is the message sent to a user requesting a reset.
type PasswordResetEmail struct {
	ResetCode    string `json:"resetCode"`
	EmailSubject string `json:"emailSubject"`
	EmailBody    string `json:"emailBody"`
}
