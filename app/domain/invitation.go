package domain

import "time"

// Invitation is a time-bounded invite code. Rows are created out of band and
// are read-only here.
type Invitation struct {
	Code      string    `json:"code"`
	Username  string    `json:"username"`
	Data      string    `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether now is at or after the expiry. The validity
// window is [created, expires).
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// InvitedUser is the result of resolving a username through an invitation.
type InvitedUser struct {
	Username   string `json:"username"`
	Registered bool   `json:"registered"`
}
