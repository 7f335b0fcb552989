// Package auth defines the authentication capability the TUI signs in
// through, plus the two implementations taskdeck ships: a local sqlite-backed
// provider and a client for a remote account service.
package auth

import (
	"context"
	"time"
)

// Session is what a successful sign-in or sign-up yields. The auth screen
// treats it as opaque; the app uses it to scope task data and to resume on
// the next launch.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry. Sessions without
// an expiry never expire client-side.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Provider is the authentication collaborator. Failures carry a user-facing
// message when they are of type *Error; anything else is an internal fault
// and is shown to the user as a generic failure (see Message).
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
}
