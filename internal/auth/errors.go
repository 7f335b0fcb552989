package auth

import "errors"

// FallbackMessage is shown when a provider fails without supplying
// user-facing text (network faults, storage errors, bugs).
const FallbackMessage = "Authentication failed"

// Error is an authentication failure whose text is safe to show verbatim.
type Error struct {
	msg string
}

func NewError(msg string) *Error { return &Error{msg: msg} }

func (e *Error) Error() string { return e.msg }

// Shared provider failures. Values are *Error so their text passes through
// Message unchanged.
var (
	ErrInvalidCredentials = NewError("Invalid email or password")
	ErrEmailTaken         = NewError("That email is already registered")
	ErrInvalidEmail       = NewError("Enter a valid email address")
	ErrWeakPassword       = NewError("Password must be at least 8 characters")
	ErrTooManyAttempts    = NewError("Too many attempts, try again shortly")
)

// Message extracts the user-facing text from a provider failure: verbatim
// for *Error (wrapped or not), FallbackMessage for everything else.
func Message(err error) string {
	var uerr *Error
	if errors.As(err, &uerr) {
		return uerr.Error()
	}
	return FallbackMessage
}
