package accounts

import "errors"

var (
	ErrNameRequired         = errors.New("Full name is required")
	ErrInvalidName          = errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	ErrInvalidEmailFormat   = errors.New("Invalid email format")
	ErrPasswordTooShort     = errors.New("Password must be at least 6 characters")
	ErrEmailRegistered      = errors.New("Email already registered")
	ErrNoPasswordCredential = errors.New("Account has no password credential")
	ErrIncorrectPassword    = errors.New("Incorrect Password")
)
