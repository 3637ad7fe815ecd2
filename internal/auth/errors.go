package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrUseGoogleSignIn       = errors.New("This account uses Google sign-in")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)
