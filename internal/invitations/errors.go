package invitations

import "errors"

var (
	ErrNotFound           = errors.New("Invalid invitation token")
	ErrInvalidEmail       = errors.New("Invalid email format")
	ErrExpired            = errors.New("Invitation has expired")
	ErrAlreadyResponded   = errors.New("Invitation has already been responded to")
	ErrEmailMismatch      = errors.New("Invitation email does not match logged-in user")
	ErrInvalidCredentials = errors.New("Incorrect Password")
	ErrAlreadyPending     = errors.New("A pending invitation already exists for this email")
	ErrSelfInvite         = errors.New("You cannot invite yourself")
	ErrAlreadyMember      = errors.New("User already belongs to this project")
	ErrConflict           = errors.New("Invitation was already accepted by a different account")
	ErrInvalidTransition  = errors.New("Invalid invitation status transition")
)
