package services

import "errors"

// Business-rule violations surfaced to the handlers. These are deterministic
// validation failures; anything else coming out of a store is a storage fault.
var (
	ErrSelfRequest        = errors.New("cannot send a buddy request to yourself")
	ErrSelfConnection     = errors.New("cannot connect a user to themselves")
	ErrAlreadyConnected   = errors.New("users are already buddies")
	ErrDuplicateRequest   = errors.New("a pending request to this user already exists")
	ErrRequestNotFound    = errors.New("buddy request not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNotRequestReceiver = errors.New("only the request receiver can respond")
	ErrRequestResolved    = errors.New("buddy request has already been resolved")
	ErrNotConnected       = errors.New("users are not buddies")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
