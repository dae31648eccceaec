package auth

import "errors"

var (
	// ErrInvalidCredentials covers wrong email/password and every token
	// verification failure. Deliberately unspecific.
	ErrInvalidCredentials = errors.New("could not validate credentials")

	// ErrUserInactive is a valid token over a disabled account.
	ErrUserInactive = errors.New("inactive user")

	// ErrPermissionDenied is an active user without the required privilege.
	ErrPermissionDenied = errors.New("not enough privileges")

	ErrEmailTaken   = errors.New("email already registered")
	ErrWeakPassword = errors.New("password is too weak")

	// ErrDirectoryUnavailable is a user lookup that failed for
	// infrastructure reasons. Kept distinct from ErrInvalidCredentials
	// so an outage does not masquerade as an auth failure.
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
)
