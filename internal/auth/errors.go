package auth

import "errors"

// Sentinel errors returned by the Service. Credential and token failures
// are deliberately coarse: callers cannot tell "no such user" from "wrong
// password", nor "unknown token" from "expired token".
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
)
