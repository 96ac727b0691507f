// Package repository implements the data access layer on top of MySQL.
// Sentinel errors defined here let handlers and the auth service map
// failures to responses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist. Handlers translate it
// into an HTTP 404; the auth service collapses it into its own generic
// errors so callers cannot probe for existence.
var ErrNotFound = errors.New("not found")
