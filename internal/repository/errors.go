// Package repository defines the data access layer and the sentinel
// errors shared across repositories.  Handlers translate these values
// into the small, fixed set of user-facing error categories; raw driver
// errors are logged and never exposed verbatim.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating an admin whose email is
// already registered.  Handlers should translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrCodeInvalid is returned when a verification code does not match,
// has expired, or was already consumed.  The three cases are deliberately
// indistinguishable to callers so the endpoint leaks nothing about which
// guess was close.
var ErrCodeInvalid = errors.New("verification code invalid")
