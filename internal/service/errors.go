package service

import "errors"

// Every flow returns one of these for expected failures; anything else is
// an internal fault the transport layer renders as a generic 500.
var (
	// ErrConflict means a uniqueness rule was violated (username or
	// prompt name already taken).
	ErrConflict = errors.New("already exists")

	// ErrUnauthenticated covers bad credentials and missing, invalid, or
	// expired tokens. The cases are deliberately indistinguishable.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but not allowed to
	// act on this resource.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound = errors.New("not found")
)
