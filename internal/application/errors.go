package application

import "errors"

// Terminal request outcomes. None of these are retried; handlers translate
// them into the response envelope.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the login response never discloses which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is the store-level uniqueness violation, reported to
	// the caller as a field validation error on email.
	ErrDuplicateEmail = errors.New("email already taken")

	// ErrNotFound: target entity or activation token absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the ownership policy denied the mutation. Distinct from
	// ErrNotFound internally even when presented identically.
	ErrForbidden = errors.New("forbidden")

	// ErrSelfFollow rejects a follower edge from a user to itself.
	ErrSelfFollow = errors.New("cannot follow yourself")
)
