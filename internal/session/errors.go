package session

import "errors"

// ErrNoSession means the user has no live session in Redis (logged out or
// expired).
var ErrNoSession = errors.New("no active session")
