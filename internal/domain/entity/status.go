package entity

import "time"

// Status is a short text post. Immutable after creation; only deletion is
// supported, gated by the ownership policy.
type Status struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time

	// UserName is filled on feed/listing reads for presentation.
	UserName string
}
