package entity

import "time"

// FollowEdge is a directed follower->followed relation between two users.
type FollowEdge struct {
	FollowerID string
	FollowedID string
	CreatedAt  time.Time
}
