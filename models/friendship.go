package models

import (
	"time"
)

// FriendshipStatus represents the state of one directed friendship edge
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	FriendshipStatusBlocked  FriendshipStatus = "blocked"
)

// Friendship is one directed edge in the friend graph.
//
// A pending relationship is a single row from requester to requestee. An
// accepted relationship is always a symmetric pair of rows. A block is a
// single row from blocker to blocked and suppresses everything else
// between the pair.
type Friendship struct {
	ID        int64            `db:"id"`
	UserID    int64            `db:"user_id"`   // subject
	FriendID  int64            `db:"friend_id"` // object
	Status    FriendshipStatus `db:"status"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

// FriendRequest is an incoming pending edge joined with the requester's
// public profile, for the requests listing.
type FriendRequest struct {
	ID        int64     `json:"id"`
	Requester *User     `json:"requester"`
	CreatedAt time.Time `json:"created_at"`
}
