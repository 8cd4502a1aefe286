package models

import (
	"time"
)

// UserStatus represents a user's presence status
type UserStatus string

const (
	UserStatusOnline       UserStatus = "online"
	UserStatusOffline      UserStatus = "offline"
	UserStatusDoNotDisturb UserStatus = "do_not_disturb"
	UserStatusInvisible    UserStatus = "invisible"
)

// Valid reports whether the status is one of the known presence values.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusOnline, UserStatusOffline, UserStatusDoNotDisturb, UserStatusInvisible:
		return true
	}
	return false
}

// User represents a portal account with an Orbs balance.
// PasswordHash is nil for federated-login accounts.
type User struct {
	ID           int64      `db:"id"`
	UID          string     `db:"uid"` // short public identifier, safe to expose to other users
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash *string    `db:"password_hash"`
	AvatarURL    *string    `db:"avatar_url"`
	Orbs         int64      `db:"orbs"` // never negative, enforced in-transaction on every debit
	Status       UserStatus `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// UserSummary aggregates a user's balance and collection counts for the
// dashboard endpoint.
type UserSummary struct {
	Orbs          int64 `json:"orbs"`
	CartCount     int   `json:"cart_count"`
	WishlistCount int   `json:"wishlist_count"`
	LibraryCount  int   `json:"library_count"`
	FriendCount   int   `json:"friend_count"`
}
