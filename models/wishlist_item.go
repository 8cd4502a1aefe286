package models

import (
	"time"
)

// WishlistItem is a saved-for-later game. Settlement removes it
// automatically when the same game is purchased.
type WishlistItem struct {
	ID      int64     `db:"id"`
	UserID  int64     `db:"user_id"`
	GameID  string    `db:"game_id"`
	GameURL string    `db:"game_url"`
	Name    string    `db:"name"`
	Image   string    `db:"image"`
	AddedAt time.Time `db:"added_at"`
}
