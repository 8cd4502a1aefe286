package models

import (
	"time"
)

// LibraryItem is proof of ownership. At most one exists per (user, game);
// settlement checks for existing ownership before inserting so replays and
// already-owned cart lines never duplicate it.
type LibraryItem struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	GameID         string    `db:"game_id"`
	GameURL        string    `db:"game_url"`
	Name           string    `db:"name"`
	Image          string    `db:"image"`
	PurchasedPrice string    `db:"purchased_price"` // display string, e.g. "RM 12.50 + 300 Orbs"
	PurchasedAt    time.Time `db:"purchased_at"`
}
