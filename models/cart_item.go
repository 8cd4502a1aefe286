package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem represents a game staged for purchase. Price is the resolved
// price at add time; a null price means the game was free or the price
// lookup came back empty.
type CartItem struct {
	ID      int64               `db:"id"`
	UserID  int64               `db:"user_id"`
	GameID  string              `db:"game_id"` // external catalog id
	GameURL string              `db:"game_url"`
	Name    string              `db:"name"`
	Image   string              `db:"image"`
	Price   decimal.NullDecimal `db:"price"`
	AddedAt time.Time           `db:"added_at"`
}

// CashPrice returns the item's cash price, treating a null price as zero.
func (c *CartItem) CashPrice() decimal.Decimal {
	if !c.Price.Valid {
		return decimal.Zero
	}
	return c.Price.Decimal
}
