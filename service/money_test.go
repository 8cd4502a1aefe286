package service

import (
	"testing"

	"gameportal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cartLine(gameID, price string) *models.CartItem {
	item := &models.CartItem{GameID: gameID, Name: gameID}
	if price != "" {
		item.Price = decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true}
	}
	return item
}

func TestOrbsFromCash(t *testing.T) {
	assert.Equal(t, int64(500), orbsFromCash(decimal.RequireFromString("5.00")))
	assert.Equal(t, int64(123), orbsFromCash(decimal.RequireFromString("1.23")))
	// Sub-orb fractions round down
	assert.Equal(t, int64(123), orbsFromCash(decimal.RequireFromString("1.239")))
	assert.Equal(t, int64(0), orbsFromCash(decimal.Zero))
}

func TestCashbackOrbs(t *testing.T) {
	// 5% of RM20.00 = RM1.00 = 100 Orbs
	assert.Equal(t, int64(100), cashbackOrbs(decimal.RequireFromString("20.00")))
	// 5% of RM19.99 = RM0.9995, floored to 99 Orbs
	assert.Equal(t, int64(99), cashbackOrbs(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(0), cashbackOrbs(decimal.RequireFromString("0.19")))
}

func TestCartTotal_NullPricesAreFree(t *testing.T) {
	lines := []*models.CartItem{
		cartLine("a", "10.00"),
		cartLine("b", ""),
		cartLine("c", "2.50"),
	}
	assert.True(t, cartTotal(lines).Equal(decimal.RequireFromString("12.50")))
}

func TestDistributeOrbs_SharesSumExactly(t *testing.T) {
	lines := []*models.CartItem{
		cartLine("a", "3.33"),
		cartLine("b", "3.33"),
		cartLine("c", "3.34"),
	}
	total := cartTotal(lines)

	shares := distributeOrbs(lines, total, 1000)

	var sum int64
	for _, share := range shares {
		sum += share
	}
	assert.Equal(t, int64(1000), sum)
	// First two lines floor to 333, the remainder lands on the last
	assert.Equal(t, int64(333), shares[0])
	assert.Equal(t, int64(333), shares[1])
	assert.Equal(t, int64(334), shares[2])
}

func TestDistributeOrbs_ZeroOrbs(t *testing.T) {
	lines := []*models.CartItem{cartLine("a", "5.00")}
	shares := distributeOrbs(lines, cartTotal(lines), 0)
	assert.Equal(t, []int64{0}, shares)
}

func TestDistributeOrbs_FreeLineGetsNothing(t *testing.T) {
	lines := []*models.CartItem{
		cartLine("free", ""),
		cartLine("paid", "4.00"),
	}
	shares := distributeOrbs(lines, cartTotal(lines), 400)
	assert.Equal(t, int64(0), shares[0])
	assert.Equal(t, int64(400), shares[1])
}

func TestDisplayPrice(t *testing.T) {
	assert.Equal(t, "RM 12.34 + 300 Orbs", displayPrice("RM", decimal.RequireFromString("12.34"), 300))
	assert.Equal(t, "300 Orbs", displayPrice("RM", decimal.Zero, 300))
	assert.Equal(t, "RM 12.34", displayPrice("RM", decimal.RequireFromString("12.34"), 0))
	assert.Equal(t, "Free", displayPrice("RM", decimal.Zero, 0))
}
