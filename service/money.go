package service

import (
	"fmt"

	"gameportal/models"

	"github.com/shopspring/decimal"
)

// OrbsPerCurrencyUnit is the fixed exchange rate: 100 Orbs buy one unit
// of real currency, everywhere in the system.
const OrbsPerCurrencyUnit = 100

// cashbackRate is the reward on pure-cash purchases: 5% of the cash
// amount, granted in Orbs at the fixed rate. No reward is granted when
// any Orbs were spent in the same purchase.
var cashbackRate = decimal.NewFromFloat(0.05)

// orbsValue converts an Orbs amount to its cash value.
func orbsValue(orbs int64) decimal.Decimal {
	return decimal.New(orbs, -2)
}

// orbsFromCash converts a cash amount to Orbs, rounding down.
func orbsFromCash(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(OrbsPerCurrencyUnit)).Floor().IntPart()
}

// cashbackOrbs computes the Orbs reward for a cash purchase, rounding
// down so rounding always favors the house.
func cashbackOrbs(cash decimal.Decimal) int64 {
	return cash.Mul(cashbackRate).Mul(decimal.NewFromInt(OrbsPerCurrencyUnit)).Floor().IntPart()
}

// cartTotal sums the cash value of the cart, treating null prices as free.
func cartTotal(lines []*models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.CashPrice())
	}
	return total
}

// distributeOrbs spreads the Orbs spent on a purchase across its lines in
// proportion to each line's share of the total cash value. Each share is
// floored and the remainder lands on the last line, so the shares always
// sum exactly to orbs.
func distributeOrbs(lines []*models.CartItem, total decimal.Decimal, orbs int64) []int64 {
	shares := make([]int64, len(lines))
	if len(lines) == 0 || orbs == 0 || total.IsZero() {
		return shares
	}

	orbsDec := decimal.NewFromInt(orbs)
	var assigned int64
	for i := 0; i < len(lines)-1; i++ {
		share := orbsDec.Mul(lines[i].CashPrice()).Div(total).Floor().IntPart()
		shares[i] = share
		assigned += share
	}
	shares[len(lines)-1] = orbs - assigned

	return shares
}

// displayPrice renders the cash/Orbs composition of a purchased item.
func displayPrice(currencyLabel string, cash decimal.Decimal, orbs int64) string {
	switch {
	case cash.IsPositive() && orbs > 0:
		return fmt.Sprintf("%s %s + %d Orbs", currencyLabel, cash.StringFixed(2), orbs)
	case orbs > 0:
		return fmt.Sprintf("%d Orbs", orbs)
	case cash.IsPositive():
		return fmt.Sprintf("%s %s", currencyLabel, cash.StringFixed(2))
	default:
		return "Free"
	}
}
