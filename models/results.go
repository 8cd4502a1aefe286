package models

import (
	"github.com/shopspring/decimal"
)

// SettlementResult summarizes a committed (or replayed) purchase.
type SettlementResult struct {
	// AlreadySettled is true when the checkout session had been committed
	// by an earlier invocation and this call was a no-op replay.
	AlreadySettled bool
	TransactionID  int64
	OrbsSpent      int64
	OrbsRewarded   int64
	CashAmount     decimal.Decimal
	NewBalance     int64
	Items          []*LibraryItem
}

// CheckoutQuote is the resolved split of a cart between Orbs and cash,
// computed before any gateway session is created.
type CheckoutQuote struct {
	Lines     []*CartItem
	Total     decimal.Decimal // cash value of the whole cart
	OrbsToUse int64           // capped at balance and at the cart's Orbs value
	OrbsValue decimal.Decimal // cash value of OrbsToUse
	CashDue   decimal.Decimal // Total - OrbsValue, never negative
}

// CheckoutSession is the outcome of a checkout-session request. When the
// cart is fully covered by Orbs no gateway session is created and the
// purchase settles immediately.
type CheckoutSession struct {
	Settled     bool
	Result      *SettlementResult // set when Settled
	SessionID   string
	RedirectURL string
}

// TopUpResult summarizes a confirmed Orbs top-up.
type TopUpResult struct {
	AlreadyCredited bool
	TransactionID   int64
	OrbsAdded       int64
	NewBalance      int64
}

// FriendRequestResult reports the outcome of sending a friend request.
// MutuallyAccepted is true when the target had already sent a request the
// other way and the two collapsed into an accepted pair.
type FriendRequestResult struct {
	MutuallyAccepted bool
	Friendship       *Friendship
}
