package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of wallet movement
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeTopUp    TransactionType = "top_up"
	TransactionTypeRefund   TransactionType = "refund"
)

// TransactionStatus represents the settlement state of a transaction
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry. Amount is the Orbs moved by
// the transaction: Orbs spent for purchases, Orbs credited for top-ups and
// refunds. CashAmount is the real-currency portion, null when none was
// collected. CheckoutSessionID carries the external gateway session id and
// is unique, which makes gateway-confirmed settlement idempotent under
// duplicate callbacks.
type Transaction struct {
	ID                int64               `db:"id"`
	UserID            int64               `db:"user_id"`
	Type              TransactionType     `db:"type"`
	Amount            int64               `db:"amount"`
	CashAmount        decimal.NullDecimal `db:"cash_amount"`
	Description       string              `db:"description"`
	Status            TransactionStatus   `db:"status"`
	CheckoutSessionID *string             `db:"checkout_session_id"`
	CreatedAt         time.Time           `db:"created_at"`
}
