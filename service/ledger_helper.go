package service

import (
	"context"
	"fmt"

	"gameportal/events"
	"gameportal/models"
)

// RecordLedgerEntry writes a ledger row and stages a balance-change event
// on the unit of work's bus. Every Orbs mutation in the system happens in
// the same unit of work as its ledger entry; the two are never separated.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, txn *models.Transaction, oldBalance, newBalance int64) error {
	if err := uow.TransactionRepository().Create(ctx, txn); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	if newBalance != oldBalance {
		uow.EventBus().Publish(events.BalanceChangeEvent{
			UserID:          txn.UserID,
			OldBalance:      oldBalance,
			NewBalance:      newBalance,
			TransactionType: txn.Type,
			ChangeAmount:    newBalance - oldBalance,
		})
	}

	return nil
}
