package service

import (
	"context"
	"fmt"
	"strconv"

	"gameportal/gateway"
	"gameportal/models"

	"github.com/shopspring/decimal"
)

type walletService struct {
	uowFactory UnitOfWorkFactory
	gateway    PaymentGateway
	currency   string
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory, gw PaymentGateway, currency string) WalletService {
	return &walletService{
		uowFactory: uowFactory,
		gateway:    gw,
		currency:   currency,
	}
}

// CreateTopUpSession creates a hosted gateway session to buy Orbs at the
// fixed exchange rate.
func (s *walletService) CreateTopUpSession(ctx context.Context, userID int64, amount decimal.Decimal, successURL, cancelURL string) (*models.CheckoutSession, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("top-up amount must be positive")
	}

	orbs := orbsFromCash(amount)
	if orbs <= 0 {
		return nil, fmt.Errorf("top-up amount is below the minimum of 1 Orb")
	}

	session, err := s.gateway.CreateSession(ctx, gateway.CreateSessionParams{
		AmountMinor: amount.Shift(2).IntPart(),
		Currency:    s.currency,
		Description: fmt.Sprintf("Top-up of %d Orbs", orbs),
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
		Metadata: map[string]string{
			gateway.MetaUserID:   strconv.FormatInt(userID, 10),
			gateway.MetaOrbsUsed: strconv.FormatInt(orbs, 10),
			gateway.MetaPurpose:  "top_up",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create top-up session: %w", err)
	}

	return &models.CheckoutSession{
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

// ConfirmTopUp credits Orbs after the user returns from the gateway. A
// reloaded confirmation page replays the same session id and is a no-op.
func (s *walletService) ConfirmTopUp(ctx context.Context, userID int64, sessionID string) (*models.TopUpResult, error) {
	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve top-up session: %w", err)
	}

	if session.PaymentStatus != gateway.PaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	metaUserID, err := strconv.ParseInt(session.Metadata[gateway.MetaUserID], 10, 64)
	if err != nil || metaUserID != userID {
		return nil, ErrSessionUserMismatch
	}

	// Orbs purchased are derived from the charged amount; metadata is a
	// cross-check only
	cashAmount := decimal.New(session.AmountMinor, -2)
	orbs := orbsFromCash(cashAmount)
	if orbs <= 0 {
		return nil, fmt.Errorf("top-up session %s has no chargeable amount", sessionID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.TransactionRepository().GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session id: %w", err)
	}
	if existing != nil {
		user, err := uow.UserRepository().GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		result := &models.TopUpResult{
			AlreadyCredited: true,
			TransactionID:   existing.ID,
			OrbsAdded:       existing.Amount,
		}
		if user != nil {
			result.NewBalance = user.Orbs
		}
		return result, nil
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := uow.UserRepository().AddOrbs(ctx, userID, orbs); err != nil {
		return nil, fmt.Errorf("failed to credit orbs: %w", err)
	}

	txn := &models.Transaction{
		UserID:            userID,
		Type:              models.TransactionTypeTopUp,
		Amount:            orbs,
		CashAmount:        decimal.NullDecimal{Decimal: cashAmount, Valid: true},
		Description:       fmt.Sprintf("Top-up of %d Orbs", orbs),
		Status:            models.TransactionStatusSuccess,
		CheckoutSessionID: &sessionID,
	}

	if err := RecordLedgerEntry(ctx, uow, txn, user.Orbs, user.Orbs+orbs); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TopUpResult{
		TransactionID: txn.ID,
		OrbsAdded:     orbs,
		NewBalance:    user.Orbs + orbs,
	}, nil
}

// Refund credits Orbs back to a user and records the refund in the
// ledger. The cash portion, if any, is settled out of band by the
// gateway; here it is only recorded.
func (s *walletService) Refund(ctx context.Context, userID int64, orbs int64, cash decimal.NullDecimal, reason string) (*models.Transaction, error) {
	if orbs < 0 {
		return nil, fmt.Errorf("refund orbs must not be negative")
	}
	if orbs == 0 && !cash.Valid {
		return nil, fmt.Errorf("refund must include orbs or cash")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if orbs > 0 {
		if err := uow.UserRepository().AddOrbs(ctx, userID, orbs); err != nil {
			return nil, fmt.Errorf("failed to credit refund orbs: %w", err)
		}
	}

	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeRefund,
		Amount:      orbs,
		CashAmount:  cash,
		Description: reason,
		Status:      models.TransactionStatusSuccess,
	}

	if err := RecordLedgerEntry(ctx, uow, txn, user.Orbs, user.Orbs+orbs); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return txn, nil
}

// GetTransactions returns a user's most recent ledger entries
func (s *walletService) GetTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TransactionRepository().GetByUser(ctx, userID, limit)
}
