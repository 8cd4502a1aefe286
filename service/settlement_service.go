package service

import (
	"context"
	"fmt"
	"strconv"

	"gameportal/events"
	"gameportal/gateway"
	"gameportal/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	uowFactory    UnitOfWorkFactory
	gateway       PaymentGateway
	currency      string // ISO code sent to the gateway
	currencyLabel string // display prefix for purchased prices
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, gw PaymentGateway, currency, currencyLabel string) SettlementService {
	return &settlementService{
		uowFactory:    uowFactory,
		gateway:       gw,
		currency:      currency,
		currencyLabel: currencyLabel,
	}
}

// Quote computes the Orbs/cash split for the user's current cart.
// orbsRequested is capped at both the user's balance and the cart's full
// Orbs value.
func (s *settlementService) Quote(ctx context.Context, userID int64, orbsRequested int64) (*models.CheckoutQuote, error) {
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

	lines, err := uow.CartItemRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := cartTotal(lines)

	orbsToUse := orbsRequested
	if orbsToUse < 0 {
		orbsToUse = 0
	}
	if max := orbsFromCash(total); orbsToUse > max {
		orbsToUse = max
	}
	if orbsToUse > user.Orbs {
		orbsToUse = user.Orbs
	}

	value := orbsValue(orbsToUse)
	cashDue := total.Sub(value)
	if cashDue.IsNegative() {
		cashDue = decimal.Zero
	}

	return &models.CheckoutQuote{
		Lines:     lines,
		Total:     total,
		OrbsToUse: orbsToUse,
		OrbsValue: value,
		CashDue:   cashDue,
	}, nil
}

// CheckoutWithOrbs settles the cart entirely from the user's Orbs balance.
func (s *settlementService) CheckoutWithOrbs(ctx context.Context, userID int64) (*models.SettlementResult, error) {
	return s.commitPurchase(ctx, commitParams{
		userID:   userID,
		fullOrbs: true,
	})
}

// CreateCheckoutSession creates a hosted gateway session for the cash
// portion of the cart. When the elected Orbs cover the whole cart there is
// nothing to charge, so the purchase settles immediately instead.
func (s *settlementService) CreateCheckoutSession(ctx context.Context, userID int64, orbsToUse int64, successURL, cancelURL string) (*models.CheckoutSession, error) {
	quote, err := s.Quote(ctx, userID, orbsToUse)
	if err != nil {
		return nil, err
	}

	if quote.CashDue.IsZero() {
		result, err := s.CheckoutWithOrbs(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &models.CheckoutSession{Settled: true, Result: result}, nil
	}

	session, err := s.gateway.CreateSession(ctx, gateway.CreateSessionParams{
		AmountMinor: quote.CashDue.Shift(2).IntPart(),
		Currency:    s.currency,
		Description: fmt.Sprintf("Game Portal order (%d items)", len(quote.Lines)),
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
		Metadata: map[string]string{
			gateway.MetaUserID:   strconv.FormatInt(userID, 10),
			gateway.MetaOrbsUsed: strconv.FormatInt(quote.OrbsToUse, 10),
			gateway.MetaPurpose:  "purchase",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &models.CheckoutSession{
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

// CompletePaidCheckout settles a cart whose external payment has already
// been verified by the caller.
func (s *settlementService) CompletePaidCheckout(ctx context.Context, userID int64, sessionID string, orbsUsed int64, cashAmount decimal.Decimal) (*models.SettlementResult, error) {
	return s.commitPurchase(ctx, commitParams{
		userID:       userID,
		orbsToDeduct: orbsUsed,
		cashAmount:   cashAmount,
		sessionID:    sessionID,
	})
}

// ConfirmCheckout handles the redirect back from the gateway. The session
// is re-fetched, the payment status checked, and the Orbs-used metadata
// recovered; the browser may reload this page so the commit is idempotent
// on the session id.
func (s *settlementService) ConfirmCheckout(ctx context.Context, userID int64, sessionID string) (*models.SettlementResult, error) {
	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		// Payment status is load-bearing here; without it settlement
		// cannot proceed.
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	if session.PaymentStatus != gateway.PaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	// Metadata travelled through the gateway redirect and is untrusted;
	// it must match the authenticated user.
	metaUserID, err := strconv.ParseInt(session.Metadata[gateway.MetaUserID], 10, 64)
	if err != nil || metaUserID != userID {
		return nil, ErrSessionUserMismatch
	}

	orbsUsed, err := strconv.ParseInt(session.Metadata[gateway.MetaOrbsUsed], 10, 64)
	if err != nil || orbsUsed < 0 {
		// Degrade to a pure-cash purchase rather than failing the commit
		log.WithFields(log.Fields{
			"sessionID": sessionID,
			"userID":    userID,
		}).Warn("Checkout session missing Orbs metadata, settling as cash-only")
		orbsUsed = 0
	}

	cashAmount := decimal.New(session.AmountMinor, -2)

	return s.CompletePaidCheckout(ctx, userID, sessionID, orbsUsed, cashAmount)
}

// commitParams are the inputs to the common commit sub-protocol. When
// fullOrbs is set, the Orbs to deduct are recomputed from the cart read
// inside the transaction.
type commitParams struct {
	userID       int64
	orbsToDeduct int64
	cashAmount   decimal.Decimal
	sessionID    string // empty when no gateway was involved
	fullOrbs     bool
}

// commitPurchase is the common settlement path for all three checkout
// triggers: debit or reward Orbs, write the ledger entry, move cart lines
// into the library, drop purchased wishlist rows, and clear the cart, all
// in one transaction.
func (s *settlementService) commitPurchase(ctx context.Context, p commitParams) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Idempotent replay: a session id that already settled is a success,
	// not a duplicate charge. This must run before the cart check, since
	// the first settlement cleared the cart.
	if p.sessionID != "" {
		existing, err := uow.TransactionRepository().GetBySessionID(ctx, p.sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session id: %w", err)
		}
		if existing != nil {
			user, err := uow.UserRepository().GetByID(ctx, p.userID)
			if err != nil {
				return nil, fmt.Errorf("failed to get user: %w", err)
			}
			result := &models.SettlementResult{
				AlreadySettled: true,
				TransactionID:  existing.ID,
				OrbsSpent:      existing.Amount,
			}
			if existing.CashAmount.Valid {
				result.CashAmount = existing.CashAmount.Decimal
			}
			if user != nil {
				result.NewBalance = user.Orbs
			}
			return result, nil
		}
	}

	// Balance is re-read inside the transaction so concurrent spends on
	// the same wallet cannot overdraw it.
	user, err := uow.UserRepository().GetByID(ctx, p.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	lines, err := uow.CartItemRepository().GetByUser(ctx, p.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := cartTotal(lines)

	orbsToDeduct := p.orbsToDeduct
	cashAmount := p.cashAmount
	if p.fullOrbs {
		orbsToDeduct = orbsFromCash(total)
		cashAmount = decimal.Zero
	}

	var orbsReward int64
	switch {
	case orbsToDeduct > 0:
		if user.Orbs < orbsToDeduct {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientOrbs, user.Orbs, orbsToDeduct)
		}
		if err := uow.UserRepository().DeductOrbs(ctx, p.userID, orbsToDeduct); err != nil {
			return nil, fmt.Errorf("failed to deduct orbs: %w", err)
		}
	case cashAmount.IsPositive():
		// Cashback only applies when no Orbs were spent at all
		orbsReward = cashbackOrbs(cashAmount)
		if orbsReward > 0 {
			if err := uow.UserRepository().AddOrbs(ctx, p.userID, orbsReward); err != nil {
				return nil, fmt.Errorf("failed to credit cashback orbs: %w", err)
			}
		}
	}

	newBalance := user.Orbs - orbsToDeduct + orbsReward

	description := fmt.Sprintf("Purchase of %d game(s)", len(lines))
	if orbsReward > 0 {
		description = fmt.Sprintf("%s (+%d Orbs cashback)", description, orbsReward)
	}

	txn := &models.Transaction{
		UserID:      p.userID,
		Type:        models.TransactionTypePurchase,
		Amount:      orbsToDeduct,
		Description: description,
		Status:      models.TransactionStatusSuccess,
	}
	if cashAmount.IsPositive() {
		txn.CashAmount = decimal.NullDecimal{Decimal: cashAmount, Valid: true}
	}
	if p.sessionID != "" {
		sessionID := p.sessionID
		txn.CheckoutSessionID = &sessionID
	}

	if err := RecordLedgerEntry(ctx, uow, txn, user.Orbs, newBalance); err != nil {
		return nil, err
	}

	// Distribute the Orbs spent across lines by cash share; the cash part
	// of each line is whatever its price the Orbs did not cover.
	shares := distributeOrbs(lines, total, orbsToDeduct)

	gameIDs := make([]string, 0, len(lines))
	var items []*models.LibraryItem
	for i, line := range lines {
		gameIDs = append(gameIDs, line.GameID)

		owned, err := uow.LibraryItemRepository().Exists(ctx, p.userID, line.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to check ownership: %w", err)
		}
		if owned {
			// Already-owned duplicates are skipped but still leave the
			// cart below
			continue
		}

		cashPart := line.CashPrice().Sub(orbsValue(shares[i]))
		if cashPart.IsNegative() {
			cashPart = decimal.Zero
		}

		item := &models.LibraryItem{
			UserID:         p.userID,
			GameID:         line.GameID,
			GameURL:        line.GameURL,
			Name:           line.Name,
			Image:          line.Image,
			PurchasedPrice: displayPrice(s.currencyLabel, cashPart, shares[i]),
		}
		if err := uow.LibraryItemRepository().Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create library item: %w", err)
		}
		items = append(items, item)
	}

	if err := uow.WishlistItemRepository().DeleteByUserAndGames(ctx, p.userID, gameIDs); err != nil {
		return nil, fmt.Errorf("failed to clear purchased wishlist items: %w", err)
	}

	if err := uow.CartItemRepository().DeleteAllByUser(ctx, p.userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	uow.EventBus().Publish(events.PurchaseCompletedEvent{
		UserID:        p.userID,
		TransactionID: txn.ID,
		GameIDs:       gameIDs,
		OrbsSpent:     orbsToDeduct,
		OrbsRewarded:  orbsReward,
		CashAmount:    cashAmount.StringFixed(2),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.SettlementResult{
		TransactionID: txn.ID,
		OrbsSpent:     orbsToDeduct,
		OrbsRewarded:  orbsReward,
		CashAmount:    cashAmount,
		NewBalance:    newBalance,
		Items:         items,
	}, nil
}
