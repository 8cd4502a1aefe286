package service

import (
	"context"
	"testing"

	"gameportal/gateway"
	"gameportal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newSettlementMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockUserRepository, *MockCartItemRepository, *MockWishlistItemRepository, *MockLibraryItemRepository, *MockTransactionRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockCartRepo := new(MockCartItemRepository)
	mockWishlistRepo := new(MockWishlistItemRepository)
	mockLibraryRepo := new(MockLibraryItemRepository)
	mockTxnRepo := new(MockTransactionRepository)

	mockUoW.SetRepositories(mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockFactory, mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo
}

func TestSettlementService_CheckoutWithOrbs_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	user := &models.User{ID: 1, Orbs: 1000}
	lines := []*models.CartItem{cartLine("game-1", "5.00")}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockCartRepo.On("GetByUser", ctx, int64(1)).Return(lines, nil)
	mockUserRepo.On("DeductOrbs", ctx, int64(1), int64(500)).Return(nil)

	mockTxnRepo.On("Create", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == 1 &&
			txn.Type == models.TransactionTypePurchase &&
			txn.Amount == 500 &&
			txn.Status == models.TransactionStatusSuccess &&
			txn.CheckoutSessionID == nil
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Transaction).ID = 42
	})

	mockLibraryRepo.On("Exists", ctx, int64(1), "game-1").Return(false, nil)
	mockLibraryRepo.On("Create", ctx, mock.MatchedBy(func(item *models.LibraryItem) bool {
		return item.GameID == "game-1" && item.PurchasedPrice == "500 Orbs"
	})).Return(nil)

	mockWishlistRepo.On("DeleteByUserAndGames", ctx, int64(1), []string{"game-1"}).Return(nil)
	mockCartRepo.On("DeleteAllByUser", ctx, int64(1)).Return(nil)

	result, err := service.CheckoutWithOrbs(ctx, 1)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.AlreadySettled)
	assert.Equal(t, int64(42), result.TransactionID)
	assert.Equal(t, int64(500), result.OrbsSpent)
	assert.Equal(t, int64(0), result.OrbsRewarded)
	assert.Equal(t, int64(500), result.NewBalance)
	assert.Len(t, result.Items, 1)

	mockUserRepo.AssertExpectations(t)
	mockCartRepo.AssertExpectations(t)
	mockLibraryRepo.AssertExpectations(t)
	mockTxnRepo.AssertExpectations(t)
	mockWishlistRepo.AssertExpectations(t)
}

func TestSettlementService_CheckoutWithOrbs_InsufficientOrbs(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, _, _, _ := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	user := &models.User{ID: 1, Orbs: 100}
	lines := []*models.CartItem{cartLine("game-1", "5.00")}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockCartRepo.On("GetByUser", ctx, int64(1)).Return(lines, nil)

	result, err := service.CheckoutWithOrbs(ctx, 1)

	assert.ErrorIs(t, err, ErrInsufficientOrbs)
	assert.Nil(t, result)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSettlementService_CheckoutWithOrbs_EmptyCart(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, _, _, _ := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Orbs: 1000}, nil)
	mockCartRepo.On("GetByUser", ctx, int64(1)).Return([]*models.CartItem{}, nil)

	result, err := service.CheckoutWithOrbs(ctx, 1)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, result)
}

func TestSettlementService_CompletePaidCheckout_CashOnlyEarnsCashback(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	user := &models.User{ID: 7, Orbs: 0}
	lines := []*models.CartItem{cartLine("game-1", "20.00")}
	sessionID := "cs_test_123"

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTxnRepo.On("GetBySessionID", ctx, sessionID).Return(nil, nil)
	mockUserRepo.On("GetByID", ctx, int64(7)).Return(user, nil)
	mockCartRepo.On("GetByUser", ctx, int64(7)).Return(lines, nil)

	// 5% of RM20.00 = 100 Orbs cashback
	mockUserRepo.On("AddOrbs", ctx, int64(7), int64(100)).Return(nil)

	mockTxnRepo.On("Create", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Amount == 0 &&
			txn.CashAmount.Valid &&
			txn.CashAmount.Decimal.Equal(decimal.RequireFromString("20.00")) &&
			txn.CheckoutSessionID != nil && *txn.CheckoutSessionID == sessionID
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Transaction).ID = 9
	})

	mockLibraryRepo.On("Exists", ctx, int64(7), "game-1").Return(false, nil)
	mockLibraryRepo.On("Create", ctx, mock.MatchedBy(func(item *models.LibraryItem) bool {
		return item.PurchasedPrice == "RM 20.00"
	})).Return(nil)

	mockWishlistRepo.On("DeleteByUserAndGames", ctx, int64(7), []string{"game-1"}).Return(nil)
	mockCartRepo.On("DeleteAllByUser", ctx, int64(7)).Return(nil)

	result, err := service.CompletePaidCheckout(ctx, 7, sessionID, 0, decimal.RequireFromString("20.00"))

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.OrbsSpent)
	assert.Equal(t, int64(100), result.OrbsRewarded)
	assert.Equal(t, int64(100), result.NewBalance)

	mockUserRepo.AssertExpectations(t)
	mockTxnRepo.AssertExpectations(t)
}

func TestSettlementService_CompletePaidCheckout_MixedSpendGetsNoCashback(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	user := &models.User{ID: 3, Orbs: 500}
	lines := []*models.CartItem{cartLine("game-1", "8.00")}
	sessionID := "cs_test_456"

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTxnRepo.On("GetBySessionID", ctx, sessionID).Return(nil, nil)
	mockUserRepo.On("GetByID", ctx, int64(3)).Return(user, nil)
	mockCartRepo.On("GetByUser", ctx, int64(3)).Return(lines, nil)
	mockUserRepo.On("DeductOrbs", ctx, int64(3), int64(300)).Return(nil)

	mockTxnRepo.On("Create", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Amount == 300 && txn.CashAmount.Valid
	})).Return(nil)

	mockLibraryRepo.On("Exists", ctx, int64(3), "game-1").Return(false, nil)
	mockLibraryRepo.On("Create", ctx, mock.MatchedBy(func(item *models.LibraryItem) bool {
		return item.PurchasedPrice == "RM 5.00 + 300 Orbs"
	})).Return(nil)

	mockWishlistRepo.On("DeleteByUserAndGames", ctx, int64(3), []string{"game-1"}).Return(nil)
	mockCartRepo.On("DeleteAllByUser", ctx, int64(3)).Return(nil)

	result, err := service.CompletePaidCheckout(ctx, 3, sessionID, 300, decimal.RequireFromString("5.00"))

	assert.NoError(t, err)
	assert.Equal(t, int64(300), result.OrbsSpent)
	assert.Equal(t, int64(0), result.OrbsRewarded)
	assert.Equal(t, int64(200), result.NewBalance)

	mockUserRepo.AssertNotCalled(t, "AddOrbs", mock.Anything, mock.Anything, mock.Anything)
	mockLibraryRepo.AssertExpectations(t)
}

func TestSettlementService_CompletePaidCheckout_ReplayIsNoOp(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, _, _, mockTxnRepo := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	sessionID := "cs_test_replay"
	settled := &models.Transaction{
		ID:         11,
		UserID:     5,
		Type:       models.TransactionTypePurchase,
		Amount:     0,
		CashAmount: decimal.NullDecimal{Decimal: decimal.RequireFromString("20.00"), Valid: true},
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTxnRepo.On("GetBySessionID", ctx, sessionID).Return(settled, nil)
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(&models.User{ID: 5, Orbs: 100}, nil)

	result, err := service.CompletePaidCheckout(ctx, 5, sessionID, 0, decimal.RequireFromString("20.00"))

	assert.NoError(t, err)
	assert.True(t, result.AlreadySettled)
	assert.Equal(t, int64(11), result.TransactionID)
	assert.Equal(t, int64(100), result.NewBalance)

	// A replay must not touch the cart or move any value
	mockCartRepo.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "AddOrbs", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "DeductOrbs", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSettlementService_CheckoutWithOrbs_OwnedGameSkippedButCartCleared(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	user := &models.User{ID: 1, Orbs: 2000}
	lines := []*models.CartItem{
		cartLine("owned", "5.00"),
		cartLine("fresh", "5.00"),
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockCartRepo.On("GetByUser", ctx, int64(1)).Return(lines, nil)
	mockUserRepo.On("DeductOrbs", ctx, int64(1), int64(1000)).Return(nil)
	mockTxnRepo.On("Create", ctx, mock.Anything).Return(nil)

	mockLibraryRepo.On("Exists", ctx, int64(1), "owned").Return(true, nil)
	mockLibraryRepo.On("Exists", ctx, int64(1), "fresh").Return(false, nil)
	mockLibraryRepo.On("Create", ctx, mock.MatchedBy(func(item *models.LibraryItem) bool {
		return item.GameID == "fresh"
	})).Return(nil)

	mockWishlistRepo.On("DeleteByUserAndGames", ctx, int64(1), []string{"owned", "fresh"}).Return(nil)
	mockCartRepo.On("DeleteAllByUser", ctx, int64(1)).Return(nil)

	result, err := service.CheckoutWithOrbs(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "fresh", result.Items[0].GameID)

	mockLibraryRepo.AssertExpectations(t)
	mockCartRepo.AssertExpectations(t)
}

func TestSettlementService_Quote_CapsOrbsAtBalanceAndCartValue(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, _, _, _ := newSettlementMocks()

	service := NewSettlementService(mockFactory, nil, "myr", "RM")

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Orbs: 300}, nil)
	mockCartRepo.On("GetByUser", ctx, int64(1)).Return([]*models.CartItem{cartLine("game-1", "8.00")}, nil)

	// Requested more than the balance holds
	quote, err := service.Quote(ctx, 1, 10000)

	assert.NoError(t, err)
	assert.Equal(t, int64(300), quote.OrbsToUse)
	assert.True(t, quote.OrbsValue.Equal(decimal.RequireFromString("3.00")))
	assert.True(t, quote.CashDue.Equal(decimal.RequireFromString("5.00")))
}

func TestSettlementService_CreateCheckoutSession_SettlesWhenOrbsCoverCart(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo := newSettlementMocks()
	mockGateway := new(MockPaymentGateway)

	service := NewSettlementService(mockFactory, mockGateway, "myr", "RM")

	user := &models.User{ID: 1, Orbs: 1000}
	lines := []*models.CartItem{cartLine("game-1", "5.00")}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(user, nil)
	mockCartRepo.On("GetByUser", ctx, int64(1)).Return(lines, nil)
	mockUserRepo.On("DeductOrbs", ctx, int64(1), int64(500)).Return(nil)
	mockTxnRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockLibraryRepo.On("Exists", ctx, int64(1), "game-1").Return(false, nil)
	mockLibraryRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockWishlistRepo.On("DeleteByUserAndGames", ctx, int64(1), []string{"game-1"}).Return(nil)
	mockCartRepo.On("DeleteAllByUser", ctx, int64(1)).Return(nil)

	session, err := service.CreateCheckoutSession(ctx, 1, 500, "https://portal/success", "https://portal/cancel")

	assert.NoError(t, err)
	assert.True(t, session.Settled)
	assert.NotNil(t, session.Result)
	assert.Equal(t, int64(500), session.Result.OrbsSpent)

	mockGateway.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestSettlementService_CreateCheckoutSession_CashDueGoesToGateway(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, _, _, _ := newSettlementMocks()
	mockGateway := new(MockPaymentGateway)

	service := NewSettlementService(mockFactory, mockGateway, "myr", "RM")

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Orbs: 300}, nil)
	mockCartRepo.On("GetByUser", ctx, int64(1)).Return([]*models.CartItem{cartLine("game-1", "8.00")}, nil)

	mockGateway.On("CreateSession", ctx, mock.MatchedBy(func(p gateway.CreateSessionParams) bool {
		return p.AmountMinor == 500 &&
			p.Currency == "myr" &&
			p.Metadata[gateway.MetaUserID] == "1" &&
			p.Metadata[gateway.MetaOrbsUsed] == "300" &&
			p.Metadata[gateway.MetaPurpose] == "purchase"
	})).Return(&gateway.Session{ID: "cs_1", RedirectURL: "https://gw/pay/cs_1"}, nil)

	session, err := service.CreateCheckoutSession(ctx, 1, 300, "https://portal/success", "https://portal/cancel")

	assert.NoError(t, err)
	assert.False(t, session.Settled)
	assert.Equal(t, "cs_1", session.SessionID)
	assert.Equal(t, "https://gw/pay/cs_1", session.RedirectURL)

	mockGateway.AssertExpectations(t)
}

func TestSettlementService_ConfirmCheckout_UnpaidSession(t *testing.T) {
	ctx := context.Background()

	_, mockFactory, _, _, _, _, _ := newSettlementMocks()
	mockGateway := new(MockPaymentGateway)

	service := NewSettlementService(mockFactory, mockGateway, "myr", "RM")

	mockGateway.On("RetrieveSession", ctx, "cs_unpaid").Return(&gateway.Session{
		ID:            "cs_unpaid",
		PaymentStatus: gateway.PaymentStatusUnpaid,
	}, nil)

	result, err := service.ConfirmCheckout(ctx, 1, "cs_unpaid")

	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	assert.Nil(t, result)
}

func TestSettlementService_ConfirmCheckout_UserMismatch(t *testing.T) {
	ctx := context.Background()

	_, mockFactory, _, _, _, _, _ := newSettlementMocks()
	mockGateway := new(MockPaymentGateway)

	service := NewSettlementService(mockFactory, mockGateway, "myr", "RM")

	mockGateway.On("RetrieveSession", ctx, "cs_other").Return(&gateway.Session{
		ID:            "cs_other",
		PaymentStatus: gateway.PaymentStatusPaid,
		AmountMinor:   2000,
		Metadata: map[string]string{
			gateway.MetaUserID:   "999",
			gateway.MetaOrbsUsed: "0",
		},
	}, nil)

	result, err := service.ConfirmCheckout(ctx, 1, "cs_other")

	assert.ErrorIs(t, err, ErrSessionUserMismatch)
	assert.Nil(t, result)
}

func TestSettlementService_ConfirmCheckout_MissingOrbsMetadataSettlesCashOnly(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockCartRepo, mockWishlistRepo, mockLibraryRepo, mockTxnRepo := newSettlementMocks()
	mockGateway := new(MockPaymentGateway)

	service := NewSettlementService(mockFactory, mockGateway, "myr", "RM")

	sessionID := "cs_degraded"
	mockGateway.On("RetrieveSession", ctx, sessionID).Return(&gateway.Session{
		ID:            sessionID,
		PaymentStatus: gateway.PaymentStatusPaid,
		AmountMinor:   2000,
		Metadata:      map[string]string{gateway.MetaUserID: "7"},
	}, nil)

	user := &models.User{ID: 7, Orbs: 50}
	lines := []*models.CartItem{cartLine("game-1", "20.00")}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTxnRepo.On("GetBySessionID", ctx, sessionID).Return(nil, nil)
	mockUserRepo.On("GetByID", ctx, int64(7)).Return(user, nil)
	mockCartRepo.On("GetByUser", ctx, int64(7)).Return(lines, nil)
	mockUserRepo.On("AddOrbs", ctx, int64(7), int64(100)).Return(nil)
	mockTxnRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockLibraryRepo.On("Exists", ctx, int64(7), "game-1").Return(false, nil)
	mockLibraryRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockWishlistRepo.On("DeleteByUserAndGames", ctx, int64(7), []string{"game-1"}).Return(nil)
	mockCartRepo.On("DeleteAllByUser", ctx, int64(7)).Return(nil)

	result, err := service.ConfirmCheckout(ctx, 7, sessionID)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.OrbsSpent)
	assert.Equal(t, int64(100), result.OrbsRewarded)
	assert.True(t, result.CashAmount.Equal(decimal.RequireFromString("20.00")))

	mockUserRepo.AssertNotCalled(t, "DeductOrbs", mock.Anything, mock.Anything, mock.Anything)
}
