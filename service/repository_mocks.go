package service

import (
	"context"

	"gameportal/events"
	"gameportal/gateway"
	"gameportal/models"
	"gameportal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, username string, avatarURL *string) error {
	args := m.Called(ctx, id, username, avatarURL)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) AddOrbs(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockUserRepository) DeductOrbs(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockCartItemRepository is a mock implementation of CartItemRepository
type MockCartItemRepository struct {
	mock.Mock
}

func (m *MockCartItemRepository) GetByUser(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CartItem), args.Error(1)
}

func (m *MockCartItemRepository) GetByUserAndGame(ctx context.Context, userID int64, gameID string) (*models.CartItem, error) {
	args := m.Called(ctx, userID, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartItemRepository) Create(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartItemRepository) DeleteByUserAndGame(ctx context.Context, userID int64, gameID string) error {
	args := m.Called(ctx, userID, gameID)
	return args.Error(0)
}

func (m *MockCartItemRepository) DeleteAllByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartItemRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockWishlistItemRepository is a mock implementation of WishlistItemRepository
type MockWishlistItemRepository struct {
	mock.Mock
}

func (m *MockWishlistItemRepository) GetByUser(ctx context.Context, userID int64) ([]*models.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WishlistItem), args.Error(1)
}

func (m *MockWishlistItemRepository) GetByUserAndGame(ctx context.Context, userID int64, gameID string) (*models.WishlistItem, error) {
	args := m.Called(ctx, userID, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WishlistItem), args.Error(1)
}

func (m *MockWishlistItemRepository) Create(ctx context.Context, item *models.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWishlistItemRepository) DeleteByUserAndGame(ctx context.Context, userID int64, gameID string) error {
	args := m.Called(ctx, userID, gameID)
	return args.Error(0)
}

func (m *MockWishlistItemRepository) DeleteByUserAndGames(ctx context.Context, userID int64, gameIDs []string) error {
	args := m.Called(ctx, userID, gameIDs)
	return args.Error(0)
}

func (m *MockWishlistItemRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockLibraryItemRepository is a mock implementation of LibraryItemRepository
type MockLibraryItemRepository struct {
	mock.Mock
}

func (m *MockLibraryItemRepository) GetByUser(ctx context.Context, userID int64) ([]*models.LibraryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LibraryItem), args.Error(1)
}

func (m *MockLibraryItemRepository) Exists(ctx context.Context, userID int64, gameID string) (bool, error) {
	args := m.Called(ctx, userID, gameID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLibraryItemRepository) Create(ctx context.Context, item *models.LibraryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLibraryItemRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockFriendshipRepository is a mock implementation of FriendshipRepository
type MockFriendshipRepository struct {
	mock.Mock
}

func (m *MockFriendshipRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) Get(ctx context.Context, userID, friendID int64) (*models.Friendship, error) {
	args := m.Called(ctx, userID, friendID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) GetBetween(ctx context.Context, a, b int64) ([]*models.Friendship, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) Create(ctx context.Context, f *models.Friendship) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFriendshipRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFriendshipRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFriendshipRepository) DeleteBetween(ctx context.Context, a, b int64) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
}

func (m *MockFriendshipRepository) DeleteAcceptedBetween(ctx context.Context, a, b int64) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
}

func (m *MockFriendshipRepository) ListFriends(ctx context.Context, userID int64) ([]*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockFriendshipRepository) ListAcceptedIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockFriendshipRepository) ListIncomingRequests(ctx context.Context, userID int64) ([]*models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FriendRequest), args.Error(1)
}

func (m *MockFriendshipRepository) CountFriends(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateSession(ctx context.Context, params gateway.CreateSessionParams) (*gateway.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Session), args.Error(1)
}

func (m *MockPaymentGateway) RetrieveSession(ctx context.Context, sessionID string) (*gateway.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Session), args.Error(1)
}

// MockPriceResolver is a mock implementation of PriceResolver
type MockPriceResolver struct {
	mock.Mock
}

func (m *MockPriceResolver) Resolve(ctx context.Context, gameName string) (*pricing.Price, error) {
	args := m.Called(ctx, gameName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Price), args.Error(1)
}

// priceOf builds a resolved price for tests
func priceOf(value string) *pricing.Price {
	d := decimal.RequireFromString(value)
	return &pricing.Price{Original: d, Final: d, Currency: "myr"}
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository
// getters hand back the repositories configured via SetRepositories so
// tests wire one set of mocks for the whole unit of work.
type MockUnitOfWork struct {
	mock.Mock
	userRepo     UserRepository
	cartRepo     CartItemRepository
	wishlistRepo WishlistItemRepository
	libraryRepo  LibraryItemRepository
	txnRepo      TransactionRepository
	friendRepo   FriendshipRepository
	eventBus     EventPublisher
}

// SetRepositories configures the repositories the getters return. Nil is
// fine for repositories the test never touches.
func (m *MockUnitOfWork) SetRepositories(
	userRepo UserRepository,
	cartRepo CartItemRepository,
	wishlistRepo WishlistItemRepository,
	libraryRepo LibraryItemRepository,
	txnRepo TransactionRepository,
	friendRepo FriendshipRepository,
) {
	m.userRepo = userRepo
	m.cartRepo = cartRepo
	m.wishlistRepo = wishlistRepo
	m.libraryRepo = libraryRepo
	m.txnRepo = txnRepo
	m.friendRepo = friendRepo
}

// SetEventBus configures the publisher EventBus returns. Tests that do
// not care about events can skip this and get a discarding publisher.
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) CartItemRepository() CartItemRepository {
	return m.cartRepo
}

func (m *MockUnitOfWork) WishlistItemRepository() WishlistItemRepository {
	return m.wishlistRepo
}

func (m *MockUnitOfWork) LibraryItemRepository() LibraryItemRepository {
	return m.libraryRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.txnRepo
}

func (m *MockUnitOfWork) FriendshipRepository() FriendshipRepository {
	return m.friendRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return discardPublisher{}
	}
	return m.eventBus
}

type discardPublisher struct{}

func (discardPublisher) Publish(events.Event) {}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
