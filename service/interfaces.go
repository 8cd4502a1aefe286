package service

import (
	"context"

	"gameportal/events"
	"gameportal/gateway"
	"gameportal/models"
	"gameportal/pricing"

	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by internal id, nil if not found
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by email, nil if not found
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIDs retrieves users for a set of internal ids
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)

	// Create inserts a new user and fills in the generated fields
	Create(ctx context.Context, user *models.User) error

	// UpdateProfile updates a user's display name and avatar
	UpdateProfile(ctx context.Context, id int64, username string, avatarURL *string) error

	// UpdateStatus updates a user's presence status
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error

	// AddOrbs credits Orbs to a user's balance atomically
	AddOrbs(ctx context.Context, id int64, amount int64) error

	// DeductOrbs debits Orbs atomically, failing on insufficient balance
	DeductOrbs(ctx context.Context, id int64, amount int64) error
}

// CartItemRepository defines the interface for cart data access
type CartItemRepository interface {
	GetByUser(ctx context.Context, userID int64) ([]*models.CartItem, error)
	GetByUserAndGame(ctx context.Context, userID int64, gameID string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	DeleteByUserAndGame(ctx context.Context, userID int64, gameID string) error
	DeleteAllByUser(ctx context.Context, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// WishlistItemRepository defines the interface for wishlist data access
type WishlistItemRepository interface {
	GetByUser(ctx context.Context, userID int64) ([]*models.WishlistItem, error)
	GetByUserAndGame(ctx context.Context, userID int64, gameID string) (*models.WishlistItem, error)
	Create(ctx context.Context, item *models.WishlistItem) error
	DeleteByUserAndGame(ctx context.Context, userID int64, gameID string) error
	DeleteByUserAndGames(ctx context.Context, userID int64, gameIDs []string) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// LibraryItemRepository defines the interface for library data access
type LibraryItemRepository interface {
	GetByUser(ctx context.Context, userID int64) ([]*models.LibraryItem, error)
	Exists(ctx context.Context, userID int64, gameID string) (bool, error)
	Create(ctx context.Context, item *models.LibraryItem) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// TransactionRepository defines the interface for ledger data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error

	// GetBySessionID returns the transaction referencing an external
	// checkout session id, nil if none exists. This is the idempotency
	// check for gateway-confirmed settlement.
	GetBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error)

	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}

// FriendshipRepository defines the interface for friend graph data access
type FriendshipRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Friendship, error)
	Get(ctx context.Context, userID, friendID int64) (*models.Friendship, error)
	GetBetween(ctx context.Context, a, b int64) ([]*models.Friendship, error)
	Create(ctx context.Context, f *models.Friendship) error
	UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteBetween(ctx context.Context, a, b int64) error
	DeleteAcceptedBetween(ctx context.Context, a, b int64) error
	ListFriends(ctx context.Context, userID int64) ([]*models.User, error)
	ListAcceptedIDs(ctx context.Context, userID int64) ([]int64, error)
	ListIncomingRequests(ctx context.Context, userID int64) ([]*models.FriendRequest, error)
	CountFriends(ctx context.Context, userID int64) (int, error)
}

// PaymentGateway defines the hosted-checkout provider contract
type PaymentGateway interface {
	CreateSession(ctx context.Context, params gateway.CreateSessionParams) (*gateway.Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*gateway.Session, error)
}

// PriceResolver defines the external price lookup contract. Resolve
// returns nil when the price is unknown; that is never an error.
type PriceResolver interface {
	Resolve(ctx context.Context, gameName string) (*pricing.Price, error)
}

// GameRef identifies a catalog game as presented by the storefront UI
type GameRef struct {
	GameID  string
	Name    string
	GameURL string
	Image   string
}

// UserService defines the interface for account operations
type UserService interface {
	// Register creates a new account with a hashed password
	Register(ctx context.Context, username, email, password string) (*models.User, error)

	// Authenticate verifies credentials and returns the user
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// UpdateProfile updates display name and avatar
	UpdateProfile(ctx context.Context, id int64, username string, avatarURL *string) (*models.User, error)

	// UpdateStatus updates the presence status
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error

	// Summary aggregates balance and collection counts
	Summary(ctx context.Context, id int64) (*models.UserSummary, error)
}

// StoreService defines the interface for cart, wishlist and library
// operations
type StoreService interface {
	// AddToCart stages a game for purchase, resolving its current price
	AddToCart(ctx context.Context, userID int64, game GameRef) (*models.CartItem, error)

	RemoveFromCart(ctx context.Context, userID int64, gameID string) error
	ListCart(ctx context.Context, userID int64) ([]*models.CartItem, error)

	AddToWishlist(ctx context.Context, userID int64, game GameRef) (*models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, userID int64, gameID string) error
	ListWishlist(ctx context.Context, userID int64) ([]*models.WishlistItem, error)

	// MoveToCart moves a wishlisted game into the cart
	MoveToCart(ctx context.Context, userID int64, gameID string) (*models.CartItem, error)

	ListLibrary(ctx context.Context, userID int64) ([]*models.LibraryItem, error)
}

// SettlementService converts a staged cart into owned library entries
// while moving value and leaving an audit trail.
type SettlementService interface {
	// Quote computes the Orbs/cash split for the current cart
	Quote(ctx context.Context, userID int64, orbsRequested int64) (*models.CheckoutQuote, error)

	// CheckoutWithOrbs settles the cart entirely from the Orbs balance
	CheckoutWithOrbs(ctx context.Context, userID int64) (*models.SettlementResult, error)

	// CreateCheckoutSession creates a gateway session for the cash part
	// of the cart, or settles immediately when Orbs cover everything
	CreateCheckoutSession(ctx context.Context, userID int64, orbsToUse int64, successURL, cancelURL string) (*models.CheckoutSession, error)

	// CompletePaidCheckout settles a cart whose external payment the
	// caller has already verified
	CompletePaidCheckout(ctx context.Context, userID int64, sessionID string, orbsUsed int64, cashAmount decimal.Decimal) (*models.SettlementResult, error)

	// ConfirmCheckout settles after the user returns from the gateway.
	// It re-fetches the session, validates payment and metadata, and is
	// idempotent under page reloads.
	ConfirmCheckout(ctx context.Context, userID int64, sessionID string) (*models.SettlementResult, error)
}

// WalletService defines the interface for Orbs wallet operations
type WalletService interface {
	// CreateTopUpSession creates a gateway session to buy Orbs
	CreateTopUpSession(ctx context.Context, userID int64, amount decimal.Decimal, successURL, cancelURL string) (*models.CheckoutSession, error)

	// ConfirmTopUp credits Orbs after the user returns from the gateway,
	// idempotent under page reloads
	ConfirmTopUp(ctx context.Context, userID int64, sessionID string) (*models.TopUpResult, error)

	// Refund credits Orbs and/or notes a cash refund in the ledger
	Refund(ctx context.Context, userID int64, orbs int64, cash decimal.NullDecimal, reason string) (*models.Transaction, error)

	// GetTransactions returns a user's most recent ledger entries
	GetTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}

// FriendService defines the interface for friend graph operations
type FriendService interface {
	// SendRequest creates a pending edge, auto-accepting when the target
	// had already requested the sender
	SendRequest(ctx context.Context, userID, targetID int64) (*models.FriendRequestResult, error)

	// Accept flips a pending request to an accepted symmetric pair.
	// Only the requestee may accept.
	Accept(ctx context.Context, userID, requestID int64) error

	// Decline deletes a pending request. Only the requestee may decline.
	Decline(ctx context.Context, userID, requestID int64) error

	// Remove deletes both directions of an accepted pair
	Remove(ctx context.Context, userID, friendID int64) error

	// Block removes every edge between the pair and inserts a block
	Block(ctx context.Context, userID, targetID int64) error

	// Unblock removes the caller's own block only
	Unblock(ctx context.Context, userID, targetID int64) error

	ListFriends(ctx context.Context, userID int64) ([]*models.User, error)
	ListIncomingRequests(ctx context.Context, userID int64) ([]*models.FriendRequest, error)

	// MutualFriends returns the intersection of both users' accepted sets
	MutualFriends(ctx context.Context, userID, otherID int64) ([]*models.User, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	CartItemRepository() CartItemRepository
	WishlistItemRepository() WishlistItemRepository
	LibraryItemRepository() LibraryItemRepository
	TransactionRepository() TransactionRepository
	FriendshipRepository() FriendshipRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
