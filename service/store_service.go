package service

import (
	"context"
	"fmt"

	"gameportal/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type storeService struct {
	uowFactory UnitOfWorkFactory
	prices     PriceResolver
}

// NewStoreService creates a new store service
func NewStoreService(uowFactory UnitOfWorkFactory, prices PriceResolver) StoreService {
	return &storeService{
		uowFactory: uowFactory,
		prices:     prices,
	}
}

// AddToCart stages a game for purchase. The price lookup runs before the
// transaction opens, so a slow upstream never holds a database
// transaction; a failed lookup stages the game with no price.
func (s *storeService) AddToCart(ctx context.Context, userID int64, game GameRef) (*models.CartItem, error) {
	if game.GameID == "" || game.Name == "" {
		return nil, fmt.Errorf("game id and name are required")
	}

	price := s.resolvePrice(ctx, game.Name)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	owned, err := uow.LibraryItemRepository().Exists(ctx, userID, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check library: %w", err)
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	existing, err := uow.CartItemRepository().GetByUserAndGame(ctx, userID, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check cart: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyInCart
	}

	item := &models.CartItem{
		UserID:  userID,
		GameID:  game.GameID,
		GameURL: game.GameURL,
		Name:    game.Name,
		Image:   game.Image,
		Price:   price,
	}
	if err := uow.CartItemRepository().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return item, nil
}

// RemoveFromCart removes a game from the cart. Removing an absent game
// is a no-op.
func (s *storeService) RemoveFromCart(ctx context.Context, userID int64, gameID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.CartItemRepository().DeleteByUserAndGame(ctx, userID, gameID); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListCart returns a user's staged games
func (s *storeService) ListCart(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.CartItemRepository().GetByUser(ctx, userID)
}

// AddToWishlist saves a game for later
func (s *storeService) AddToWishlist(ctx context.Context, userID int64, game GameRef) (*models.WishlistItem, error) {
	if game.GameID == "" || game.Name == "" {
		return nil, fmt.Errorf("game id and name are required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	owned, err := uow.LibraryItemRepository().Exists(ctx, userID, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check library: %w", err)
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	existing, err := uow.WishlistItemRepository().GetByUserAndGame(ctx, userID, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyWishlist
	}

	item := &models.WishlistItem{
		UserID:  userID,
		GameID:  game.GameID,
		GameURL: game.GameURL,
		Name:    game.Name,
		Image:   game.Image,
	}
	if err := uow.WishlistItemRepository().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return item, nil
}

// RemoveFromWishlist removes a game from the wishlist. Removing an
// absent game is a no-op.
func (s *storeService) RemoveFromWishlist(ctx context.Context, userID int64, gameID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.WishlistItemRepository().DeleteByUserAndGame(ctx, userID, gameID); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListWishlist returns a user's saved games
func (s *storeService) ListWishlist(ctx context.Context, userID int64) ([]*models.WishlistItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WishlistItemRepository().GetByUser(ctx, userID)
}

// MoveToCart moves a wishlisted game into the cart, resolving its price
// on the way. The wishlist row stays until settlement removes it, so the
// game still shows as saved while it sits in the cart.
func (s *storeService) MoveToCart(ctx context.Context, userID int64, gameID string) (*models.CartItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wished, err := uow.WishlistItemRepository().GetByUserAndGame(ctx, userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if wished == nil {
		return nil, ErrNotInWishlist
	}
	uow.Rollback()

	return s.AddToCart(ctx, userID, GameRef{
		GameID:  wished.GameID,
		Name:    wished.Name,
		GameURL: wished.GameURL,
		Image:   wished.Image,
	})
}

// ListLibrary returns a user's owned games
func (s *storeService) ListLibrary(ctx context.Context, userID int64) ([]*models.LibraryItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.LibraryItemRepository().GetByUser(ctx, userID)
}

// resolvePrice looks up a game's current price, degrading to a null
// price when the upstream is unavailable.
func (s *storeService) resolvePrice(ctx context.Context, name string) decimal.NullDecimal {
	if s.prices == nil {
		return decimal.NullDecimal{}
	}

	price, err := s.prices.Resolve(ctx, name)
	if err != nil {
		log.WithError(err).WithField("game", name).Warn("Price lookup failed, staging without price")
		return decimal.NullDecimal{}
	}
	if price == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: price.Final, Valid: true}
}
