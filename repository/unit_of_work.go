package repository

import (
	"context"
	"fmt"

	"gameportal/database"
	"gameportal/events"
	"gameportal/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	cartRepo         service.CartItemRepository
	wishlistRepo     service.WishlistItemRepository
	libraryRepo      service.LibraryItemRepository
	transactionRepo  service.TransactionRepository
	friendshipRepo   service.FriendshipRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.cartRepo = newCartItemRepositoryWithTx(tx)
	u.wishlistRepo = newWishlistItemRepositoryWithTx(tx)
	u.libraryRepo = newLibraryItemRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.friendshipRepo = newFriendshipRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// CartItemRepository returns the cart repository for this unit of work
func (u *unitOfWork) CartItemRepository() service.CartItemRepository {
	if u.cartRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.cartRepo
}

// WishlistItemRepository returns the wishlist repository for this unit of work
func (u *unitOfWork) WishlistItemRepository() service.WishlistItemRepository {
	if u.wishlistRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.wishlistRepo
}

// LibraryItemRepository returns the library repository for this unit of work
func (u *unitOfWork) LibraryItemRepository() service.LibraryItemRepository {
	if u.libraryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.libraryRepo
}

// TransactionRepository returns the transaction repository for this unit of work
func (u *unitOfWork) TransactionRepository() service.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// FriendshipRepository returns the friendship repository for this unit of work
func (u *unitOfWork) FriendshipRepository() service.FriendshipRepository {
	if u.friendshipRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.friendshipRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
