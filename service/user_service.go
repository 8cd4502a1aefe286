package service

import (
	"context"
	"fmt"
	"strings"

	"gameportal/events"
	"gameportal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	uowFactory  UnitOfWorkFactory
	welcomeOrbs int64
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, welcomeOrbs int64) UserService {
	return &userService{
		uowFactory:  uowFactory,
		welcomeOrbs: welcomeOrbs,
	}
}

// Register creates a new account with a hashed password. The welcome
// grant, when configured, goes through the ledger like every other Orbs
// mutation.
func (s *userService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashStr := string(hash)
	user := &models.User{
		UID:          uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: &hashStr,
		Orbs:         0,
		Status:       models.UserStatusOffline,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.welcomeOrbs > 0 {
		if err := uow.UserRepository().AddOrbs(ctx, user.ID, s.welcomeOrbs); err != nil {
			return nil, fmt.Errorf("failed to grant welcome orbs: %w", err)
		}

		txn := &models.Transaction{
			UserID:      user.ID,
			Type:        models.TransactionTypeTopUp,
			Amount:      s.welcomeOrbs,
			Description: "Welcome bonus",
			Status:      models.TransactionStatusSuccess,
		}
		if err := RecordLedgerEntry(ctx, uow, txn, 0, s.welcomeOrbs); err != nil {
			return nil, err
		}
		user.Orbs = s.welcomeOrbs
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// Authenticate verifies an email/password pair. The same error comes
// back for an unknown email and a wrong password.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by id
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile updates display name and avatar
func (s *userService) UpdateProfile(ctx context.Context, id int64, username string, avatarURL *string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := uow.UserRepository().UpdateProfile(ctx, id, username, avatarURL); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.Username = username
	user.AvatarURL = avatarURL
	return user, nil
}

// UpdateStatus updates the presence status
func (s *userService) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Summary aggregates balance and collection counts for the dashboard
func (s *userService) Summary(ctx context.Context, id int64) (*models.UserSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	cartCount, err := uow.CartItemRepository().CountByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count cart items: %w", err)
	}
	wishlistCount, err := uow.WishlistItemRepository().CountByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count wishlist items: %w", err)
	}
	libraryCount, err := uow.LibraryItemRepository().CountByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count library items: %w", err)
	}
	friendCount, err := uow.FriendshipRepository().CountFriends(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count friends: %w", err)
	}

	return &models.UserSummary{
		Orbs:          user.Orbs,
		CartCount:     cartCount,
		WishlistCount: wishlistCount,
		LibraryCount:  libraryCount,
		FriendCount:   friendCount,
	}, nil
}
