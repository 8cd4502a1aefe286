package testutil

import (
	"fmt"

	"gameportal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestUser creates a user model with default values
func CreateTestUser(username string) *models.User {
	return &models.User{
		UID:      uuid.NewString(),
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Orbs:     1000,
		Status:   models.UserStatusOffline,
	}
}

// CreateTestUserWithOrbs creates a user model with a specific balance
func CreateTestUserWithOrbs(username string, orbs int64) *models.User {
	user := CreateTestUser(username)
	user.Orbs = orbs
	return user
}

// CreateTestCartItem creates a cart item with a priced game
func CreateTestCartItem(userID int64, gameID, price string) *models.CartItem {
	item := &models.CartItem{
		UserID:  userID,
		GameID:  gameID,
		GameURL: fmt.Sprintf("https://store.example.com/games/%s", gameID),
		Name:    gameID,
		Image:   fmt.Sprintf("https://cdn.example.com/%s.jpg", gameID),
	}
	if price != "" {
		item.Price = decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true}
	}
	return item
}

// CreateTestWishlistItem creates a wishlist item
func CreateTestWishlistItem(userID int64, gameID string) *models.WishlistItem {
	return &models.WishlistItem{
		UserID:  userID,
		GameID:  gameID,
		GameURL: fmt.Sprintf("https://store.example.com/games/%s", gameID),
		Name:    gameID,
		Image:   fmt.Sprintf("https://cdn.example.com/%s.jpg", gameID),
	}
}

// CreateTestTransaction creates a ledger entry
func CreateTestTransaction(userID int64, txnType models.TransactionType, orbs int64) *models.Transaction {
	return &models.Transaction{
		UserID:      userID,
		Type:        txnType,
		Amount:      orbs,
		Description: "test transaction",
		Status:      models.TransactionStatusSuccess,
	}
}
