package repository

import (
	"context"
	"fmt"

	"gameportal/database"
	"gameportal/models"
)

// LibraryItemRepository implements the service.LibraryItemRepository interface
type LibraryItemRepository struct {
	q queryable
}

// NewLibraryItemRepository creates a new library item repository
func NewLibraryItemRepository(db *database.DB) *LibraryItemRepository {
	return &LibraryItemRepository{q: db.Pool}
}

func newLibraryItemRepositoryWithTx(tx queryable) *LibraryItemRepository {
	return &LibraryItemRepository{q: tx}
}

// GetByUser returns a user's library, most recently purchased first
func (r *LibraryItemRepository) GetByUser(ctx context.Context, userID int64) ([]*models.LibraryItem, error) {
	query := `
		SELECT id, user_id, game_id, game_url, name, image, purchased_price, purchased_at
		FROM library_items
		WHERE user_id = $1
		ORDER BY purchased_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get library for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []*models.LibraryItem
	for rows.Next() {
		var item models.LibraryItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.GameID,
			&item.GameURL,
			&item.Name,
			&item.Image,
			&item.PurchasedPrice,
			&item.PurchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan library item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate library items: %w", err)
	}

	return items, nil
}

// Exists reports whether the user already owns the game
func (r *LibraryItemRepository) Exists(ctx context.Context, userID int64, gameID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM library_items WHERE user_id = $1 AND game_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, userID, gameID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ownership for user %d game %s: %w", userID, gameID, err)
	}

	return exists, nil
}

// Create inserts a new library item and fills in the generated fields
func (r *LibraryItemRepository) Create(ctx context.Context, item *models.LibraryItem) error {
	query := `
		INSERT INTO library_items (user_id, game_id, game_url, name, image, purchased_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, purchased_at
	`

	err := r.q.QueryRow(ctx, query,
		item.UserID,
		item.GameID,
		item.GameURL,
		item.Name,
		item.Image,
		item.PurchasedPrice,
	).Scan(&item.ID, &item.PurchasedAt)

	if err != nil {
		return fmt.Errorf("failed to create library item for user %d: %w", item.UserID, err)
	}

	return nil
}

// CountByUser returns the number of games a user owns
func (r *LibraryItemRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM library_items WHERE user_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count library items for user %d: %w", userID, err)
	}

	return count, nil
}
