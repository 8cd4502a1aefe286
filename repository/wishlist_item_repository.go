package repository

import (
	"context"
	"fmt"

	"gameportal/database"
	"gameportal/models"

	"github.com/jackc/pgx/v5"
)

// WishlistItemRepository implements the service.WishlistItemRepository interface
type WishlistItemRepository struct {
	q queryable
}

// NewWishlistItemRepository creates a new wishlist item repository
func NewWishlistItemRepository(db *database.DB) *WishlistItemRepository {
	return &WishlistItemRepository{q: db.Pool}
}

func newWishlistItemRepositoryWithTx(tx queryable) *WishlistItemRepository {
	return &WishlistItemRepository{q: tx}
}

const wishlistItemColumns = `id, user_id, game_id, game_url, name, image, added_at`

func scanWishlistItem(row pgx.Row) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.GameID,
		&item.GameURL,
		&item.Name,
		&item.Image,
		&item.AddedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByUser returns a user's wishlist, oldest first
func (r *WishlistItemRepository) GetByUser(ctx context.Context, userID int64) ([]*models.WishlistItem, error) {
	query := `SELECT ` + wishlistItemColumns + ` FROM wishlist_items WHERE user_id = $1 ORDER BY added_at`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []*models.WishlistItem
	for rows.Next() {
		item, err := scanWishlistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wishlist items: %w", err)
	}

	return items, nil
}

// GetByUserAndGame returns the wishlist item for a specific game, or nil
func (r *WishlistItemRepository) GetByUserAndGame(ctx context.Context, userID int64, gameID string) (*models.WishlistItem, error) {
	query := `SELECT ` + wishlistItemColumns + ` FROM wishlist_items WHERE user_id = $1 AND game_id = $2`

	item, err := scanWishlistItem(r.q.QueryRow(ctx, query, userID, gameID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist item for user %d game %s: %w", userID, gameID, err)
	}

	return item, nil
}

// Create inserts a new wishlist item and fills in the generated fields
func (r *WishlistItemRepository) Create(ctx context.Context, item *models.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (user_id, game_id, game_url, name, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, added_at
	`

	err := r.q.QueryRow(ctx, query,
		item.UserID,
		item.GameID,
		item.GameURL,
		item.Name,
		item.Image,
	).Scan(&item.ID, &item.AddedAt)

	if err != nil {
		return fmt.Errorf("failed to create wishlist item for user %d: %w", item.UserID, err)
	}

	return nil
}

// DeleteByUserAndGame removes a single game from a user's wishlist
func (r *WishlistItemRepository) DeleteByUserAndGame(ctx context.Context, userID int64, gameID string) error {
	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND game_id = $2`

	if _, err := r.q.Exec(ctx, query, userID, gameID); err != nil {
		return fmt.Errorf("failed to delete wishlist item for user %d game %s: %w", userID, gameID, err)
	}

	return nil
}

// DeleteByUserAndGames removes every wishlist row matching the purchased
// game ids. Settlement calls this so purchased games drop off the wishlist.
func (r *WishlistItemRepository) DeleteByUserAndGames(ctx context.Context, userID int64, gameIDs []string) error {
	if len(gameIDs) == 0 {
		return nil
	}

	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND game_id = ANY($2)`

	if _, err := r.q.Exec(ctx, query, userID, gameIDs); err != nil {
		return fmt.Errorf("failed to delete wishlist items for user %d: %w", userID, err)
	}

	return nil
}

// CountByUser returns the number of items in a user's wishlist
func (r *WishlistItemRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wishlist items for user %d: %w", userID, err)
	}

	return count, nil
}
