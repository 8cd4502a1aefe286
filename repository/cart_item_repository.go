package repository

import (
	"context"
	"fmt"

	"gameportal/database"
	"gameportal/models"

	"github.com/jackc/pgx/v5"
)

// CartItemRepository implements the service.CartItemRepository interface
type CartItemRepository struct {
	q queryable
}

// NewCartItemRepository creates a new cart item repository
func NewCartItemRepository(db *database.DB) *CartItemRepository {
	return &CartItemRepository{q: db.Pool}
}

func newCartItemRepositoryWithTx(tx queryable) *CartItemRepository {
	return &CartItemRepository{q: tx}
}

const cartItemColumns = `id, user_id, game_id, game_url, name, image, price, added_at`

func scanCartItem(row pgx.Row) (*models.CartItem, error) {
	var item models.CartItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.GameID,
		&item.GameURL,
		&item.Name,
		&item.Image,
		&item.Price,
		&item.AddedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByUser returns a user's cart, oldest first
func (r *CartItemRepository) GetByUser(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE user_id = $1 ORDER BY added_at`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return items, nil
}

// GetByUserAndGame returns the cart item for a specific game, or nil
func (r *CartItemRepository) GetByUserAndGame(ctx context.Context, userID int64, gameID string) (*models.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE user_id = $1 AND game_id = $2`

	item, err := scanCartItem(r.q.QueryRow(ctx, query, userID, gameID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item for user %d game %s: %w", userID, gameID, err)
	}

	return item, nil
}

// Create inserts a new cart item and fills in the generated fields
func (r *CartItemRepository) Create(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, game_id, game_url, name, image, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, added_at
	`

	err := r.q.QueryRow(ctx, query,
		item.UserID,
		item.GameID,
		item.GameURL,
		item.Name,
		item.Image,
		item.Price,
	).Scan(&item.ID, &item.AddedAt)

	if err != nil {
		return fmt.Errorf("failed to create cart item for user %d: %w", item.UserID, err)
	}

	return nil
}

// DeleteByUserAndGame removes a single game from a user's cart
func (r *CartItemRepository) DeleteByUserAndGame(ctx context.Context, userID int64, gameID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND game_id = $2`

	if _, err := r.q.Exec(ctx, query, userID, gameID); err != nil {
		return fmt.Errorf("failed to delete cart item for user %d game %s: %w", userID, gameID, err)
	}

	return nil
}

// DeleteAllByUser clears a user's entire cart
func (r *CartItemRepository) DeleteAllByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
	}

	return nil
}

// CountByUser returns the number of items in a user's cart
func (r *CartItemRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cart items for user %d: %w", userID, err)
	}

	return count, nil
}
