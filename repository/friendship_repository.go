package repository

import (
	"context"
	"fmt"

	"gameportal/database"
	"gameportal/models"

	"github.com/jackc/pgx/v5"
)

// FriendshipRepository implements the service.FriendshipRepository interface
type FriendshipRepository struct {
	q queryable
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *database.DB) *FriendshipRepository {
	return &FriendshipRepository{q: db.Pool}
}

func newFriendshipRepositoryWithTx(tx queryable) *FriendshipRepository {
	return &FriendshipRepository{q: tx}
}

const friendshipColumns = `id, user_id, friend_id, status, created_at, updated_at`

func scanFriendship(row pgx.Row) (*models.Friendship, error) {
	var f models.Friendship
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.FriendID,
		&f.Status,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID retrieves a friendship edge by id
func (r *FriendshipRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE id = $1`

	f, err := scanFriendship(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship %d: %w", id, err)
	}

	return f, nil
}

// Get retrieves the directed edge from userID to friendID, or nil
func (r *FriendshipRepository) Get(ctx context.Context, userID, friendID int64) (*models.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE user_id = $1 AND friend_id = $2`

	f, err := scanFriendship(r.q.QueryRow(ctx, query, userID, friendID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship %d->%d: %w", userID, friendID, err)
	}

	return f, nil
}

// GetBetween returns every edge between the pair, in either direction
func (r *FriendshipRepository) GetBetween(ctx context.Context, a, b int64) ([]*models.Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`

	rows, err := r.q.Query(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendships between %d and %d: %w", a, b, err)
	}
	defer rows.Close()

	var edges []*models.Friendship
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		edges = append(edges, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friendships: %w", err)
	}

	return edges, nil
}

// Create inserts a new directed edge and fills in the generated fields
func (r *FriendshipRepository) Create(ctx context.Context, f *models.Friendship) error {
	query := `
		INSERT INTO friendships (user_id, friend_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, f.UserID, f.FriendID, f.Status).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create friendship %d->%d: %w", f.UserID, f.FriendID, err)
	}

	return nil
}

// UpdateStatus changes the status of one edge
func (r *FriendshipRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error {
	query := `
		UPDATE friendships
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update friendship %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("friendship %d not found", id)
	}

	return nil
}

// Delete removes one edge by id
func (r *FriendshipRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM friendships WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete friendship %d: %w", id, err)
	}

	return nil
}

// DeleteBetween removes every edge between the pair, in either direction.
// Blocking a user calls this before inserting the blocked edge.
func (r *FriendshipRepository) DeleteBetween(ctx context.Context, a, b int64) error {
	query := `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`

	if _, err := r.q.Exec(ctx, query, a, b); err != nil {
		return fmt.Errorf("failed to delete friendships between %d and %d: %w", a, b, err)
	}

	return nil
}

// DeleteAcceptedBetween removes the accepted pair between two users,
// leaving any block placed by either party intact.
func (r *FriendshipRepository) DeleteAcceptedBetween(ctx context.Context, a, b int64) error {
	query := `
		DELETE FROM friendships
		WHERE status = 'accepted'
		  AND ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))
	`

	if _, err := r.q.Exec(ctx, query, a, b); err != nil {
		return fmt.Errorf("failed to delete accepted friendships between %d and %d: %w", a, b, err)
	}

	return nil
}

// ListFriends returns the users a user has accepted friendships with.
// Accepted pairs are stored symmetrically, so outgoing edges are enough.
func (r *FriendshipRepository) ListFriends(ctx context.Context, userID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.uid, u.username, u.email, u.password_hash, u.avatar_url, u.orbs, u.status, u.created_at, u.updated_at
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1 AND f.status = 'accepted'
		ORDER BY u.username
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends for user %d: %w", userID, err)
	}
	defer rows.Close()

	var friends []*models.User
	for rows.Next() {
		friend, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}

// ListAcceptedIDs returns the ids of a user's accepted friends
func (r *FriendshipRepository) ListAcceptedIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT friend_id FROM friendships WHERE user_id = $1 AND status = 'accepted'`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids for user %d: %w", userID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friend ids: %w", err)
	}

	return ids, nil
}

// ListIncomingRequests returns pending requests addressed to a user,
// joined with each requester's profile.
func (r *FriendshipRepository) ListIncomingRequests(ctx context.Context, userID int64) ([]*models.FriendRequest, error) {
	query := `
		SELECT f.id, f.created_at,
		       u.id, u.uid, u.username, u.email, u.password_hash, u.avatar_url, u.orbs, u.status, u.created_at, u.updated_at
		FROM friendships f
		JOIN users u ON u.id = f.user_id
		WHERE f.friend_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests for user %d: %w", userID, err)
	}
	defer rows.Close()

	var requests []*models.FriendRequest
	for rows.Next() {
		var req models.FriendRequest
		var requester models.User
		err := rows.Scan(
			&req.ID,
			&req.CreatedAt,
			&requester.ID,
			&requester.UID,
			&requester.Username,
			&requester.Email,
			&requester.PasswordHash,
			&requester.AvatarURL,
			&requester.Orbs,
			&requester.Status,
			&requester.CreatedAt,
			&requester.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		req.Requester = &requester
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friend requests: %w", err)
	}

	return requests, nil
}

// CountFriends returns the number of accepted friends a user has
func (r *FriendshipRepository) CountFriends(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM friendships WHERE user_id = $1 AND status = 'accepted'`

	var count int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count friends for user %d: %w", userID, err)
	}

	return count, nil
}
