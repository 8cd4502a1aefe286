package repository

import (
	"context"
	"fmt"

	"gameportal/database"
	"gameportal/models"

	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the service.TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `id, user_id, type, amount, cash_amount, description, status, checkout_session_id, created_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var txn models.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Type,
		&txn.Amount,
		&txn.CashAmount,
		&txn.Description,
		&txn.Status,
		&txn.CheckoutSessionID,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Create inserts a new ledger entry and fills in the generated fields.
// The checkout_session_id column is unique, so inserting a duplicate
// session id fails and keeps gateway confirmation idempotent even under
// concurrent replays.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, cash_amount, description, status, checkout_session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.UserID,
		txn.Type,
		txn.Amount,
		txn.CashAmount,
		txn.Description,
		txn.Status,
		txn.CheckoutSessionID,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction for user %d: %w", txn.UserID, err)
	}

	return nil
}

// GetBySessionID returns the transaction referencing an external checkout
// session id, or nil if none exists yet.
func (r *TransactionRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE checkout_session_id = $1`

	txn, err := scanTransaction(r.q.QueryRow(ctx, query, sessionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by session id: %w", err)
	}

	return txn, nil
}

// GetByUser returns a user's most recent transactions
func (r *TransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}
