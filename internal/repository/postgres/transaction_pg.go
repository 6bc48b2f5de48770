// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"tradeadmin/internal/domain"
	"tradeadmin/internal/repository"

	"github.com/jmoiron/sqlx"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a new ledger entry using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions
              (reference, user_id, wallet_id, type, asset_code, amount_asset, amount_usd_equivalent,
               balance_after_transaction, status, notes, trading_plan_name, admin_processed_by,
               processed_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.Reference,
		transaction.UserID,
		transaction.WalletID,
		transaction.Type,
		transaction.AssetCode,
		transaction.AmountAsset,
		transaction.AmountUSDEquivalent,
		transaction.BalanceAfterTransaction,
		transaction.Status,
		transaction.Notes,
		transaction.TradingPlanName,
		transaction.AdminProcessedBy,
		transaction.ProcessedAt,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByUserID retrieves a paginated ledger history for a user,
// newest first. It performs two queries: one for the data and one for the
// total count.
func (r *TransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, reference, user_id, wallet_id, type, asset_code, amount_asset,
		       amount_usd_equivalent, balance_after_transaction, status, notes,
		       trading_plan_name, admin_processed_by, processed_at, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for user %d: %w", userID, err)
	}

	return transactions, totalCount, nil
}
