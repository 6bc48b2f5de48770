// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"tradeadmin/internal/domain"
)

// TransactionRepository defines the interface for ledger data operations.
// The ledger is append-only: there are no update or delete operations.
type TransactionRepository interface {
	// CreateTransaction appends a new ledger entry using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByUserID retrieves a user's ledger history, newest
	// first, along with the total entry count.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}
