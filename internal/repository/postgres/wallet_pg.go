// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tradeadmin/internal/domain"
	"tradeadmin/internal/repository"
	"tradeadmin/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, user_id, balance, profit_loss_balance, is_active, created_at, updated_at`

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct {
	// Methods receive a DBExecutor directly; no connection is held here.
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) repository.WalletRepository {
	return &WalletRepository{}
}

// GetWalletByUserID retrieves a user's wallet using the provided DBExecutor.
func (r *WalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	err := q.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

// GetWalletByUserIDForUpdate retrieves a user's wallet with an exclusive row
// lock. The executor must be a transaction; the lock is held until commit or
// rollback, serializing concurrent writers on the same wallet.
func (r *WalletRepository) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

// SetBalance writes an absolute main-balance value for the wallet.
func (r *WalletRepository) SetBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`
	return r.execBalanceUpdate(ctx, q, query, walletID, balance)
}

// SetProfitLossBalance writes an absolute P&L-balance value for the wallet.
func (r *WalletRepository) SetProfitLossBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance decimal.Decimal) error {
	query := `UPDATE wallets SET profit_loss_balance = $1, updated_at = $2 WHERE id = $3`
	return r.execBalanceUpdate(ctx, q, query, walletID, balance)
}

func (r *WalletRepository) execBalanceUpdate(ctx context.Context, q repository.DBExecutor, query string, walletID int64, balance decimal.Decimal) error {
	result, err := q.ExecContext(ctx, query, balance, time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("failed to update wallet %d: %w", walletID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for wallet %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating wallet %d, wallet might not exist", walletID)
	}
	return nil
}
