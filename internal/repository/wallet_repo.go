// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"tradeadmin/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// GetWalletByUserID retrieves a user's wallet without locking it.
	GetWalletByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletByUserIDForUpdate retrieves a user's wallet holding an
	// exclusive row lock (SELECT ... FOR UPDATE). Must be called on a
	// transactional executor; the lock is held until the transaction ends.
	GetWalletByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// SetBalance writes an absolute main-balance value for the wallet.
	SetBalance(ctx context.Context, q DBExecutor, walletID int64, balance decimal.Decimal) error
	// SetProfitLossBalance writes an absolute P&L-balance value for the wallet.
	SetProfitLossBalance(ctx context.Context, q DBExecutor, walletID int64, balance decimal.Decimal) error
}
