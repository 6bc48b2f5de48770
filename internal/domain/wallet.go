// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// SettlementCurrency is the single currency all main wallet balances are
// denominated in.
const SettlementCurrency = "USDT"

// Wallet represents a user's wallet. Every user owns exactly one; both
// balances are denominated in the settlement currency, NUMERIC(30, 8) in DB.
type Wallet struct {
	ID                int64           `db:"id" json:"id"`
	UserID            int64           `db:"user_id" json:"user_id"`
	Balance           decimal.Decimal `db:"balance" json:"balance"`
	ProfitLossBalance decimal.Decimal `db:"profit_loss_balance" json:"profit_loss_balance"`
	IsActive          bool            `db:"is_active" json:"is_active"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// NewWallet creates a new Wallet instance with zero balances.
func NewWallet(userID int64) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		UserID:            userID,
		Balance:           decimal.Zero,
		ProfitLossBalance: decimal.Zero,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
