// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the type of a financial transaction.
type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal      TransactionType = "WITHDRAWAL"
	TransactionTypeFee             TransactionType = "FEE"
	TransactionTypeAdjustment      TransactionType = "ADJUSTMENT"
	TransactionTypeTradeSettlement TransactionType = "TRADE_SETTLEMENT"
)

// TransactionStatus defines the status of a financial transaction.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusConfirmed  TransactionStatus = "CONFIRMED"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusCancelled  TransactionStatus = "CANCELLED"
)

// Transaction is an immutable ledger entry recording a balance-affecting
// event. Rows are append-only: they are never updated or deleted once
// written.
type Transaction struct {
	ID        int64           `db:"id" json:"id"`
	Reference uuid.UUID       `db:"reference" json:"reference"` // stable id for external audit citation
	UserID    int64           `db:"user_id" json:"user_id"`
	WalletID  int64           `db:"wallet_id" json:"wallet_id"`
	Type      TransactionType `db:"type" json:"type"`
	AssetCode string          `db:"asset_code" json:"asset_code"`
	// AmountAsset is denominated in the originating asset's units. Always
	// positive for main-balance adjustments (direction is carried by the
	// signed USD-equivalent); may be negative for P&L deltas.
	AmountAsset decimal.Decimal `db:"amount_asset" json:"amount_asset"`
	// AmountUSDEquivalent is the converted amount in the settlement
	// currency, signed.
	AmountUSDEquivalent decimal.Decimal `db:"amount_usd_equivalent" json:"amount_usd_equivalent"`
	// BalanceAfterTransaction snapshots the MAIN balance after the write,
	// even for P&L adjustments (which leave the main balance untouched).
	BalanceAfterTransaction decimal.Decimal   `db:"balance_after_transaction" json:"balance_after_transaction"`
	Status                  TransactionStatus `db:"status" json:"status"`
	Notes                   string            `db:"notes" json:"notes"`
	TradingPlanName         string            `db:"trading_plan_name" json:"trading_plan_name"`
	AdminProcessedBy        int64             `db:"admin_processed_by" json:"admin_processed_by"`
	ProcessedAt             time.Time         `db:"processed_at" json:"processed_at"`
	CreatedAt               time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time         `db:"updated_at" json:"updated_at"`
}

// NewAdjustment creates a ledger entry for a manual admin adjustment.
// Admin adjustments are written COMPLETED at creation time; there is no
// pending lifecycle for them.
func NewAdjustment(
	userID, walletID int64,
	assetCode string,
	amountAsset, amountUSD, balanceAfter decimal.Decimal,
	notes, tradingPlanName string,
	adminID int64,
) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		Reference:               uuid.New(),
		UserID:                  userID,
		WalletID:                walletID,
		Type:                    TransactionTypeAdjustment,
		AssetCode:               assetCode,
		AmountAsset:             amountAsset,
		AmountUSDEquivalent:     amountUSD,
		BalanceAfterTransaction: balanceAfter,
		Status:                  TransactionStatusCompleted,
		Notes:                   notes,
		TradingPlanName:         tradingPlanName,
		AdminProcessedBy:        adminID,
		ProcessedAt:             now,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}
