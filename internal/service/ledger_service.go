// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"tradeadmin/internal/domain"
	"tradeadmin/internal/notifier"
	"tradeadmin/internal/rates"
	"tradeadmin/internal/repository"
	"tradeadmin/internal/util"
	"tradeadmin/pkg/db"

	"github.com/shopspring/decimal"
)

// MinNotesLength is the minimum length of the admin notes accompanying a
// manual adjustment. Every manual balance mutation must carry an auditable
// justification.
const MinNotesLength = 10

// SystemAdminID is the operator-of-record sentinel used when no
// authenticated admin identity reaches the service.
const SystemAdminID = 0

// AdjustmentDirection states whether a main-balance adjustment credits or
// debits the wallet. The asset amount itself is always a positive magnitude;
// direction is carried explicitly rather than by the amount's sign.
type AdjustmentDirection string

const (
	DirectionCredit AdjustmentDirection = "CREDIT"
	DirectionDebit  AdjustmentDirection = "DEBIT"
)

// AdjustMainBalanceInput carries a main-balance adjustment request.
type AdjustMainBalanceInput struct {
	UserID      int64
	AssetCode   string
	AssetAmount decimal.Decimal // positive magnitude in the originating asset's units
	Direction   AdjustmentDirection
	Notes       string
	AdminID     int64
}

// AdjustProfitLossInput carries a P&L adjustment request. Amount is already
// denominated in the settlement currency and may be negative, but not zero.
type AdjustProfitLossInput struct {
	UserID  int64
	Amount  decimal.Decimal
	Notes   string
	AdminID int64
}

// LedgerService defines the business logic for admin balance adjustments
// and their ledger audit trail.
type LedgerService interface {
	AdjustMainBalance(ctx context.Context, in AdjustMainBalanceInput) (*domain.Wallet, *domain.Transaction, error)
	AdjustProfitLoss(ctx context.Context, in AdjustProfitLossInput) (*domain.Wallet, *domain.Transaction, error)
	GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo        repository.UserRepository
	planRepo        repository.TradingPlanRepository
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	rateProvider    rates.Provider
	notifier        notifier.Notifier
	logger          *slog.Logger
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	planRepo repository.TradingPlanRepository,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	rateProvider rates.Provider,
	n notifier.Notifier,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		planRepo:        planRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		rateProvider:    rateProvider,
		notifier:        n,
		logger:          logger,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// validateMainBalanceInput checks the request shape before any database
// work. Validation failures never touch persistence.
func validateMainBalanceInput(in AdjustMainBalanceInput) error {
	if in.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", util.ErrValidation)
	}
	if in.AssetCode == "" {
		return fmt.Errorf("%w: asset code is required", util.ErrValidation)
	}
	if !in.AssetAmount.IsPositive() {
		return fmt.Errorf("%w: asset amount must be a positive magnitude", util.ErrValidation)
	}
	if in.Direction != DirectionCredit && in.Direction != DirectionDebit {
		return fmt.Errorf("%w: direction must be CREDIT or DEBIT", util.ErrValidation)
	}
	return validateNotes(in.Notes)
}

// validateProfitLossInput checks the P&L request shape before any database
// work. A zero adjustment is meaningless and indicates caller error.
func validateProfitLossInput(in AdjustProfitLossInput) error {
	if in.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", util.ErrValidation)
	}
	if in.Amount.IsZero() {
		return fmt.Errorf("%w: adjustment amount must not be zero", util.ErrValidation)
	}
	return validateNotes(in.Notes)
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(strings.TrimSpace(notes)) < MinNotesLength {
		return fmt.Errorf("%w: admin notes must be at least %d characters", util.ErrValidation, MinNotesLength)
	}
	return nil
}

// AdjustMainBalance records an external-asset transaction against a user's
// main balance: it converts the asset amount to the settlement currency,
// applies the signed delta under an exclusive row lock, and appends exactly
// one COMPLETED ledger entry in the same database transaction.
//
// The rate is looked up before the row lock is acquired; a rate change
// between lookup and commit is an accepted approximation.
func (s *ledgerService) AdjustMainBalance(ctx context.Context, in AdjustMainBalanceInput) (*domain.Wallet, *domain.Transaction, error) {
	if err := validateMainBalanceInput(in); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, in.UserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("adjust balance: failed to resolve user %d: %w", in.UserID, err)
	}

	planName := s.resolvePlanName(ctx, user)

	rate, err := s.rateProvider.GetRate(ctx, in.AssetCode)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", util.ErrRateUnavailable, in.AssetCode, err)
	}
	if !rate.IsPositive() {
		return nil, nil, fmt.Errorf("%w: non-positive rate for %s", util.ErrRateUnavailable, in.AssetCode)
	}

	convertedAmount := in.AssetAmount.Mul(rate)
	if in.Direction == DirectionDebit {
		convertedAmount = convertedAmount.Neg()
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("adjust balance: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("adjust balance: transaction controller does not implement DBExecutor")
	}

	wallet, err := s.walletRepo.GetWalletByUserIDForUpdate(ctx, txExecutor, in.UserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			// A user without a wallet row is corrupted state, not a
			// caller mistake. Logged loudly and aborted.
			s.logger.Error("Wallet row missing for existing user", "user_id", in.UserID)
			return nil, nil, util.ErrWalletNotFound
		}
		return nil, nil, fmt.Errorf("adjust balance: failed to lock wallet for user %d: %w", in.UserID, err)
	}

	newBalance := wallet.Balance.Add(convertedAmount)
	// The floor applies only to debits: a credit is never rejected even if
	// some other path already made the balance negative.
	if convertedAmount.IsNegative() && newBalance.IsNegative() {
		return nil, nil, fmt.Errorf("%w: balance %s, requested delta %s",
			util.ErrBalanceFloor, wallet.Balance.String(), convertedAmount.String())
	}

	if err := s.walletRepo.SetBalance(ctx, txExecutor, wallet.ID, newBalance); err != nil {
		return nil, nil, fmt.Errorf("adjust balance: failed to update wallet balance: %w", err)
	}

	entry := domain.NewAdjustment(
		user.ID, wallet.ID,
		in.AssetCode,
		in.AssetAmount, convertedAmount, newBalance,
		in.Notes, planName,
		effectiveAdminID(in.AdminID),
	)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, entry); err != nil {
		return nil, nil, fmt.Errorf("adjust balance: failed to create ledger entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("adjust balance: failed to commit transaction: %w", err)
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = entry.ProcessedAt

	s.logger.Info("Main balance adjusted",
		"user_id", user.ID,
		"asset_code", in.AssetCode,
		"asset_amount", in.AssetAmount.String(),
		"converted_amount", convertedAmount.String(),
		"new_balance", newBalance.String(),
		"admin_id", entry.AdminProcessedBy,
	)

	s.notifyAfterCommit(ctx, user, "Balance adjustment processed", mainBalanceEmailBody(in, convertedAmount, newBalance))

	return wallet, entry, nil
}

// AdjustProfitLoss applies a signed settlement-currency delta to a user's
// P&L balance. No conversion and no negative floor: the P&L balance tracks
// performance, not custody of funds, and may go negative. The ledger entry
// still snapshots the main balance, which this operation leaves untouched.
func (s *ledgerService) AdjustProfitLoss(ctx context.Context, in AdjustProfitLossInput) (*domain.Wallet, *domain.Transaction, error) {
	if err := validateProfitLossInput(in); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, in.UserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("adjust pnl: failed to resolve user %d: %w", in.UserID, err)
	}

	planName := s.resolvePlanName(ctx, user)

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("adjust pnl: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("adjust pnl: transaction controller does not implement DBExecutor")
	}

	wallet, err := s.walletRepo.GetWalletByUserIDForUpdate(ctx, txExecutor, in.UserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			s.logger.Error("Wallet row missing for existing user", "user_id", in.UserID)
			return nil, nil, util.ErrWalletNotFound
		}
		return nil, nil, fmt.Errorf("adjust pnl: failed to lock wallet for user %d: %w", in.UserID, err)
	}

	newProfitLoss := wallet.ProfitLossBalance.Add(in.Amount)

	if err := s.walletRepo.SetProfitLossBalance(ctx, txExecutor, wallet.ID, newProfitLoss); err != nil {
		return nil, nil, fmt.Errorf("adjust pnl: failed to update P&L balance: %w", err)
	}

	// amount_asset carries the signed settlement-currency delta here;
	// balance_after_transaction snapshots the unchanged MAIN balance.
	entry := domain.NewAdjustment(
		user.ID, wallet.ID,
		domain.SettlementCurrency,
		in.Amount, in.Amount, wallet.Balance,
		in.Notes, planName,
		effectiveAdminID(in.AdminID),
	)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, entry); err != nil {
		return nil, nil, fmt.Errorf("adjust pnl: failed to create ledger entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("adjust pnl: failed to commit transaction: %w", err)
	}

	wallet.ProfitLossBalance = newProfitLoss
	wallet.UpdatedAt = entry.ProcessedAt

	s.logger.Info("P&L balance adjusted",
		"user_id", user.ID,
		"amount", in.Amount.String(),
		"new_profit_loss", newProfitLoss.String(),
		"admin_id", entry.AdminProcessedBy,
	)

	s.notifyAfterCommit(ctx, user, "P&L adjustment processed", profitLossEmailBody(in, newProfitLoss))

	return wallet, entry, nil
}

// GetWallet returns a user's wallet snapshot without locking it.
func (s *ledgerService) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet: failed to get wallet for user %d: %w", userID, err)
	}
	return wallet, nil
}

// GetLedgerHistory retrieves a paginated ledger history for a user, newest
// first, as the audit read-back of this service's own writes.
func (s *ledgerService) GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, 0, util.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("ledger history: failed to resolve user %d: %w", userID, err)
	}

	transactions, totalCount, err := s.transactionRepo.GetTransactionsByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger history: failed to retrieve transactions: %w", err)
	}
	return transactions, totalCount, nil
}

// resolvePlanName looks up the user's trading plan for ledger
// denormalization. Absence (or a failed lookup) is tolerated and falls back
// to the default name; the plan has no effect on adjustment arithmetic.
func (s *ledgerService) resolvePlanName(ctx context.Context, user *domain.User) string {
	if user.TradingPlanID == nil {
		return domain.DefaultTradingPlanName
	}
	plans, err := s.planRepo.ListTradingPlans(ctx, s.dbExecutor)
	if err != nil {
		s.logger.Warn("Trading plan lookup failed, using default name", "user_id", user.ID, "error", err)
		return domain.DefaultTradingPlanName
	}
	for _, plan := range plans {
		if plan.ID == *user.TradingPlanID {
			return plan.Name
		}
	}
	return domain.DefaultTradingPlanName
}

// notifyAfterCommit dispatches the user email outside the transactional
// scope. Delivery failure is logged and never joined back into the caller's
// result: the committed ledger write is the source of truth.
func (s *ledgerService) notifyAfterCommit(ctx context.Context, user *domain.User, subject, body string) {
	if user.Email == "" {
		return
	}
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.Send(sendCtx, user.Email, subject, body); err != nil {
			s.logger.Error("Failed to send adjustment notification", "user_id", user.ID, "error", err)
		}
	}()
}

func effectiveAdminID(adminID int64) int64 {
	if adminID <= 0 {
		return SystemAdminID
	}
	return adminID
}

func mainBalanceEmailBody(in AdjustMainBalanceInput, convertedAmount, newBalance decimal.Decimal) string {
	verb := "credited to"
	if in.Direction == DirectionDebit {
		verb = "debited from"
	}
	return fmt.Sprintf(
		"An adjustment of %s %s (%s %s) was %s your account by our support team.\n\n"+
			"Your new balance is %s %s.\n\nReason: %s\n",
		in.AssetAmount.String(), in.AssetCode,
		convertedAmount.Abs().String(), domain.SettlementCurrency,
		verb,
		newBalance.String(), domain.SettlementCurrency,
		in.Notes,
	)
}

func profitLossEmailBody(in AdjustProfitLossInput, newProfitLoss decimal.Decimal) string {
	return fmt.Sprintf(
		"A profit/loss adjustment of %s %s was applied to your account by our support team.\n\n"+
			"Your new P&L balance is %s %s.\n\nReason: %s\n",
		in.Amount.String(), domain.SettlementCurrency,
		newProfitLoss.String(), domain.SettlementCurrency,
		in.Notes,
	)
}
