// internal/repository/user_repo.go
package repository

import (
	"context"

	"tradeadmin/internal/domain"
)

// UserRepository defines the read-only interface to the user directory.
type UserRepository interface {
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
}

// TradingPlanRepository defines the read-only interface to the trading-plan
// directory. Lookup by id is caller-side, per the directory's contract.
type TradingPlanRepository interface {
	// ListTradingPlans returns all trading plans using the provided DBExecutor.
	ListTradingPlans(ctx context.Context, q DBExecutor) ([]domain.TradingPlan, error)
}
