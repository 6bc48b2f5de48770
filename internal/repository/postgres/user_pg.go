// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tradeadmin/internal/domain"
	"tradeadmin/internal/repository"
	"tradeadmin/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserRepository implements repository.UserRepository for PostgreSQL.
// Users are provisioned by the account system; this repository only reads.
type UserRepository struct {
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, email, trading_plan_id, created_at, updated_at FROM users WHERE id = $1`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// TradingPlanRepository implements repository.TradingPlanRepository for PostgreSQL.
type TradingPlanRepository struct {
}

// NewTradingPlanRepository creates a new TradingPlanRepository.
func NewTradingPlanRepository(db *sqlx.DB) repository.TradingPlanRepository {
	return &TradingPlanRepository{}
}

// ListTradingPlans returns all trading plans using the provided DBExecutor.
func (r *TradingPlanRepository) ListTradingPlans(ctx context.Context, q repository.DBExecutor) ([]domain.TradingPlan, error) {
	plans := []domain.TradingPlan{}
	query := `SELECT id, name, created_at FROM trading_plans ORDER BY id`
	if err := q.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("failed to list trading plans: %w", err)
	}
	return plans, nil
}
