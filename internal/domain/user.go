// internal/domain/user.go
package domain

import "time"

// User represents a platform user. This service consumes users read-only:
// provisioning lives with the account system, we only need the profile for
// notification addressing and ledger denormalization.
type User struct {
	ID            int64     `db:"id" json:"id"`
	Username      string    `db:"username" json:"username"`
	Email         string    `db:"email" json:"email"`
	TradingPlanID *int64    `db:"trading_plan_id" json:"trading_plan_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// TradingPlan is a read-only reference entity. Its name is denormalized
// onto ledger entries for reporting; it has no effect on adjustment
// arithmetic.
type TradingPlan struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DefaultTradingPlanName is denormalized onto ledger rows when the user has
// no plan assigned or the plan lookup comes back empty.
const DefaultTradingPlanName = "Standard"
