package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"b-track7/db"
	"b-track7/models"
	"b-track7/period"
)

// SavingsGoalRepository handles database operations for monthly savings
// goals
type SavingsGoalRepository struct{}

// NewSavingsGoalRepository creates a new SavingsGoalRepository
func NewSavingsGoalRepository() *SavingsGoalRepository {
	return &SavingsGoalRepository{}
}

// Ensure SavingsGoalRepository implements SavingsGoalRepositoryInterface
var _ SavingsGoalRepositoryInterface = (*SavingsGoalRepository)(nil)

// GetForMonth returns the user's goal for the given first-of-month
// date, or nil when none exists.
func (r *SavingsGoalRepository) GetForMonth(ctx context.Context, userID string, month period.DateKey) (*models.SavingsGoal, error) {
	query := `
		SELECT goal_amount, was_auto_filled
		FROM monthly_savings_goals
		WHERE user_id = $1 AND month = $2
	`

	var (
		goalAmount    decimal.Decimal
		wasAutoFilled bool
	)
	err := db.DB.QueryRowContext(ctx, query, userID, string(month)).Scan(&goalAmount, &wasAutoFilled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch savings goal for user %s month %s: %w", userID, month, err)
	}

	return &models.SavingsGoal{
		Month:         month,
		GoalAmount:    goalAmount.InexactFloat64(),
		WasAutoFilled: wasAutoFilled,
	}, nil
}

// InsertAutofilled writes a carried-forward goal row for the month.
// A concurrent insert of the same (user, month) is a no-op, not an
// error, so a scheduled run and an on-demand goal save cannot race
// into a failure.
func (r *SavingsGoalRepository) InsertAutofilled(ctx context.Context, userID string, month period.DateKey, goalAmount float64) error {
	query := `
		INSERT INTO monthly_savings_goals (user_id, month, goal_amount, was_auto_filled)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (user_id, month) DO NOTHING
	`

	if _, err := db.DB.ExecContext(ctx, query, userID, string(month), goalAmount); err != nil {
		return fmt.Errorf("failed to autofill savings goal for user %s month %s: %w", userID, month, err)
	}

	log.Printf("💾 InsertAutofilled: Carried forward savings goal %.2f for user %s into month %s", goalAmount, userID, month)
	return nil
}
