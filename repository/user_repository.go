package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"b-track7/db"
)

// UserRepository handles the user lookups the cron endpoints need
type UserRepository struct{}

// NewUserRepository creates a new UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Ensure UserRepository implements UserRepositoryInterface
var _ UserRepositoryInterface = (*UserRepository)(nil)

// ListProUserIDs returns the ids of all Pro-plan users. Insight
// generation runs only for Pro subscribers.
func (r *UserRepository) ListProUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM users WHERE user_plan = 'Pro'`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Pro users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return userIDs, nil
}

// IsProUser reports whether the user exists and is on the Pro plan.
func (r *UserRepository) IsProUser(ctx context.Context, userID string) (bool, error) {
	query := `SELECT user_plan FROM users WHERE id = $1`

	var plan string
	err := db.DB.QueryRowContext(ctx, query, userID).Scan(&plan)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user plan for user %s: %w", userID, err)
	}

	return plan == "Pro", nil
}
