package repository

import (
	"context"

	"b-track7/models"
	"b-track7/period"
)

// TransactionRepositoryInterface defines the contract for reading a
// user's transactions
type TransactionRepositoryInterface interface {
	FetchForRange(ctx context.Context, userID string, startDate, endDate period.DateKey) ([]models.Transaction, error)
}

// SavingsGoalRepositoryInterface defines the contract for monthly
// savings goal operations
type SavingsGoalRepositoryInterface interface {
	GetForMonth(ctx context.Context, userID string, month period.DateKey) (*models.SavingsGoal, error)
	InsertAutofilled(ctx context.Context, userID string, month period.DateKey, goalAmount float64) error
}

// SummaryRepositoryInterface defines the contract for stored AI
// summaries
type SummaryRepositoryInterface interface {
	Upsert(ctx context.Context, payload *models.SummaryUpsert) error
	ListForUser(ctx context.Context, userID string, periodType models.PeriodType) ([]models.InsightSummary, error)
}

// NotificationRepositoryInterface defines the contract for writing
// in-app reminders
type NotificationRepositoryInterface interface {
	InsertGoalReminder(ctx context.Context, userID string, targetMonth period.DateKey) error
}

// UserRepositoryInterface defines the contract for user lookups the
// cron endpoints need
type UserRepositoryInterface interface {
	ListProUserIDs(ctx context.Context) ([]string, error)
	IsProUser(ctx context.Context, userID string) (bool, error)
}
