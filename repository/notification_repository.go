package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"b-track7/db"
	"b-track7/models"
	"b-track7/period"
)

// NotificationRepository handles database writes of in-app reminders
type NotificationRepository struct{}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// Ensure NotificationRepository implements NotificationRepositoryInterface
var _ NotificationRepositoryInterface = (*NotificationRepository)(nil)

// InsertGoalReminder writes an unshown set_savings_goal reminder for
// the target month. Duplicate reminders for the same
// (user, reminder type, target month) are ignored, so re-running the
// reminder cron within the same window cannot double-nudge a user.
func (r *NotificationRepository) InsertGoalReminder(ctx context.Context, userID string, targetMonth period.DateKey) error {
	query := `
		INSERT INTO notifications (id, user_id, reminder_type, target_month, shown)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (user_id, reminder_type, target_month) DO NOTHING
	`

	if _, err := db.DB.ExecContext(ctx, query, uuid.New().String(), userID, models.ReminderTypeSetSavingsGoal, string(targetMonth)); err != nil {
		return fmt.Errorf("failed to insert savings goal reminder for user %s month %s: %w", userID, targetMonth, err)
	}

	log.Printf("💾 InsertGoalReminder: Queued savings goal reminder for user %s (month %s)", userID, targetMonth)
	return nil
}
