package service

import (
	"context"
	"log"
	"time"

	"b-track7/period"
	"b-track7/repository"
)

// ReminderService nudges Pro users to set next month's savings goal.
// It only acts in the last seven days of a month; outside that window
// a run is a no-op.
type ReminderService struct {
	users         repository.UserRepositoryInterface
	savingsGoals  repository.SavingsGoalRepositoryInterface
	notifications repository.NotificationRepositoryInterface
	now           func() time.Time
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	users repository.UserRepositoryInterface,
	savingsGoals repository.SavingsGoalRepositoryInterface,
	notifications repository.NotificationRepositoryInterface,
) *ReminderService {
	return &ReminderService{
		users:         users,
		savingsGoals:  savingsGoals,
		notifications: notifications,
		now:           time.Now,
	}
}

// RunSavingsReminder queues a set_savings_goal reminder for every Pro
// user who has no goal row for next month yet. Users who already set
// one are counted as skipped; per-user failures are logged with their
// stage and never abort the rest of the run.
func (s *ReminderService) RunSavingsReminder(ctx context.Context) (*BatchStats, error) {
	today := period.TodayKey(s.now())
	if !today.InLastSevenDaysOfMonth() {
		return &BatchStats{}, nil
	}

	userIDs, err := s.users.ListProUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	nextMonthStart := today.MonthStart().ShiftMonthStart(1)
	log.Printf("🔄 RunSavingsReminder: Checking %d Pro users for missing %s savings goals",
		len(userIDs), nextMonthStart)

	stats := &BatchStats{}
	for _, userID := range userIDs {
		nextMonthGoal, err := s.savingsGoals.GetForMonth(ctx, userID, nextMonthStart)
		if err != nil {
			stats.Errors++
			log.Printf("❌ RunSavingsReminder: user=%s stage=%s error=%v", userID, StageFetch, err)
			continue
		}

		if nextMonthGoal != nil {
			stats.Skipped++
			continue
		}

		if err := s.notifications.InsertGoalReminder(ctx, userID, nextMonthStart); err != nil {
			stats.Errors++
			log.Printf("❌ RunSavingsReminder: user=%s stage=%s error=%v", userID, StageSave, err)
			continue
		}
		stats.Processed++
	}

	log.Printf("🎉 RunSavingsReminder: Completed: %d processed, %d skipped, %d errors",
		stats.Processed, stats.Skipped, stats.Errors)
	return stats, nil
}
