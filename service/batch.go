package service

import (
	"context"
	"log"
	"time"

	"b-track7/period"
	"b-track7/repository"
)

// BatchStats counts per-user outcomes of one scheduled batch run.
type BatchStats struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// BatchService runs scheduled insight generation across all Pro users,
// one user at a time. A per-user failure is logged with its stage tag
// and counted; it never aborts the rest of the batch.
type BatchService struct {
	users     repository.UserRepositoryInterface
	summaries *SummaryService
	now       func() time.Time
}

// NewBatchService creates a new BatchService
func NewBatchService(users repository.UserRepositoryInterface, summaries *SummaryService) *BatchService {
	return &BatchService{
		users:     users,
		summaries: summaries,
		now:       time.Now,
	}
}

// RunWeekly generates this week's summary for every Pro user.
func (b *BatchService) RunWeekly(ctx context.Context) (*BatchStats, error) {
	userIDs, err := b.users.ListProUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	periods := period.Weekly(b.now())
	log.Printf("🔄 RunWeekly: Generating weekly summaries for %d Pro users (week %s to %s)",
		len(userIDs), periods.Week1.Start, periods.Week1.End)

	stats := &BatchStats{}
	for _, userID := range userIDs {
		result, err := b.summaries.ProcessWeeklyForUser(ctx, userID, periods)
		if err != nil {
			stats.Errors++
			log.Printf("❌ RunWeekly: user=%s stage=%s error=%v", userID, StageOf(err), err)
			continue
		}

		if result.Status == StatusSkipped {
			stats.Skipped++
			continue
		}
		stats.Processed++
	}

	log.Printf("🎉 RunWeekly: Completed: %d processed, %d skipped, %d errors",
		stats.Processed, stats.Skipped, stats.Errors)
	return stats, nil
}

// RunMonthly generates this month's summary for every Pro user,
// including savings-goal context.
func (b *BatchService) RunMonthly(ctx context.Context) (*BatchStats, error) {
	userIDs, err := b.users.ListProUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	periods := period.Monthly(b.now())
	log.Printf("🔄 RunMonthly: Generating monthly summaries for %d Pro users (%s)",
		len(userIDs), periods.Current.Label)

	stats := &BatchStats{}
	for _, userID := range userIDs {
		result, err := b.summaries.ProcessMonthlyForUser(ctx, userID, periods, true)
		if err != nil {
			stats.Errors++
			log.Printf("❌ RunMonthly: user=%s stage=%s error=%v", userID, StageOf(err), err)
			continue
		}

		if result.Status == StatusSkipped {
			stats.Skipped++
			continue
		}
		stats.Processed++
	}

	log.Printf("🎉 RunMonthly: Completed: %d processed, %d skipped, %d errors",
		stats.Processed, stats.Skipped, stats.Errors)
	return stats, nil
}
