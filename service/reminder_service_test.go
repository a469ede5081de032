package service

import (
	"context"
	"errors"
	"testing"

	"b-track7/models"
	"b-track7/period"
)

type fakeNotificationRepo struct {
	err     error
	inserts []period.DateKey
}

func (f *fakeNotificationRepo) InsertGoalReminder(_ context.Context, _ string, targetMonth period.DateKey) error {
	if f.err != nil {
		return f.err
	}
	f.inserts = append(f.inserts, targetMonth)
	return nil
}

type perUserGoalRepo struct {
	goalsByUser map[string]map[period.DateKey]*models.SavingsGoal
	errFor      string
}

func (f *perUserGoalRepo) GetForMonth(_ context.Context, userID string, month period.DateKey) (*models.SavingsGoal, error) {
	if userID == f.errFor {
		return nil, errors.New("connection reset")
	}
	return f.goalsByUser[userID][month], nil
}

func (f *perUserGoalRepo) InsertAutofilled(_ context.Context, _ string, _ period.DateKey, _ float64) error {
	return nil
}

func newTestReminderService(users *fakeUserRepo, goals *perUserGoalRepo, notifications *fakeNotificationRepo, today string) *ReminderService {
	s := NewReminderService(users, goals, notifications)
	s.now = fixedClock(today)
	return s
}

func TestRunSavingsReminderOutsideWindowIsNoOp(t *testing.T) {
	users := &fakeUserRepo{proUserIDs: []string{testUserID}}
	notifications := &fakeNotificationRepo{}
	// March 24th: the last-seven-days window opens on the 25th
	s := newTestReminderService(users, &perUserGoalRepo{}, notifications, "2025-03-24")

	stats, err := s.RunSavingsReminder(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Processed != 0 || stats.Skipped != 0 || stats.Errors != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
	if len(notifications.inserts) != 0 {
		t.Errorf("inserts = %d, want 0", len(notifications.inserts))
	}
}

func TestRunSavingsReminderQueuesMissingGoals(t *testing.T) {
	withGoal := "11111111-1111-1111-1111-111111111111"
	withoutGoal := "22222222-2222-2222-2222-222222222222"
	broken := "33333333-3333-3333-3333-333333333333"

	users := &fakeUserRepo{proUserIDs: []string{withGoal, withoutGoal, broken}}
	goals := &perUserGoalRepo{
		goalsByUser: map[string]map[period.DateKey]*models.SavingsGoal{
			withGoal: {"2025-04-01": {Month: "2025-04-01", GoalAmount: 5000}},
		},
		errFor: broken,
	}
	notifications := &fakeNotificationRepo{}
	// March 25th opens the reminder window for April
	s := newTestReminderService(users, goals, notifications, "2025-03-25")

	stats, err := s.RunSavingsReminder(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Processed != 1 || stats.Skipped != 1 || stats.Errors != 1 {
		t.Errorf("stats = %+v, want 1/1/1", stats)
	}
	if len(notifications.inserts) != 1 || notifications.inserts[0] != "2025-04-01" {
		t.Errorf("inserts = %v, want one reminder targeting 2025-04-01", notifications.inserts)
	}
}

func TestRunSavingsReminderTargetsNextMonthAcrossYearEnd(t *testing.T) {
	users := &fakeUserRepo{proUserIDs: []string{testUserID}}
	notifications := &fakeNotificationRepo{}
	s := newTestReminderService(users, &perUserGoalRepo{}, notifications, "2025-12-28")

	if _, err := s.RunSavingsReminder(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications.inserts) != 1 || notifications.inserts[0] != "2026-01-01" {
		t.Errorf("inserts = %v, want one reminder targeting 2026-01-01", notifications.inserts)
	}
}

func TestRunSavingsReminderInsertFailureIsCounted(t *testing.T) {
	users := &fakeUserRepo{proUserIDs: []string{testUserID}}
	notifications := &fakeNotificationRepo{err: errors.New("disk full")}
	s := newTestReminderService(users, &perUserGoalRepo{}, notifications, "2025-03-31")

	stats, err := s.RunSavingsReminder(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Errors != 1 || stats.Processed != 0 {
		t.Errorf("stats = %+v, want the failed insert counted as an error", stats)
	}
}
