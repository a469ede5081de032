package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"b-track7/ai"
	"b-track7/models"
	"b-track7/period"
)

type fakeTransactionRepo struct {
	transactions []models.Transaction
	err          error
	fetchCalls   int
}

func (f *fakeTransactionRepo) FetchForRange(_ context.Context, _ string, startDate, endDate period.DateKey) ([]models.Transaction, error) {
	f.fetchCalls++
	if f.err != nil {
		return nil, f.err
	}
	r := period.DateRange{Start: startDate, End: endDate}
	var inRange []models.Transaction
	for _, tx := range f.transactions {
		if r.Contains(tx.Date) {
			inRange = append(inRange, tx)
		}
	}
	return inRange, nil
}

type fakeSavingsGoalRepo struct {
	goals       map[period.DateKey]*models.SavingsGoal
	getErr      error
	insertErr   error
	insertCalls []float64
}

func (f *fakeSavingsGoalRepo) GetForMonth(_ context.Context, _ string, month period.DateKey) (*models.SavingsGoal, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.goals[month], nil
}

func (f *fakeSavingsGoalRepo) InsertAutofilled(_ context.Context, _ string, month period.DateKey, goalAmount float64) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.insertCalls = append(f.insertCalls, goalAmount)
	if f.goals == nil {
		f.goals = make(map[period.DateKey]*models.SavingsGoal)
	}
	if _, exists := f.goals[month]; !exists {
		f.goals[month] = &models.SavingsGoal{Month: month, GoalAmount: goalAmount, WasAutoFilled: true}
	}
	return nil
}

type summaryKey struct {
	userID      string
	periodType  models.PeriodType
	periodStart period.DateKey
	periodEnd   period.DateKey
}

type fakeSummaryRepo struct {
	err     error
	upserts []*models.SummaryUpsert
	stored  map[summaryKey]*models.SummaryUpsert
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, payload *models.SummaryUpsert) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, payload)
	if f.stored == nil {
		f.stored = make(map[summaryKey]*models.SummaryUpsert)
	}
	f.stored[summaryKey{payload.UserID, payload.PeriodType, payload.PeriodStart, payload.PeriodEnd}] = payload
	return nil
}

func (f *fakeSummaryRepo) ListForUser(_ context.Context, _ string, _ models.PeriodType) ([]models.InsightSummary, error) {
	return nil, nil
}

type fakeGenerator struct {
	response interface{}
	err      error
	calls    []ai.GenerateRequest
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, req ai.GenerateRequest) (interface{}, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func weeklyModelReply() map[string]interface{} {
	return map[string]interface{}{
		"summary":         "Spending rose this week.",
		"suggestions":     []interface{}{"a", "b", "c"},
		"trend_highlight": "Food up 25%.",
	}
}

func monthlyModelReply(commentary interface{}) map[string]interface{} {
	return map[string]interface{}{
		"summary":            "Decent month.",
		"suggestions":        []interface{}{"a", "b", "c"},
		"trend_highlight":    "Rent flat.",
		"savings_commentary": commentary,
	}
}

const testUserID = "9f1c7a52-1111-2222-3333-444455556666"

func fixedClock(date string) func() time.Time {
	t, _ := time.Parse("2006-01-02", date)
	// Noon UTC keeps the IST date identical to the UTC date
	return func() time.Time { return t.Add(12 * time.Hour) }
}

func newTestService(transactions *fakeTransactionRepo, goals *fakeSavingsGoalRepo, summaries *fakeSummaryRepo, generator *fakeGenerator, today string) *SummaryService {
	s := NewSummaryService(transactions, goals, summaries, generator)
	s.now = fixedClock(today)
	return s
}

func TestProcessWeeklyForUserStoresSummary(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-08", Amount: 2500, Type: models.TransactionTypeExpense, CategoryName: "Food"},
		{Date: "2025-02-26", Amount: 2000, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-10")

	result, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2025-03-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusProcessed {
		t.Errorf("status = %s, want processed", result.Status)
	}
	if result.PeriodStart != "2025-03-04" || result.PeriodEnd != "2025-03-10" {
		t.Errorf("period = %s..%s", result.PeriodStart, result.PeriodEnd)
	}

	if len(summaries.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(summaries.upserts))
	}
	stored := summaries.upserts[0]
	if stored.PeriodType != models.PeriodTypeWeekly || stored.Summary != "Spending rose this week." {
		t.Errorf("stored = %+v", stored)
	}
	if stored.SavingsCommentary != nil {
		t.Error("weekly summary must never carry savings commentary")
	}
	if len(generator.calls) != 1 {
		t.Fatalf("generator calls = %d, want 1", len(generator.calls))
	}
	if generator.calls[0].MaxOutputTokens != 1000 || generator.calls[0].InvalidJSONRetries != 1 {
		t.Errorf("request = %+v", generator.calls[0])
	}
}

func TestProcessWeeklyForUserSkipsEmptyWeek(t *testing.T) {
	// Transactions exist in older windows but none in the latest week
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-02-26", Amount: 2000, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-10")

	result, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2025-03-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSkipped || result.Reason != SkipReasonNoTransactions {
		t.Errorf("result = %+v", result)
	}
	if len(generator.calls) != 0 {
		t.Errorf("generator calls = %d, want 0: skip must precede the model call", len(generator.calls))
	}
	if len(summaries.upserts) != 0 {
		t.Errorf("upserts = %d, want 0", len(summaries.upserts))
	}
}

func TestProcessWeeklyForUserReprocessingOverwrites(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-08", Amount: 2500, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-10")

	periods := period.WeeklyEndingAt("2025-03-10")
	for i := 0; i < 2; i++ {
		if _, err := s.ProcessWeeklyForUser(context.Background(), testUserID, periods); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if len(summaries.upserts) != 2 {
		t.Fatalf("upserts = %d, want 2", len(summaries.upserts))
	}
	// Same conflict key both times, so only one row survives
	if len(summaries.stored) != 1 {
		t.Errorf("distinct rows = %d, want 1", len(summaries.stored))
	}
}

func TestProcessMonthlyForUserWithGoal(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-05", Amount: 10500, Type: models.TransactionTypeExpense, CategoryName: "Rent"},
		{Date: "2025-03-01", Amount: 50000, Type: models.TransactionTypeIncome, CategoryName: "Salary"},
	}}
	goals := &fakeSavingsGoalRepo{goals: map[period.DateKey]*models.SavingsGoal{
		"2025-03-01": {Month: "2025-03-01", GoalAmount: 5000},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: monthlyModelReply("You are ahead of your goal.")}
	s := newTestService(transactions, goals, summaries, generator, "2025-03-15")

	periods := period.MonthlyForAnchor("2025-03-01", "2025-03-15")
	result, err := s.ProcessMonthlyForUser(context.Background(), testUserID, periods, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusProcessed {
		t.Errorf("status = %s", result.Status)
	}
	if result.PeriodStart != "2025-03-01" || result.PeriodEnd != "2025-03-15" {
		t.Errorf("period = %s..%s, want 1st of month through today", result.PeriodStart, result.PeriodEnd)
	}

	stored := summaries.upserts[0]
	if stored.SavingsCommentary == nil || *stored.SavingsCommentary != "You are ahead of your goal." {
		t.Errorf("commentary = %v", stored.SavingsCommentary)
	}
	if generator.calls[0].MaxOutputTokens != 1200 {
		t.Errorf("budget = %d, want 1200", generator.calls[0].MaxOutputTokens)
	}
}

func TestProcessMonthlyForUserWithoutGoal(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-05", Amount: 500, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: monthlyModelReply(nil)}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-15")

	periods := period.MonthlyForAnchor("2025-03-01", "2025-03-15")
	if _, err := s.ProcessMonthlyForUser(context.Background(), testUserID, periods, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries.upserts[0].SavingsCommentary != nil {
		t.Error("expected nil commentary when no goal exists")
	}
}

func TestProcessMonthlyForUserAutofillsGoal(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-05", Amount: 500, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	// Goal set for February only; March must inherit it
	goals := &fakeSavingsGoalRepo{goals: map[period.DateKey]*models.SavingsGoal{
		"2025-02-01": {Month: "2025-02-01", GoalAmount: 5000},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: monthlyModelReply("Keep going.")}
	s := newTestService(transactions, goals, summaries, generator, "2025-03-15")

	periods := period.MonthlyForAnchor("2025-03-01", "2025-03-15")
	if _, err := s.ProcessMonthlyForUser(context.Background(), testUserID, periods, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(goals.insertCalls) != 1 || goals.insertCalls[0] != 5000 {
		t.Errorf("autofill inserts = %v, want one insert of 5000", goals.insertCalls)
	}
	carried := goals.goals["2025-03-01"]
	if carried == nil || !carried.WasAutoFilled {
		t.Errorf("carried goal = %+v", carried)
	}
	if summaries.upserts[0].SavingsCommentary == nil {
		t.Error("expected commentary once the goal was carried forward")
	}
}

func TestProcessMonthlyForUserSkipsGoalWhenExcluded(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-05", Amount: 500, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	goals := &fakeSavingsGoalRepo{goals: map[period.DateKey]*models.SavingsGoal{
		"2025-03-01": {Month: "2025-03-01", GoalAmount: 5000},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: monthlyModelReply(nil)}
	s := newTestService(transactions, goals, summaries, generator, "2025-03-15")

	periods := period.MonthlyForAnchor("2025-03-01", "2025-03-15")
	if _, err := s.ProcessMonthlyForUser(context.Background(), testUserID, periods, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries.upserts[0].SavingsCommentary != nil {
		t.Error("goal context must be ignored when excluded")
	}
}

func TestStoredListenerFiresOnEveryUpsert(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-08", Amount: 2500, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-10")

	var notified []string
	s.SetStoredListener(func(userID string) { notified = append(notified, userID) })

	// A scheduled-style run stores a summary and must notify
	if _, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2025-03-10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notified) != 1 || notified[0] != testUserID {
		t.Errorf("notified = %v, want one notification for the user", notified)
	}

	// A skipped run stores nothing and must stay silent
	if _, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2024-06-10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notified) != 1 {
		t.Errorf("notified = %v, want no notification for a skipped run", notified)
	}

	// Bootstrap runs go through the same write path and must notify too
	if _, err := s.BootstrapWeeklyForUser(context.Background(), testUserID, 0, "2025-03-10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notified) != 2 {
		t.Errorf("notified = %v, want a second notification from bootstrap", notified)
	}
}

func TestGenerationErrorStages(t *testing.T) {
	baseTransactions := func() *fakeTransactionRepo {
		return &fakeTransactionRepo{transactions: []models.Transaction{
			{Date: "2025-03-08", Amount: 100, Type: models.TransactionTypeExpense, CategoryName: "Food"},
		}}
	}

	t.Run("fetch failure", func(t *testing.T) {
		transactions := &fakeTransactionRepo{err: errors.New("connection refused")}
		s := newTestService(transactions, &fakeSavingsGoalRepo{}, &fakeSummaryRepo{}, &fakeGenerator{}, "2025-03-10")
		_, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2025-03-10"))
		if StageOf(err) != StageFetch {
			t.Errorf("stage = %s, want fetch", StageOf(err))
		}
	})

	t.Run("model failure", func(t *testing.T) {
		generator := &fakeGenerator{err: errors.New("overloaded")}
		s := newTestService(baseTransactions(), &fakeSavingsGoalRepo{}, &fakeSummaryRepo{}, generator, "2025-03-10")
		_, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2025-03-10"))
		if StageOf(err) != StageModel {
			t.Errorf("stage = %s, want model", StageOf(err))
		}
	})

	t.Run("validate failure", func(t *testing.T) {
		generator := &fakeGenerator{response: map[string]interface{}{"summary": "only"}}
		s := newTestService(baseTransactions(), &fakeSavingsGoalRepo{}, &fakeSummaryRepo{}, generator, "2025-03-10")
		_, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2025-03-10"))
		if StageOf(err) != StageValidate {
			t.Errorf("stage = %s, want validate", StageOf(err))
		}
	})

	t.Run("save failure", func(t *testing.T) {
		summaries := &fakeSummaryRepo{err: errors.New("disk full")}
		s := newTestService(baseTransactions(), &fakeSavingsGoalRepo{}, summaries, &fakeGenerator{response: weeklyModelReply()}, "2025-03-10")
		_, err := s.ProcessWeeklyForUser(context.Background(), testUserID, period.WeeklyEndingAt("2025-03-10"))
		if StageOf(err) != StageSave {
			t.Errorf("stage = %s, want save", StageOf(err))
		}
	})

	t.Run("goal resolution failure aborts the run", func(t *testing.T) {
		transactions := &fakeTransactionRepo{transactions: []models.Transaction{
			{Date: "2025-03-05", Amount: 500, Type: models.TransactionTypeExpense, CategoryName: "Food"},
		}}
		goals := &fakeSavingsGoalRepo{getErr: errors.New("timeout")}
		generator := &fakeGenerator{response: monthlyModelReply(nil)}
		s := newTestService(transactions, goals, &fakeSummaryRepo{}, generator, "2025-03-15")
		_, err := s.ProcessMonthlyForUser(context.Background(), testUserID, period.MonthlyForAnchor("2025-03-01", "2025-03-15"), true)
		if err == nil {
			t.Fatal("expected error")
		}
		if len(generator.calls) != 0 {
			t.Error("model must not be called when goal resolution fails")
		}
	})
}

func TestBootstrapWeeklyForUserFindsOldWeek(t *testing.T) {
	// Only activity is a transaction roughly 40 days old
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-02-03", Amount: 900, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-15")

	result, err := s.BootstrapWeeklyForUser(context.Background(), testUserID, 0, "2025-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusProcessed {
		t.Fatalf("status = %s, want processed", result.Status)
	}
	if !(result.PeriodStart <= "2025-02-03" && "2025-02-03" <= result.PeriodEnd) {
		t.Errorf("chosen window %s..%s does not contain the transaction", result.PeriodStart, result.PeriodEnd)
	}
	if transactions.fetchCalls != 1 {
		t.Errorf("fetch calls = %d, want a single fetch for the whole span", transactions.fetchCalls)
	}
	if len(generator.calls) != 1 {
		t.Errorf("generator calls = %d, want 1", len(generator.calls))
	}
	if len(summaries.upserts) != 1 {
		t.Errorf("upserts = %d, want 1", len(summaries.upserts))
	}
}

func TestBootstrapWeeklyForUserPrefersMostRecentWeek(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-02-03", Amount: 900, Type: models.TransactionTypeExpense, CategoryName: "Food"},
		{Date: "2025-03-12", Amount: 300, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-15")

	result, err := s.BootstrapWeeklyForUser(context.Background(), testUserID, 0, "2025-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PeriodEnd != "2025-03-15" {
		t.Errorf("period end = %s, want the current week", result.PeriodEnd)
	}
}

func TestBootstrapWeeklyForUserNoTransactionsAtAll(t *testing.T) {
	transactions := &fakeTransactionRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, &fakeSummaryRepo{}, generator, "2025-03-15")

	result, err := s.BootstrapWeeklyForUser(context.Background(), testUserID, 0, "2025-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSkipped || result.Reason != SkipReasonNoTransactions {
		t.Errorf("result = %+v", result)
	}
	if len(generator.calls) != 0 {
		t.Error("no model call expected")
	}
}

func TestBootstrapWeeklyForUserTransactionsOutsideLookback(t *testing.T) {
	// A lone transaction inside the fetched span but older than every
	// candidate week, so the backward scan exhausts without a hit
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-02-01", Amount: 100, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	generator := &fakeGenerator{response: weeklyModelReply()}
	s := newTestService(transactions, &fakeSavingsGoalRepo{}, &fakeSummaryRepo{}, generator, "2025-03-15")

	result, err := s.BootstrapWeeklyForUser(context.Background(), testUserID, 4, "2025-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSkipped {
		t.Errorf("status = %s, want skipped", result.Status)
	}
	if len(generator.calls) != 0 {
		t.Error("no model call expected")
	}
}

func TestBootstrapMonthlyForUserFindsOldMonth(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-01-10", Amount: 900, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	// A current-month goal exists but must not be used for January
	goals := &fakeSavingsGoalRepo{goals: map[period.DateKey]*models.SavingsGoal{
		"2025-03-01": {Month: "2025-03-01", GoalAmount: 5000},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: monthlyModelReply(nil)}
	s := newTestService(transactions, goals, summaries, generator, "2025-03-15")

	result, err := s.BootstrapMonthlyForUser(context.Background(), testUserID, 0, "2025-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusProcessed {
		t.Fatalf("status = %s, want processed", result.Status)
	}
	if result.PeriodStart != "2025-01-01" || result.PeriodEnd != "2025-01-31" {
		t.Errorf("period = %s..%s, want January in full", result.PeriodStart, result.PeriodEnd)
	}
	// Historical month: no savings commentary even though a goal row exists
	if summaries.upserts[0].SavingsCommentary != nil {
		t.Error("historical bootstrap month must not resolve the savings goal")
	}
	if transactions.fetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1", transactions.fetchCalls)
	}
}

func TestBootstrapMonthlyForUserCurrentMonthIncludesGoal(t *testing.T) {
	transactions := &fakeTransactionRepo{transactions: []models.Transaction{
		{Date: "2025-03-10", Amount: 900, Type: models.TransactionTypeExpense, CategoryName: "Food"},
	}}
	goals := &fakeSavingsGoalRepo{goals: map[period.DateKey]*models.SavingsGoal{
		"2025-03-01": {Month: "2025-03-01", GoalAmount: 5000},
	}}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: monthlyModelReply("On track.")}
	s := newTestService(transactions, goals, summaries, generator, "2025-03-15")

	result, err := s.BootstrapMonthlyForUser(context.Background(), testUserID, 0, "2025-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PeriodStart != "2025-03-01" || result.PeriodEnd != "2025-03-15" {
		t.Errorf("period = %s..%s", result.PeriodStart, result.PeriodEnd)
	}
	if summaries.upserts[0].SavingsCommentary == nil {
		t.Error("live current month must resolve the savings goal")
	}
}

func TestBatchRunWeeklyContinuesPastFailures(t *testing.T) {
	okUser := "11111111-1111-1111-1111-111111111111"
	emptyUser := "22222222-2222-2222-2222-222222222222"
	brokenUser := "33333333-3333-3333-3333-333333333333"

	transactions := &perUserTransactionRepo{
		byUser: map[string][]models.Transaction{
			okUser: {{Date: "2025-03-08", Amount: 100, Type: models.TransactionTypeExpense, CategoryName: "Food"}},
		},
		errFor: brokenUser,
	}
	summaries := &fakeSummaryRepo{}
	generator := &fakeGenerator{response: weeklyModelReply()}
	summaryService := newTestService2(transactions, &fakeSavingsGoalRepo{}, summaries, generator, "2025-03-10")

	users := &fakeUserRepo{proUserIDs: []string{okUser, emptyUser, brokenUser}}
	batch := NewBatchService(users, summaryService)
	batch.now = fixedClock("2025-03-10")

	stats, err := batch.RunWeekly(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Processed != 1 || stats.Skipped != 1 || stats.Errors != 1 {
		t.Errorf("stats = %+v, want 1/1/1", stats)
	}
}

type perUserTransactionRepo struct {
	byUser map[string][]models.Transaction
	errFor string
}

func (f *perUserTransactionRepo) FetchForRange(_ context.Context, userID string, startDate, endDate period.DateKey) ([]models.Transaction, error) {
	if userID == f.errFor {
		return nil, fmt.Errorf("connection reset")
	}
	r := period.DateRange{Start: startDate, End: endDate}
	var inRange []models.Transaction
	for _, tx := range f.byUser[userID] {
		if r.Contains(tx.Date) {
			inRange = append(inRange, tx)
		}
	}
	return inRange, nil
}

type fakeUserRepo struct {
	proUserIDs []string
}

func (f *fakeUserRepo) ListProUserIDs(_ context.Context) ([]string, error) {
	return f.proUserIDs, nil
}

func (f *fakeUserRepo) IsProUser(_ context.Context, userID string) (bool, error) {
	for _, id := range f.proUserIDs {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func newTestService2(transactions *perUserTransactionRepo, goals *fakeSavingsGoalRepo, summaries *fakeSummaryRepo, generator *fakeGenerator, today string) *SummaryService {
	s := NewSummaryService(transactions, goals, summaries, generator)
	s.now = fixedClock(today)
	return s
}
