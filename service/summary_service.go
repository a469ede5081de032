package service

import (
	"context"
	"time"

	"b-track7/ai"
	"b-track7/insight"
	"b-track7/models"
	"b-track7/period"
	"b-track7/repository"
)

const (
	weeklyMaxOutputTokens  = 1000
	monthlyMaxOutputTokens = 1200
	invalidJSONRetries     = 1

	// DefaultBootstrapWeeklyLookback and DefaultBootstrapMonthlyLookback
	// bound how far back the bootstrap scanner searches for a non-empty
	// period for a brand-new Pro subscriber.
	DefaultBootstrapWeeklyLookback  = 16
	DefaultBootstrapMonthlyLookback = 12
)

// Status is the outcome class of one generation run.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
)

// SkipReasonNoTransactions marks the normal, silent outcome of a period
// with nothing to summarize. It is not an error: no model call is made
// and nothing is stored.
const SkipReasonNoTransactions = "no_transactions"

// Result is the outcome of one generation run for one user and period.
type Result struct {
	Status      Status            `json:"status"`
	PeriodType  models.PeriodType `json:"period_type"`
	PeriodStart period.DateKey    `json:"period_start"`
	PeriodEnd   period.DateKey    `json:"period_end"`
	Reason      string            `json:"reason,omitempty"`
}

var weeklyResponseSchema = ai.ResponseSchema{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"summary", "suggestions", "trend_highlight"},
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{"type": "string"},
		"suggestions": map[string]interface{}{
			"type":     "array",
			"minItems": 3,
			"maxItems": 3,
			"items":    map[string]interface{}{"type": "string"},
		},
		"trend_highlight": map[string]interface{}{"type": "string"},
	},
}

var monthlyResponseSchemaWithGoal = ai.ResponseSchema{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"summary", "suggestions", "trend_highlight", "savings_commentary"},
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{"type": "string"},
		"suggestions": map[string]interface{}{
			"type":     "array",
			"minItems": 3,
			"maxItems": 3,
			"items":    map[string]interface{}{"type": "string"},
		},
		"trend_highlight":    map[string]interface{}{"type": "string"},
		"savings_commentary": map[string]interface{}{"type": "string"},
	},
}

var monthlyResponseSchemaNoGoal = ai.ResponseSchema{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"summary", "suggestions", "trend_highlight", "savings_commentary"},
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{"type": "string"},
		"suggestions": map[string]interface{}{
			"type":     "array",
			"minItems": 3,
			"maxItems": 3,
			"items":    map[string]interface{}{"type": "string"},
		},
		"trend_highlight":    map[string]interface{}{"type": "string"},
		"savings_commentary": map[string]interface{}{"type": "null"},
	},
}

// SummaryService orchestrates insight generation: fetch transactions,
// aggregate, resolve the savings goal (monthly), build the prompt, call
// the model, validate, and upsert. Every stage runs strictly in
// sequence per user; each depends on the previous stage's output.
type SummaryService struct {
	transactions repository.TransactionRepositoryInterface
	savingsGoals repository.SavingsGoalRepositoryInterface
	summaries    repository.SummaryRepositoryInterface
	generator    ai.Generator
	now          func() time.Time
	onStored     func(userID string)
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	transactions repository.TransactionRepositoryInterface,
	savingsGoals repository.SavingsGoalRepositoryInterface,
	summaries repository.SummaryRepositoryInterface,
	generator ai.Generator,
) *SummaryService {
	return &SummaryService{
		transactions: transactions,
		savingsGoals: savingsGoals,
		summaries:    summaries,
		generator:    generator,
		now:          time.Now,
	}
}

// SetStoredListener registers a callback invoked after every
// successful summary upsert, scheduled or bootstrapped. The app wires
// it to drop the user's cached dashboard feed so reads never serve a
// superseded insight.
func (s *SummaryService) SetStoredListener(fn func(userID string)) {
	s.onStored = fn
}

func (s *SummaryService) notifyStored(userID string) {
	if s.onStored != nil {
		s.onStored(userID)
	}
}

// ProcessWeeklyForUser generates and stores the weekly insight for the
// given precomputed periods. Returns a skipped result without calling
// the model when the most recent week has no transactions.
func (s *SummaryService) ProcessWeeklyForUser(ctx context.Context, userID string, periods period.WeeklyPeriods) (*Result, error) {
	transactions, err := s.transactions.FetchForRange(ctx, userID, periods.Week4.Start, periods.Week1.End)
	if err != nil {
		return nil, &GenerationError{Stage: StageFetch, UserID: userID, Err: err}
	}

	return s.generateWeekly(ctx, userID, periods, transactions)
}

// ProcessMonthlyForUser generates and stores the monthly insight for
// the given precomputed periods. includeSavingsGoal controls whether
// the current month's goal is resolved into the prompt; bootstrap runs
// against historical months pass false, since goal rows only describe
// the live month.
func (s *SummaryService) ProcessMonthlyForUser(ctx context.Context, userID string, periods period.MonthlyPeriods, includeSavingsGoal bool) (*Result, error) {
	transactions, err := s.transactions.FetchForRange(ctx, userID, periods.Minus3.Start, periods.Current.End)
	if err != nil {
		return nil, &GenerationError{Stage: StageFetch, UserID: userID, Err: err}
	}

	return s.generateMonthly(ctx, userID, periods, includeSavingsGoal, transactions)
}

func (s *SummaryService) generateWeekly(ctx context.Context, userID string, periods period.WeeklyPeriods, transactions []models.Transaction) (*Result, error) {
	aggregation := insight.AggregateWeekly(transactions, periods)

	if aggregation.Week1TransactionCount == 0 {
		return &Result{
			Status:      StatusSkipped,
			Reason:      SkipReasonNoTransactions,
			PeriodType:  models.PeriodTypeWeekly,
			PeriodStart: periods.Week1.Start,
			PeriodEnd:   periods.Week1.End,
		}, nil
	}

	prompt := insight.BuildWeeklyPrompt(aggregation.PromptInput)

	raw, err := s.generator.GenerateJSON(ctx, ai.GenerateRequest{
		Prompt:             prompt,
		MaxOutputTokens:    weeklyMaxOutputTokens,
		ResponseSchema:     weeklyResponseSchema,
		InvalidJSONRetries: invalidJSONRetries,
	})
	if err != nil {
		return nil, &GenerationError{Stage: StageModel, UserID: userID, Err: err}
	}

	validated, err := insight.ValidateWeeklyResponse(raw)
	if err != nil {
		return nil, &GenerationError{Stage: StageValidate, UserID: userID, Err: err}
	}

	if err := s.summaries.Upsert(ctx, &models.SummaryUpsert{
		UserID:         userID,
		PeriodType:     models.PeriodTypeWeekly,
		PeriodStart:    periods.Week1.Start,
		PeriodEnd:      periods.Week1.End,
		Summary:        validated.Summary,
		Suggestions:    validated.Suggestions[:],
		TrendHighlight: validated.TrendHighlight,
	}); err != nil {
		return nil, &GenerationError{Stage: StageSave, UserID: userID, Err: err}
	}
	s.notifyStored(userID)

	return &Result{
		Status:      StatusProcessed,
		PeriodType:  models.PeriodTypeWeekly,
		PeriodStart: periods.Week1.Start,
		PeriodEnd:   periods.Week1.End,
	}, nil
}

func (s *SummaryService) generateMonthly(ctx context.Context, userID string, periods period.MonthlyPeriods, includeSavingsGoal bool, transactions []models.Transaction) (*Result, error) {
	aggregation := insight.AggregateMonthly(transactions, periods)

	if aggregation.CurrentMonthTransactionCount == 0 {
		return &Result{
			Status:      StatusSkipped,
			Reason:      SkipReasonNoTransactions,
			PeriodType:  models.PeriodTypeMonthly,
			PeriodStart: periods.Current.Start,
			PeriodEnd:   periods.Current.End,
		}, nil
	}

	goal := &savingsGoalResolution{HasGoal: false}
	if includeSavingsGoal {
		var err error
		goal, err = s.resolveCurrentMonthSavingsGoal(
			ctx,
			userID,
			periods.CurrentMonthStart,
			periods.PreviousMonthStart,
			aggregation.PromptInput.CurrentMonth.NetSavings,
		)
		if err != nil {
			return nil, err
		}
	}

	promptInput := aggregation.PromptInput
	promptInput.SavingsGoal = goal.PromptGoalData
	prompt := insight.BuildMonthlyPrompt(promptInput)

	schema := monthlyResponseSchemaNoGoal
	if goal.HasGoal {
		schema = monthlyResponseSchemaWithGoal
	}

	raw, err := s.generator.GenerateJSON(ctx, ai.GenerateRequest{
		Prompt:             prompt,
		MaxOutputTokens:    monthlyMaxOutputTokens,
		ResponseSchema:     schema,
		InvalidJSONRetries: invalidJSONRetries,
	})
	if err != nil {
		return nil, &GenerationError{Stage: StageModel, UserID: userID, Err: err}
	}

	validated, err := insight.ValidateMonthlyResponse(raw, goal.HasGoal)
	if err != nil {
		return nil, &GenerationError{Stage: StageValidate, UserID: userID, Err: err}
	}

	if err := s.summaries.Upsert(ctx, &models.SummaryUpsert{
		UserID:            userID,
		PeriodType:        models.PeriodTypeMonthly,
		PeriodStart:       periods.Current.Start,
		PeriodEnd:         periods.Current.End,
		Summary:           validated.Summary,
		Suggestions:       validated.Suggestions[:],
		TrendHighlight:    validated.TrendHighlight,
		SavingsCommentary: validated.SavingsCommentary,
	}); err != nil {
		return nil, &GenerationError{Stage: StageSave, UserID: userID, Err: err}
	}
	s.notifyStored(userID)

	return &Result{
		Status:      StatusProcessed,
		PeriodType:  models.PeriodTypeMonthly,
		PeriodStart: periods.Current.Start,
		PeriodEnd:   periods.Current.End,
	}, nil
}

// BootstrapWeeklyForUser gives a brand-new Pro subscriber an immediate
// first weekly insight: it fetches the whole lookback span once, scans
// backward from today one week at a time, and fully processes only the
// most recent week that has at least one transaction. At most one model
// call is made. lookbackWeeks <= 0 uses the default; an empty
// todayOverride anchors at the current IST date.
func (s *SummaryService) BootstrapWeeklyForUser(ctx context.Context, userID string, lookbackWeeks int, todayOverride period.DateKey) (*Result, error) {
	if lookbackWeeks <= 0 {
		lookbackWeeks = DefaultBootstrapWeeklyLookback
	}
	today := todayOverride
	if today == "" {
		today = period.TodayKey(s.now())
	}

	// The oldest candidate window still needs its own 4-week lookback
	oldestWeekEnd := today.AddDays(-7 * (lookbackWeeks - 1))
	searchStart := oldestWeekEnd.AddDays(-27)

	transactions, err := s.transactions.FetchForRange(ctx, userID, searchStart, today)
	if err != nil {
		return nil, &GenerationError{Stage: StageFetch, UserID: userID, Err: err}
	}

	skipped := &Result{
		Status:      StatusSkipped,
		Reason:      SkipReasonNoTransactions,
		PeriodType:  models.PeriodTypeWeekly,
		PeriodStart: today.AddDays(-6),
		PeriodEnd:   today,
	}

	if len(transactions) == 0 {
		return skipped, nil
	}

	for offset := 0; offset < lookbackWeeks; offset++ {
		candidatePeriods := period.WeeklyEndingAt(today.AddDays(-7 * offset))

		// Re-aggregate against the already-fetched span; no extra reads
		candidate := insight.AggregateWeekly(transactions, candidatePeriods)
		if candidate.Week1TransactionCount == 0 {
			continue
		}

		return s.generateWeekly(ctx, userID, candidatePeriods, transactions)
	}

	return skipped, nil
}

// BootstrapMonthlyForUser is the monthly counterpart of
// BootstrapWeeklyForUser: it scans backward month by month and
// processes the most recent non-empty month. The savings goal is only
// resolved when the live current month is the one processed, since goal
// autofill must not write rows for historical months.
func (s *SummaryService) BootstrapMonthlyForUser(ctx context.Context, userID string, lookbackMonths int, todayOverride period.DateKey) (*Result, error) {
	if lookbackMonths <= 0 {
		lookbackMonths = DefaultBootstrapMonthlyLookback
	}
	today := todayOverride
	if today == "" {
		today = period.TodayKey(s.now())
	}

	currentMonthStart := today.MonthStart()
	oldestAnchorMonthStart := currentMonthStart.ShiftMonthStart(-(lookbackMonths - 1))
	searchStart := oldestAnchorMonthStart.ShiftMonthStart(-3)

	transactions, err := s.transactions.FetchForRange(ctx, userID, searchStart, today)
	if err != nil {
		return nil, &GenerationError{Stage: StageFetch, UserID: userID, Err: err}
	}

	skipped := &Result{
		Status:      StatusSkipped,
		Reason:      SkipReasonNoTransactions,
		PeriodType:  models.PeriodTypeMonthly,
		PeriodStart: currentMonthStart,
		PeriodEnd:   today,
	}

	if len(transactions) == 0 {
		return skipped, nil
	}

	for offset := 0; offset < lookbackMonths; offset++ {
		anchorMonthStart := currentMonthStart.ShiftMonthStart(-offset)
		anchorMonthEnd := today
		if offset > 0 {
			anchorMonthEnd = anchorMonthStart.MonthEnd()
		}

		candidatePeriods := period.MonthlyForAnchor(anchorMonthStart, anchorMonthEnd)
		candidate := insight.AggregateMonthly(transactions, candidatePeriods)
		if candidate.CurrentMonthTransactionCount == 0 {
			continue
		}

		return s.generateMonthly(ctx, userID, candidatePeriods, offset == 0, transactions)
	}

	return skipped, nil
}
