package service

import (
	"context"
	"math"

	"b-track7/insight"
	"b-track7/period"
)

// savingsGoalResolution is the outcome of resolving the current month's
// goal. PromptGoalData is nil when no goal exists.
type savingsGoalResolution struct {
	HasGoal        bool
	GoalAmount     float64
	PromptGoalData *insight.SavingsGoalData
}

// resolveCurrentMonthSavingsGoal looks up the current month's savings
// goal, carrying forward the previous month's goal as an autofilled row
// when the user has not set a new one. The autofill insert ignores
// duplicates, so a concurrent goal save cannot turn it into an error.
//
// A failure here aborts the monthly generation rather than degrading to
// "no goal": a degraded run would store a summary silently missing the
// goal commentary, and the next scheduled run repairs nothing.
func (s *SummaryService) resolveCurrentMonthSavingsGoal(
	ctx context.Context,
	userID string,
	currentMonthStart, previousMonthStart period.DateKey,
	actualSavings float64,
) (*savingsGoalResolution, error) {
	currentGoal, err := s.savingsGoals.GetForMonth(ctx, userID, currentMonthStart)
	if err != nil {
		return nil, &GenerationError{Stage: StageFetch, UserID: userID, Err: err}
	}

	if currentGoal == nil {
		previousGoal, err := s.savingsGoals.GetForMonth(ctx, userID, previousMonthStart)
		if err != nil {
			return nil, &GenerationError{Stage: StageFetch, UserID: userID, Err: err}
		}

		if previousGoal != nil {
			if err := s.savingsGoals.InsertAutofilled(ctx, userID, currentMonthStart, previousGoal.GoalAmount); err != nil {
				return nil, &GenerationError{Stage: StageSave, UserID: userID, Err: err}
			}

			// Re-read so a concurrent insert's row wins over our own
			currentGoal, err = s.savingsGoals.GetForMonth(ctx, userID, currentMonthStart)
			if err != nil {
				return nil, &GenerationError{Stage: StageFetch, UserID: userID, Err: err}
			}
		}
	}

	if currentGoal == nil {
		return &savingsGoalResolution{HasGoal: false}, nil
	}

	gapAmount := math.Abs(currentGoal.GoalAmount - actualSavings)
	gapDirection := "short of"
	if actualSavings >= currentGoal.GoalAmount {
		gapDirection = "ahead of"
	}

	return &savingsGoalResolution{
		HasGoal:    true,
		GoalAmount: currentGoal.GoalAmount,
		PromptGoalData: &insight.SavingsGoalData{
			GoalAmount:    currentGoal.GoalAmount,
			ActualSavings: actualSavings,
			GapAmount:     gapAmount,
			GapDirection:  gapDirection,
			WasAutoFilled: currentGoal.WasAutoFilled,
		},
	}, nil
}
