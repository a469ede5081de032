package insight

import (
	"fmt"
	"strings"
)

// WeeklyInsightResponse is the validated shape of a weekly model reply.
type WeeklyInsightResponse struct {
	Summary        string
	Suggestions    [3]string
	TrendHighlight string
}

// MonthlyInsightResponse is the validated shape of a monthly model
// reply. SavingsCommentary is nil exactly when no goal existed.
type MonthlyInsightResponse struct {
	WeeklyInsightResponse
	SavingsCommentary *string
}

func asNonEmptyString(value interface{}, fieldName string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", fieldName)
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%s must be non-empty", fieldName)
	}
	return trimmed, nil
}

func validateSuggestions(value interface{}) ([3]string, error) {
	var suggestions [3]string

	items, ok := value.([]interface{})
	if !ok || len(items) != 3 {
		return suggestions, fmt.Errorf("suggestions must be an array of exactly 3 strings")
	}

	for i, item := range items {
		normalized, err := asNonEmptyString(item, fmt.Sprintf("suggestions[%d]", i))
		if err != nil {
			return suggestions, err
		}
		suggestions[i] = normalized
	}
	return suggestions, nil
}

// ValidateWeeklyResponse structurally checks a parsed weekly model
// reply. Structural only; it never judges the content.
func ValidateWeeklyResponse(raw interface{}) (*WeeklyInsightResponse, error) {
	record, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("model response must be a JSON object")
	}

	summary, err := asNonEmptyString(record["summary"], "summary")
	if err != nil {
		return nil, err
	}

	suggestions, err := validateSuggestions(record["suggestions"])
	if err != nil {
		return nil, err
	}

	trendHighlight, err := asNonEmptyString(record["trend_highlight"], "trend_highlight")
	if err != nil {
		return nil, err
	}

	return &WeeklyInsightResponse{
		Summary:        summary,
		Suggestions:    suggestions,
		TrendHighlight: trendHighlight,
	}, nil
}

// ValidateMonthlyResponse structurally checks a parsed monthly model
// reply. savings_commentary must be a non-empty string when a goal
// exists and exactly null when it does not; a mismatch in either
// direction is a validation failure, never a silent coercion.
func ValidateMonthlyResponse(raw interface{}, hasGoal bool) (*MonthlyInsightResponse, error) {
	weeklyShape, err := ValidateWeeklyResponse(raw)
	if err != nil {
		return nil, err
	}

	record := raw.(map[string]interface{})
	commentary, present := record["savings_commentary"]

	if hasGoal {
		normalized, err := asNonEmptyString(commentary, "savings_commentary")
		if err != nil {
			return nil, err
		}
		return &MonthlyInsightResponse{
			WeeklyInsightResponse: *weeklyShape,
			SavingsCommentary:     &normalized,
		}, nil
	}

	if !present || commentary != nil {
		return nil, fmt.Errorf("savings_commentary must be null when no savings goal exists")
	}

	return &MonthlyInsightResponse{
		WeeklyInsightResponse: *weeklyShape,
		SavingsCommentary:     nil,
	}, nil
}
