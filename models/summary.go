package models

import "b-track7/period"

// PeriodType distinguishes weekly from monthly summaries
type PeriodType string

const (
	PeriodTypeWeekly  PeriodType = "weekly"
	PeriodTypeMonthly PeriodType = "monthly"
)

// InsightSummary is a stored AI-generated insight for one period.
// SavingsCommentary is non-nil if and only if a savings goal existed
// for that monthly period; it is always nil for weekly summaries.
type InsightSummary struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	PeriodType        PeriodType     `json:"periodType"`
	PeriodStart       period.DateKey `json:"periodStart"`
	PeriodEnd         period.DateKey `json:"periodEnd"`
	Summary           string         `json:"summary"`
	Suggestions       []string       `json:"suggestions"`
	TrendHighlight    string         `json:"trendHighlight"`
	SavingsCommentary *string        `json:"savingsCommentary"`
	CreatedAt         string         `json:"createdAt"`
}

// SummaryUpsert is the write payload for one generated insight.
// Reprocessing the same (user, periodType, periodStart, periodEnd)
// overwrites the previous row rather than duplicating it.
type SummaryUpsert struct {
	UserID            string
	PeriodType        PeriodType
	PeriodStart       period.DateKey
	PeriodEnd         period.DateKey
	Summary           string
	Suggestions       []string
	TrendHighlight    string
	SavingsCommentary *string
}
