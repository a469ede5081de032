package models

import "b-track7/period"

// SavingsGoal is a user's savings target for one calendar month,
// keyed by the first-of-month date.
type SavingsGoal struct {
	Month         period.DateKey `json:"month"`
	GoalAmount    float64        `json:"goalAmount"`
	WasAutoFilled bool           `json:"wasAutoFilled"`
}
