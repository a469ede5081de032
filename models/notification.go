package models

import "b-track7/period"

// ReminderTypeSetSavingsGoal asks the user to set next month's savings
// goal before the month rolls over.
const ReminderTypeSetSavingsGoal = "set_savings_goal"

// Notification is an in-app reminder row. A reminder is unique per
// (user, reminder type, target month); nudging the same user twice for
// the same month is a no-op.
type Notification struct {
	UserID       string         `json:"userId"`
	ReminderType string         `json:"reminderType"`
	TargetMonth  period.DateKey `json:"targetMonth"`
	Shown        bool           `json:"shown"`
}
