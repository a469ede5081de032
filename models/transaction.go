package models

import "b-track7/period"

// TransactionType is 'income' or 'expense'
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// InternalTransferCategory is the reserved category for balance moves
// between a user's own accounts. These are not real income or expense
// and are excluded from every aggregation.
const InternalTransferCategory = "Internal Transfer"

// Transaction is a user's categorized transaction as read by the
// insight pipeline. The pipeline only ever reads a date-bounded slice;
// transaction management itself lives elsewhere.
type Transaction struct {
	Date         period.DateKey  `json:"transactionDate"`
	Amount       float64         `json:"amount"`
	Type         TransactionType `json:"type"`
	CategoryName string          `json:"categoryName"`
}
