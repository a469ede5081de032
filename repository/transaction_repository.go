package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"b-track7/db"
	"b-track7/models"
	"b-track7/period"
)

// TransactionRepository handles database reads of user transactions
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Ensure TransactionRepository implements TransactionRepositoryInterface
var _ TransactionRepositoryInterface = (*TransactionRepository)(nil)

// FetchForRange returns a user's transactions whose date falls within
// the inclusive range, ordered by date ascending, with category names
// resolved. Rows in the reserved "Internal Transfer" category are
// excluded; they are balance moves, not income or expense.
func (r *TransactionRepository) FetchForRange(ctx context.Context, userID string, startDate, endDate period.DateKey) ([]models.Transaction, error) {
	query := `
		SELECT t.transaction_date::text, t.amount, t.type, COALESCE(c.name, 'Uncategorized')
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		  AND t.transaction_date BETWEEN $2 AND $3
		ORDER BY t.transaction_date ASC
	`

	rows, err := db.DB.QueryContext(ctx, query, userID, string(startDate), string(endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var (
			transactionDate string
			amount          decimal.Decimal
			transactionType string
			categoryName    string
		)

		if err := rows.Scan(&transactionDate, &amount, &transactionType, &categoryName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for user %s: %w", userID, err)
		}

		// Rows with unknown types are skipped rather than failing the run
		if transactionType != string(models.TransactionTypeIncome) &&
			transactionType != string(models.TransactionTypeExpense) {
			log.Printf("⏭️  FetchForRange: Skipping transaction with unknown type %q for user %s", transactionType, userID)
			continue
		}

		if categoryName == models.InternalTransferCategory {
			continue
		}

		transactions = append(transactions, models.Transaction{
			Date:         period.DateKey(transactionDate),
			Amount:       amount.InexactFloat64(),
			Type:         models.TransactionType(transactionType),
			CategoryName: categoryName,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows for user %s: %w", userID, err)
	}

	return transactions, nil
}
