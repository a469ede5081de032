package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"b-track7/db"
	"b-track7/models"
)

// SummaryRepository handles database operations for stored AI summaries
type SummaryRepository struct{}

// NewSummaryRepository creates a new SummaryRepository
func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{}
}

// Ensure SummaryRepository implements SummaryRepositoryInterface
var _ SummaryRepositoryInterface = (*SummaryRepository)(nil)

// Upsert writes one generated insight. The write resolves conflicts on
// (user_id, period_type, period_start, period_end): reprocessing the
// same period overwrites the previous insight rather than duplicating
// it, so re-running a cron window is always safe.
func (r *SummaryRepository) Upsert(ctx context.Context, payload *models.SummaryUpsert) error {
	suggestionsJSON, err := json.Marshal(payload.Suggestions)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions for user %s: %w", payload.UserID, err)
	}

	query := `
		INSERT INTO ai_summaries (id, user_id, period_type, period_start, period_end,
			summary, suggestions, trend_highlight, savings_commentary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, period_type, period_start, period_end)
		DO UPDATE SET
			summary = EXCLUDED.summary,
			suggestions = EXCLUDED.suggestions,
			trend_highlight = EXCLUDED.trend_highlight,
			savings_commentary = EXCLUDED.savings_commentary
	`

	var commentary sql.NullString
	if payload.SavingsCommentary != nil {
		commentary = sql.NullString{String: *payload.SavingsCommentary, Valid: true}
	}

	_, err = db.DB.ExecContext(ctx, query,
		uuid.New().String(),
		payload.UserID,
		string(payload.PeriodType),
		string(payload.PeriodStart),
		string(payload.PeriodEnd),
		payload.Summary,
		suggestionsJSON,
		payload.TrendHighlight,
		commentary,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary for user %s: %w", payload.UserID, err)
	}

	log.Printf("✅ Upsert: Stored %s summary for user %s (%s to %s)",
		payload.PeriodType, payload.UserID, payload.PeriodStart, payload.PeriodEnd)
	return nil
}

// ListForUser returns the user's stored summaries of one period type,
// newest period first.
func (r *SummaryRepository) ListForUser(ctx context.Context, userID string, periodType models.PeriodType) ([]models.InsightSummary, error) {
	query := `
		SELECT id, user_id, period_type, period_start::text, period_end::text,
			summary, suggestions, trend_highlight, savings_commentary, created_at::text
		FROM ai_summaries
		WHERE user_id = $1 AND period_type = $2
		ORDER BY period_start DESC
	`

	rows, err := db.DB.QueryContext(ctx, query, userID, string(periodType))
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries for user %s: %w", userID, err)
	}
	defer rows.Close()

	var summaries []models.InsightSummary
	for rows.Next() {
		var (
			summary         models.InsightSummary
			suggestionsJSON []byte
			commentary      sql.NullString
		)

		if err := rows.Scan(
			&summary.ID,
			&summary.UserID,
			&summary.PeriodType,
			&summary.PeriodStart,
			&summary.PeriodEnd,
			&summary.Summary,
			&suggestionsJSON,
			&summary.TrendHighlight,
			&commentary,
			&summary.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary row for user %s: %w", userID, err)
		}

		if err := json.Unmarshal(suggestionsJSON, &summary.Suggestions); err != nil {
			return nil, fmt.Errorf("failed to decode suggestions for summary %s: %w", summary.ID, err)
		}
		if commentary.Valid {
			summary.SavingsCommentary = &commentary.String
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary rows for user %s: %w", userID, err)
	}

	return summaries, nil
}
