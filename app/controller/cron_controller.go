package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"b-track7/service"
)

// CronController handles the scheduler-triggered summary endpoints.
// The external scheduler authenticates with a bearer token compared
// against CRON_SECRET.
type CronController struct {
	batch     *service.BatchService
	reminders *service.ReminderService
}

// NewCronController creates a new CronController
func NewCronController(batch *service.BatchService, reminders *service.ReminderService) *CronController {
	return &CronController{batch: batch, reminders: reminders}
}

func cronAuthorized(r *http.Request) bool {
	secret := strings.TrimSpace(os.Getenv("CRON_SECRET"))
	if secret == "" {
		// Refuse everything rather than running open when unconfigured
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+secret
}

// WeeklySummary handles GET /api/cron/weekly-summary
func (c *CronController) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	c.runBatch(w, r, "weekly-summary", c.batch.RunWeekly)
}

// MonthlySummary handles GET /api/cron/monthly-summary
func (c *CronController) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	c.runBatch(w, r, "monthly-summary", c.batch.RunMonthly)
}

// SavingsReminder handles GET /api/cron/savings-reminder
func (c *CronController) SavingsReminder(w http.ResponseWriter, r *http.Request) {
	c.runBatch(w, r, "savings-reminder", c.reminders.RunSavingsReminder)
}

func (c *CronController) runBatch(w http.ResponseWriter, r *http.Request, endpoint string, run func(ctx context.Context) (*service.BatchStats, error)) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !cronAuthorized(r) {
		log.Printf("❌ %s: Unauthorized cron request", endpoint)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := run(r.Context())
	if err != nil {
		log.Printf("❌ %s: Batch run failed: %v", endpoint, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"processed": stats.Processed,
		"skipped":   stats.Skipped,
		"errors":    stats.Errors,
	}); err != nil {
		log.Printf("❌ %s: Error encoding response: %v", endpoint, err)
	}
}
