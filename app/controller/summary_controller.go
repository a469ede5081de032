package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"b-track7/models"
	"b-track7/repository"
)

// SummaryController serves the stored-summaries dashboard feed
type SummaryController struct {
	repository repository.SummaryRepositoryInterface
	cache      *SummaryCache
}

// NewSummaryController creates a new SummaryController
func NewSummaryController(repo repository.SummaryRepositoryInterface, cache *SummaryCache) *SummaryController {
	return &SummaryController{
		repository: repo,
		cache:      cache,
	}
}

// List handles GET /api/summaries?userId=...&periodType=weekly|monthly
func (c *SummaryController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("userId")
	if _, err := uuid.Parse(userID); err != nil {
		log.Printf("❌ ListSummaries: Invalid userId %q: %v", userID, err)
		http.Error(w, "userId must be a valid UUID", http.StatusBadRequest)
		return
	}

	periodType := models.PeriodType(r.URL.Query().Get("periodType"))
	if periodType != models.PeriodTypeWeekly && periodType != models.PeriodTypeMonthly {
		http.Error(w, "periodType must be 'weekly' or 'monthly'", http.StatusBadRequest)
		return
	}

	if cached, found := c.cache.Get(userID, periodType); found {
		writeSummaryList(w, cached)
		return
	}

	summaries, err := c.repository.ListForUser(r.Context(), userID, periodType)
	if err != nil {
		log.Printf("❌ ListSummaries: Error listing summaries for user %s: %v", userID, err)
		http.Error(w, "Failed to list summaries", http.StatusInternalServerError)
		return
	}

	c.cache.Set(userID, periodType, summaries)
	writeSummaryList(w, summaries)
}

func writeSummaryList(w http.ResponseWriter, summaries []models.InsightSummary) {
	if summaries == nil {
		summaries = []models.InsightSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"summaries": summaries}); err != nil {
		log.Printf("❌ ListSummaries: Error encoding response: %v", err)
	}
}
