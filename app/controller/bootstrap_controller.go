package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"b-track7/repository"
	"b-track7/service"
)

// BootstrapController handles on-demand first-insight generation for
// users who just upgraded and should not wait for the next scheduled
// run.
type BootstrapController struct {
	users     repository.UserRepositoryInterface
	summaries *service.SummaryService
}

// NewBootstrapController creates a new BootstrapController
func NewBootstrapController(users repository.UserRepositoryInterface, summaries *service.SummaryService) *BootstrapController {
	return &BootstrapController{users: users, summaries: summaries}
}

type bootstrapRequest struct {
	UserID string `json:"userId"`
}

type bootstrapOutcome struct {
	Result *service.Result `json:"result,omitempty"`
	Stage  string          `json:"stage,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Bootstrap handles POST /api/ai/bootstrap. The weekly and monthly
// passes run independently so a failure in one still leaves the user
// with the other insight.
func (c *BootstrapController) Bootstrap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		http.Error(w, "Invalid userId", http.StatusBadRequest)
		return
	}

	isPro, err := c.users.IsProUser(r.Context(), req.UserID)
	if err != nil {
		log.Printf("❌ bootstrap: Error checking plan for user %s: %v", req.UserID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !isPro {
		http.Error(w, "Insights require a Pro plan", http.StatusForbidden)
		return
	}

	log.Printf("🔄 bootstrap: Generating first insights for user %s", req.UserID)

	weekly := c.runBootstrap(r, req.UserID, "weekly", func() (*service.Result, error) {
		return c.summaries.BootstrapWeeklyForUser(r.Context(), req.UserID, 0, "")
	})
	monthly := c.runBootstrap(r, req.UserID, "monthly", func() (*service.Result, error) {
		return c.summaries.BootstrapMonthlyForUser(r.Context(), req.UserID, 0, "")
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": weekly.Error == "" || monthly.Error == "",
		"user_id": req.UserID,
		"weekly":  weekly,
		"monthly": monthly,
	}); err != nil {
		log.Printf("❌ bootstrap: Error encoding response: %v", err)
	}
}

func (c *BootstrapController) runBootstrap(r *http.Request, userID, label string, run func() (*service.Result, error)) bootstrapOutcome {
	result, err := run()
	if err != nil {
		log.Printf("❌ bootstrap: %s pass failed for user %s at stage %s: %v", label, userID, service.StageOf(err), err)
		return bootstrapOutcome{Stage: string(service.StageOf(err)), Error: err.Error()}
	}
	return bootstrapOutcome{Result: result}
}
