package router

import (
	"net/http"

	"b-track7/app/controller"
)

type Controllers struct {
	Cron      *controller.CronController
	Bootstrap *controller.BootstrapController
	Summary   *controller.SummaryController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Scheduler-driven batch generation
	http.HandleFunc("/api/cron/weekly-summary", controllers.Cron.WeeklySummary)
	http.HandleFunc("/api/cron/monthly-summary", controllers.Cron.MonthlySummary)
	http.HandleFunc("/api/cron/savings-reminder", controllers.Cron.SavingsReminder)

	// First insights for fresh Pro subscribers
	http.HandleFunc("/api/ai/bootstrap", controllers.Bootstrap.Bootstrap)

	// Stored summaries for the app UI
	http.HandleFunc("/api/summaries", controllers.Summary.List)
}
