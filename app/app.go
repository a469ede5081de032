package app

import (
	"fmt"

	"b-track7/ai"
	"b-track7/app/controller"
	"b-track7/app/router"
	"b-track7/db"
	"b-track7/repository"
	"b-track7/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository()
	savingsGoalRepo := repository.NewSavingsGoalRepository()
	summaryRepo := repository.NewSummaryRepository()
	userRepo := repository.NewUserRepository()
	notificationRepo := repository.NewNotificationRepository()

	// Initialize the model client and insight services
	generator := ai.NewClientFromEnv()
	summaryService := service.NewSummaryService(transactionRepo, savingsGoalRepo, summaryRepo, generator)
	batchService := service.NewBatchService(userRepo, summaryService)
	reminderService := service.NewReminderService(userRepo, savingsGoalRepo, notificationRepo)

	cache, err := controller.NewSummaryCache()
	if err != nil {
		return fmt.Errorf("failed to initialize summary cache: %w", err)
	}
	// Every stored summary drops the user's cached feed immediately
	summaryService.SetStoredListener(cache.Invalidate)

	// Create controllers
	controllers := &router.Controllers{
		Cron:      controller.NewCronController(batchService, reminderService),
		Bootstrap: controller.NewBootstrapController(userRepo, summaryService),
		Summary:   controller.NewSummaryController(summaryRepo, cache),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
