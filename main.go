package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"b-track7/app"
	"b-track7/db"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s (overriding system variables)", envPath)
		}

		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			log.Printf("DEBUG: ANTHROPIC_API_KEY is not set; insight generation will fail until it is")
		}
		if model := os.Getenv("INSIGHT_MODEL"); model != "" {
			log.Printf("DEBUG: INSIGHT_MODEL after loading .env: %s", model)
		}
	}

	// Initialize application
	if err := app.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer db.CloseDB()

	// Start server
	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	// Remove leading colon if present (PORT from Render doesn't include it)
	if len(port) > 0 && port[0] == ':' {
		port = port[1:]
	}
	addr := "0.0.0.0:" + port
	log.Printf("Server starting on %s", addr)
	log.Printf("Weekly summary cron endpoint: GET http://localhost:%s/api/cron/weekly-summary", port)

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
