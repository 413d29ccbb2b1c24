package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"tidybook-api/api"
	"tidybook-api/res/store"
	"tidybook-api/res/store/postgresql"

	"github.com/joho/godotenv"
)

var logger = log.New(os.Stdout, "(cmd/main.go)", log.LstdFlags|log.LUTC|log.Llongfile)

func main() {
	// Load .env file in development
	// Try multiple locations: current dir, tidybook-api/, parent dir
	err := godotenv.Load()
	if err != nil {
		err = godotenv.Load("tidybook-api/.env")
	}
	if err != nil {
		err = godotenv.Load(".env")
	}
	if err != nil {
		logger.Printf("Note: .env file not found, using system environment variables")
	}

	port := readRequiredEnvVar("PORT")
	environment := readRequiredEnvVar("ENVIRONMENT")

	// Bootstrap platform admin if ADMIN_EMAIL is set
	if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" {
		if err := bootstrapAdmin(adminEmail); err != nil {
			logger.Printf("Warning: Failed to bootstrap admin: %v", err)
		} else {
			logger.Printf("Successfully checked/updated admin: %s", adminEmail)
		}
	}

	// REST API endpoint, routed through the serverless-compatible handler
	http.HandleFunc("/api/", api.Handler)

	logger.Printf("Starting server on :%s (environment: %s)\n", port, environment)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), nil); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

func readRequiredEnvVar(name string) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		logger.Fatalf("Env variable not set: %s", name)
	}
	return val
}

func bootstrapAdmin(email string) error {
	dbURL := readRequiredEnvVar("DATABASE_POSTGRES_URL")
	storeInstance, err := postgresql.Connect(dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()

	user, err := storeInstance.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user with email %s: %w", email, err)
	}

	if user.Role == store.UserRoleAdmin {
		logger.Printf("User %s already has admin role", email)
		return nil
	}

	adminRole := store.UserRoleAdmin
	_, err = storeInstance.Users().Update(ctx, user.ID, nil, &adminRole)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	logger.Printf("Successfully promoted user %s to admin", email)
	return nil
}
