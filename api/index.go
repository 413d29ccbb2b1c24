package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"tidybook-api/res/auth"
	"tidybook-api/res/mail"
	"tidybook-api/res/mail/sidemail"
	"tidybook-api/res/notification"
	"tidybook-api/res/notification/slack"
	"tidybook-api/res/payment"
	"tidybook-api/res/payment/stripe"
	"tidybook-api/res/store"
	"tidybook-api/res/store/postgresql"
	"tidybook-api/sys/booking"
	tidyhttp "tidybook-api/sys/http"
)

var logger = log.New(os.Stdout, "", log.LstdFlags|log.LUTC|log.Llongfile)

// CONFIGURATION CONVENTION:
// All environment variable configuration is centralized in this file (api/index.go).
// This provides a single location to view all configuration requirements and ensures
// consistent handling of environment variables across the application.
//
// REQUIRED Environment Variables (minimum to run):
// - DATABASE_POSTGRES_URL: PostgreSQL connection string
// - AUTH_JWT_SECRET: JWT signing secret
// - AUTH_GOOGLE_CLIENT_ID: Google OAuth client ID
// - AUTH_GOOGLE_SECRET: Google OAuth client secret
// - AUTH_GOOGLE_REDIRECT_URL: Google OAuth redirect URL
// - STRIPE_SECRET_KEY: Stripe API secret key
//
// OPTIONAL Environment Variables (with graceful degradation):
// - STRIPE_API_URL: Stripe API base URL (default: https://api.stripe.com/v1)
// - STRIPE_CURRENCY: Currency for payment intents (default: usd)
// - SIDEMAIL_API_KEY: Sidemail API key for email operations (optional)
// - SIDEMAIL_API_URL: Sidemail API base URL (default: https://api.sidemail.io/v1)
// - SIDEMAIL_FROM_ADDRESS: Sender address for booking emails
// - SLACK_WEBHOOK_URL: Slack webhook URL for notifications (optional)
// - SLACK_TIMEOUT_SECONDS: Timeout for notification API requests in seconds (default: 5)
// - CORS_ALLOWED_ORIGINS: Comma-separated list of allowed origins (default: all)
// - ENVIRONMENT: "production" silences debug surfaces
// - BOOKING_PENDING_TTL_HOURS: Expire unconfirmed bookings after this many hours (0 disables)
// - BOOKING_SWEEP_INTERVAL_MINUTES: How often the expiry sweeper runs (default: 15)

// Global service instances initialized once
var (
	storeInstance               store.Store
	authInstance                auth.Auth
	paymentInstance             payment.Client
	mailServiceInstance         mail.MailService
	notificationServiceInstance notification.NotificationService
	eventHubInstance            *booking.EventHub
	bookingManagerInstance      *booking.Manager
	routerInstance              http.Handler
	initOnce                    sync.Once
	initError                   error
)

func Handler(w http.ResponseWriter, r *http.Request) {
	// Initialize services only once using sync.Once
	initOnce.Do(func() {
		storeInstance, initError = configStore()
		if initError != nil {
			return
		}

		authInstance = configAuth()
		paymentInstance = configPayment()
		mailServiceInstance = configMail()
		notificationServiceInstance = configNotification()
		eventHubInstance = booking.NewEventHub()

		bookingManagerInstance = booking.NewManager(&booking.Config{
			Logger:              logger,
			Store:               storeInstance,
			Payments:            paymentInstance,
			MailService:         mailServiceInstance,
			NotificationService: notificationServiceInstance,
			Events:              eventHubInstance,
			Currency:            readOptionalEnvVar("STRIPE_CURRENCY", "usd"),
		})

		startSweeper()

		routerInstance = tidyhttp.New(&tidyhttp.Config{
			Logger:              logger,
			Store:               storeInstance,
			Auth:                authInstance,
			Bookings:            bookingManagerInstance,
			Events:              eventHubInstance,
			MailService:         mailServiceInstance,
			NotificationService: notificationServiceInstance,
			AllowedOrigins:      configAllowedOrigins(),
			Environment:         readOptionalEnvVar("ENVIRONMENT", "development"),
		}).Router()
	})

	if initError != nil {
		logger.Fatalf("Failed to initialize services: %v", initError)
	}

	routerInstance.ServeHTTP(w, r)
}

func readRequiredEnvVar(name string) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		logger.Fatalf("Env variable not set: %s", name)
	}
	return val
}

func readOptionalEnvVar(name, defaultValue string) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue
	}
	return val
}

func configStore() (store.Store, error) {
	rawStore, err := postgresql.Connect(readRequiredEnvVar("DATABASE_POSTGRES_URL"))
	if err != nil {
		return nil, err
	}
	return rawStore, nil
}

func configAuth() auth.Auth {
	return auth.New(
		readRequiredEnvVar("AUTH_JWT_SECRET"),
		readRequiredEnvVar("AUTH_GOOGLE_CLIENT_ID"),
		readRequiredEnvVar("AUTH_GOOGLE_SECRET"),
		readRequiredEnvVar("AUTH_GOOGLE_REDIRECT_URL"),
	)
}

func configPayment() payment.Client {
	secretKey := readRequiredEnvVar("STRIPE_SECRET_KEY")
	apiURL := readOptionalEnvVar("STRIPE_API_URL", "https://api.stripe.com/v1")
	timeout := 15 * time.Second

	return stripe.New(secretKey, apiURL, timeout, logger)
}

func configMail() mail.MailService {
	apiKey := readOptionalEnvVar("SIDEMAIL_API_KEY", "")
	if apiKey == "" {
		logger.Printf("SIDEMAIL_API_KEY not set, email service disabled")
		return nil
	}

	apiURL := readOptionalEnvVar("SIDEMAIL_API_URL", "https://api.sidemail.io/v1")
	fromAddress := readOptionalEnvVar("SIDEMAIL_FROM_ADDRESS", "bookings@tidybook.example")
	timeout := 10 * time.Second

	return sidemail.New(apiKey, apiURL, fromAddress, timeout, logger)
}

func configNotification() notification.NotificationService {
	webhookURL := readOptionalEnvVar("SLACK_WEBHOOK_URL", "")
	if webhookURL == "" {
		logger.Printf("SLACK_WEBHOOK_URL not set, notifications disabled")
		return nil
	}

	timeoutSeconds := readOptionalEnvVar("SLACK_TIMEOUT_SECONDS", "5")
	timeout, _ := time.ParseDuration(timeoutSeconds + "s")

	return slack.New(webhookURL, timeout, logger)
}

func configAllowedOrigins() []string {
	raw := readOptionalEnvVar("CORS_ALLOWED_ORIGINS", "")
	if raw == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func startSweeper() {
	ttlHours, err := strconv.Atoi(readOptionalEnvVar("BOOKING_PENDING_TTL_HOURS", "0"))
	if err != nil || ttlHours <= 0 {
		logger.Printf("BOOKING_PENDING_TTL_HOURS not set, stale booking expiry disabled")
		return
	}

	intervalMinutes, err := strconv.Atoi(readOptionalEnvVar("BOOKING_SWEEP_INTERVAL_MINUTES", "15"))
	if err != nil || intervalMinutes <= 0 {
		intervalMinutes = 15
	}

	sweeper := booking.NewSweeper(
		logger,
		bookingManagerInstance,
		time.Duration(ttlHours)*time.Hour,
		time.Duration(intervalMinutes)*time.Minute,
	)
	go sweeper.Run(context.Background())
}
