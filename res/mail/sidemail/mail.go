package sidemail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	netmail "net/mail"
	"strings"
	"time"

	"tidybook-api/res/mail"
)

// SidemailService implements the MailService interface using Sidemail API
type SidemailService struct {
	apiKey      string
	apiBaseURL  string
	fromAddress string
	logger      *log.Logger
	httpClient  *http.Client
}

// New creates a new Sidemail service instance
func New(apiKey, apiURL, fromAddress string, timeout time.Duration, logger *log.Logger) mail.MailService {
	return &SidemailService{
		apiKey:      apiKey,
		apiBaseURL:  apiURL,
		fromAddress: fromAddress,
		logger:      logger,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// SidemailContactPayload represents the payload for creating/updating contacts via Sidemail API
type SidemailContactPayload struct {
	EmailAddress string                 `json:"emailAddress"`
	Identifier   string                 `json:"identifier"`
	IsSubscribed bool                   `json:"isSubscribed"`
	CustomProps  map[string]interface{} `json:"customProps,omitempty"`
}

// SidemailEmailPayload represents the payload for sending a templated email
type SidemailEmailPayload struct {
	FromAddress   string                 `json:"fromAddress"`
	ToAddress     string                 `json:"toAddress"`
	TemplateName  string                 `json:"templateName"`
	TemplateProps map[string]interface{} `json:"templateProps,omitempty"`
}

// validateEmail validates an email address format using Go's built-in mail parser.
// Returns an error if the email address is malformed or empty.
func (s *SidemailService) validateEmail(email string) error {
	_, err := netmail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	return nil
}

// sanitizeInput sanitizes user input to prevent injection attacks by removing
// control characters, null bytes, and trimming whitespace.
func (s *SidemailService) sanitizeInput(input string) string {
	cleaned := strings.ReplaceAll(input, "\x00", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\n", "")
	return strings.TrimSpace(cleaned)
}

// RegisterUser registers a user with Sidemail using the contacts API.
// If no API key is configured, this method returns nil (graceful degradation).
func (s *SidemailService) RegisterUser(ctx context.Context, userID, email, displayName string) error {
	if s.apiKey == "" {
		s.logger.Printf("Sidemail API key not configured, skipping user registration")
		return nil
	}

	if err := s.validateEmail(email); err != nil {
		return fmt.Errorf("user registration failed: %w", err)
	}

	payload := SidemailContactPayload{
		EmailAddress: email,
		Identifier:   s.sanitizeInput(userID),
		IsSubscribed: true,
		CustomProps: map[string]interface{}{
			"displayName": s.sanitizeInput(displayName),
		},
	}

	return s.post(ctx, "/contacts", payload)
}

// RemoveUserByEmail removes a user from the email service by email address
func (s *SidemailService) RemoveUserByEmail(ctx context.Context, email string) error {
	if s.apiKey == "" {
		s.logger.Printf("Sidemail API key not configured, skipping user removal")
		return nil
	}

	if err := s.validateEmail(email); err != nil {
		return fmt.Errorf("user removal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.apiBaseURL+"/contacts/"+email, nil)
	if err != nil {
		return fmt.Errorf("failed to create sidemail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sidemail API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sidemail API returned non-OK status %d: %s", resp.StatusCode, s.sanitizeInput(string(body)))
	}

	return nil
}

// SendBookingConfirmation sends the booking receipt email to the customer
func (s *SidemailService) SendBookingConfirmation(ctx context.Context, email, reference, status string, totalAmount float64) error {
	if s.apiKey == "" {
		s.logger.Printf("Sidemail API key not configured, skipping booking confirmation email")
		return nil
	}

	if err := s.validateEmail(email); err != nil {
		return fmt.Errorf("booking confirmation failed: %w", err)
	}

	payload := SidemailEmailPayload{
		FromAddress:  s.fromAddress,
		ToAddress:    email,
		TemplateName: "booking-confirmation",
		TemplateProps: map[string]interface{}{
			"reference":   s.sanitizeInput(reference),
			"status":      s.sanitizeInput(status),
			"totalAmount": fmt.Sprintf("%.2f", totalAmount),
		},
	}

	return s.post(ctx, "/email/send", payload)
}

// post is a helper method to send JSON payloads to the Sidemail API
func (s *SidemailService) post(ctx context.Context, path string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sidemail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create sidemail request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sidemail API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sidemail API returned non-OK status %d: %s", resp.StatusCode, s.sanitizeInput(string(body)))
	}

	return nil
}
