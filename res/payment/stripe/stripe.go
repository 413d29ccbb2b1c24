package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tidybook-api/res/payment"

	"github.com/google/uuid"
)

// StripeService implements the payment.Client interface over the Stripe
// PaymentIntents REST API
type StripeService struct {
	secretKey  string
	apiBaseURL string
	logger     *log.Logger
	httpClient *http.Client
}

// New creates a new Stripe service instance
func New(secretKey, apiURL string, timeout time.Duration, logger *log.Logger) payment.Client {
	return &StripeService{
		secretKey:  secretKey,
		apiBaseURL: apiURL,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// stripeIntentResponse represents a payment intent object returned by Stripe
type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`

	Error *stripeErrorBody `json:"error,omitempty"`
}

// stripeErrorBody represents the error envelope of a failed Stripe call
type stripeErrorBody struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateIntent creates a payment intent for the given amount. When
// AutoConfirm is set the intent is confirmed in the same call; otherwise it
// is created with manual confirmation so the provider's acceptance gates the
// charge.
func (s *StripeService) CreateIntent(ctx context.Context, params payment.CreateIntentParams) (*payment.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountCents, 10))
	form.Set("currency", params.Currency)
	if params.CustomerProfileID != "" {
		form.Set("customer", params.CustomerProfileID)
	}
	if params.PaymentMethodID != "" {
		form.Set("payment_method", params.PaymentMethodID)
	}
	if params.AutoConfirm {
		form.Set("confirm", "true")
	} else {
		form.Set("confirmation_method", "manual")
	}
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	intent, err := s.doRequest(ctx, http.MethodPost, "/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	return intent, nil
}

// GetIntent retrieves the current state of a payment intent
func (s *StripeService) GetIntent(ctx context.Context, intentID string) (*payment.Intent, error) {
	if intentID == "" {
		return nil, fmt.Errorf("stripe: missing intent id")
	}

	intent, err := s.doRequest(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(intentID), nil)
	if err != nil {
		return nil, err
	}
	return intent, nil
}

// doRequest is a helper method to call the Stripe API and decode the intent payload
func (s *StripeService) doRequest(ctx context.Context, method, path string, body io.Reader) (*payment.Intent, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.apiBaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call stripe API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}

	var decoded stripeIntentResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse stripe response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Error != nil {
		if decoded.Error != nil {
			return nil, fmt.Errorf("stripe API error (%s/%s): %s", decoded.Error.Type, decoded.Error.Code, decoded.Error.Message)
		}
		return nil, fmt.Errorf("stripe API returned non-OK status %d", resp.StatusCode)
	}

	return &payment.Intent{
		ID:           decoded.ID,
		ClientSecret: decoded.ClientSecret,
		Status:       payment.IntentStatus(decoded.Status),
		AmountCents:  decoded.Amount,
		Currency:     decoded.Currency,
	}, nil
}
