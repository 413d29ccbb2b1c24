package payment

import "context"

// IntentStatus mirrors the processor-side state of a payment intent
type IntentStatus string

const (
	IntentStatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentStatusRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentStatusRequiresCapture       IntentStatus = "requires_capture"
	IntentStatusProcessing            IntentStatus = "processing"
	IntentStatusSucceeded             IntentStatus = "succeeded"
	IntentStatusCanceled              IntentStatus = "canceled"
)

// Settled reports whether the charge went through
func (s IntentStatus) Settled() bool {
	return s == IntentStatusSucceeded
}

// Intent is the external payment reference attached to a booking
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	AmountCents  int64
	Currency     string
}

// CreateIntentParams describes a payment intent to create.
// AmountCents is the booking total in the smallest currency unit, rounded
// once (half away from zero) on the total, never per line item.
type CreateIntentParams struct {
	AmountCents       int64
	Currency          string
	CustomerProfileID string // Processor-side customer reference
	PaymentMethodID   string
	AutoConfirm       bool // True only for instant-booking providers
	Metadata          map[string]string
}

// Client is a thin wrapper over the external payment processor. It performs
// no retries and no cleanup; failures bubble up to the caller, which owns
// any compensating action.
type Client interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
}
