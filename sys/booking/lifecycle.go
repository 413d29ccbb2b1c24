package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tidybook-api/res/mail"
	"tidybook-api/res/notification"
	"tidybook-api/res/payment"
	"tidybook-api/res/store"

	"github.com/rs/xid"
)

const notificationTimeout = 5 * time.Second

// Config carries the collaborators of the booking core
type Config struct {
	Logger              *log.Logger
	Store               store.Store
	Payments            payment.Client
	MailService         mail.MailService
	NotificationService notification.NotificationService
	Events              *EventHub

	// Currency used for payment intents, e.g. "usd"
	Currency string
}

// Manager sequences a booking request into a priced, conflict-free,
// payment-backed reservation, and owns the compensating rollback when
// payment setup fails.
type Manager struct {
	*Config

	quota        *QuotaChecker
	availability *AvailabilityValidator
	conflicts    *SlotConflictDetector

	clock func() time.Time
}

func NewManager(cfg *Config) *Manager {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &Manager{
		Config:       cfg,
		quota:        NewQuotaChecker(cfg.Logger, cfg.Store),
		availability: NewAvailabilityValidator(cfg.Logger, cfg.Store),
		conflicts:    NewSlotConflictDetector(cfg.Logger, cfg.Store),
		clock:        time.Now,
	}
}

// CreateBookingRequest is the customer-initiated creation payload
type CreateBookingRequest struct {
	ProviderID    string  `json:"cleanerId"`
	ServiceType   string  `json:"serviceType"`
	ServiceDate   string  `json:"serviceDate"` // YYYY-MM-DD
	ServiceTime   string  `json:"serviceTime"` // HH:MM
	DurationHours float64 `json:"durationHours"`

	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`

	BasePrice    float64 `json:"basePrice"`
	AddOns       []AddOn `json:"addOns"`
	DiscountCode string  `json:"discountCode"`

	PaymentMethod   store.PaymentMethod `json:"paymentMethod"`
	PaymentMethodID string              `json:"paymentMethodId"`
}

// CreateBookingResult is the confirmation payload returned to the customer
type CreateBookingResult struct {
	Booking           *store.Booking
	Quote             Quote
	PaymentIntent     *payment.Intent
	EstimatedResponse string
}

func validateRequest(req *CreateBookingRequest) error {
	if req.ProviderID == "" {
		return errInvalidRequest("cleanerId", "required")
	}
	if req.ServiceType == "" {
		return errInvalidRequest("serviceType", "required")
	}
	if req.ServiceDate == "" {
		return errInvalidRequest("serviceDate", "required")
	}
	if req.ServiceTime == "" {
		return errInvalidRequest("serviceTime", "required")
	}
	if req.DurationHours <= 0 {
		return errInvalidRequest("durationHours", "must be positive")
	}
	if req.Address == "" {
		return errInvalidRequest("address", "required")
	}
	if req.City == "" {
		return errInvalidRequest("city", "required")
	}
	if req.ZipCode == "" {
		return errInvalidRequest("zipCode", "required")
	}
	if req.BasePrice < 0 {
		return errInvalidRequest("basePrice", "must not be negative")
	}
	for i, addOn := range req.AddOns {
		if addOn.Name == "" || addOn.Price < 0 {
			return errInvalidRequest(fmt.Sprintf("addOns[%d]", i), "name required, price must not be negative")
		}
	}
	if req.PaymentMethod != store.PaymentMethodStripe && req.PaymentMethod != store.PaymentMethodInvoice {
		return errInvalidRequest("paymentMethod", "must be stripe or invoice")
	}
	if req.DiscountCode != "" {
		// Explicitly unsupported rather than a silent always-zero branch.
		return errInvalidRequest("discountCode", "discount codes are not supported yet")
	}
	return nil
}

// CreateBooking runs the creation sequence: quota, availability, slot
// conflict, pricing, persistence, payment intent, notifications. Each step
// fails fast with a specific error; a payment failure after persistence
// triggers the compensating delete.
func (m *Manager) CreateBooking(ctx context.Context, currentUser *store.User, req *CreateBookingRequest) (*CreateBookingResult, error) {
	// 1. Caller must be authenticated
	if currentUser == nil {
		return nil, errUnauthenticated()
	}

	// 2. Structural validation
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 3-4. Effective tier + quota
	if err := m.quota.Check(ctx, currentUser.ID); err != nil {
		return nil, err
	}

	// 5. Provider capabilities
	provider, travelFee, err := m.availability.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	serviceDate, err := time.Parse(serviceDateLayout, req.ServiceDate)
	if err != nil {
		return nil, errInvalidRequest("serviceDate", "expected YYYY-MM-DD")
	}

	// 6. Slot contention
	if err := m.conflicts.Check(ctx, provider.UserID, serviceDate, req.ServiceTime); err != nil {
		return nil, err
	}

	// 7. Pricing
	quote := CalculateQuote(req.BasePrice, req.DurationHours, req.AddOns, travelFee, 0)

	// 8. Persist in pending/pending
	reference, err := NewReference(m.clock())
	if err != nil {
		m.Logger.Printf("Error generating booking reference: %s", err)
		return nil, errInternal(err)
	}

	addOnsJSON := ""
	if len(req.AddOns) > 0 {
		persisted := make([]store.BookingAddOn, 0, len(req.AddOns))
		for _, addOn := range req.AddOns {
			persisted = append(persisted, store.BookingAddOn{Name: addOn.Name, Price: addOn.Price})
		}
		addOnsBytes, err := json.Marshal(persisted)
		if err != nil {
			m.Logger.Printf("Error marshaling add-ons: %s", err)
			return nil, errInternal(err)
		}
		addOnsJSON = string(addOnsBytes)
	}

	booking := &store.Booking{
		ID:        fmt.Sprintf("bkg_%s", xid.New().String()),
		Reference: reference,

		CustomerID: currentUser.ID,
		CleanerID:  provider.UserID,
		ProviderID: provider.ID,

		ServiceType:   req.ServiceType,
		ServiceDate:   serviceDate,
		ServiceTime:   req.ServiceTime,
		DurationHours: req.DurationHours,

		Address: req.Address,
		City:    req.City,
		ZipCode: req.ZipCode,

		BasePrice:      req.BasePrice,
		AddOns:         addOnsJSON,
		DiscountAmount: quote.DiscountAmount,
		TravelFee:      quote.TravelFeeAmount,
		TotalAmount:    quote.TotalAmount,

		Status:        store.BookingStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: store.PaymentStatusPending,
	}

	if err := m.Store.Bookings().Create(ctx, booking); err != nil {
		if errors.Is(err, store.ErrSlotOccupied) {
			// Lost the race after the advisory check; same outcome as step 6.
			return nil, errSlotTaken()
		}
		m.Logger.Printf("Error creating booking: %s", err)
		return nil, errInternal(err)
	}

	// 9. Payment intent (stripe only, zero-total bookings skip the processor)
	var intent *payment.Intent
	if req.PaymentMethod == store.PaymentMethodStripe && quote.TotalAmount > 0 {
		intent, err = m.setUpPayment(ctx, booking, provider, currentUser, req, quote)
		if err != nil {
			return nil, err
		}
	}

	// 10. Fire-and-forget side effects
	m.notifyBookingCreated(booking, currentUser)
	m.publishStatus(booking)

	// 11. Confirmation payload
	estimatedResponse := fmt.Sprintf("%d hours", provider.ResponseTimeHours)
	if provider.InstantBooking {
		estimatedResponse = "immediate"
	}

	return &CreateBookingResult{
		Booking:           booking,
		Quote:             quote,
		PaymentIntent:     intent,
		EstimatedResponse: estimatedResponse,
	}, nil
}

// setUpPayment attaches a payment intent to the freshly persisted booking.
// Any processor or persistence failure deletes the booking again: a booking
// must never hold a slot without a valid payment attempt behind it.
func (m *Manager) setUpPayment(
	ctx context.Context,
	booking *store.Booking,
	provider *store.Provider,
	customer *store.User,
	req *CreateBookingRequest,
	quote Quote,
) (*payment.Intent, error) {
	customerProfileID := ""
	if customer.StripeCustomerID != nil {
		customerProfileID = *customer.StripeCustomerID
	}

	intent, err := m.Payments.CreateIntent(ctx, payment.CreateIntentParams{
		AmountCents:       quote.TotalCents(),
		Currency:          m.Currency,
		CustomerProfileID: customerProfileID,
		PaymentMethodID:   req.PaymentMethodID,
		AutoConfirm:       provider.InstantBooking,
		Metadata: map[string]string{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
		},
	})
	if err != nil {
		m.Logger.Printf("Error creating payment intent for booking %s (customer: %s, amount: %d): %s",
			booking.ID, customer.ID, quote.TotalCents(), err)
		m.rollbackBooking(ctx, booking)
		return nil, errPaymentSetupFailed(err)
	}

	booking.PaymentIntentID = &intent.ID
	if intent.Status.Settled() {
		booking.PaymentStatus = store.PaymentStatusPaid
		if provider.InstantBooking {
			// Auto-confirm stamps the same fields a provider confirm would.
			code, err := generateConfirmationCode()
			if err != nil {
				m.Logger.Printf("Error generating confirmation code for booking %s: %s", booking.ID, err)
				m.rollbackBooking(ctx, booking)
				return nil, errInternal(err)
			}
			booking.Status = store.BookingStatusConfirmed
			booking.ConfirmationCode = &code
			confirmedAt := m.clock()
			booking.ConfirmedAt = &confirmedAt
		}
	}

	if err := m.Store.Bookings().Update(ctx, booking); err != nil {
		m.Logger.Printf("Error attaching payment intent %s to booking %s: %s", intent.ID, booking.ID, err)
		m.rollbackBooking(ctx, booking)
		return nil, errInternal(err)
	}

	return intent, nil
}

// rollbackBooking is the compensating delete of the creation path
func (m *Manager) rollbackBooking(ctx context.Context, booking *store.Booking) {
	if err := m.Store.Bookings().Delete(ctx, booking.ID); err != nil {
		// The slot stays claimed until manual cleanup; log loudly.
		m.Logger.Printf("CRITICAL: failed to roll back booking %s after payment failure: %s", booking.ID, err)
	}
}

// GetBooking retrieves a booking by ID or customer-facing reference. Callers
// see only bookings they are a party to; anything else reads as not found.
func (m *Manager) GetBooking(ctx context.Context, currentUser *store.User, idOrReference string) (*store.Booking, error) {
	if currentUser == nil {
		return nil, errUnauthenticated()
	}
	if idOrReference == "" {
		return nil, errInvalidRequest("id", "booking id or reference required")
	}

	var booking *store.Booking
	var err error
	if IsReference(idOrReference) {
		booking, err = m.Store.Bookings().GetByReference(ctx, idOrReference)
	} else {
		booking, err = m.Store.Bookings().Get(ctx, idOrReference)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound()
		}
		m.Logger.Printf("Error retrieving booking %s: %s", idOrReference, err)
		return nil, errInternal(err)
	}

	if booking.CustomerID != currentUser.ID && booking.CleanerID != currentUser.ID {
		return nil, errNotFound()
	}

	return booking, nil
}

// ListCustomerBookings retrieves the caller's bookings as a customer
func (m *Manager) ListCustomerBookings(ctx context.Context, currentUser *store.User, filters store.BookingFilters) ([]*store.Booking, error) {
	if currentUser == nil {
		return nil, errUnauthenticated()
	}

	bookings, err := m.Store.Bookings().GetByCustomer(ctx, currentUser.ID, filters)
	if err != nil {
		m.Logger.Printf("Error retrieving bookings for customer %s: %s", currentUser.ID, err)
		return nil, errInternal(err)
	}
	return bookings, nil
}

// ListProviderJobs retrieves the bookings assigned to the caller's provider profile
func (m *Manager) ListProviderJobs(ctx context.Context, currentUser *store.User, filters store.BookingFilters) ([]*store.Booking, error) {
	if currentUser == nil {
		return nil, errUnauthenticated()
	}

	bookings, err := m.Store.Bookings().GetByCleaner(ctx, currentUser.ID, filters)
	if err != nil {
		m.Logger.Printf("Error retrieving jobs for provider user %s: %s", currentUser.ID, err)
		return nil, errInternal(err)
	}
	return bookings, nil
}

// notifyBookingCreated dispatches the best-effort side effects of a created
// booking. Failures are logged and never fail the booking.
func (m *Manager) notifyBookingCreated(booking *store.Booking, customer *store.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		if m.NotificationService != nil {
			err := m.NotificationService.NotifyBookingCreated(ctx, booking.Reference, booking.ServiceType, booking.City, booking.TotalAmount)
			if err != nil {
				m.Logger.Printf("Warning: failed to send booking notification for %s: %s", booking.Reference, err)
			}
		}

		if m.MailService != nil {
			err := m.MailService.SendBookingConfirmation(ctx, customer.Email, booking.Reference, string(booking.Status), booking.TotalAmount)
			if err != nil {
				m.Logger.Printf("Warning: failed to send booking confirmation email for %s: %s", booking.Reference, err)
			}
		}
	}()
}

func (m *Manager) publishStatus(booking *store.Booking) {
	if m.Events == nil {
		return
	}
	m.Events.Publish(StatusEvent{
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		Status:     booking.Status,
		OccurredAt: m.clock(),
	})
}
