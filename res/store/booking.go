package store

import (
	"context"
	"encoding/json"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"     // Initial state, awaiting provider confirmation
	BookingStatusConfirmed  BookingStatus = "confirmed"   // Provider confirmed
	BookingStatusInProgress BookingStatus = "in_progress" // Service is being performed
	BookingStatusCompleted  BookingStatus = "completed"   // Service completed successfully
	BookingStatusCancelled  BookingStatus = "cancelled"   // Cancelled by customer or provider
)

// ActiveBookingStatuses are the non-terminal statuses that hold a slot
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

// IsTerminal reports whether the status ends the booking lifecycle
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// PaymentMethod represents how a booking is paid
type PaymentMethod string

const (
	PaymentMethodStripe  PaymentMethod = "stripe"
	PaymentMethodInvoice PaymentMethod = "invoice"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// BookingAddOn is one purchased add-on line, serialized to JSON on the booking
type BookingAddOn struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Booking represents a service booking
type Booking struct {
	ID        string `gorm:"primaryKey;size:50;unique"`
	Reference string `gorm:"size:30;not null;unique;index:idx_booking_reference"` // Customer-facing lookup key

	Customer   *User     `gorm:"foreignKey:CustomerID"`
	CustomerID string    `gorm:"size:50;not null;index:idx_booking_customer"`
	Cleaner    *User     `gorm:"foreignKey:CleanerID"`
	CleanerID  string    `gorm:"size:50;not null;index:idx_booking_cleaner"`
	Provider   *Provider `gorm:"foreignKey:ProviderID"`
	ProviderID string    `gorm:"size:50;not null"`

	// Service Details
	ServiceType string `gorm:"size:30;not null"`

	// Scheduling
	ServiceDate   time.Time `gorm:"type:date;not null;index:idx_booking_date"`
	ServiceTime   string    `gorm:"size:10;not null"` // e.g., "14:00"
	DurationHours float64   `gorm:"not null"`

	// Location
	Address string `gorm:"size:256;not null"`
	City    string `gorm:"size:100;not null"`
	ZipCode string `gorm:"size:20;not null"`

	// Pricing (stored at booking time to preserve historical pricing)
	BasePrice      float64 `gorm:"not null"`
	AddOns         string  `gorm:"type:text"` // JSON array of BookingAddOn
	DiscountAmount float64 `gorm:"not null;default:0"`
	TravelFee      float64 `gorm:"not null;default:0"`
	TotalAmount    float64 `gorm:"not null"`

	// Status and Progress
	Status             BookingStatus `gorm:"size:20;not null;default:'pending';index:idx_booking_status"`
	ConfirmationCode   *string       `gorm:"size:64"`
	CancellationReason string        `gorm:"type:text"`
	CancelledBy        *User         `gorm:"foreignKey:CancelledByID"`
	CancelledByID      *string       `gorm:"size:50"`
	CancelledAt        *time.Time

	// Payment
	PaymentMethod   PaymentMethod `gorm:"size:20;not null"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null;default:'pending'"`
	PaymentIntentID *string       `gorm:"size:256"` // External payment processor reference

	// Timestamps
	ConfirmedAt         *time.Time
	CheckInTime         *time.Time
	CheckOutTime        *time.Time
	ActualDurationHours *float64 // Derived at completion from check-in/check-out

	CreatedAt time.Time `gorm:"autoCreateTime;not null;index:idx_booking_created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// AddOnList parses the JSON-encoded add-on breakdown
func (b *Booking) AddOnList() []BookingAddOn {
	if b.AddOns == "" {
		return nil
	}
	var addOns []BookingAddOn
	if err := json.Unmarshal([]byte(b.AddOns), &addOns); err != nil {
		return nil
	}
	return addOns
}

// BookingStore defines the data access interface for bookings
type BookingStore interface {
	// Create creates a new booking. Returns ErrSlotOccupied if the active-slot
	// unique index rejects the insert.
	Create(ctx context.Context, booking *Booking) error

	// Get retrieves a booking by ID
	Get(ctx context.Context, id string) (*Booking, error)

	// GetByReference retrieves a booking by its customer-facing reference
	GetByReference(ctx context.Context, reference string) (*Booking, error)

	// Update updates a booking
	Update(ctx context.Context, booking *Booking) error

	// Delete physically removes a booking. Only the lifecycle manager's
	// compensating rollback is allowed to call this.
	Delete(ctx context.Context, id string) error

	// FindActiveForSlot retrieves the booking holding the given
	// provider/date/time slot in a non-terminal status, or nil if the slot is free
	FindActiveForSlot(ctx context.Context, cleanerID string, serviceDate time.Time, serviceTime string) (*Booking, error)

	// CountByCustomerSince counts bookings a customer created at or after the given instant
	CountByCustomerSince(ctx context.Context, customerID string, since time.Time) (int64, error)

	// GetByCustomer retrieves all bookings for a customer
	GetByCustomer(ctx context.Context, customerID string, filters BookingFilters) ([]*Booking, error)

	// GetByCleaner retrieves all bookings assigned to a provider's owning user
	GetByCleaner(ctx context.Context, cleanerID string, filters BookingFilters) ([]*Booking, error)

	// ListStalePending retrieves pending bookings created before the cutoff
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*Booking, error)
}

// BookingFilters contains filter options for listing bookings
type BookingFilters struct {
	Status      *BookingStatus
	ServiceType *string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
	OrderBy     string // e.g., "service_date DESC"
}
