package booking

import (
	"context"
	"io"
	"log"
	"time"

	"tidybook-api/res/payment"
	"tidybook-api/res/store"

	"github.com/stretchr/testify/mock"
)

// Mock stores

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, b *store.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingStore) Get(ctx context.Context, id string) (*store.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByReference(ctx context.Context, reference string) (*store.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Booking), args.Error(1)
}

func (m *MockBookingStore) Update(ctx context.Context, b *store.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingStore) FindActiveForSlot(ctx context.Context, cleanerID string, serviceDate time.Time, serviceTime string) (*store.Booking, error) {
	args := m.Called(ctx, cleanerID, serviceDate, serviceTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Booking), args.Error(1)
}

func (m *MockBookingStore) CountByCustomerSince(ctx context.Context, customerID string, since time.Time) (int64, error) {
	args := m.Called(ctx, customerID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingStore) GetByCustomer(ctx context.Context, customerID string, filters store.BookingFilters) ([]*store.Booking, error) {
	args := m.Called(ctx, customerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByCleaner(ctx context.Context, cleanerID string, filters store.BookingFilters) ([]*store.Booking, error) {
	args := m.Called(ctx, cleanerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Booking), args.Error(1)
}

func (m *MockBookingStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]*store.Booking, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Booking), args.Error(1)
}

type MockProviderStore struct {
	mock.Mock
}

func (m *MockProviderStore) Create(ctx context.Context, provider *store.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderStore) Get(ctx context.Context, id string) (*store.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Provider), args.Error(1)
}

func (m *MockProviderStore) GetByUserID(ctx context.Context, userID string) (*store.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Provider), args.Error(1)
}

func (m *MockProviderStore) Update(ctx context.Context, provider *store.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderStore) List(ctx context.Context, filters store.ProviderFilters) ([]*store.Provider, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Provider), args.Error(1)
}

type MockServiceAreaStore struct {
	mock.Mock
}

func (m *MockServiceAreaStore) Create(ctx context.Context, area *store.ServiceArea) error {
	args := m.Called(ctx, area)
	return args.Error(0)
}

func (m *MockServiceAreaStore) Get(ctx context.Context, id string) (*store.ServiceArea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ServiceArea), args.Error(1)
}

func (m *MockServiceAreaStore) GetByProvider(ctx context.Context, providerID string) ([]*store.ServiceArea, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.ServiceArea), args.Error(1)
}

func (m *MockServiceAreaStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceAreaStore) FindProvidersByZip(ctx context.Context, zipCode string) ([]*store.Provider, error) {
	args := m.Called(ctx, zipCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Provider), args.Error(1)
}

// mockStore aggregates the mocked stores behind the store.Store interface.
// Users and AuthSessions are not exercised by the booking core.
type mockStore struct {
	bookings     *MockBookingStore
	providers    *MockProviderStore
	serviceAreas *MockServiceAreaStore
}

func newMockStore() *mockStore {
	return &mockStore{
		bookings:     new(MockBookingStore),
		providers:    new(MockProviderStore),
		serviceAreas: new(MockServiceAreaStore),
	}
}

func (s *mockStore) AuthSessions() store.AuthSessionStore { return nil }
func (s *mockStore) Users() store.UserStore               { return nil }
func (s *mockStore) Providers() store.ProviderStore       { return s.providers }
func (s *mockStore) ServiceAreas() store.ServiceAreaStore { return s.serviceAreas }
func (s *mockStore) Bookings() store.BookingStore         { return s.bookings }
func (s *mockStore) GetDB() interface{}                   { return nil }

// Mock payment client

type MockPaymentClient struct {
	mock.Mock
}

func (m *MockPaymentClient) CreateIntent(ctx context.Context, params payment.CreateIntentParams) (*payment.Intent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func (m *MockPaymentClient) GetIntent(ctx context.Context, intentID string) (*payment.Intent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

// Test fixtures

var testLogger = log.New(io.Discard, "", 0)

func testClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestManager(s *mockStore, payments payment.Client, at time.Time) *Manager {
	m := NewManager(&Config{
		Logger:   testLogger,
		Store:    s,
		Payments: payments,
		Events:   NewEventHub(),
	})
	m.clock = testClock(at)
	m.quota.clock = testClock(at)
	m.availability.clock = testClock(at)
	return m
}

func approvedProvider() *store.Provider {
	return &store.Provider{
		ID:                "prov_1",
		UserID:            "user_cleaner",
		BusinessName:      "Sparkle Cleaning",
		ApprovalStatus:    store.ApprovalStatusApproved,
		Services:          `["standard","deep"]`,
		MinimumHours:      2,
		InstantBooking:    false,
		ResponseTimeHours: 12,
		Tier:              store.TierPro,
	}
}

func validCreateRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		ProviderID:    "prov_1",
		ServiceType:   "standard",
		ServiceDate:   "2026-10-15",
		ServiceTime:   "14:00",
		DurationHours: 3,
		Address:       "12 Main St",
		City:          "Springfield",
		ZipCode:       "12345",
		BasePrice:     40,
		PaymentMethod: store.PaymentMethodStripe,
	}
}
