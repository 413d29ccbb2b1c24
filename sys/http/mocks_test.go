package http

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"time"

	"tidybook-api/res/store"
	"tidybook-api/sys/booking"
	"tidybook-api/sys/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

var testLogger = log.New(io.Discard, "", 0)

// Mock stores

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*store.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) GetByGoogleIdentity(ctx context.Context, googleIdentity string) (*store.User, error) {
	args := m.Called(ctx, googleIdentity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, ID, displayName, email string, role store.UserRole, googleIdentity *string) (*store.User, error) {
	args := m.Called(ctx, ID, displayName, email, role, googleIdentity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, userID string, displayName *string, role *store.UserRole) (*store.User, error) {
	args := m.Called(ctx, userID, displayName, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockAuthSessionStore struct {
	mock.Mock
}

func (m *MockAuthSessionStore) Get(ctx context.Context, ID string) (*store.AuthSession, error) {
	args := m.Called(ctx, ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AuthSession), args.Error(1)
}

func (m *MockAuthSessionStore) Create(ctx context.Context, ID, userID string) (*store.AuthSession, error) {
	args := m.Called(ctx, ID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AuthSession), args.Error(1)
}

func (m *MockAuthSessionStore) Delete(ctx context.Context, IDs []string) error {
	args := m.Called(ctx, IDs)
	return args.Error(0)
}

func (m *MockAuthSessionStore) DeleteExpired(ctx context.Context, expirationPoint time.Time) error {
	args := m.Called(ctx, expirationPoint)
	return args.Error(0)
}

func (m *MockAuthSessionStore) DeleteAllByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
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
// Bookings are exercised through the orchestrator's own test suite.
type mockStore struct {
	users        *MockUserStore
	authSessions *MockAuthSessionStore
	providers    *MockProviderStore
	serviceAreas *MockServiceAreaStore
}

func newMockStore() *mockStore {
	return &mockStore{
		users:        new(MockUserStore),
		authSessions: new(MockAuthSessionStore),
		providers:    new(MockProviderStore),
		serviceAreas: new(MockServiceAreaStore),
	}
}

func (s *mockStore) AuthSessions() store.AuthSessionStore { return s.authSessions }
func (s *mockStore) Users() store.UserStore               { return s.users }
func (s *mockStore) Providers() store.ProviderStore       { return s.providers }
func (s *mockStore) ServiceAreas() store.ServiceAreaStore { return s.serviceAreas }
func (s *mockStore) Bookings() store.BookingStore         { return nil }
func (s *mockStore) GetDB() interface{}                   { return nil }

// Mock mail service

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) RegisterUser(ctx context.Context, userID, email, displayName string) error {
	args := m.Called(ctx, userID, email, displayName)
	return args.Error(0)
}

func (m *MockMailService) RemoveUserByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockMailService) SendBookingConfirmation(ctx context.Context, email, reference, status string, totalAmount float64) error {
	args := m.Called(ctx, email, reference, status, totalAmount)
	return args.Error(0)
}

// Test fixtures

func newTestAPI(cfg *Config) *API {
	if cfg.Logger == nil {
		cfg.Logger = testLogger
	}
	if cfg.Bookings == nil {
		cfg.Bookings = booking.NewManager(&booking.Config{Logger: cfg.Logger, Store: cfg.Store})
	}
	return New(cfg)
}

// newHandlerRouter registers the routes directly with currentUser stamped on
// the request context, standing in for the auth middleware.
func newHandlerRouter(api *API, currentUser *store.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if currentUser != nil {
			ctx := context.WithValue(c.Request.Context(), middleware.GetCurrentUserKey(), currentUser)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	})

	router.POST("/api/auth/logout", api.handleLogout)
	router.DELETE("/api/users/me", api.handleDeleteAccount)

	router.GET("/api/providers", api.handleListProviders)
	router.POST("/api/providers", api.handleCreateProvider)
	router.GET("/api/providers/me", api.handleGetMyProvider)
	router.PUT("/api/providers/me", api.handleUpdateProvider)
	router.POST("/api/providers/me/areas", api.handleCreateServiceArea)
	router.DELETE("/api/providers/me/areas/:areaId", api.handleDeleteServiceArea)

	router.POST("/api/bookings", api.handleCreateBooking)

	return router
}

func performJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testCustomer() *store.User {
	return &store.User{ID: "user_1", DisplayName: "Pat", Email: "pat@example.com", Role: store.UserRoleCustomer}
}
