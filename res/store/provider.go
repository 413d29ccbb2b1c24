package store

import (
	"context"
	"encoding/json"
	"time"
)

// SubscriptionTier gates the monthly booking allowance for the owning user
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierBasic      SubscriptionTier = "basic"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// ApprovalStatus represents the moderation state of a provider profile
type ApprovalStatus string

const (
	ApprovalStatusPendingReview ApprovalStatus = "pending_review"
	ApprovalStatusApproved      ApprovalStatus = "approved"
	ApprovalStatusSuspended     ApprovalStatus = "suspended"
)

// Provider represents the extended profile for users offering cleaning services
type Provider struct {
	ID     string `gorm:"primaryKey;size:50;unique"`
	User   *User  `gorm:"foreignKey:UserID"`
	UserID string `gorm:"size:50;not null;unique;index:idx_provider_user"`

	// Profile Information
	BusinessName string `gorm:"size:100;not null"`
	Bio          string `gorm:"type:text"`

	// Moderation
	ApprovalStatus ApprovalStatus `gorm:"size:20;not null;default:'pending_review';index:idx_provider_approval"`

	// Published booking capabilities
	Services          string  `gorm:"type:text"` // JSON array of offered service type names
	MinimumHours      float64 `gorm:"not null;default:1"`
	InstantBooking    bool    `gorm:"not null;default:false"`
	ResponseTimeHours int     `gorm:"not null;default:24"`

	// Subscription
	Tier SubscriptionTier `gorm:"size:20;not null;default:'free';index:idx_provider_tier"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;index:idx_provider_created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// IsApproved reports whether the profile may receive new bookings
func (p *Provider) IsApproved() bool {
	return p.ApprovalStatus == ApprovalStatusApproved
}

// ServiceList parses the JSON-encoded offered service names
func (p *Provider) ServiceList() []string {
	if p.Services == "" {
		return []string{}
	}
	var services []string
	if err := json.Unmarshal([]byte(p.Services), &services); err != nil {
		return []string{}
	}
	return services
}

// OffersService reports whether serviceType appears in the published service set
func (p *Provider) OffersService(serviceType string) bool {
	for _, s := range p.ServiceList() {
		if s == serviceType {
			return true
		}
	}
	return false
}

// ProviderStore defines the data access interface for provider profiles
type ProviderStore interface {
	// Create creates a new provider profile
	Create(ctx context.Context, provider *Provider) error

	// Get retrieves a provider profile by ID
	Get(ctx context.Context, id string) (*Provider, error)

	// GetByUserID retrieves the provider profile owned by a user, if any
	GetByUserID(ctx context.Context, userID string) (*Provider, error)

	// Update updates a provider profile
	Update(ctx context.Context, provider *Provider) error

	// List retrieves provider profiles with filters
	List(ctx context.Context, filters ProviderFilters) ([]*Provider, error)
}

// ProviderFilters contains filter options for listing provider profiles
type ProviderFilters struct {
	ApprovalStatus *ApprovalStatus
	Tier           *SubscriptionTier
	InstantBooking *bool
	Limit          int
	Offset         int
	OrderBy        string // e.g., "created_at DESC"
}
