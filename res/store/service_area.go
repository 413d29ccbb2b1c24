package store

import (
	"context"
	"time"
)

// ServiceArea represents a geographic area where a provider offers services
type ServiceArea struct {
	ID         string    `gorm:"primaryKey;size:50;unique"`
	Provider   *Provider `gorm:"foreignKey:ProviderID"`
	ProviderID string    `gorm:"size:50;not null;index:idx_service_area_provider"`

	// Location Information
	City    string `gorm:"size:100;not null;index:idx_service_area_city"`
	ZipCode string `gorm:"size:20;not null;index:idx_service_area_zip"`

	// Travel Settings
	TravelFee   float64 `gorm:"not null;default:0"`
	IsPreferred bool    `gorm:"not null;default:false"` // Provider lives in or near this area

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// ServiceAreaStore defines the data access interface for service areas
type ServiceAreaStore interface {
	// Create creates a new service area
	Create(ctx context.Context, area *ServiceArea) error

	// Get retrieves a service area by ID
	Get(ctx context.Context, id string) (*ServiceArea, error)

	// GetByProvider retrieves all service areas for a provider
	GetByProvider(ctx context.Context, providerID string) ([]*ServiceArea, error)

	// Delete deletes a service area
	Delete(ctx context.Context, id string) error

	// FindProvidersByZip finds all providers serving a specific ZIP code
	FindProvidersByZip(ctx context.Context, zipCode string) ([]*Provider, error)
}
