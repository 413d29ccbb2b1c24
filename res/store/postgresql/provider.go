package postgresql

import (
	"context"
	"fmt"

	"tidybook-api/res/store"

	"gorm.io/gorm"
)

type providerStore struct {
	*storeImpl
}

func NewProviderStore(rootStore *storeImpl) *providerStore {
	return &providerStore{storeImpl: rootStore}
}

func (ps *providerStore) Create(ctx context.Context, provider *store.Provider) error {
	result := ps.db.WithContext(ctx).Create(provider)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create provider profile")
	}
	return nil
}

func (ps *providerStore) Get(ctx context.Context, id string) (*store.Provider, error) {
	var provider store.Provider
	result := ps.db.WithContext(ctx).Where("id = ?", id).First(&provider)
	if result.Error != nil {
		return nil, result.Error
	}
	return &provider, nil
}

func (ps *providerStore) GetByUserID(ctx context.Context, userID string) (*store.Provider, error) {
	var provider store.Provider
	result := ps.db.WithContext(ctx).Where("user_id = ?", userID).First(&provider)
	if result.Error != nil {
		return nil, result.Error
	}
	return &provider, nil
}

func (ps *providerStore) Update(ctx context.Context, provider *store.Provider) error {
	result := ps.db.WithContext(ctx).Save(provider)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("provider profile not found (id: %s)", provider.ID)
	}
	return nil
}

func (ps *providerStore) List(ctx context.Context, filters store.ProviderFilters) ([]*store.Provider, error) {
	query := ps.db.WithContext(ctx)
	query = ps.applyFilters(query, filters)

	var providers []*store.Provider
	if err := query.Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// Helper method to apply filters
func (ps *providerStore) applyFilters(query *gorm.DB, filters store.ProviderFilters) *gorm.DB {
	if filters.ApprovalStatus != nil {
		query = query.Where("approval_status = ?", *filters.ApprovalStatus)
	}
	if filters.Tier != nil {
		query = query.Where("tier = ?", *filters.Tier)
	}
	if filters.InstantBooking != nil {
		query = query.Where("instant_booking = ?", *filters.InstantBooking)
	}

	if filters.OrderBy != "" {
		query = query.Order(filters.OrderBy)
	} else {
		query = query.Order("created_at DESC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}
