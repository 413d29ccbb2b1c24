package postgresql

import (
	"context"
	"fmt"

	"tidybook-api/res/store"
)

type serviceAreaStore struct {
	*storeImpl
}

func NewServiceAreaStore(rootStore *storeImpl) *serviceAreaStore {
	return &serviceAreaStore{storeImpl: rootStore}
}

func (sas *serviceAreaStore) Create(ctx context.Context, area *store.ServiceArea) error {
	result := sas.db.WithContext(ctx).Create(area)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create service area")
	}
	return nil
}

func (sas *serviceAreaStore) Get(ctx context.Context, id string) (*store.ServiceArea, error) {
	var area store.ServiceArea
	result := sas.db.WithContext(ctx).Where("id = ?", id).First(&area)
	if result.Error != nil {
		return nil, result.Error
	}
	return &area, nil
}

func (sas *serviceAreaStore) GetByProvider(ctx context.Context, providerID string) ([]*store.ServiceArea, error) {
	var areas []*store.ServiceArea
	err := sas.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("is_preferred DESC, city ASC").
		Find(&areas).Error
	if err != nil {
		return nil, err
	}
	return areas, nil
}

func (sas *serviceAreaStore) Delete(ctx context.Context, id string) error {
	result := sas.db.WithContext(ctx).Delete(&store.ServiceArea{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("service area not found (id: %s)", id)
	}
	return nil
}

func (sas *serviceAreaStore) FindProvidersByZip(ctx context.Context, zipCode string) ([]*store.Provider, error) {
	var providers []*store.Provider
	err := sas.db.WithContext(ctx).
		Model(&store.Provider{}).
		Joins("JOIN service_areas ON service_areas.provider_id = providers.id").
		Where("service_areas.zip_code = ?", zipCode).
		Where("providers.approval_status = ?", store.ApprovalStatusApproved).
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}
