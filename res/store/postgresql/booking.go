package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tidybook-api/res/store"

	"gorm.io/gorm"
)

type bookingStore struct {
	*storeImpl
}

func NewBookingStore(rootStore *storeImpl) *bookingStore {
	return &bookingStore{storeImpl: rootStore}
}

func (bs *bookingStore) Create(ctx context.Context, booking *store.Booking) error {
	result := bs.db.WithContext(ctx).Create(booking)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return store.ErrSlotOccupied
		}
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create booking")
	}
	return nil
}

func (bs *bookingStore) Get(ctx context.Context, id string) (*store.Booking, error) {
	var booking store.Booking
	result := bs.db.WithContext(ctx).Where("id = ?", id).First(&booking)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, result.Error
	}
	return &booking, nil
}

func (bs *bookingStore) GetByReference(ctx context.Context, reference string) (*store.Booking, error) {
	var booking store.Booking
	result := bs.db.WithContext(ctx).Where("reference = ?", reference).First(&booking)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, result.Error
	}
	return &booking, nil
}

func (bs *bookingStore) Update(ctx context.Context, booking *store.Booking) error {
	result := bs.db.WithContext(ctx).Save(booking)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("booking not found (id: %s)", booking.ID)
	}
	return nil
}

func (bs *bookingStore) Delete(ctx context.Context, id string) error {
	result := bs.db.WithContext(ctx).Delete(&store.Booking{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("booking not found (id: %s)", id)
	}
	return nil
}

func (bs *bookingStore) FindActiveForSlot(ctx context.Context, cleanerID string, serviceDate time.Time, serviceTime string) (*store.Booking, error) {
	var booking store.Booking
	result := bs.db.WithContext(ctx).
		Where("cleaner_id = ?", cleanerID).
		Where("service_date = ?", serviceDate).
		Where("service_time = ?", serviceTime).
		Where("status IN ?", store.ActiveBookingStatuses).
		First(&booking)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &booking, nil
}

func (bs *bookingStore) CountByCustomerSince(ctx context.Context, customerID string, since time.Time) (int64, error) {
	var count int64
	err := bs.db.WithContext(ctx).
		Model(&store.Booking{}).
		Where("customer_id = ?", customerID).
		Where("created_at >= ?", since).
		Count(&count).Error

	if err != nil {
		return 0, err
	}
	return count, nil
}

func (bs *bookingStore) GetByCustomer(ctx context.Context, customerID string, filters store.BookingFilters) ([]*store.Booking, error) {
	query := bs.db.WithContext(ctx).Where("customer_id = ?", customerID)
	query = bs.applyFilters(query, filters)

	var bookings []*store.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (bs *bookingStore) GetByCleaner(ctx context.Context, cleanerID string, filters store.BookingFilters) ([]*store.Booking, error) {
	query := bs.db.WithContext(ctx).Where("cleaner_id = ?", cleanerID)
	query = bs.applyFilters(query, filters)

	var bookings []*store.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (bs *bookingStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]*store.Booking, error) {
	var bookings []*store.Booking
	err := bs.db.WithContext(ctx).
		Where("status = ?", store.BookingStatusPending).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// Helper method to apply filters
func (bs *bookingStore) applyFilters(query *gorm.DB, filters store.BookingFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ServiceType != nil {
		query = query.Where("service_type = ?", *filters.ServiceType)
	}
	if filters.StartDate != nil {
		query = query.Where("service_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("service_date <= ?", *filters.EndDate)
	}

	if filters.OrderBy != "" {
		query = query.Order(filters.OrderBy)
	} else {
		query = query.Order("service_date DESC, created_at DESC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}
