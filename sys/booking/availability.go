package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tidybook-api/res/store"

	"gorm.io/gorm"
)

const (
	serviceDateLayout = "2006-01-02"
	serviceTimeLayout = "15:04"
)

// CombineDateTime merges a calendar date with a local "HH:MM" time
func CombineDateTime(serviceDate time.Time, serviceTime string) (time.Time, error) {
	parsed, err := time.ParseInLocation(serviceTimeLayout, serviceTime, serviceDate.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid service time %q: %w", serviceTime, err)
	}
	return time.Date(
		serviceDate.Year(), serviceDate.Month(), serviceDate.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, serviceDate.Location(),
	), nil
}

// AvailabilityValidator gates a booking request against the target
// provider's published capabilities. Checks short-circuit in a fixed order,
// each with its own rejection reason.
type AvailabilityValidator struct {
	logger *log.Logger
	store  store.Store

	clock func() time.Time
}

func NewAvailabilityValidator(logger *log.Logger, storeImpl store.Store) *AvailabilityValidator {
	return &AvailabilityValidator{
		logger: logger,
		store:  storeImpl,
		clock:  time.Now,
	}
}

// Validate runs the availability checks for a request. On success it returns
// the provider record and the travel fee of the matched service area.
func (av *AvailabilityValidator) Validate(ctx context.Context, req *CreateBookingRequest) (*store.Provider, float64, error) {
	// 1. Provider exists and is approved
	provider, err := av.store.Providers().Get(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, store.ErrNotFound) {
			return nil, 0, errProviderUnavailable(req.ProviderID)
		}
		av.logger.Printf("Error retrieving provider %s: %s", req.ProviderID, err)
		return nil, 0, errInternal(err)
	}
	if !provider.IsApproved() {
		return nil, 0, errProviderUnavailable(req.ProviderID)
	}

	// 2. Requested ZIP is inside the provider's service area
	areas, err := av.store.ServiceAreas().GetByProvider(ctx, provider.ID)
	if err != nil {
		av.logger.Printf("Error retrieving service areas for provider %s: %s", provider.ID, err)
		return nil, 0, errInternal(err)
	}

	var matched *store.ServiceArea
	for _, area := range areas {
		if area.ZipCode == req.ZipCode {
			matched = area
			break
		}
	}
	if matched == nil {
		return nil, 0, errServiceAreaMismatch(req.ZipCode)
	}

	// 3. Requested service type is offered
	if !provider.OffersService(req.ServiceType) {
		return nil, 0, errServiceTypeMismatch(req.ServiceType)
	}

	// 4. Duration meets the provider's minimum
	if req.DurationHours < provider.MinimumHours {
		return nil, 0, errDurationTooShort(provider.MinimumHours)
	}

	// 5. Slot is strictly in the future
	serviceDate, err := time.Parse(serviceDateLayout, req.ServiceDate)
	if err != nil {
		return nil, 0, errInvalidRequest("serviceDate", "expected YYYY-MM-DD")
	}
	slotAt, err := CombineDateTime(serviceDate, req.ServiceTime)
	if err != nil {
		return nil, 0, errInvalidRequest("serviceTime", "expected HH:MM")
	}
	if !slotAt.After(av.clock()) {
		return nil, 0, errDateNotInFuture()
	}

	return provider, matched.TravelFee, nil
}
