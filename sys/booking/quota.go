package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"tidybook-api/res/store"

	nowutil "github.com/jinzhu/now"
	"gorm.io/gorm"
)

// Monthly booking allowances per subscription tier. A negative allowance
// means effectively unlimited.
var tierAllowances = map[store.SubscriptionTier]int64{
	store.TierFree:       1,
	store.TierBasic:      5,
	store.TierPro:        15,
	store.TierEnterprise: -1,
}

// AllowanceForTier returns the monthly booking allowance for a tier.
// Unknown tiers fall back to the free allowance.
func AllowanceForTier(tier store.SubscriptionTier) int64 {
	if allowance, ok := tierAllowances[tier]; ok {
		return allowance
	}
	return tierAllowances[store.TierFree]
}

// QuotaChecker decides whether a customer may create another booking in the
// current billing period. Read-only; it never mutates state.
type QuotaChecker struct {
	logger *log.Logger
	store  store.Store

	clock func() time.Time
}

func NewQuotaChecker(logger *log.Logger, storeImpl store.Store) *QuotaChecker {
	return &QuotaChecker{
		logger: logger,
		store:  storeImpl,
		clock:  time.Now,
	}
}

// EffectiveTier resolves the tier that governs a customer's allowance: the
// tier of the provider profile owned by the customer's identity when one
// exists, otherwise free. Dual-role accounts inherit their provider tier.
func (qc *QuotaChecker) EffectiveTier(ctx context.Context, customerID string) (store.SubscriptionTier, error) {
	provider, err := qc.store.Providers().GetByUserID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, store.ErrNotFound) {
			return store.TierFree, nil
		}
		return "", err
	}
	return provider.Tier, nil
}

// Check returns nil when the customer may create another booking this
// billing period. Ambiguous or unavailable counting data fails the request:
// protecting tier economics takes priority over availability.
func (qc *QuotaChecker) Check(ctx context.Context, customerID string) error {
	tier, err := qc.EffectiveTier(ctx, customerID)
	if err != nil {
		qc.logger.Printf("Error resolving effective tier for customer %s: %s", customerID, err)
		return errQuotaCheckFailed(err)
	}

	allowance := AllowanceForTier(tier)
	if allowance < 0 {
		return nil
	}

	periodStart := nowutil.With(qc.clock()).BeginningOfMonth()
	count, err := qc.store.Bookings().CountByCustomerSince(ctx, customerID, periodStart)
	if err != nil {
		qc.logger.Printf("Error counting bookings for customer %s: %s", customerID, err)
		return errQuotaCheckFailed(err)
	}

	if count >= allowance {
		return errQuotaExceeded(string(tier), allowance)
	}

	return nil
}
