package booking

import (
	"context"
	"log"
	"time"

	"tidybook-api/res/store"
)

// SlotConflictDetector enforces the one-active-booking-per-slot invariant at
// request time. This read is advisory: the partial unique index installed by
// the postgresql store is what closes the window between check and insert,
// and its violation is translated to the same SlotTaken outcome.
type SlotConflictDetector struct {
	logger *log.Logger
	store  store.Store
}

func NewSlotConflictDetector(logger *log.Logger, storeImpl store.Store) *SlotConflictDetector {
	return &SlotConflictDetector{logger: logger, store: storeImpl}
}

// Check returns SlotTaken when any booking for the same provider, date and
// time is in a non-terminal status.
func (cd *SlotConflictDetector) Check(ctx context.Context, cleanerID string, serviceDate time.Time, serviceTime string) error {
	existing, err := cd.store.Bookings().FindActiveForSlot(ctx, cleanerID, serviceDate, serviceTime)
	if err != nil {
		cd.logger.Printf("Error querying slot %s/%s/%s: %s", cleanerID, serviceDate.Format(serviceDateLayout), serviceTime, err)
		return errInternal(err)
	}
	if existing != nil {
		return errSlotTaken()
	}
	return nil
}
