package booking

import (
	"context"
	"log"
	"time"

	"tidybook-api/res/store"
)

const systemCancellationReason = "expired: provider did not respond in time"

// Sweeper cancels pending bookings that a provider never acted on, freeing
// their slots for other customers.
type Sweeper struct {
	logger   *log.Logger
	manager  *Manager
	ttl      time.Duration
	interval time.Duration
}

func NewSweeper(logger *log.Logger, manager *Manager, ttl, interval time.Duration) *Sweeper {
	return &Sweeper{
		logger:   logger,
		manager:  manager,
		ttl:      ttl,
		interval: interval,
	}
}

// Run sweeps on the configured interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Printf("Stale booking sweeper started (ttl: %s, interval: %s)", s.ttl, s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Print("Stale booking sweeper stopped")
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err != nil {
				s.logger.Printf("Error sweeping stale bookings: %s", err)
			} else if n > 0 {
				s.logger.Printf("Cancelled %d stale pending booking(s)", n)
			}
		}
	}
}

// SweepOnce cancels every pending booking older than the TTL and reports how
// many were expired.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.manager.clock().Add(-s.ttl)

	stale, err := s.manager.Store.Bookings().ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	var cancelled int
	for _, booking := range stale {
		now := s.manager.clock()
		booking.Status = store.BookingStatusCancelled
		booking.CancelledAt = &now
		booking.CancellationReason = systemCancellationReason

		if err := s.manager.Store.Bookings().Update(ctx, booking); err != nil {
			s.logger.Printf("Error expiring booking %s: %s", booking.ID, err)
			continue
		}
		s.manager.publishStatus(booking)
		cancelled++
	}

	return cancelled, nil
}
