package booking

import (
	"context"
	"testing"
	"time"

	"tidybook-api/res/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSweeperSweepOnce(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	ttl := 48 * time.Hour

	t.Run("cancels stale pending bookings", func(t *testing.T) {
		stale := []*store.Booking{
			{ID: "bkg_1", Reference: "BK-20261010-AAAAAA", Status: store.BookingStatusPending},
			{ID: "bkg_2", Reference: "BK-20261011-BBBBBB", Status: store.BookingStatusPending},
		}

		s := newMockStore()
		s.bookings.On("ListStalePending", mock.Anything, at.Add(-ttl)).Return(stale, nil)
		s.bookings.On("Update", mock.Anything, mock.AnythingOfType("*store.Booking")).Return(nil)

		m := newTestManager(s, new(MockPaymentClient), at)
		sweeper := NewSweeper(testLogger, m, ttl, time.Minute)

		cancelled, err := sweeper.SweepOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, cancelled)
		for _, b := range stale {
			assert.Equal(t, store.BookingStatusCancelled, b.Status)
			assert.Equal(t, at, *b.CancelledAt)
			assert.NotEmpty(t, b.CancellationReason)
		}
	})

	t.Run("nothing stale is a no-op", func(t *testing.T) {
		s := newMockStore()
		s.bookings.On("ListStalePending", mock.Anything, at.Add(-ttl)).Return([]*store.Booking{}, nil)

		m := newTestManager(s, new(MockPaymentClient), at)
		sweeper := NewSweeper(testLogger, m, ttl, time.Minute)

		cancelled, err := sweeper.SweepOnce(ctx)

		require.NoError(t, err)
		assert.Zero(t, cancelled)
		s.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("one failed update does not stop the sweep", func(t *testing.T) {
		first := &store.Booking{ID: "bkg_1", Status: store.BookingStatusPending}
		second := &store.Booking{ID: "bkg_2", Status: store.BookingStatusPending}

		s := newMockStore()
		s.bookings.On("ListStalePending", mock.Anything, at.Add(-ttl)).
			Return([]*store.Booking{first, second}, nil)
		s.bookings.On("Update", mock.Anything, first).Return(assert.AnError)
		s.bookings.On("Update", mock.Anything, second).Return(nil)

		m := newTestManager(s, new(MockPaymentClient), at)
		sweeper := NewSweeper(testLogger, m, ttl, time.Minute)

		cancelled, err := sweeper.SweepOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, cancelled)
	})
}
