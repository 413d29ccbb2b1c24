package booking

import (
	"testing"
	"time"

	"tidybook-api/res/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHub(t *testing.T) {
	t.Run("subscriber receives published events for its booking", func(t *testing.T) {
		hub := NewEventHub()
		ch := hub.Subscribe("bkg_1")
		defer hub.Unsubscribe("bkg_1", ch)

		hub.Publish(StatusEvent{BookingID: "bkg_1", Status: store.BookingStatusConfirmed})

		select {
		case event := <-ch:
			assert.Equal(t, store.BookingStatusConfirmed, event.Status)
		case <-time.After(time.Second):
			t.Fatal("expected an event")
		}
	})

	t.Run("events for other bookings are not delivered", func(t *testing.T) {
		hub := NewEventHub()
		ch := hub.Subscribe("bkg_1")
		defer hub.Unsubscribe("bkg_1", ch)

		hub.Publish(StatusEvent{BookingID: "bkg_2", Status: store.BookingStatusConfirmed})

		select {
		case <-ch:
			t.Fatal("received an event for another booking")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		hub := NewEventHub()
		ch := hub.Subscribe("bkg_1")
		hub.Unsubscribe("bkg_1", ch)

		_, open := <-ch
		assert.False(t, open)
	})

	t.Run("publish never blocks on a full subscriber", func(t *testing.T) {
		hub := NewEventHub()
		ch := hub.Subscribe("bkg_1")
		defer hub.Unsubscribe("bkg_1", ch)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 100; i++ {
				hub.Publish(StatusEvent{BookingID: "bkg_1", Status: store.BookingStatusPending})
			}
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publish blocked on a saturated subscriber")
		}
	})

	t.Run("multiple subscribers all receive", func(t *testing.T) {
		hub := NewEventHub()
		ch1 := hub.Subscribe("bkg_1")
		ch2 := hub.Subscribe("bkg_1")
		defer hub.Unsubscribe("bkg_1", ch1)
		defer hub.Unsubscribe("bkg_1", ch2)

		hub.Publish(StatusEvent{BookingID: "bkg_1", Status: store.BookingStatusCancelled})

		for _, ch := range []chan StatusEvent{ch1, ch2} {
			select {
			case event := <-ch:
				require.Equal(t, store.BookingStatusCancelled, event.Status)
			case <-time.After(time.Second):
				t.Fatal("expected an event on every subscriber")
			}
		}
	})
}
