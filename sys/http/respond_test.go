package http

import (
	"net/http"
	"testing"
	"time"

	"tidybook-api/res/store"
	"tidybook-api/sys/booking"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name string
		err  *booking.Error
		want int
	}{
		{"unauthenticated", &booking.Error{Code: booking.CodeUnauthenticated}, http.StatusUnauthorized},
		{"invalid request", &booking.Error{Code: booking.CodeInvalidRequest}, http.StatusBadRequest},
		{"area mismatch", &booking.Error{Code: booking.CodeServiceAreaMismatch}, http.StatusBadRequest},
		{"type mismatch", &booking.Error{Code: booking.CodeServiceTypeMismatch}, http.StatusBadRequest},
		{"duration too short", &booking.Error{Code: booking.CodeDurationTooShort}, http.StatusBadRequest},
		{"date not in future", &booking.Error{Code: booking.CodeDateNotInFuture}, http.StatusBadRequest},
		{"unknown action", &booking.Error{Code: booking.CodeUnknownAction}, http.StatusBadRequest},
		{"quota exceeded", &booking.Error{Code: booking.CodeQuotaExceeded}, http.StatusForbidden},
		{"transition role mismatch", &booking.Error{Code: booking.CodeInvalidTransition, RoleMismatch: true}, http.StatusForbidden},
		{"transition state mismatch", &booking.Error{Code: booking.CodeInvalidTransition}, http.StatusConflict},
		{"slot taken", &booking.Error{Code: booking.CodeSlotTaken}, http.StatusConflict},
		{"not found", &booking.Error{Code: booking.CodeNotFound}, http.StatusNotFound},
		{"provider unavailable", &booking.Error{Code: booking.CodeProviderUnavailable}, http.StatusNotFound},
		{"payment setup failed", &booking.Error{Code: booking.CodePaymentSetupFailed}, http.StatusInternalServerError},
		{"quota check failed", &booking.Error{Code: booking.CodeQuotaCheckFailed}, http.StatusInternalServerError},
		{"internal", &booking.Error{Code: booking.CodeInternal}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}

func TestToBookingResponse(t *testing.T) {
	confirmedAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	code := "a1b2"

	b := &store.Booking{
		ID:               "bkg_1",
		Reference:        "BK-20261015-A1B2C3",
		CustomerID:       "user_customer",
		CleanerID:        "user_cleaner",
		ServiceType:      "deep",
		ServiceDate:      time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		ServiceTime:      "14:00",
		DurationHours:    3,
		AddOns:           `[{"name":"inside fridge","price":25}]`,
		TotalAmount:      145,
		Status:           store.BookingStatusConfirmed,
		ConfirmationCode: &code,
		ConfirmedAt:      &confirmedAt,
		PaymentMethod:    store.PaymentMethodStripe,
		PaymentStatus:    store.PaymentStatusPaid,
	}

	resp := toBookingResponse(b)

	assert.Equal(t, "2026-10-15", resp.ServiceDate)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Len(t, resp.AddOns, 1)
	assert.Equal(t, "inside fridge", resp.AddOns[0].Name)
	assert.Equal(t, 25.0, resp.AddOns[0].Price)
	assert.Equal(t, &confirmedAt, resp.ConfirmedAt)

	t.Run("malformed add-ons drop the breakdown", func(t *testing.T) {
		b.AddOns = "{not json"
		resp := toBookingResponse(b)
		assert.Empty(t, resp.AddOns)
	})
}
