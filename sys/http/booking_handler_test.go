package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

// Request-shape problems must come back naming the offending field, not as a
// generic bind failure.
func TestCreateBookingFieldErrors(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing cleanerId", `{"serviceType":"standard","serviceDate":"2026-10-15","serviceTime":"14:00","durationHours":3,"address":"12 Main St","city":"Springfield","zipCode":"12345"}`, "cleanerId"},
		{"empty object", `{}`, "cleanerId"},
		{"missing serviceDate", `{"cleanerId":"prov_1","serviceType":"standard","serviceTime":"14:00","durationHours":3,"address":"12 Main St","city":"Springfield","zipCode":"12345"}`, "serviceDate"},
		{"missing zipCode", `{"cleanerId":"prov_1","serviceType":"standard","serviceDate":"2026-10-15","serviceTime":"14:00","durationHours":3,"address":"12 Main St","city":"Springfield"}`, "zipCode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newHandlerRouter(newTestAPI(&Config{Store: newMockStore()}), testCustomer())

			w := performJSON(router, "POST", "/api/bookings", tc.body)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var envelope errorEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			assert.Equal(t, "INVALID_REQUEST", envelope.Error.Code)
			assert.Equal(t, tc.wantField, envelope.Error.Details["field"])
			assert.Contains(t, envelope.Error.Message, tc.wantField)
		})
	}

	t.Run("undecodable body is still a bind failure", func(t *testing.T) {
		router := newHandlerRouter(newTestAPI(&Config{Store: newMockStore()}), testCustomer())

		w := performJSON(router, "POST", "/api/bookings", `{not json`)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var envelope errorEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Equal(t, "INVALID_REQUEST", envelope.Error.Code)
		assert.Equal(t, "malformed request body", envelope.Error.Message)
	})
}
