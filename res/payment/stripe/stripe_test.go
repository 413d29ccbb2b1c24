package stripe

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"tidybook-api/res/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = log.New(io.Discard, "", 0)

func newTestService(t *testing.T, handler http.HandlerFunc) payment.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New("sk_test_123", server.URL, 5*time.Second, testLogger)
}

func TestCreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("sends form-encoded intent with manual confirmation", func(t *testing.T) {
		var gotForm url.Values
		var gotAuth, gotIdempotency string

		client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/payment_intents", r.URL.Path)

			gotAuth = r.Header.Get("Authorization")
			gotIdempotency = r.Header.Get("Idempotency-Key")

			body, _ := io.ReadAll(r.Body)
			gotForm, _ = url.ParseQuery(string(body))

			w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","status":"requires_confirmation","amount":13000,"currency":"usd"}`))
		})

		intent, err := client.CreateIntent(ctx, payment.CreateIntentParams{
			AmountCents:     13000,
			Currency:        "usd",
			PaymentMethodID: "pm_456",
			Metadata:        map[string]string{"booking_id": "bkg_1"},
		})

		require.NoError(t, err)
		assert.Equal(t, "pi_123", intent.ID)
		assert.Equal(t, "pi_123_secret", intent.ClientSecret)
		assert.Equal(t, payment.IntentStatusRequiresConfirmation, intent.Status)
		assert.Equal(t, int64(13000), intent.AmountCents)

		assert.Equal(t, "Bearer sk_test_123", gotAuth)
		assert.NotEmpty(t, gotIdempotency)
		assert.Equal(t, "13000", gotForm.Get("amount"))
		assert.Equal(t, "usd", gotForm.Get("currency"))
		assert.Equal(t, "pm_456", gotForm.Get("payment_method"))
		assert.Equal(t, "manual", gotForm.Get("confirmation_method"))
		assert.Empty(t, gotForm.Get("confirm"))
		assert.Equal(t, "bkg_1", gotForm.Get("metadata[booking_id]"))
	})

	t.Run("auto confirm sets confirm flag instead", func(t *testing.T) {
		var gotForm url.Values

		client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotForm, _ = url.ParseQuery(string(body))
			w.Write([]byte(`{"id":"pi_123","status":"succeeded","amount":13000,"currency":"usd"}`))
		})

		intent, err := client.CreateIntent(ctx, payment.CreateIntentParams{
			AmountCents: 13000,
			Currency:    "usd",
			AutoConfirm: true,
		})

		require.NoError(t, err)
		assert.True(t, intent.Status.Settled())
		assert.Equal(t, "true", gotForm.Get("confirm"))
		assert.Empty(t, gotForm.Get("confirmation_method"))
	})

	t.Run("error envelope becomes a descriptive error", func(t *testing.T) {
		client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
		})

		_, err := client.CreateIntent(ctx, payment.CreateIntentParams{AmountCents: 100, Currency: "usd"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "card_declined")
		assert.Contains(t, err.Error(), "Your card was declined.")
	})

	t.Run("non-OK status without envelope still fails", func(t *testing.T) {
		client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{}`))
		})

		_, err := client.CreateIntent(ctx, payment.CreateIntentParams{AmountCents: 100, Currency: "usd"})
		assert.Error(t, err)
	})
}

func TestGetIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("retrieves an intent by id", func(t *testing.T) {
		client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)
			w.Write([]byte(`{"id":"pi_123","status":"processing","amount":13000,"currency":"usd"}`))
		})

		intent, err := client.GetIntent(ctx, "pi_123")

		require.NoError(t, err)
		assert.Equal(t, payment.IntentStatusProcessing, intent.Status)
	})

	t.Run("empty id is rejected locally", func(t *testing.T) {
		client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		_, err := client.GetIntent(ctx, "")
		assert.Error(t, err)
	})
}
