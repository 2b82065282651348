//go:build !integration

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	t.Run("should normalize label values", func(t *testing.T) {
		before := testutil.ToFloat64(telegramUpdatesTotal.WithLabelValues("/start"))
		IncTelegramUpdate(" /START ")
		after := testutil.ToFloat64(telegramUpdatesTotal.WithLabelValues("/start"))
		if after-before != 1 {
			t.Errorf("want +1, got %v", after-before)
		}
	})

	t.Run("should track in-flight deliveries", func(t *testing.T) {
		IncDeliveryInFlight()
		IncDeliveryInFlight()
		DecDeliveryInFlight()
		if got := testutil.ToFloat64(deliveryInFlight); got < 1 {
			t.Errorf("want at least 1 in flight, got %v", got)
		}
		DecDeliveryInFlight()
	})

	t.Run("should label webhook requests by status code", func(t *testing.T) {
		before := testutil.ToFloat64(webhookRequestsTotal.WithLabelValues("400"))
		IncWebhookRequest(http.StatusBadRequest)
		if got := testutil.ToFloat64(webhookRequestsTotal.WithLabelValues("400")); got-before != 1 {
			t.Errorf("want +1, got %v", got-before)
		}
	})
}

func TestHandlerExposesRegisteredCollectors(t *testing.T) {
	MustRegister()
	MustRegister() // idempotent

	IncBindingNotification("sent")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "binding_notifications_total") {
		t.Error("binding_notifications_total not exposed")
	}
}
