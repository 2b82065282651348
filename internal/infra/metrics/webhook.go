package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(webhookRequestsTotal) }

var webhookRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "binding_webhook_requests_total",
		Help: "Binding-success webhook requests by HTTP status code.",
	},
	[]string{"code"},
)

func IncWebhookRequest(code int) {
	webhookRequestsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}
