// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		telegramUpdatesTotal,
		telegramAPIErrorsTotal,
	)
}

var (
	telegramUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Incoming Telegram updates by kind (command name or callback action).",
		},
		[]string{"kind"},
	)

	telegramAPIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_api_errors_total",
			Help: "Failed Telegram Bot API calls by operation (send/edit/answer).",
		},
		[]string{"op"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncTelegramUpdate(kind string) {
	telegramUpdatesTotal.WithLabelValues(norm(kind)).Inc()
}

func IncTelegramAPIError(op string) {
	telegramAPIErrorsTotal.WithLabelValues(norm(op)).Inc()
}
