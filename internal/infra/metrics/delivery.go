package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		bindingNotificationsTotal,
		deliveryQueueDepth,
		deliveryInFlight,
	)
}

var (
	bindingNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "binding_notifications_total",
			Help: "Binding confirmation messages by result.",
		},
		[]string{"result"}, // 'sent', 'failed', 'rejected'
	)

	deliveryQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "delivery_queue_depth",
			Help: "Deliveries waiting for a free worker.",
		},
	)

	deliveryInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "delivery_in_flight",
			Help: "Deliveries currently being sent.",
		},
	)
)

func IncBindingNotification(result string) {
	bindingNotificationsTotal.WithLabelValues(norm(result)).Inc()
}

func SetDeliveryQueueDepth(n int) {
	deliveryQueueDepth.Set(float64(n))
}

func IncDeliveryInFlight() { deliveryInFlight.Inc() }
func DecDeliveryInFlight() { deliveryInFlight.Dec() }
