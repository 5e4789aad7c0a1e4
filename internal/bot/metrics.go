package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	MessagesProcessed    prometheus.Counter
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	BookingsCreated      *prometheus.CounterVec
	BookingsRejected     prometheus.Counter
	BookingsCanceled     prometheus.Counter
}

// NewMetrics создает новые метрики
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapisnik_messages_processed_total",
			Help: "Total number of processed updates",
		}),
		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapisnik_errors_total",
			Help: "Total number of handler errors and panics",
		}),
		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zapisnik_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
		BookingsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zapisnik_bookings_created_total",
			Help: "Total number of bookings created",
		}, []string{"service"}),
		BookingsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapisnik_bookings_rejected_total",
			Help: "Total number of bookings rejected due to slot capacity",
		}),
		BookingsCanceled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapisnik_bookings_canceled_total",
			Help: "Total number of bookings canceled",
		}),
	}
}
