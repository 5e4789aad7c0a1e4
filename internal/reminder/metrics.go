package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — счетчики жизненного цикла напоминаний.
type Metrics struct {
	Scheduled      prometheus.Counter
	Fired          prometheus.Counter
	DeliveryErrors prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Scheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapisnik_reminders_scheduled_total",
			Help: "Total number of reminders scheduled",
		}),
		Fired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapisnik_reminders_fired_total",
			Help: "Total number of reminders fired",
		}),
		DeliveryErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapisnik_reminder_delivery_errors_total",
			Help: "Total number of failed reminder deliveries",
		}),
	}
}
