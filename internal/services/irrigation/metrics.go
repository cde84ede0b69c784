package irrigation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the size of every structure and per-action counters.
type Metrics struct {
	Connections  prometheus.Gauge
	Crops        prometheus.Gauge
	QueueDepth   prometheus.Gauge
	History      prometheus.Gauge
	Actions      *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
	HistoryFull  prometheus.Counter
	Dispatched   prometheus.Counter
	NotifyErrors prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "borewell_connections",
			Help: "Connection records held by the index.",
		}),
		Crops: f.NewGauge(prometheus.GaugeOpts{
			Name: "borewell_crops",
			Help: "Crop records held by the catalog.",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "borewell_motor_queue_depth",
			Help: "Motor runs waiting in the schedule.",
		}),
		History: f.NewGauge(prometheus.GaugeOpts{
			Name: "borewell_history_entries",
			Help: "Entries in the action history.",
		}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "borewell_actions_total",
			Help: "Successful record operations by action.",
		}, []string{"action"}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "borewell_rejected_total",
			Help: "Operations rejected as invalid input.",
		}, []string{"op"}),
		HistoryFull: f.NewCounter(prometheus.CounterOpts{
			Name: "borewell_history_full_total",
			Help: "Records stored while the action history was full.",
		}),
		Dispatched: f.NewCounter(prometheus.CounterOpts{
			Name: "borewell_motor_runs_dispatched_total",
			Help: "Motor runs removed from the schedule.",
		}),
		NotifyErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "borewell_notify_errors_total",
			Help: "Record events a notifier failed to deliver.",
		}),
	}
}
