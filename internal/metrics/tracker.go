package metrics

import "github.com/prometheus/client_golang/prometheus"

// TrackerMetrics counts recorded pomodoro sessions and their focus time.
type TrackerMetrics struct {
	SessionsRecorded prometheus.Counter
	CyclesCompleted  prometheus.Counter
	FocusSeconds     prometheus.Counter
}

// NewTrackerMetrics creates and registers tracker metrics on the given registry.
func NewTrackerMetrics(reg prometheus.Registerer) *TrackerMetrics {
	m := &TrackerMetrics{
		SessionsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "sessions_recorded_total",
			Help:      "Total number of pomodoro sessions recorded.",
		}),
		CyclesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "cycles_completed_total",
			Help:      "Total number of completed work cycles across recorded sessions.",
		}),
		FocusSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "focus_seconds_total",
			Help:      "Total focused seconds across recorded sessions.",
		}),
	}

	reg.MustRegister(m.SessionsRecorded, m.CyclesCompleted, m.FocusSeconds)
	return m
}

// ObserveSession records one persisted session.
func (m *TrackerMetrics) ObserveSession(cycles, focusSeconds int) {
	if m == nil {
		return
	}
	m.SessionsRecorded.Inc()
	m.CyclesCompleted.Add(float64(cycles))
	m.FocusSeconds.Add(float64(focusSeconds))
}
