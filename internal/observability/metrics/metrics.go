package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics exposes counters for the scheduling flows.
type SchedulerMetrics struct {
	appointmentsTotal  *prometheus.CounterVec
	conflictsTotal     prometheus.Counter
	notificationsTotal *prometheus.CounterVec
	calendarFailures   *prometheus.CounterVec
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nailit",
			Subsystem: "scheduler",
			Name:      "appointments_total",
			Help:      "Appointment lifecycle events by action",
		}, []string{"action", "type"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nailit",
			Subsystem: "scheduler",
			Name:      "conflicts_rejected_total",
			Help:      "Booking attempts rejected by the conflict check",
		}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nailit",
			Subsystem: "inventory",
			Name:      "notifications_total",
			Help:      "Inventory threshold notifications sent",
		}, []string{"family"}),
		calendarFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nailit",
			Subsystem: "calendar",
			Name:      "mirror_failures_total",
			Help:      "Failed best-effort calendar mirror operations",
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsTotal, m.conflictsTotal, m.notificationsTotal, m.calendarFailures)
	return m
}

func (m *SchedulerMetrics) ObserveAppointment(action, treatmentType string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(action, treatmentType).Inc()
}

func (m *SchedulerMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

func (m *SchedulerMetrics) ObserveNotification(family string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(family).Inc()
}

func (m *SchedulerMetrics) ObserveCalendarFailure(operation string) {
	if m == nil {
		return
	}
	m.calendarFailures.WithLabelValues(operation).Inc()
}
