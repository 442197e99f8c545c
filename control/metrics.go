// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus instrumentation for executors and ring processors.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Task phases reported with failures.
const (
	PhaseTask       = "task"
	PhaseCompletion = "completion"
)

// Metrics holds the toolkit collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksCompleted prometheus.Counter
	TaskFailures   *prometheus.CounterVec
	TasksActive    prometheus.Gauge
	Workers        prometheus.Gauge
	CursorPosition *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks submitted to executors",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks moved to the complete set",
		}),
		TaskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "task_failures_total",
			Help:      "Recovered task and completion failures",
		}, []string{"phase"}),
		TasksActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_active",
			Help:      "Tasks currently running",
		}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "workers",
			Help:      "Live executor worker routines",
		}),
		CursorPosition: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ring",
			Name:      "cursor_position",
			Help:      "Last published sequence per processor",
		}, []string{"stage"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.TasksSubmitted, m.TasksCompleted, m.TaskFailures,
		m.TasksActive, m.Workers, m.CursorPosition,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// TaskSubmitted records a submission.
func (m *Metrics) TaskSubmitted() {
	if m == nil {
		return
	}
	m.TasksSubmitted.Inc()
}

// TaskStarted records a task moving to the active set.
func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.TasksActive.Inc()
}

// TaskFinished records a task moving to the complete set.
func (m *Metrics) TaskFinished() {
	if m == nil {
		return
	}
	m.TasksActive.Dec()
	m.TasksCompleted.Inc()
}

// TaskFailed records a recovered failure in the given phase.
func (m *Metrics) TaskFailed(phase string) {
	if m == nil {
		return
	}
	m.TaskFailures.WithLabelValues(phase).Inc()
}

// WorkersChanged adjusts the worker gauge by delta.
func (m *Metrics) WorkersChanged(delta int) {
	if m == nil {
		return
	}
	m.Workers.Add(float64(delta))
}

// ObserveCursor records the published position of a named stage.
func (m *Metrics) ObserveCursor(stage string, seq int64) {
	if m == nil {
		return
	}
	m.CursorPosition.WithLabelValues(stage).Set(float64(seq))
}
