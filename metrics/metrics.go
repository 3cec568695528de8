// ABOUTME: Prometheus metrics for store dispatches and snapshot persistence
// ABOUTME: Registered against an injected registry so tests can use a private one
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harperreed/energycrm/store"
)

// Metrics holds all Prometheus metrics for the CRM.
type Metrics struct {
	ActionsTotal   *prometheus.CounterVec
	SnapshotWrites *prometheus.CounterVec
	SnapshotBytes  prometheus.Gauge
	Records        *prometheus.GaugeVec
}

// New initializes the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ActionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energycrm",
			Subsystem: "store",
			Name:      "actions_total",
			Help:      "Total number of dispatched actions by type and result.",
		}, []string{"action", "result"}), // result: committed, not_found, error
		SnapshotWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energycrm",
			Subsystem: "persist",
			Name:      "snapshot_writes_total",
			Help:      "Total number of snapshot writes to durable storage by result.",
		}, []string{"result"}), // result: ok, error
		SnapshotBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "energycrm",
			Subsystem: "persist",
			Name:      "snapshot_bytes",
			Help:      "Size in bytes of the last snapshot written.",
		}),
		Records: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "energycrm",
			Subsystem: "store",
			Name:      "records",
			Help:      "Number of records per collection in the current snapshot.",
		}, []string{"collection"}),
	}
}

// ObserveDispatch records the outcome of one Dispatch call.
func (m *Metrics) ObserveDispatch(action store.Action, err error) {
	result := "committed"
	switch {
	case errors.Is(err, store.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	m.ActionsTotal.WithLabelValues(action.Type(), result).Inc()
}

// ObserveWrite records one snapshot write.
func (m *Metrics) ObserveWrite(size int, err error) {
	if err != nil {
		m.SnapshotWrites.WithLabelValues("error").Inc()
		return
	}
	m.SnapshotWrites.WithLabelValues("ok").Inc()
	m.SnapshotBytes.Set(float64(size))
}

// Observer keeps the per-collection record gauges current.
func (m *Metrics) Observer() store.Observer {
	return func(_ context.Context, c store.Commit) {
		m.Records.WithLabelValues("users").Set(float64(len(c.Next.Users)))
		m.Records.WithLabelValues("companies").Set(float64(len(c.Next.Companies)))
		m.Records.WithLabelValues("contacts").Set(float64(len(c.Next.Contacts)))
		m.Records.WithLabelValues("deals").Set(float64(len(c.Next.Deals)))
		m.Records.WithLabelValues("activities").Set(float64(len(c.Next.Activities)))
	}
}
