package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/patterflow/patter/pkg/domain"
)

// Metrics holds the Prometheus collectors for a queue (or a set of queues
// sharing one registration).
type Metrics struct {
	sequencesEntered  prometheus.Counter
	messagesDelivered *prometheus.CounterVec
	triggerEvents     prometheus.Counter
	routingDeadEnds   prometheus.Counter
	suspensions       prometheus.Counter
	deliveryWait      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. Passing
// prometheus.DefaultRegisterer is the common case.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sequencesEntered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patter_sequences_entered_total",
			Help: "Number of sequences the delivery queue has entered.",
		}),
		messagesDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "patter_messages_delivered_total",
			Help: "Number of messages made visible, by message type.",
		}, []string{"type"}),
		triggerEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patter_trigger_events_total",
			Help: "Number of trigger data actions fired.",
		}),
		routingDeadEnds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patter_routing_dead_ends_total",
			Help: "Number of autoroute evaluations that matched nothing.",
		}),
		suspensions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patter_suspensions_total",
			Help: "Number of times the queue suspended on an interactive message.",
		}),
		deliveryWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "patter_delivery_wait_seconds",
			Help:    "Pacing delay applied before each visible message.",
			Buckets: []float64{0.1, 0.25, 0.5, 0.7, 1, 1.5, 2, 2.5, 3, 3.5, 5},
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.sequencesEntered,
			m.messagesDelivered,
			m.triggerEvents,
			m.routingDeadEnds,
			m.suspensions,
			m.deliveryWait,
		)
	}
	return m
}

// Hooks returns queue hooks that feed the collectors. Combine with other hooks
// via domain-level composition if the host needs both.
func (m *Metrics) Hooks() *domain.Hooks {
	return &domain.Hooks{
		OnSequenceEnter: func(_ context.Context, _ *domain.SequenceEvent) {
			m.sequencesEntered.Inc()
		},
		OnMessageDelivered: func(_ context.Context, ev *domain.MessageEvent) {
			m.messagesDelivered.WithLabelValues(string(ev.Type)).Inc()
			m.deliveryWait.Observe(ev.Waited.Seconds())
		},
		OnSuspended: func(_ context.Context, _ *domain.MessageEvent) {
			m.suspensions.Inc()
		},
		OnTrigger: func(_ context.Context, _ *domain.TriggerEvent) {
			m.triggerEvents.Inc()
		},
		OnRoutingDeadEnd: func(_ context.Context, _ *domain.MessageEvent) {
			m.routingDeadEnds.Inc()
		},
	}
}
