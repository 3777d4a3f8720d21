package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/patterflow/patter/pkg/domain"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnSequenceEnter(ctx, &domain.SequenceEvent{SequenceID: "onboarding"})
	hooks.OnMessageDelivered(ctx, &domain.MessageEvent{
		MessageID: "m1",
		Type:      domain.MessageBot,
		Waited:    700 * time.Millisecond,
	})
	hooks.OnMessageDelivered(ctx, &domain.MessageEvent{
		MessageID: "m2",
		Type:      domain.MessageBot,
	})
	hooks.OnSuspended(ctx, &domain.MessageEvent{MessageID: "m3", Type: domain.MessageChoice})
	hooks.OnTrigger(ctx, &domain.TriggerEvent{Name: "session.completed"})
	hooks.OnRoutingDeadEnd(ctx, &domain.MessageEvent{MessageID: "r1"})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.sequencesEntered))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.messagesDelivered.WithLabelValues("bot")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.suspensions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.triggerEvents))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.routingDeadEnds))
}

func TestMergeHooks(t *testing.T) {
	ctx := context.Background()

	var calls []string
	first := &domain.Hooks{
		OnTrigger: func(context.Context, *domain.TriggerEvent) { calls = append(calls, "first") },
	}
	second := &domain.Hooks{
		OnTrigger: func(context.Context, *domain.TriggerEvent) { calls = append(calls, "second") },
	}

	merged := domain.MergeHooks(first, nil, second)
	merged.OnTrigger(ctx, &domain.TriggerEvent{Name: "x"})

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Nil(t, domain.MergeHooks(nil, nil))
	assert.Same(t, first, domain.MergeHooks(first))
}
