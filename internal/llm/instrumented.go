package llm

import (
	"context"
	"time"

	"github.com/bagdasarian/collabquest-assistant/internal/metrics"
)

// InstrumentedGateway records latency and outcome of every completion.
type InstrumentedGateway struct {
	next    Gateway
	metrics *metrics.Metrics
}

func NewInstrumentedGateway(next Gateway, m *metrics.Metrics) *InstrumentedGateway {
	return &InstrumentedGateway{next: next, metrics: m}
}

func (g *InstrumentedGateway) Complete(ctx context.Context, model string, messages []Message, temperature *float32) (string, error) {
	started := time.Now()
	text, err := g.next.Complete(ctx, model, messages, temperature)
	g.metrics.ObserveCompletion(model, time.Since(started), err)
	return text, err
}
