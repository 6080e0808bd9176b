package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTel records increments as OpenTelemetry Int64 counters created lazily per name.
type OTel struct {
	meter metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
}

// NewOTel creates a sink on the given meter, e.g. otel.Meter("finance-ingest").
func NewOTel(meter metric.Meter) *OTel {
	return &OTel{
		meter:    meter,
		counters: make(map[string]metric.Int64Counter),
	}
}

// Increment implements Sink. Instrument creation errors drop the increment.
func (o *OTel) Increment(ctx context.Context, name string, tags ...Tag) {
	counter, err := o.counter(name)
	if err != nil {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(tags))
	for _, t := range tags {
		attrs = append(attrs, attribute.String(t.Key, t.Value))
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (o *OTel) counter(name string) (metric.Int64Counter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if c, ok := o.counters[name]; ok {
		return c, nil
	}
	c, err := o.meter.Int64Counter(name)
	if err != nil {
		return nil, err
	}
	o.counters[name] = c
	return c, nil
}
