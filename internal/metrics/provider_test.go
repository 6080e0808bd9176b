package metrics

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMeterProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("counters reach the registered reader", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		mp, err := NewMeterProvider(ExporterNone, nil, time.Minute, reader)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		defer mp.Shutdown(ctx)

		sink := NewOTel(mp.Meter("test"))
		sink.Increment(ctx, TransactionInserted, T(TagAccount, "foo_brian"))
		sink.Increment(ctx, TransactionInserted, T(TagAccount, "foo_brian"))
		sink.Increment(ctx, TransactionInserted, T(TagAccount, "bar_brian"))

		var rm metricdata.ResourceMetrics
		if err := reader.Collect(ctx, &rm); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}

		var total int64
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name != TransactionInserted {
					continue
				}
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("Expected an int64 sum, got %T", m.Data)
				}
				if len(sum.DataPoints) != 2 {
					t.Errorf("Expected one data point per account, got %d", len(sum.DataPoints))
				}
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
		if total != 3 {
			t.Errorf("Expected 3 inserted, got %d", total)
		}
	})

	t.Run("stdout exporter writes counters on flush", func(t *testing.T) {
		var buf bytes.Buffer
		mp, err := NewMeterProvider(ExporterStdout, &buf, time.Hour)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		NewOTel(mp.Meter("test")).Increment(ctx, FileProcessed, T(TagOutcome, "success"))
		if err := mp.Shutdown(ctx); err != nil {
			t.Fatalf("Shutdown failed: %v", err)
		}

		if !strings.Contains(buf.String(), FileProcessed) {
			t.Errorf("Expected %s in exporter output, got %q", FileProcessed, buf.String())
		}
	})

	t.Run("unknown exporter", func(t *testing.T) {
		if _, err := NewMeterProvider("prometheus", nil, time.Minute); err == nil {
			t.Error("Expected error for unknown exporter")
		}
	})
}
