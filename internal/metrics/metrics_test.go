package metrics

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		tags []Tag
		want string
	}{
		{"no tags", nil, "ingest.file.processed"},
		{"one tag", []Tag{T("account", "foo_brian")}, "ingest.file.processed{account=foo_brian}"},
		{"tags are sorted", []Tag{T("outcome", "success"), T("account", "foo_brian")}, "ingest.file.processed{account=foo_brian,outcome=success}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := key(FileProcessed, tc.tags); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Increment(ctx, TransactionInserted, T(TagAccount, "foo_brian"))
	m.Increment(ctx, TransactionInserted, T(TagAccount, "foo_brian"))
	m.Increment(ctx, TransactionInserted, T(TagAccount, "bar_brian"))
	// Shares a prefix with TransactionInserted but is a different counter.
	m.Increment(ctx, TransactionInserted+"_retry")

	if got := m.Count(TransactionInserted, T(TagAccount, "foo_brian")); got != 2 {
		t.Errorf("Expected 2 for foo_brian, got %d", got)
	}
	if got := m.Total(TransactionInserted); got != 3 {
		t.Errorf("Expected total 3, got %d", got)
	}
	if got := m.Total(TransactionFailed); got != 0 {
		t.Errorf("Expected total 0 for an unused counter, got %d", got)
	}

	snap := m.Snapshot()
	snap["ingest.transaction.inserted{account=foo_brian}"] = 100
	if got := m.Count(TransactionInserted, T(TagAccount, "foo_brian")); got != 2 {
		t.Errorf("Expected snapshot to be a copy, counter now %d", got)
	}
}

func TestMemoryConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Increment(ctx, TransactionAttempted, T(TagAccount, "foo_brian"))
		}()
	}
	wg.Wait()

	if got := m.Total(TransactionAttempted); got != 50 {
		t.Errorf("Expected 50, got %d", got)
	}
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	a, b := NewMemory(), NewMemory()
	sink := Multi{a, b, Nop{}, NewOTel(noop.NewMeterProvider().Meter("test"))}

	sink.Increment(ctx, TransactionDuplicate, T(TagAccount, "foo_brian"))
	sink.Increment(ctx, TransactionDuplicate, T(TagAccount, "foo_brian"))

	for i, m := range []*Memory{a, b} {
		if got := m.Count(TransactionDuplicate, T(TagAccount, "foo_brian")); got != 2 {
			t.Errorf("sink %d: expected 2, got %d", i, got)
		}
	}
}

func TestOTelReusesCounters(t *testing.T) {
	o := NewOTel(noop.NewMeterProvider().Meter("test"))
	o.Increment(context.Background(), TransactionInserted, T(TagAccount, "foo_brian"))
	o.Increment(context.Background(), TransactionInserted)
	o.Increment(context.Background(), TransactionFailed)

	if len(o.counters) != 2 {
		t.Errorf("Expected 2 instruments, got %d", len(o.counters))
	}
}
