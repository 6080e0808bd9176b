// Package metrics records named counters for the ingestion pipeline.
// Callers depend on the Sink interface; the process wires an in-memory sink for
// the stats endpoint together with OpenTelemetry counters.
package metrics

import (
	"context"
	"sort"
	"strings"
)

// Counter names emitted by the persister, one per record outcome.
const (
	TransactionAttempted = "ingest.transaction.attempted"
	TransactionDuplicate = "ingest.transaction.duplicate"
	TransactionInserted  = "ingest.transaction.inserted"
	TransactionFailed    = "ingest.transaction.failed"
)

// Counter names emitted by the orchestrator, one per file outcome.
const (
	FileProcessed = "ingest.file.processed"
)

// TagAccount tags counters with the record's accountNameOwner.
const TagAccount = "account"

// TagOutcome tags file counters with the pipeline outcome.
const TagOutcome = "outcome"

// Tag is a key/value label attached to a counter increment.
type Tag struct {
	Key   string
	Value string
}

// T is shorthand for building a Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// Sink records counter increments.
type Sink interface {
	Increment(ctx context.Context, name string, tags ...Tag)
}

// Multi fans increments out to every sink.
type Multi []Sink

// Increment implements Sink.
func (m Multi) Increment(ctx context.Context, name string, tags ...Tag) {
	for _, s := range m {
		s.Increment(ctx, name, tags...)
	}
}

// Nop discards every increment.
type Nop struct{}

// Increment implements Sink.
func (Nop) Increment(context.Context, string, ...Tag) {}

// key renders a counter name and its tags in a stable order,
// e.g. "ingest.transaction.inserted{account=foo_brian}".
func key(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := make([]Tag, len(tags))
	copy(sorted, tags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}
