// Package telemetry provides hierarchical timing collection for operations.
// Timings form a tree, so nested stages of a long operation show up nested
// in the report.
//
// Collectors travel through context, so instrumentation never changes
// function signatures:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.FromContext(ctx).Start("Cook entries")
//	defer timer.End()
//
//	child := timer.Child("Fill balance caches")
//	// ... work ...
//	child.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/sebkoller/bookkeep/output"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var collectorKey = contextKey{}

// Collector collects telemetry data.
type Collector interface {
	// Start begins timing an operation. The returned timer must be ended
	// with End() when the operation completes.
	Start(name string) Timer

	// Report outputs the collected telemetry to a writer. A nil styles
	// disables terminal styling.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing. Timers nest via Child().
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context. If no collector is
// present, returns a no-op collector, so callers can instrument
// unconditionally.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}
