// ABOUTME: OpenTelemetry instruments for hook executions and block decisions
// ABOUTME: A nil *Metrics is valid and records nothing

package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/mauromedda/pi-hooks"

// Outcome labels for RecordRun.
const (
	OutcomeOK         = "ok"
	OutcomeFailed     = "failed"
	OutcomeSpawnError = "spawn_error"
)

// Metrics records handler runs, their duration, and blocked events.
type Metrics struct {
	runs     metric.Int64Counter
	duration metric.Float64Histogram
	blocks   metric.Int64Counter
}

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	runs, err := meter.Int64Counter(
		"pi_hooks_handler_runs_total",
		metric.WithDescription("Hook handler invocations"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"pi_hooks_handler_duration_seconds",
		metric.WithDescription("Hook handler wall time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	blocks, err := meter.Int64Counter(
		"pi_hooks_blocks_total",
		metric.WithDescription("Events denied by a blocking hook"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating blocks counter: %w", err)
	}

	return &Metrics{runs: runs, duration: duration, blocks: blocks}, nil
}

// RecordRun records one finished handler invocation.
func (m *Metrics) RecordRun(ctx context.Context, event, kind string, async bool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	opt := metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("kind", kind),
		attribute.Bool("async", async),
		attribute.String("outcome", outcome),
	)
	m.runs.Add(ctx, 1, opt)
	m.duration.Record(ctx, elapsed.Seconds(), opt)
}

// RecordBlock records an event denied by a hook.
func (m *Metrics) RecordBlock(ctx context.Context, event string) {
	if m == nil {
		return
	}
	m.blocks.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}
