package lint

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for analysis runs.
var (
	tracer = otel.Tracer("leaplint.lint")
	meter  = otel.Meter("leaplint.lint")
)

// Metrics for analysis runs.
var (
	runLatency    metric.Float64Histogram
	unitsAnalyzed metric.Int64Counter
	findingsTotal metric.Int64Counter
	unitFailures  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runLatency, err = meter.Float64Histogram(
			"leaplint_engine_run_duration_seconds",
			metric.WithDescription("Duration of analysis runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		unitsAnalyzed, err = meter.Int64Counter(
			"leaplint_engine_units_analyzed_total",
			metric.WithDescription("Total number of source units analyzed"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		findingsTotal, err = meter.Int64Counter(
			"leaplint_engine_findings_total",
			metric.WithDescription("Total number of findings reported"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		unitFailures, err = meter.Int64Counter(
			"leaplint_engine_unit_failures_total",
			metric.WithDescription("Total number of units that failed analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startRunSpan creates a span for a whole analysis run.
func startRunSpan(ctx context.Context, runID string, units int, parallel bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Analyzer.Analyze",
		trace.WithAttributes(
			attribute.String("lint.run_id", runID),
			attribute.Int("lint.units", units),
			attribute.Bool("lint.parallel", parallel),
		),
	)
}

// startUnitSpan creates a span for one unit.
func startUnitSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Analyzer.analyzeUnit",
		trace.WithAttributes(attribute.String("lint.path", path)),
	)
}

// endUnitSpan records the unit outcome and ends the span.
func endUnitSpan(span trace.Span, findings int, err error) {
	span.SetAttributes(attribute.Int("lint.findings", findings))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// recordUnitMetrics records metrics for one unit.
func recordUnitMetrics(ctx context.Context, findings int, failed bool) {
	if err := initMetrics(); err != nil {
		return
	}
	unitsAnalyzed.Add(ctx, 1)
	if findings > 0 {
		findingsTotal.Add(ctx, int64(findings))
	}
	if failed {
		unitFailures.Add(ctx, 1)
	}
}

// recordRunMetrics records metrics for a whole run.
func recordRunMetrics(ctx context.Context, duration time.Duration, parallel bool) {
	if err := initMetrics(); err != nil {
		return
	}
	runLatency.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.Bool("parallel", parallel)),
	)
}
