// Package telemetry installs the OpenTelemetry SDK for the CLI.
//
// Library code only uses the otel API (otel.Tracer, otel.Meter); without Init every
// span and instrument is a no-op. The CLI calls Init once at startup and the returned
// shutdown function on exit, which flushes pending spans.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNilContext is returned when Init is called without a context.
	ErrNilContext = errors.New("telemetry: nil context")
	// ErrUnknownExporter is returned for exporter names Init does not know.
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")
)

// Exporter names.
const (
	ExporterNone       = "none"
	ExporterStdout     = "stdout"
	ExporterPrometheus = "prometheus"
)

// Config controls telemetry behavior.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// TraceExporter selects the trace exporter: "stdout" or "none".
	TraceExporter string
	// MetricExporter selects the metric exporter: "prometheus", "stdout" or "none".
	MetricExporter string

	// Writer receives stdout exporter output. Defaults to os.Stderr so reports on
	// stdout stay parseable.
	Writer io.Writer
	// Registerer receives the prometheus exporter's collector.
	// Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// DefaultConfig returns a configuration with every exporter disabled.
func DefaultConfig(version string) Config {
	return Config{
		ServiceName:    "leaplint",
		ServiceVersion: version,
		TraceExporter:  getEnvOr("OTEL_TRACES_EXPORTER", ExporterNone),
		MetricExporter: getEnvOr("OTEL_METRICS_EXPORTER", ExporterNone),
	}
}

// Init sets the global tracer and meter providers.
// The returned shutdown function flushes exporters and must be called on exit.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	if cfg.TraceExporter != "" && cfg.TraceExporter != ExporterNone {
		tp, err := initTracer(cfg, res)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	}

	if cfg.MetricExporter != "" && cfg.MetricExporter != ExporterNone {
		mp, err := initMeter(cfg, res)
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	}

	return shutdown, nil
}

func initTracer(cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	switch cfg.TraceExporter {
	case ExporterStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(cfg.Writer), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create exporter: %w", err)
		}
		// Spans are exported synchronously; a CLI run is short and must not lose them.
		return sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}
}

func initMeter(cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	switch cfg.MetricExporter {
	case ExporterPrometheus:
		reg := cfg.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		), nil
	case ExporterStdout:
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.Writer), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.MetricExporter)
	}
}

// LoggerWithTrace adds the trace and span ids of the active span to logger.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
