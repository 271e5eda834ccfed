package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/telemetry"
	"github.com/leapstack-labs/leaplint/internal/workspace"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/observers"
)

// AnalyzeOptions holds options that are not configuration settings.
type AnalyzeOptions struct {
	Watch    bool
	Debounce time.Duration
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(version string) *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:     "analyze [path...]",
		Aliases: []string{"lint"},
		Short:   "Run the configured rules over source files",
		Long: `Discover source files under the given paths (default: the current directory),
parse them and run every active rule over them.

Findings are grouped by file. With --auto-correct, correctable findings are fixed
and the corrected files are written back in place. The command exits non-zero
when findings are reported or a file could not be analyzed.`,
		Example: `  # Analyze the current directory
  leaplint analyze

  # Analyze Go files only, in parallel
  leaplint analyze --extension .go --parallel ./cmd ./internal

  # Fix what can be fixed
  leaplint analyze --auto-correct

  # Re-run on every change
  leaplint analyze --watch

  # Machine-readable output
  leaplint analyze --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, version, opts)
		},
	}

	cmd.Flags().Bool("parallel", false, "Analyze units concurrently")
	cmd.Flags().Int("workers", 0, "Maximum concurrent units (0 = number of CPUs)")
	cmd.Flags().Bool("auto-correct", false, "Fix correctable findings and write files back")
	cmd.Flags().Bool("build-upon-default-config", false, "Layer the configuration file over the rule defaults")
	cmd.Flags().StringSlice("exclude-rule-set", nil, "Rule set ids to skip")
	cmd.Flags().String("parser", "", "Parser: text, tree-sitter")
	cmd.Flags().StringSlice("extension", nil, "File extensions to analyze, e.g. .go")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns of paths to skip")
	cmd.Flags().StringP("format", "f", "", "Output format: auto, text, json")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().Bool("trace", false, "Write OpenTelemetry spans to stderr")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", defaultDebounce, "Quiet period before a watch re-run")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, version string, opts *AnalyzeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	settings := cmdCtx.Cfg.Settings
	logger := cmdCtx.Logger

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	ctx := cmd.Context()
	if opts.Watch {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	var runObservers []lint.Observer
	runObservers = append(runObservers, observers.SizeObserver{})
	runObservers = append(runObservers, observers.NewProgressObserver(func(completed, total int64) {
		logger.Debug("progress", slog.Int64("completed", completed), slog.Int64("total", total))
	}))

	telCfg := telemetry.DefaultConfig(version)
	telCfg.Writer = cmd.ErrOrStderr()
	if settings.Trace {
		telCfg.TraceExporter = telemetry.ExporterStdout
	}
	if settings.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		telCfg.MetricExporter = telemetry.ExporterPrometheus
		telCfg.Registerer = reg
		runObservers = append(runObservers, observers.NewPrometheusObserver(reg))

		stopServer, err := serveMetrics(settings.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stopServer()
	}
	shutdown, err := telemetry.Init(ctx, telCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	descs, err := lint.Resolve(cmdCtx.Providers(), cmdCtx.Cfg.Rules, false, logger)
	if err != nil {
		return fmt.Errorf("failed to resolve rules: %w", err)
	}

	ws, err := cmdCtx.Workspace()
	if err != nil {
		return err
	}

	analyzer, err := lint.NewAnalyzer(descs,
		lint.WithParallel(settings.Parallel),
		lint.WithWorkers(settings.Workers),
		lint.WithAutoCorrect(settings.AutoCorrect),
		lint.WithWriter(ws),
		lint.WithBaseDir(filterBase(cmdCtx.Cfg.FileUsed)),
		lint.WithLogger(logger),
		lint.WithObservers(runObservers...),
	)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	run := &analyzeRun{
		cmdCtx:   cmdCtx,
		ws:       ws,
		analyzer: analyzer,
		roots:    roots,
	}

	err = run.once(ctx)
	if !opts.Watch {
		return err
	}
	if err != nil && !errors.Is(err, ErrFindings) {
		logger.Error("analysis failed", slog.Any("error", err))
	}

	w := &watcher{
		roots:    roots,
		debounce: opts.Debounce,
		relevant: ws.Matches,
		logger:   logger,
	}
	cmdCtx.Renderer.Errorf("Watching %d paths for changes. Press Ctrl+C to stop.\n", len(roots))
	return w.run(ctx, func(ctx context.Context) {
		if err := run.once(ctx); err != nil && !errors.Is(err, ErrFindings) {
			logger.Error("analysis failed", slog.Any("error", err))
		}
	})
}

// analyzeRun holds everything one analysis pass needs.
type analyzeRun struct {
	cmdCtx   *CommandContext
	ws       *workspace.Workspace
	analyzer *lint.Analyzer
	roots    []string
}

// once discovers, loads and analyzes the roots, then renders the result.
func (r *analyzeRun) once(ctx context.Context) error {
	logger := r.cmdCtx.Logger

	paths, err := r.ws.Discover(ctx, r.roots...)
	if err != nil {
		return fmt.Errorf("failed to discover files: %w", err)
	}
	logger.Debug("discovered files", slog.Int("count", len(paths)))

	units, loadErr := r.ws.Load(ctx, r.cmdCtx.Parser(), paths)
	loadFailures := splitErrors(loadErr)
	for _, e := range loadFailures {
		logger.Warn("skipping file", slog.Any("error", e))
	}

	res, err := r.analyzer.Analyze(ctx, units, nil)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	status := renderResult(r.cmdCtx.Renderer, res)
	if len(loadFailures) > 0 {
		for _, e := range loadFailures {
			r.cmdCtx.Renderer.Errorf("%v\n", e)
		}
		if status == nil {
			return fmt.Errorf("%w: %d files failed to load", ErrFindings, len(loadFailures))
		}
	}
	return status
}

// splitErrors unpacks an errors.Join result.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// serveMetrics exposes reg over HTTP until the returned stop function is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}

// filterBase is the directory rule path filters are relative to: the directory of the
// config file, or the working directory when no file was read.
func filterBase(configFile string) string {
	if configFile != "" {
		if abs, err := filepath.Abs(configFile); err == nil {
			return filepath.Dir(abs)
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
