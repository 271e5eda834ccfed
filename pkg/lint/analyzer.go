package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leaplint/pkg/config"
)

// Option configures an Analyzer.
type Option func(*options)

type options struct {
	parallel    bool
	workers     int
	executor    Executor
	autoCorrect bool
	observers   []Observer
	writer      FileWriter
	logger      *slog.Logger
	baseDir     string
}

// WithParallel analyzes units concurrently on a bounded pool.
func WithParallel(parallel bool) Option {
	return func(o *options) { o.parallel = parallel }
}

// WithWorkers bounds the internal pool. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithExecutor runs parallel tasks on a caller-owned executor.
func WithExecutor(e Executor) Option {
	return func(o *options) { o.executor = e }
}

// WithAutoCorrect lets correctable rules rewrite trees and persists changed units.
func WithAutoCorrect(enabled bool) Option {
	return func(o *options) { o.autoCorrect = enabled }
}

// WithObservers adds lifecycle observers.
func WithObservers(obs ...Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs...) }
}

// WithWriter sets where corrected units are written.
func WithWriter(w FileWriter) Option {
	return func(o *options) { o.writer = w }
}

// WithBaseDir makes path filters match absolute unit paths relative to dir.
// Paths outside dir, and relative paths, are matched as given.
func WithBaseDir(dir string) Option {
	return func(o *options) { o.baseDir = dir }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// entry is one schedulable unit of work: a standalone rule or a composite.
type entry struct {
	rule      Rule
	ruleSetID string
	desc      *RuleDescriptor // nil for composites
	composite *Composite
}

// Analyzer runs resolved rules over source units.
// It is safe to call Analyze repeatedly; rules are instantiated once in NewAnalyzer.
type Analyzer struct {
	descriptors    []RuleDescriptor
	owners         map[string]string // rule id -> rule set id
	entries        []entry
	ruleSetFilters map[string]pathFilter
	ruleFilters    map[string]pathFilter
	opts           options
}

// NewAnalyzer prepares active descriptors for analysis.
//
// It builds the rule id to rule set map, instantiates every rule, compiles path filters
// and schedules composite groups. Any defect found here is returned before a unit is
// touched: a *ConfigError or a *CycleError.
func NewAnalyzer(descs []RuleDescriptor, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		// Capacity is fixed up front so descriptor pointers stay valid.
		descriptors:    make([]RuleDescriptor, 0, len(descs)),
		owners:         make(map[string]string),
		ruleSetFilters: make(map[string]pathFilter),
		ruleFilters:    make(map[string]pathFilter),
	}
	for _, opt := range opts {
		opt(&a.opts)
	}
	if a.opts.logger == nil {
		a.opts.logger = slog.Default()
	}
	if a.opts.workers <= 0 {
		a.opts.workers = runtime.GOMAXPROCS(0)
	}

	type group struct {
		id       string
		rsID     string
		declared []string
		members  []member
		slot     int
	}
	groups := make(map[string]*group)
	var groupOrder []*group

	for i := range descs {
		d := descs[i]
		if !d.Active {
			continue
		}
		if owner, ok := a.owners[d.RuleID]; ok && owner != d.RuleSetID {
			return nil, &ConfigError{
				Subject: d.RuleID,
				Err:     fmt.Errorf("%w: declared by rule sets %q and %q", ErrDuplicateRule, owner, d.RuleSetID),
			}
		}
		a.owners[d.RuleID] = d.RuleSetID
		a.descriptors = append(a.descriptors, d)
		dp := &a.descriptors[len(a.descriptors)-1]

		if _, ok := a.ruleSetFilters[d.RuleSetID]; !ok {
			f, err := newPathFilter(d.ruleSetConfig, d.RuleSetID)
			if err != nil {
				return nil, err
			}
			a.ruleSetFilters[d.RuleSetID] = f
		}
		f, err := newPathFilter(d.Config, d.RuleSetID+"."+d.RuleID)
		if err != nil {
			return nil, err
		}
		a.ruleFilters[d.RuleID] = f

		rule := d.Instantiate()
		if rule == nil {
			return nil, &ConfigError{Subject: d.RuleSetID + "." + d.RuleID, Err: errors.New("rule has no factory")}
		}

		if d.Group == "" {
			a.entries = append(a.entries, entry{rule: rule, ruleSetID: d.RuleSetID, desc: dp})
			continue
		}

		key := d.RuleSetID + "\x00" + d.Group
		g, ok := groups[key]
		if !ok {
			g = &group{id: d.Group, rsID: d.RuleSetID, declared: d.GroupMembers, slot: len(a.entries)}
			groups[key] = g
			groupOrder = append(groupOrder, g)
			a.entries = append(a.entries, entry{ruleSetID: d.RuleSetID})
		}
		g.members = append(g.members, member{rule: rule, desc: dp})
	}

	for _, g := range groupOrder {
		declared := make(map[string]bool, len(g.declared))
		for _, name := range g.declared {
			declared[name] = true
		}
		for _, m := range g.members {
			for _, after := range runsAfter(m.rule) {
				if !declared[BaseID(after)] {
					return nil, &ConfigError{
						Subject: g.rsID + "." + m.rule.ID(),
						Err:     fmt.Errorf("%w: %q is not part of %s", ErrUnknownDependency, after, g.id),
					}
				}
			}
		}
		c, err := newComposite(g.id, g.members)
		if err != nil {
			return nil, err
		}
		a.entries[g.slot] = entry{rule: c, ruleSetID: g.rsID, composite: c}
	}
	return a, nil
}

// Descriptors returns the active descriptors the analyzer runs.
func (a *Analyzer) Descriptors() []RuleDescriptor {
	return append([]RuleDescriptor(nil), a.descriptors...)
}

// Rules returns the top-level rules in execution-entry order; composites appear once.
func (a *Analyzer) Rules() []Rule {
	out := make([]Rule, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.rule
	}
	return out
}

// unitOutcome is what one unit task hands back for aggregation.
type unitOutcome struct {
	findings      map[string][]Finding
	count         int
	notifications []Notification
	failed        bool
	corrected     bool
	abort         error
}

// Analyze runs every applicable rule over every unit and aggregates the findings.
//
// A unit whose analysis fails contributes no findings and one failure notification;
// other units are unaffected. A finding reported under an unowned rule id aborts the
// run with an *OrphanFindingError. Sequential and parallel runs produce the same result.
func (a *Analyzer) Analyze(ctx context.Context, units []*SourceUnit, semantic SemanticContext) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := a.opts.logger.With(slog.String("run_id", runID))

	ctx, span := startRunSpan(ctx, runID, len(units), a.opts.parallel)
	defer span.End()

	for _, o := range a.opts.observers {
		o.OnStart(ctx, units)
	}

	outcomes := make([]unitOutcome, len(units))
	if a.opts.parallel {
		a.runParallel(ctx, units, semantic, logger, outcomes)
	} else {
		for i, u := range units {
			outcomes[i] = a.analyzeUnit(ctx, u, semantic, logger)
			if outcomes[i].abort != nil {
				break
			}
		}
	}

	result := newResult(runID)
	var corrected, failed int64
	for _, o := range outcomes {
		if o.abort != nil {
			span.RecordError(o.abort)
			return nil, o.abort
		}
		result.merge(o.findings)
		for _, n := range o.notifications {
			result.AddNotification(n)
		}
		if o.corrected {
			corrected++
		}
		if o.failed {
			failed++
		}
	}

	elapsed := time.Since(start)
	result.Metrics.Set(MetricFindings, int64(result.Count()))
	result.Metrics.Set(MetricCorrectedUnits, corrected)
	result.Metrics.Set(MetricFailedUnits, failed)
	result.Metrics.Set(MetricDurationMillis, elapsed.Milliseconds())

	for _, o := range a.opts.observers {
		o.OnFinish(ctx, units, result)
	}
	recordRunMetrics(ctx, elapsed, a.opts.parallel)

	logger.Debug("analysis complete",
		slog.Int("units", len(units)),
		slog.Int("findings", result.Count()),
		slog.Int64("failed", failed),
		slog.Duration("duration", elapsed))
	return result, nil
}

func (a *Analyzer) runParallel(ctx context.Context, units []*SourceUnit, semantic SemanticContext, logger *slog.Logger, outcomes []unitOutcome) {
	exec := a.opts.executor
	if exec == nil {
		pool := NewWorkerPool(a.opts.workers)
		// Shut down exactly once, whatever happens below.
		defer pool.Close()
		exec = pool
	}

	var wg sync.WaitGroup
	for i, u := range units {
		wg.Add(1)
		exec.Submit(func() {
			defer wg.Done()
			outcomes[i] = a.analyzeUnit(ctx, u, semantic, logger)
		})
	}
	wg.Wait()
}

// analyzeUnit applies rules to one unit inside a failure boundary.
func (a *Analyzer) analyzeUnit(ctx context.Context, u *SourceUnit, semantic SemanticContext, logger *slog.Logger) (out unitOutcome) {
	ctx, span := startUnitSpan(ctx, u.Path)
	for _, o := range a.opts.observers {
		o.OnProcess(ctx, u)
	}

	var runErr error
	defer func() {
		endUnitSpan(span, out.count, runErr)
		recordUnitMetrics(ctx, out.count, out.failed)
		for _, o := range a.opts.observers {
			o.OnProcessComplete(ctx, u, out.count, runErr)
		}
	}()

	findings, err := a.runRules(ctx, u, semantic, logger)
	if err != nil {
		runErr = err
		var orphan *OrphanFindingError
		if errors.As(err, &orphan) {
			out.abort = err
			return out
		}
		logger.Error("unit analysis failed",
			slog.String("path", u.Path),
			slog.Any("error", err))
		out.failed = true
		out.notifications = append(out.notifications, Notification{
			Kind:    NotificationFailure,
			Path:    u.Path,
			Message: err.Error(),
			Err:     err,
		})
		return out
	}

	out.findings = findings
	for _, fs := range findings {
		out.count += len(fs)
	}

	if a.opts.autoCorrect {
		if n, ok := a.persist(ctx, u, logger); ok {
			out.corrected = n.Kind == NotificationCorrected
			out.failed = n.Kind == NotificationFailure
			out.notifications = append(out.notifications, n)
			if out.failed {
				runErr = n.Err
			}
		}
	}
	return out
}

// persist writes a corrected unit back. It reports false when nothing changed.
func (a *Analyzer) persist(ctx context.Context, u *SourceUnit, logger *slog.Logger) (Notification, bool) {
	changed, err := u.Changed()
	if err != nil {
		return Notification{Kind: NotificationFailure, Path: u.Path, Message: err.Error(), Err: err}, true
	}
	if !changed {
		return Notification{}, false
	}
	if a.opts.writer == nil {
		return Notification{Kind: NotificationCorrected, Path: u.Path, Message: "corrected in memory"}, true
	}
	if err := a.opts.writer.WriteFile(ctx, u.Path, u.Content()); err != nil {
		err = &UnitError{Path: u.Path, Err: fmt.Errorf("write corrected content: %w", err)}
		logger.Error("writing corrected unit failed", slog.String("path", u.Path), slog.Any("error", err))
		return Notification{Kind: NotificationFailure, Path: u.Path, Message: err.Error(), Err: err}, true
	}
	logger.Info("unit corrected", slog.String("path", u.Path))
	return Notification{Kind: NotificationCorrected, Path: u.Path, Message: "corrected"}, true
}

// runRules executes the applicable rules, correctable ones first, and routes findings
// to their rule sets. Rule panics are recovered into errors.
func (a *Analyzer) runRules(ctx context.Context, u *SourceUnit, semantic SemanticContext, logger *slog.Logger) (perSet map[string][]Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			perSet = nil
			err = &UnitError{Path: u.Path, Err: &panicError{value: r}}
		}
	}()

	filterPath := relativeTo(a.opts.baseDir, u.Path)
	setAllowed := make(map[string]bool, len(a.ruleSetFilters))
	for id, f := range a.ruleSetFilters {
		setAllowed[id] = f.allows(filterPath)
	}
	applies := func(ruleID string) bool {
		return setAllowed[a.owners[ruleID]] && a.ruleFilters[ruleID].allows(filterPath)
	}

	base := Pass{
		Context:     ctx,
		Unit:        u,
		Semantic:    semantic,
		Logger:      logger,
		AutoCorrect: a.opts.autoCorrect,
		applies:     applies,
	}

	var correctable, other []entry
	for _, e := range a.entries {
		switch {
		case e.composite != nil:
			if !setAllowed[e.ruleSetID] {
				continue
			}
			if e.composite.correctableFor(&base) {
				correctable = append(correctable, e)
			} else {
				other = append(other, e)
			}
		default:
			if !applies(e.desc.RuleID) || (e.rule.RequiresTypeInfo() && semantic == nil) {
				continue
			}
			if e.rule.Correctable() {
				correctable = append(correctable, e)
			} else {
				other = append(other, e)
			}
		}
	}

	perSet = make(map[string][]Finding)
	for _, e := range append(correctable, other...) {
		pass := base
		pass.RuleSetID = e.ruleSetID
		pass.RuleID = e.rule.ID()
		if e.desc != nil {
			pass.RuleID = e.desc.RuleID
			pass.Severity = e.desc.Severity
			pass.URL = e.desc.URL
			pass.Config = e.desc.Config
		} else {
			pass.Config = config.Empty()
		}

		fs, err := e.rule.Check(&pass)
		if err != nil {
			var ue *UnitError
			if !errors.As(err, &ue) {
				err = &UnitError{Path: u.Path, RuleID: pass.RuleID, Err: err}
			}
			return nil, err
		}
		for _, f := range fs {
			rsID, ok := a.owners[f.RuleID]
			if !ok {
				return nil, &OrphanFindingError{RuleID: f.RuleID, Path: u.Path}
			}
			if f.Path == "" {
				f.Path = u.Path
			}
			perSet[rsID] = append(perSet[rsID], f)
		}
	}
	return perSet, nil
}
