package observers_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/telemetry"
	"github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/observers"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

var perWord = lint.RuleDef{
	Name: "PerWord",
	Check: func(p *lint.Pass) ([]lint.Finding, error) {
		if p.Path() == "broken.txt" {
			return nil, errors.New("broken")
		}
		var out []lint.Finding
		for _, leaf := range p.Tree().Leaves() {
			if p.Tree().Kind(leaf) == syntax.KindWord {
				out = append(out, p.NewFinding(leaf, "word"))
			}
		}
		return out, nil
	},
}

func run(t *testing.T, obs ...lint.Observer) *lint.Result {
	t.Helper()
	p := lint.StaticProvider("words", func(rs *lint.RuleSet) { rs.AddDefs(perWord) })
	cfg := config.New(map[string]any{"words": map[string]any{"PerWord": map[string]any{"active": true}}})
	descs, err := lint.Resolve([]lint.RuleSetProvider{p}, cfg, false, nil)
	require.NoError(t, err)

	a, err := lint.NewAnalyzer(descs, lint.WithObservers(obs...), lint.WithParallel(true))
	require.NoError(t, err)

	var units []*lint.SourceUnit
	for path, text := range map[string]string{
		"a.txt":      "one two\nthree\n",
		"b.txt":      "four\n",
		"broken.txt": "x\n",
	} {
		u, err := lint.NewSourceUnit(path, syntax.BuildTextTree(text), syntax.LF)
		require.NoError(t, err)
		units = append(units, u)
	}
	res, err := a.Analyze(context.Background(), units, nil)
	require.NoError(t, err)
	return res
}

func TestSizeObserver(t *testing.T) {
	res := run(t, observers.SizeObserver{})
	assert.Equal(t, int64(3), res.Metrics.Get(lint.MetricUnits))
	assert.Equal(t, int64(4), res.Metrics.Get(lint.MetricLines))
	assert.Equal(t, int64(4), res.Metrics.Get(lint.MetricFindings))
}

func TestProgressObserver(t *testing.T) {
	var (
		mu      sync.Mutex
		updates []int64
	)
	progress := observers.NewProgressObserver(func(done, total int64) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, int64(3), total)
		updates = append(updates, done)
	})
	run(t, progress)

	assert.Equal(t, int64(3), progress.Completed())
	assert.Equal(t, int64(1), progress.Failed())
	assert.ElementsMatch(t, []int64{1, 2, 3}, updates)
}

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom := observers.NewPrometheusObserver(reg)
	run(t, observers.SizeObserver{}, prom)

	count, err := testutil.GatherAndCount(reg,
		"leaplint_units_total",
		"leaplint_findings_total",
		"leaplint_corrected_units_total",
		"leaplint_run_duration_seconds",
		"leaplint_last_run_lines",
	)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	metrics, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range metrics {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["leaplint_units_total/success"])
	assert.Equal(t, 1.0, values["leaplint_units_total/failure"])
	assert.Equal(t, 4.0, values["leaplint_findings_total/words"])
	assert.Equal(t, 4.0, values["leaplint_last_run_lines"])
}

func TestPrometheusObserver_LinesWithoutSizeObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom := observers.NewPrometheusObserver(reg)
	// Registered ahead of SizeObserver, which fills the result's line count.
	run(t, prom, observers.SizeObserver{})

	metrics, err := reg.Gather()
	require.NoError(t, err)
	var lines float64
	for _, mf := range metrics {
		if mf.GetName() == "leaplint_last_run_lines" {
			lines = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, 4.0, lines)
}

func TestPrometheusObserver_SharedRegistryWithTelemetry(t *testing.T) {
	reg := prometheus.NewRegistry()
	shutdown, err := telemetry.Init(context.Background(), telemetry.Config{
		MetricExporter: telemetry.ExporterPrometheus,
		Registerer:     reg,
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	run(t, observers.SizeObserver{}, observers.NewPrometheusObserver(reg))

	metrics, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range metrics {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "leaplint_findings_total")
	assert.Contains(t, joined, "leaplint_run_duration_seconds")
	assert.Contains(t, joined, "leaplint_engine_findings_total")
	assert.Contains(t, joined, "leaplint_engine_run_duration_seconds")
}
