package observers

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// PrometheusObserver exports run statistics as Prometheus metrics.
type PrometheusObserver struct {
	lint.BaseObserver

	unitsTotal     *prometheus.CounterVec
	findingsTotal  *prometheus.CounterVec
	correctedTotal prometheus.Counter
	runDuration    prometheus.Histogram
	lastRunLines   prometheus.Gauge
}

var _ lint.Observer = (*PrometheusObserver)(nil)

// NewPrometheusObserver registers the metrics on reg.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	factory := promauto.With(reg)
	return &PrometheusObserver{
		// unitsTotal counts analyzed units by outcome
		unitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leaplint_units_total",
			Help: "Total analyzed units by result",
		}, []string{"result"}),

		// findingsTotal counts findings by rule set
		findingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leaplint_findings_total",
			Help: "Total findings by rule set",
		}, []string{"rule_set"}),

		correctedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaplint_corrected_units_total",
			Help: "Total units rewritten by auto-correct",
		}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "leaplint_run_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),

		lastRunLines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "leaplint_last_run_lines",
			Help: "Lines analyzed by the most recent run",
		}),
	}
}

// OnProcessComplete counts the unit.
func (o *PrometheusObserver) OnProcessComplete(_ context.Context, _ *lint.SourceUnit, _ int, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	o.unitsTotal.WithLabelValues(result).Inc()
}

// OnFinish exports the aggregated result. Lines are counted from units so the
// gauge does not depend on observer order.
func (o *PrometheusObserver) OnFinish(_ context.Context, units []*lint.SourceUnit, result *lint.Result) {
	for _, id := range result.RuleSetIDs() {
		o.findingsTotal.WithLabelValues(id).Add(float64(len(result.FindingsFor(id))))
	}
	o.correctedTotal.Add(float64(result.Metrics.Get(lint.MetricCorrectedUnits)))
	o.runDuration.Observe((time.Duration(result.Metrics.Get(lint.MetricDurationMillis)) * time.Millisecond).Seconds())
	var lines int
	for _, u := range units {
		lines += u.Tree.LineCount()
	}
	o.lastRunLines.Set(float64(lines))
}
