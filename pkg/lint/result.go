package lint

import (
	"encoding/json"
	"sort"
	"sync"
)

// Metric names one slot of a result's metric bag.
type Metric int

// Metric slots.
const (
	MetricUnits Metric = iota
	MetricLines
	MetricFindings
	MetricCorrectedUnits
	MetricFailedUnits
	MetricDurationMillis
	metricCount
)

var metricNames = [metricCount]string{
	MetricUnits:          "units",
	MetricLines:          "lines",
	MetricFindings:       "findings",
	MetricCorrectedUnits: "corrected_units",
	MetricFailedUnits:    "failed_units",
	MetricDurationMillis: "duration_ms",
}

// String returns the metric's name.
func (m Metric) String() string {
	if m < 0 || m >= metricCount {
		return "unknown"
	}
	return metricNames[m]
}

// Metrics is a closed set of counters attached to a result.
// It is safe for concurrent use by observers.
type Metrics struct {
	mu     sync.Mutex
	values [metricCount]int64
}

// Add increments a metric.
func (m *Metrics) Add(metric Metric, delta int64) {
	if metric < 0 || metric >= metricCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[metric] += delta
}

// Set overwrites a metric.
func (m *Metrics) Set(metric Metric, value int64) {
	if metric < 0 || metric >= metricCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[metric] = value
}

// Get returns a metric's current value.
func (m *Metrics) Get(metric Metric) int64 {
	if metric < 0 || metric >= metricCount {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[metric]
}

// Snapshot returns every metric keyed by name.
func (m *Metrics) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, metricCount)
	for i, v := range m.values {
		out[metricNames[i]] = v
	}
	return out
}

// NotificationKind classifies a notification.
type NotificationKind int

// Notification kinds.
const (
	// NotificationCorrected means a unit was rewritten by auto-correct.
	NotificationCorrected NotificationKind = iota
	// NotificationFailure means a unit could not be analyzed.
	NotificationFailure
)

// String returns the kind's name.
func (k NotificationKind) String() string {
	switch k {
	case NotificationCorrected:
		return "corrected"
	case NotificationFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k NotificationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Notification is a run-level message that is not a finding.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Path    string           `json:"path"`
	Message string           `json:"message"`
	Err     error            `json:"-"`
}

// Result aggregates the findings of a run.
type Result struct {
	// RunID identifies the run in logs and traces.
	RunID   string
	Metrics *Metrics

	findings map[string][]Finding // rule set id -> findings

	mu            sync.Mutex
	notifications []Notification
}

func newResult(runID string) *Result {
	return &Result{
		RunID:    runID,
		Metrics:  &Metrics{},
		findings: make(map[string][]Finding),
	}
}

// merge appends one unit's findings, keyed by rule set.
func (r *Result) merge(perUnit map[string][]Finding) {
	for rsID, fs := range perUnit {
		r.findings[rsID] = append(r.findings[rsID], fs...)
	}
}

// Findings returns a copy of the rule set id to findings mapping.
// Within each rule set, findings follow unit input order.
func (r *Result) Findings() map[string][]Finding {
	out := make(map[string][]Finding, len(r.findings))
	for id, fs := range r.findings {
		out[id] = append([]Finding(nil), fs...)
	}
	return out
}

// RuleSetIDs returns the ids of rule sets with findings, sorted.
func (r *Result) RuleSetIDs() []string {
	ids := make([]string, 0, len(r.findings))
	for id := range r.findings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindingsFor returns the findings of one rule set.
func (r *Result) FindingsFor(ruleSetID string) []Finding {
	return append([]Finding(nil), r.findings[ruleSetID]...)
}

// All returns every finding, grouped by sorted rule set id.
func (r *Result) All() []Finding {
	var out []Finding
	for _, id := range r.RuleSetIDs() {
		out = append(out, r.findings[id]...)
	}
	return out
}

// Count returns the total number of findings.
func (r *Result) Count() int {
	n := 0
	for _, fs := range r.findings {
		n += len(fs)
	}
	return n
}

// AddNotification records a notification. Safe for concurrent use.
func (r *Result) AddNotification(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// Notifications returns the recorded notifications.
func (r *Result) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Failures returns the failure notifications.
func (r *Result) Failures() []Notification {
	var out []Notification
	for _, n := range r.Notifications() {
		if n.Kind == NotificationFailure {
			out = append(out, n)
		}
	}
	return out
}

// MarshalJSON renders the result for machine consumption.
func (r *Result) MarshalJSON() ([]byte, error) {
	findings := r.Findings()
	for _, id := range r.RuleSetIDs() {
		if findings[id] == nil {
			findings[id] = []Finding{}
		}
	}
	return json.Marshal(struct {
		RunID         string               `json:"run_id"`
		Findings      map[string][]Finding `json:"findings"`
		Metrics       map[string]int64     `json:"metrics"`
		Notifications []Notification       `json:"notifications"`
	}{
		RunID:         r.RunID,
		Findings:      findings,
		Metrics:       r.Metrics.Snapshot(),
		Notifications: r.Notifications(),
	})
}
