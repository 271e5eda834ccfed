package lint

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_MergeKeepsUnitOrder(t *testing.T) {
	r := newResult("run")
	r.merge(map[string][]Finding{"b": {{RuleID: "B1", Path: "u1"}}, "a": {{RuleID: "A1", Path: "u1"}}})
	r.merge(map[string][]Finding{"a": {{RuleID: "A1", Path: "u2"}, {RuleID: "A2", Path: "u2"}}})

	assert.Equal(t, []string{"a", "b"}, r.RuleSetIDs())
	assert.Equal(t, 4, r.Count())

	a := r.FindingsFor("a")
	require.Len(t, a, 3)
	assert.Equal(t, []string{"u1", "u2", "u2"}, []string{a[0].Path, a[1].Path, a[2].Path})
	assert.Equal(t, "B1", r.All()[3].RuleID)
}

func TestResult_FindingsIsACopy(t *testing.T) {
	r := newResult("run")
	r.merge(map[string][]Finding{"a": {{RuleID: "A1"}}})

	m := r.Findings()
	m["a"][0].RuleID = "changed"
	m["b"] = nil
	assert.Equal(t, "A1", r.FindingsFor("a")[0].RuleID)
	assert.Equal(t, []string{"a"}, r.RuleSetIDs())
}

func TestResult_Notifications(t *testing.T) {
	r := newResult("run")
	r.AddNotification(Notification{Kind: NotificationCorrected, Path: "a"})
	r.AddNotification(Notification{Kind: NotificationFailure, Path: "b", Err: errors.New("x")})

	assert.Len(t, r.Notifications(), 2)
	require.Len(t, r.Failures(), 1)
	assert.Equal(t, "b", r.Failures()[0].Path)
	assert.Equal(t, "failure", NotificationFailure.String())
}

func TestMetrics(t *testing.T) {
	var m Metrics
	m.Add(MetricUnits, 2)
	m.Add(MetricUnits, 3)
	m.Set(MetricLines, 40)
	m.Add(Metric(99), 1)

	assert.Equal(t, int64(5), m.Get(MetricUnits))
	assert.Equal(t, int64(40), m.Get(MetricLines))
	assert.Equal(t, int64(0), m.Get(Metric(99)))
	assert.Equal(t, "corrected_units", MetricCorrectedUnits.String())

	snap := m.Snapshot()
	assert.Len(t, snap, int(metricCount))
	assert.Equal(t, int64(5), snap["units"])
}

func TestResult_MarshalJSON(t *testing.T) {
	r := newResult("run-1")
	r.merge(map[string][]Finding{"style": {{RuleID: "MaxLineLength", Message: "too long", Path: "a.go"}}})
	r.AddNotification(Notification{Kind: NotificationCorrected, Path: "a.go", Message: "corrected"})
	r.Metrics.Set(MetricUnits, 1)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded struct {
		RunID         string                      `json:"run_id"`
		Findings      map[string][]map[string]any `json:"findings"`
		Metrics       map[string]int64            `json:"metrics"`
		Notifications []map[string]any            `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, "too long", decoded.Findings["style"][0]["message"])
	assert.Equal(t, "error", decoded.Findings["style"][0]["severity"])
	assert.Equal(t, int64(1), decoded.Metrics["units"])
	assert.Equal(t, "corrected", decoded.Notifications[0]["kind"])
}
