package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// ErrFindings is returned when a run reports findings or failures, so the process exits non-zero.
var ErrFindings = errors.New("findings reported")

// reportedFinding pairs a finding with the rule set that produced it.
type reportedFinding struct {
	RuleSet string
	lint.Finding
}

// sortedFindings flattens a result and orders it by path and position.
func sortedFindings(res *lint.Result) []reportedFinding {
	var out []reportedFinding
	for _, id := range res.RuleSetIDs() {
		for _, f := range res.FindingsFor(id) {
			out = append(out, reportedFinding{RuleSet: id, Finding: f})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		return a.Pos.Column < b.Pos.Column
	})
	return out
}

// renderResult prints a result and returns ErrFindings when anything was reported.
func renderResult(r *output.Renderer, res *lint.Result) error {
	failures := res.Failures()
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return exitStatus(res.Count(), len(failures))
	}

	findings := sortedFindings(res)
	if len(findings) == 0 && len(failures) == 0 {
		r.Success(fmt.Sprintf("No findings in %d units", res.Metrics.Get(lint.MetricUnits)))
		return nil
	}

	styles := r.Styles()
	lastPath := ""
	for i, f := range findings {
		if f.Path != lastPath {
			if i > 0 {
				r.Println("")
			}
			r.Println(styles.Path.Render(f.Path))
			lastPath = f.Path
		}
		loc := fmt.Sprintf("%d:%d", f.Pos.Line, f.Pos.Column)
		if f.Pos.Line == 0 {
			loc = "-"
		}
		msg := f.Message
		if f.Corrected {
			msg += " " + styles.Muted.Render("(corrected)")
		}
		r.Printf("  %s  %s  %s  %s\n",
			styles.Muted.Render(fmt.Sprintf("%-7s", loc)),
			styles.Severity(f.Severity).Render(fmt.Sprintf("%-7s", f.Severity)),
			msg,
			styles.Bold.Render(f.RuleSet+"/"+f.RuleID),
		)
	}

	if len(failures) > 0 {
		if len(findings) > 0 {
			r.Println("")
		}
		r.Println(styles.Error.Render("Failures:"))
		for _, n := range failures {
			r.Printf("  %s  %s\n", styles.Path.Render(n.Path), n.Message)
		}
	}

	r.Println("")
	r.Printf("Summary: %s\n", summarize(res, findings))
	return exitStatus(len(findings), len(failures))
}

func summarize(res *lint.Result, findings []reportedFinding) string {
	counts := make(map[core.Severity]int)
	corrected := 0
	for _, f := range findings {
		counts[f.Severity]++
		if f.Corrected {
			corrected++
		}
	}
	parts := []string{fmt.Sprintf("%d findings", len(findings))}
	for _, sev := range []core.Severity{core.SeverityError, core.SeverityWarning, core.SeverityInfo, core.SeverityHint} {
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
	}
	if corrected > 0 {
		parts = append(parts, fmt.Sprintf("%d corrected", corrected))
	}
	if failed := res.Metrics.Get(lint.MetricFailedUnits); failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return fmt.Sprintf("%s in %d units", strings.Join(parts, ", "), res.Metrics.Get(lint.MetricUnits))
}

func exitStatus(findings, failures int) error {
	if findings == 0 && failures == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d findings, %d failed units", ErrFindings, findings, failures)
}
