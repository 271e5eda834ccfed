// Package observers provides lint.Observer implementations that export run statistics.
package observers

import (
	"context"
	"sync/atomic"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// SizeObserver fills the size slots of a result's metric bag: units and lines.
type SizeObserver struct {
	lint.BaseObserver
}

var _ lint.Observer = SizeObserver{}

// OnFinish records how many units and lines were analyzed.
func (SizeObserver) OnFinish(_ context.Context, units []*lint.SourceUnit, result *lint.Result) {
	var lines int64
	for _, u := range units {
		lines += int64(u.Tree.LineCount())
	}
	result.Metrics.Set(lint.MetricUnits, int64(len(units)))
	result.Metrics.Set(lint.MetricLines, lines)
}

// ProgressObserver counts completed units while a run is in flight.
// It is safe for concurrent use.
type ProgressObserver struct {
	lint.BaseObserver

	total     atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	onUpdate  func(completed, total int64)
}

// NewProgressObserver returns an observer calling onUpdate after each unit.
// onUpdate may be nil and must be safe for concurrent use.
func NewProgressObserver(onUpdate func(completed, total int64)) *ProgressObserver {
	return &ProgressObserver{onUpdate: onUpdate}
}

// OnStart resets the counters.
func (p *ProgressObserver) OnStart(_ context.Context, units []*lint.SourceUnit) {
	p.total.Store(int64(len(units)))
	p.completed.Store(0)
	p.failed.Store(0)
}

// OnProcessComplete advances progress.
func (p *ProgressObserver) OnProcessComplete(_ context.Context, _ *lint.SourceUnit, _ int, err error) {
	if err != nil {
		p.failed.Add(1)
	}
	done := p.completed.Add(1)
	if p.onUpdate != nil {
		p.onUpdate(done, p.total.Load())
	}
}

// Completed returns the number of units finished so far.
func (p *ProgressObserver) Completed() int64 { return p.completed.Load() }

// Failed returns the number of units that failed so far.
func (p *ProgressObserver) Failed() int64 { return p.failed.Load() }
