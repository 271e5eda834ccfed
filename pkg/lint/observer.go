package lint

import "context"

// Observer receives lifecycle events of a run.
// In parallel mode the per-unit hooks are called concurrently.
type Observer interface {
	// OnStart is called once before any unit is analyzed.
	OnStart(ctx context.Context, units []*SourceUnit)
	// OnProcess is called before a unit is analyzed.
	OnProcess(ctx context.Context, unit *SourceUnit)
	// OnProcessComplete is called after a unit is analyzed, even when analysis failed.
	OnProcessComplete(ctx context.Context, unit *SourceUnit, findings int, err error)
	// OnFinish is called once after all units, with the aggregated result.
	OnFinish(ctx context.Context, units []*SourceUnit, result *Result)
}

// BaseObserver implements Observer with no-ops, for embedding.
type BaseObserver struct{}

func (BaseObserver) OnStart(context.Context, []*SourceUnit)                     {}
func (BaseObserver) OnProcess(context.Context, *SourceUnit)                     {}
func (BaseObserver) OnProcessComplete(context.Context, *SourceUnit, int, error) {}
func (BaseObserver) OnFinish(context.Context, []*SourceUnit, *Result)           {}
