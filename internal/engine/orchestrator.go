package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/BackCheck/internal/model"
)

// Stage identifies one step of the detection pipeline.
type Stage string

const (
	StageWalls    Stage = "walls"
	StageDoors    Stage = "doors"
	StageClashes  Stage = "clashes"
	StageOptimize Stage = "optimize"
)

// StageStatus is the lifecycle state of a pipeline stage.
type StageStatus string

const (
	StatusIdle      StageStatus = "idle"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
)

// StageState records the outcome of the most recent run of a stage.
type StageState struct {
	Status   StageStatus `json:"status"`
	Progress int         `json:"progress"` // 0-100, monotonic while running
	Message  string      `json:"message,omitempty"`
}

// ProgressFunc receives progress updates as a stage runs. Percent is
// monotonically increasing within a stage.
type ProgressFunc func(stage Stage, percent int)

// WallDetector produces wall segments for a drawing. Image-based wall
// extraction lives behind this boundary; the engine only consumes the
// resulting segments. The DXF importer satisfies this via a closure.
type WallDetector func(ctx context.Context) ([]model.WallSegment, error)

// Analyzer sequences the detection stages over a caller-supplied input
// snapshot, surfacing progress and cooperative cancellation. It holds
// no detection results itself: each Run method hands its output back
// to the caller, and stage state only tracks lifecycle for the UI.
// A failed stage stays failed until the caller re-invokes it; there is
// no automatic retry.
type Analyzer struct {
	Settings model.AnalysisSettings
	Progress ProgressFunc

	states map[Stage]*StageState
}

// NewAnalyzer creates an analyzer with all stages idle. progress may
// be nil.
func NewAnalyzer(settings model.AnalysisSettings, progress ProgressFunc) *Analyzer {
	states := make(map[Stage]*StageState)
	for _, s := range []Stage{StageWalls, StageDoors, StageClashes, StageOptimize} {
		states[s] = &StageState{Status: StatusIdle}
	}
	return &Analyzer{Settings: settings, Progress: progress, states: states}
}

// State returns the recorded state of a stage.
func (a *Analyzer) State(stage Stage) StageState {
	if s, ok := a.states[stage]; ok {
		return *s
	}
	return StageState{Status: StatusIdle}
}

// report clamps progress to be monotonic within the running stage and
// forwards it to the caller's callback.
func (a *Analyzer) report(stage Stage, percent int) {
	st := a.states[stage]
	if percent < st.Progress {
		percent = st.Progress
	}
	if percent > 100 {
		percent = 100
	}
	st.Progress = percent
	if a.Progress != nil {
		a.Progress(stage, percent)
	}
}

func (a *Analyzer) begin(stage Stage) {
	st := a.states[stage]
	st.Status = StatusRunning
	st.Progress = 0
	st.Message = ""
}

func (a *Analyzer) finish(stage Stage, err error) error {
	st := a.states[stage]
	if err != nil {
		st.Status = StatusFailed
		st.Message = err.Error()
		return fmt.Errorf("%s stage: %w", stage, err)
	}
	st.Status = StatusCompleted
	a.report(stage, 100)
	return nil
}

// RunWalls executes the wall detection stage through the supplied
// detector collaborator.
func (a *Analyzer) RunWalls(ctx context.Context, detect WallDetector) ([]model.WallSegment, error) {
	a.begin(StageWalls)
	a.report(StageWalls, 0)

	if detect == nil {
		return nil, a.finish(StageWalls, fmt.Errorf("no wall detector configured"))
	}
	walls, err := detect(ctx)
	if err != nil {
		return nil, a.finish(StageWalls, err)
	}
	return walls, a.finish(StageWalls, nil)
}

// RunDoors executes door/opening detection. Requires walls from a
// prior wall detection run.
func (a *Analyzer) RunDoors(ctx context.Context, walls []model.WallSegment) ([]model.DoorOpening, error) {
	a.begin(StageDoors)
	doors, err := DetectDoorsCtx(ctx, walls, a.Settings.Doors, func(pct int) {
		a.report(StageDoors, pct)
	})
	if err != nil {
		return nil, a.finish(StageDoors, err)
	}
	return doors, a.finish(StageDoors, nil)
}

// RunClashes executes clash detection over the supplied snapshot.
// Walls may be empty; wall-dependent rules then have nothing to flag.
func (a *Analyzer) RunClashes(ctx context.Context, backings []model.BackingPlacement, walls []model.WallSegment) ([]model.Clash, error) {
	a.begin(StageClashes)
	clashes, err := DetectClashesCtx(ctx, backings, walls, a.Settings.Clash, func(pct int) {
		a.report(StageClashes, pct)
	})
	if err != nil {
		return nil, a.finish(StageClashes, err)
	}
	return clashes, a.finish(StageClashes, nil)
}

// RunOptimize executes zone optimization over the supplied backings.
func (a *Analyzer) RunOptimize(ctx context.Context, backings []model.BackingPlacement) ([]model.BackingZone, error) {
	a.begin(StageOptimize)
	zones, err := OptimizeBackingsCtx(ctx, backings, a.Settings.Optimize, func(pct int) {
		a.report(StageOptimize, pct)
	})
	if err != nil {
		return nil, a.finish(StageOptimize, err)
	}
	return zones, a.finish(StageOptimize, nil)
}

// RunAll sequences walls, doors, clashes, and optimization, merging
// each stage's output into a DetectionResults envelope. detect may be
// nil when walls are already known; pass them via the walls argument
// instead. The first stage failure stops the pipeline.
func (a *Analyzer) RunAll(ctx context.Context, detect WallDetector, walls []model.WallSegment, backings []model.BackingPlacement) (DetectionResults, error) {
	var results DetectionResults

	if detect != nil {
		detected, err := a.RunWalls(ctx, detect)
		if err != nil {
			return results, err
		}
		walls = detected
	}
	results.Merge(WallsResult(walls))

	doors, err := a.RunDoors(ctx, walls)
	if err != nil {
		return results, err
	}
	results.Merge(DoorsResult(doors))

	clashes, err := a.RunClashes(ctx, backings, walls)
	if err != nil {
		return results, err
	}
	results.Merge(ConflictsResult(clashes))

	zones, err := a.RunOptimize(ctx, backings)
	if err != nil {
		return results, err
	}
	results.Merge(OptimizationResult(zones))

	return results, nil
}
