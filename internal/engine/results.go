package engine

import "github.com/piwi3910/BackCheck/internal/model"

// ResultKind tags a partial detection result.
type ResultKind string

const (
	ResultWalls        ResultKind = "walls"
	ResultDoors        ResultKind = "doors"
	ResultConflicts    ResultKind = "conflicts"
	ResultOptimization ResultKind = "optimization"
)

// DetectionResult is one detector's output, tagged by kind. Only the
// field matching Kind is meaningful.
type DetectionResult struct {
	Kind    ResultKind          `json:"kind"`
	Walls   []model.WallSegment `json:"walls,omitempty"`
	Doors   []model.DoorOpening `json:"doors,omitempty"`
	Clashes []model.Clash       `json:"conflicts,omitempty"`
	Zones   []model.BackingZone `json:"optimized_backings,omitempty"`
}

// WallsResult wraps a wall detector's output.
func WallsResult(walls []model.WallSegment) DetectionResult {
	return DetectionResult{Kind: ResultWalls, Walls: walls}
}

// DoorsResult wraps a door detector's output.
func DoorsResult(doors []model.DoorOpening) DetectionResult {
	return DetectionResult{Kind: ResultDoors, Doors: doors}
}

// ConflictsResult wraps the clash evaluator's output.
func ConflictsResult(clashes []model.Clash) DetectionResult {
	return DetectionResult{Kind: ResultConflicts, Clashes: clashes}
}

// OptimizationResult wraps the optimizer's output.
func OptimizationResult(zones []model.BackingZone) DetectionResult {
	return DetectionResult{Kind: ResultOptimization, Zones: zones}
}

// DetectionResults is the merged envelope the rest of the application
// consumes. Merging results of different kinds combines fields;
// merging the same kind twice replaces the prior value (last write
// wins); there is no incremental merge.
type DetectionResults struct {
	Walls   []model.WallSegment `json:"walls,omitempty"`
	Doors   []model.DoorOpening `json:"doors,omitempty"`
	Clashes []model.Clash       `json:"conflicts,omitempty"`
	Zones   []model.BackingZone `json:"optimized_backings,omitempty"`
}

// Merge folds a partial result into the envelope.
func (r *DetectionResults) Merge(partial DetectionResult) {
	switch partial.Kind {
	case ResultWalls:
		r.Walls = partial.Walls
	case ResultDoors:
		r.Doors = partial.Doors
	case ResultConflicts:
		r.Clashes = partial.Clashes
	case ResultOptimization:
		r.Zones = partial.Zones
	}
}

// ReadyForInstall reports whether the drawing can be signed off:
// no error-severity clashes remain. Warnings are advisory and do not
// block sign-off.
func (r DetectionResults) ReadyForInstall() bool {
	return !HasBlockingClashes(r.Clashes)
}
