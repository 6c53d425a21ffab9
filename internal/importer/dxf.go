package importer

import (
	"context"
	"fmt"
	"math"

	"github.com/piwi3910/BackCheck/internal/engine"
	"github.com/piwi3910/BackCheck/internal/geometry"
	"github.com/piwi3910/BackCheck/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// WallImportResult holds the results of a wall plan import.
type WallImportResult struct {
	Walls    []model.WallSegment
	Errors   []string
	Warnings []string
}

// Wall segments shorter than this are treated as drawing noise.
const minWallLength = 12.0 // inches

// defaultWallThickness is a 2x4 stud wall with drywall both sides.
const defaultWallThickness = 4.5 // inches

// ImportWallsDXF imports wall segments from a DXF floor plan. LINE
// entities become interior wall segments; closed LWPOLYLINE loops are
// decomposed edge by edge into exterior walls. Openings are not
// recoverable from bare line work and must be added to the wall
// segments afterwards.
func ImportWallsDXF(path string) WallImportResult {
	result := WallImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skippedShort := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			start := geometry.Point{X: e.Start[0], Y: e.Start[1]}
			end := geometry.Point{X: e.End[0], Y: e.End[1]}
			if geometry.Distance(start, end) < minWallLength {
				skippedShort++
				continue
			}
			result.Walls = append(result.Walls,
				model.NewWallSegment(start, end, defaultWallThickness, model.WallInterior))

		case *entity.LwPolyline:
			segments, short := polylineToWalls(e)
			skippedShort += short
			result.Walls = append(result.Walls, segments...)

		default:
			// Unsupported entity types are silently skipped
		}
	}

	if skippedShort > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d segments shorter than %.0f in", skippedShort, minWallLength))
	}
	if len(result.Walls) == 0 {
		result.Errors = append(result.Errors, "No wall segments found in DXF file")
	}

	return result
}

// polylineToWalls decomposes an LWPOLYLINE into wall segments between
// consecutive vertices. Loops are treated as exterior walls; a loop is
// either flagged closed (group code 70) or drawn with its first vertex
// repeated at the end, depending on the exporter.
func polylineToWalls(lw *entity.LwPolyline) ([]model.WallSegment, int) {
	verts := lw.Vertices
	n := len(verts)
	if n < 2 {
		return nil, 0
	}

	closed := lw.Closed
	first := geometry.Point{X: verts[0][0], Y: verts[0][1]}
	last := geometry.Point{X: verts[n-1][0], Y: verts[n-1][1]}
	if n > 2 && geometry.Distance(first, last) < 0.01 {
		closed = true
		verts = verts[:n-1]
		n--
	}

	wallType := model.WallInterior
	edges := n - 1
	if closed && n > 2 {
		wallType = model.WallExterior
		edges = n
	}

	var walls []model.WallSegment
	short := 0
	for i := 0; i < edges; i++ {
		v := verts[i]
		next := verts[(i+1)%n]
		start := geometry.Point{X: v[0], Y: v[1]}
		end := geometry.Point{X: next[0], Y: next[1]}

		if geometry.Distance(start, end) < minWallLength {
			short++
			continue
		}
		walls = append(walls, model.NewWallSegment(start, end, defaultWallThickness, wallType))
	}
	return walls, short
}

// DXFWallDetector adapts a DXF file into the orchestrator's wall
// detector boundary.
func DXFWallDetector(path string) engine.WallDetector {
	return func(ctx context.Context) ([]model.WallSegment, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := ImportWallsDXF(path)
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("wall import failed: %s", result.Errors[0])
		}
		return result.Walls, nil
	}
}

// SnapOrthogonal straightens near-axis-aligned wall segments so the
// axis-aligned clash geometry holds. Segments within tolerance degrees
// of an axis are snapped; others are left alone and reported.
func SnapOrthogonal(walls []model.WallSegment, toleranceDeg float64) ([]model.WallSegment, []string) {
	var warnings []string
	out := make([]model.WallSegment, len(walls))

	for i, w := range walls {
		out[i] = w
		dx := w.End.X - w.Start.X
		dy := w.End.Y - w.Start.Y
		if dx == 0 || dy == 0 {
			continue
		}

		angle := math.Abs(math.Atan2(dy, dx)) * 180 / math.Pi
		// Distance from the nearest axis (0, 90, or 180 degrees).
		offAxis := math.Min(math.Min(angle, math.Abs(angle-90)), math.Abs(angle-180))

		if offAxis > toleranceDeg {
			warnings = append(warnings,
				fmt.Sprintf("Wall %s is %.1f degrees off axis; clash geometry uses its bounding band", w.ID, offAxis))
			continue
		}

		if math.Abs(dx) >= math.Abs(dy) {
			out[i].End.Y = w.Start.Y
		} else {
			out[i].End.X = w.Start.X
		}
	}
	return out, warnings
}
