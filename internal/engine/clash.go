// Package engine implements the backing clash detection and placement
// optimization core: rule-based conflict checks between backings, walls,
// and openings, plus spatial clustering of backings into install zones.
//
// All entry points are pure functions over their inputs: no internal
// state is retained between calls and inputs are never mutated.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/BackCheck/internal/geometry"
	"github.com/piwi3910/BackCheck/internal/model"
)

// DetectClashes runs every clash rule over the backing set and returns
// the union of the results. Detection is best-effort: a malformed
// backing is reported as an error-severity clash and skipped, never
// aborting the pass. Output is deterministic for a given input order.
func DetectClashes(backings []model.BackingPlacement, walls []model.WallSegment, settings model.ClashSettings) []model.Clash {
	clashes, _ := DetectClashesCtx(context.Background(), backings, walls, settings, nil)
	return clashes
}

// DetectClashesCtx is DetectClashes with cooperative cancellation and
// progress reporting. The context is checked between rule passes;
// progress (0-100) fires after each pass completes.
func DetectClashesCtx(ctx context.Context, backings []model.BackingPlacement, walls []model.WallSegment, settings model.ClashSettings, progress func(int)) ([]model.Clash, error) {
	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}

	valid, clashes := screenBackings(backings)
	report(20)

	passes := []func() []model.Clash{
		func() []model.Clash { return overlapClashes(valid) },
		func() []model.Clash { return doorClearanceClashes(valid, walls, settings) },
		func() []model.Clash { return spacingClashes(valid, settings) },
		func() []model.Clash { return structuralClashes(valid, walls) },
	}

	for i, pass := range passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clashes = append(clashes, pass()...)
		report(20 + (i+1)*20)
	}

	// Ids are assigned last so they are stable for identical inputs.
	for i := range clashes {
		clashes[i].ID = fmt.Sprintf("clash-%d", i+1)
	}
	return clashes, nil
}

// screenBackings separates analyzable backings from malformed ones.
// Each malformed backing yields one error clash referencing its id.
func screenBackings(backings []model.BackingPlacement) ([]model.BackingPlacement, []model.Clash) {
	valid := make([]model.BackingPlacement, 0, len(backings))
	var clashes []model.Clash

	for _, b := range backings {
		if problem := b.Validate(); problem != "" {
			clashes = append(clashes, model.Clash{
				Type:       model.ClashStructural,
				Severity:   model.SeverityError,
				Items:      []string{b.ID},
				Resolution: fmt.Sprintf("Backing %s has invalid geometry: %s", b.ID, problem),
			})
			continue
		}
		valid = append(valid, b)
	}
	return valid, clashes
}

// overlapClashes reports every unordered pair of backings whose
// plan-view footprints overlap. Overlapping blocking is always
// structurally invalid, so these are errors.
func overlapClashes(backings []model.BackingPlacement) []model.Clash {
	var clashes []model.Clash

	for i := 0; i < len(backings); i++ {
		for j := i + 1; j < len(backings); j++ {
			a, b := backings[i], backings[j]
			if !geometry.Overlaps(a.Rect(), b.Rect()) {
				continue
			}
			clashes = append(clashes, model.Clash{
				Type:       model.ClashBackingOverlap,
				Severity:   model.SeverityError,
				Items:      []string{a.ID, b.ID},
				Resolution: overlapResolution(a, b),
			})
		}
	}
	return clashes
}

// overlapResolution suggests moving the later-placed backing by the
// minimum translation vector that clears the overlap.
func overlapResolution(a, b model.BackingPlacement) string {
	mtv := geometry.MinTranslation(a.Rect(), b.Rect())
	switch {
	case mtv.X != 0:
		return fmt.Sprintf("Relocate backing %s by %.1f in along X (%s)", b.ID, math.Abs(mtv.X), signWord(mtv.X))
	case mtv.Y != 0:
		return fmt.Sprintf("Relocate backing %s by %.1f in along Y (%s)", b.ID, math.Abs(mtv.Y), signWord(mtv.Y))
	default:
		return fmt.Sprintf("Relocate backing %s to clear the overlap", b.ID)
	}
}

func signWord(v float64) string {
	if v < 0 {
		return "negative"
	}
	return "positive"
}

// doorClearanceClashes flags backings that intrude on the required
// clearance zone in front of door openings. Intruding on the clearance
// zone is a warning; sitting within the door leaf itself is an error.
// Backings mounted above the door swing height are ignored.
func doorClearanceClashes(backings []model.BackingPlacement, walls []model.WallSegment, settings model.ClashSettings) []model.Clash {
	var clashes []model.Clash

	for _, w := range walls {
		for _, o := range w.Openings {
			if o.Type != model.OpeningDoor {
				continue
			}
			leaf := w.OpeningRect(o)
			if leaf.Area() == 0 {
				continue
			}
			zones := swingZones(w, o, leaf, settings.DoorClearance)

			for _, b := range backings {
				if b.Location.Z > settings.SwingHeightMax {
					continue
				}
				br := b.Rect()

				if geometry.Overlaps(br, leaf) {
					clashes = append(clashes, model.Clash{
						Type:     model.ClashDoorClearance,
						Severity: model.SeverityError,
						Items:    []string{b.ID, w.ID},
						Resolution: fmt.Sprintf(
							"Backing %s sits within the door leaf; relocate clear of the %.0f in opening", b.ID, o.Width),
					})
					continue
				}
				for _, zone := range zones {
					if geometry.Overlaps(br, zone) {
						clashes = append(clashes, model.Clash{
							Type:     model.ClashDoorClearance,
							Severity: model.SeverityWarning,
							Items:    []string{b.ID, w.ID},
							Resolution: fmt.Sprintf(
								"Backing %s intrudes on the %.0f in door clearance zone; relocate outside it",
								b.ID, settings.DoorClearance),
						})
						break
					}
				}
			}
		}
	}
	return clashes
}

// swingZones returns the clearance rect(s) on the swing side of a door
// opening. Unknown swing direction is treated conservatively: clearance
// is required on both sides of the wall.
func swingZones(w model.WallSegment, o model.Opening, leaf geometry.Rect, clearance float64) []geometry.Rect {
	length := w.Length()
	if length == 0 || clearance <= 0 {
		return nil
	}
	ux := (w.End.X - w.Start.X) / length
	uy := (w.End.Y - w.Start.Y) / length

	// Left normal of the wall direction.
	lx, ly := uy, -ux

	left := extendRect(leaf, lx, ly, clearance)
	right := extendRect(leaf, -lx, -ly, clearance)

	switch o.Swing {
	case model.SwingLeft:
		return []geometry.Rect{left}
	case model.SwingRight:
		return []geometry.Rect{right}
	default:
		return []geometry.Rect{left, right}
	}
}

// extendRect grows r by dist in the axis-aligned direction (nx, ny).
func extendRect(r geometry.Rect, nx, ny, dist float64) geometry.Rect {
	out := r
	if nx < -0.5 {
		out.X -= dist
		out.Width += dist
	} else if nx > 0.5 {
		out.Width += dist
	}
	if ny < -0.5 {
		out.Y -= dist
		out.Height += dist
	} else if ny > 0.5 {
		out.Height += dist
	}
	return out
}

// spacingClashes flags same-material backings placed closer than the
// minimum spacing but not actually overlapping. Too-close blocking
// wastes fasteners and stud bays; it is advisory, not blocking.
func spacingClashes(backings []model.BackingPlacement, settings model.ClashSettings) []model.Clash {
	if settings.MinSpacing <= 0 {
		return nil
	}
	margin := settings.MinSpacing / 2
	var clashes []model.Clash

	for i := 0; i < len(backings); i++ {
		for j := i + 1; j < len(backings); j++ {
			a, b := backings[i], backings[j]
			if a.BackingType != b.BackingType {
				continue
			}
			ra, rb := a.Rect(), b.Rect()
			if geometry.Overlaps(ra, rb) {
				continue // already a backing_overlap error
			}
			if !geometry.Overlaps(geometry.Expand(ra, margin), geometry.Expand(rb, margin)) {
				continue
			}
			clashes = append(clashes, model.Clash{
				Type:     model.ClashSpacing,
				Severity: model.SeverityWarning,
				Items:    []string{a.ID, b.ID},
				Resolution: fmt.Sprintf(
					"Keep at least %.1f in between %s backings, or combine them into one piece",
					settings.MinSpacing, a.BackingType),
			})
		}
	}
	return clashes
}

// structuralClashes flags backings whose material rules require support
// from a structural wall that is not present under the placement. This
// is a rule-table lookup (model.MaterialSpecs), not a load calculation.
func structuralClashes(backings []model.BackingPlacement, walls []model.WallSegment) []model.Clash {
	var structuralRects []geometry.Rect
	for _, w := range walls {
		if w.Type == model.WallStructural {
			structuralRects = append(structuralRects, w.Rect())
		}
	}

	var clashes []model.Clash
	for _, b := range backings {
		spec := model.SpecFor(b.BackingType)
		span := b.Dimensions.Width
		if !spec.RequiresStructural && span <= spec.MaxSpan {
			continue
		}

		supported := false
		br := b.Rect()
		for _, sr := range structuralRects {
			if geometry.Overlaps(br, sr) {
				supported = true
				break
			}
		}
		if supported {
			continue
		}

		reason := fmt.Sprintf("%s requires a structural wall", spec.Name)
		if !spec.RequiresStructural {
			reason = fmt.Sprintf("%.0f in span exceeds the %.0f in limit for %s", span, spec.MaxSpan, spec.Name)
		}
		clashes = append(clashes, model.Clash{
			Type:       model.ClashStructural,
			Severity:   model.SeverityError,
			Items:      []string{b.ID},
			Resolution: fmt.Sprintf("%s; relocate over structural framing or reduce the span", reason),
		})
	}
	return clashes
}

// HasBlockingClashes reports whether any clash is error severity.
// Error clashes block the "ready for install" state.
func HasBlockingClashes(clashes []model.Clash) bool {
	for _, c := range clashes {
		if c.Severity == model.SeverityError {
			return true
		}
	}
	return false
}

// FormatClashMessages produces human-readable one-line summaries of the
// detected clashes, in their input order.
func FormatClashMessages(clashes []model.Clash) []string {
	var messages []string
	for _, c := range clashes {
		msg := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(c.Severity)), c.Type, strings.Join(c.Items, ", "))
		if c.Resolution != "" {
			msg += " — " + c.Resolution
		}
		messages = append(messages, msg)
	}
	return messages
}
