package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/BackCheck/internal/geometry"
	"github.com/piwi3910/BackCheck/internal/model"
)

// DetectDoors resolves the door (and optionally window) openings on a
// set of wall segments into positioned DoorOpening records. Openings
// outside the configured width range are ignored. Requires walls as
// input; an empty wall set yields an empty result.
func DetectDoors(walls []model.WallSegment, settings model.DoorSettings) []model.DoorOpening {
	doors, _ := DetectDoorsCtx(context.Background(), walls, settings, nil)
	return doors
}

// DetectDoorsCtx is DetectDoors with cooperative cancellation and
// progress reporting. The context is checked between wall segments.
func DetectDoorsCtx(ctx context.Context, walls []model.WallSegment, settings model.DoorSettings, progress func(int)) ([]model.DoorOpening, error) {
	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}
	report(0)

	var doors []model.DoorOpening
	for wi, w := range walls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		numbered := 0
		for _, o := range w.Openings {
			if o.Type == model.OpeningWindow && !settings.IncludeWindows {
				continue
			}
			if o.Type != model.OpeningDoor && o.Type != model.OpeningWindow {
				continue
			}
			if o.Width < settings.MinWidth || o.Width > settings.MaxWidth {
				continue
			}

			swing := o.Swing
			if o.Type == model.OpeningDoor && swing == model.SwingUnknown && settings.DetectSwingDirection {
				swing = inferSwing(w, o, walls)
			}

			numbered++
			doors = append(doors, model.DoorOpening{
				ID:      fmt.Sprintf("%s-opening-%d", w.ID, numbered),
				WallID:  w.ID,
				Opening: o,
				Rect:    w.OpeningRect(o),
				Swing:   swing,
			})
		}
		report((wi + 1) * 100 / len(walls))
	}
	report(100)
	return doors, nil
}

// inferSwing guesses the swing side of a door by probing both sides of
// the wall for obstructions: the leaf swings toward the side with
// fewer intersecting walls (the more open room). Ties stay unknown,
// which the clash rules treat as clearance required on both sides.
func inferSwing(w model.WallSegment, o model.Opening, walls []model.WallSegment) model.SwingDirection {
	leaf := w.OpeningRect(o)
	if leaf.Area() == 0 {
		return model.SwingUnknown
	}
	length := w.Length()
	ux := (w.End.X - w.Start.X) / length
	uy := (w.End.Y - w.Start.Y) / length
	lx, ly := uy, -ux

	// Probe a door-width square on each side of the opening.
	leftProbe := extendRect(leaf, lx, ly, o.Width)
	rightProbe := extendRect(leaf, -lx, -ly, o.Width)

	leftHits, rightHits := 0, 0
	for _, other := range walls {
		if other.ID == w.ID {
			continue
		}
		wr := other.Rect()
		if geometry.Overlaps(leftProbe, wr) {
			leftHits++
		}
		if geometry.Overlaps(rightProbe, wr) {
			rightHits++
		}
	}

	switch {
	case leftHits < rightHits:
		return model.SwingLeft
	case rightHits < leftHits:
		return model.SwingRight
	default:
		return model.SwingUnknown
	}
}
