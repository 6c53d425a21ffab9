package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BackCheck/internal/geometry"
	"github.com/piwi3910/BackCheck/internal/model"
)

func testBacking(id string, t model.BackingType, w, h, x, y float64) model.BackingPlacement {
	return model.BackingPlacement{
		ID:          id,
		BackingType: t,
		Dimensions:  model.Dimensions{Width: w, Height: h, Thickness: 1.5},
		Location:    model.Location{X: x, Y: y, Z: 48},
		Status:      model.StatusUserModified,
	}
}

func doorWall(id string, doorPos, doorWidth float64, swing model.SwingDirection) model.WallSegment {
	return model.WallSegment{
		ID:        id,
		Start:     geometry.Point{X: 0, Y: 0},
		End:       geometry.Point{X: 200, Y: 0},
		Thickness: 4.5,
		Type:      model.WallInterior,
		Openings: []model.Opening{
			{Position: doorPos, Width: doorWidth, Height: 80, Type: model.OpeningDoor, Swing: swing},
		},
	}
}

func TestDetectClashes_OverlappingBackings(t *testing.T) {
	backings := []model.BackingPlacement{
		testBacking("tv-1", model.Backing2x6, 16, 16, 100, 50),
		testBacking("tv-2", model.Backing2x6, 16, 16, 100, 50),
	}

	clashes := DetectClashes(backings, nil, model.DefaultSettings().Clash)

	overlaps := clashesOfType(clashes, model.ClashBackingOverlap)
	require.Len(t, overlaps, 1, "coincident backings must produce exactly one overlap clash")
	assert.Equal(t, model.SeverityError, overlaps[0].Severity)
	assert.ElementsMatch(t, []string{"tv-1", "tv-2"}, overlaps[0].Items)
	assert.Contains(t, overlaps[0].Resolution, "Relocate backing tv-2")
}

func TestDetectClashes_NoSelfClash(t *testing.T) {
	backings := []model.BackingPlacement{
		testBacking("solo", model.Backing2x4, 16, 16, 10, 10),
	}

	clashes := DetectClashes(backings, nil, model.DefaultSettings().Clash)
	assert.Empty(t, clashesOfType(clashes, model.ClashBackingOverlap))
	assert.Empty(t, clashesOfType(clashes, model.ClashSpacing))
}

func TestDetectClashes_TouchingIsNotOverlap(t *testing.T) {
	backings := []model.BackingPlacement{
		testBacking("a", model.Backing2x6, 16, 16, 0, 0),
		testBacking("b", model.Backing2x6, 16, 16, 16, 0), // shares an edge
	}

	clashes := DetectClashes(backings, nil, model.DefaultSettings().Clash)
	assert.Empty(t, clashesOfType(clashes, model.ClashBackingOverlap))
	// Edge-to-edge placement is still closer than the minimum spacing
	assert.Len(t, clashesOfType(clashes, model.ClashSpacing), 1)
}

func TestDetectClashes_DoorClearanceWarning(t *testing.T) {
	wall := doorWall("wall-1", 84, 32, model.SwingUnknown)
	backings := []model.BackingPlacement{
		testBacking("grab-bar", model.Backing2x6, 16, 16, 90, 10), // inside the clearance zone
	}

	clashes := DetectClashes(backings, []model.WallSegment{wall}, model.DefaultSettings().Clash)

	door := clashesOfType(clashes, model.ClashDoorClearance)
	require.Len(t, door, 1)
	assert.Equal(t, model.SeverityWarning, door[0].Severity)
	assert.ElementsMatch(t, []string{"grab-bar", "wall-1"}, door[0].Items)
}

func TestDetectClashes_DoorLeafIntrusionIsError(t *testing.T) {
	wall := doorWall("wall-1", 84, 32, model.SwingUnknown)
	inLeaf := testBacking("bad", model.Backing2x6, 10, 2, 95, -1)

	clashes := DetectClashes([]model.BackingPlacement{inLeaf}, []model.WallSegment{wall}, model.DefaultSettings().Clash)

	door := clashesOfType(clashes, model.ClashDoorClearance)
	require.Len(t, door, 1)
	assert.Equal(t, model.SeverityError, door[0].Severity)
}

func TestDetectClashes_BackingAboveSwingHeightIgnored(t *testing.T) {
	wall := doorWall("wall-1", 84, 32, model.SwingUnknown)
	high := testBacking("projector", model.Backing2x6, 16, 16, 90, 10)
	high.Location.Z = 96 // above the door swing

	clashes := DetectClashes([]model.BackingPlacement{high}, []model.WallSegment{wall}, model.DefaultSettings().Clash)
	assert.Empty(t, clashesOfType(clashes, model.ClashDoorClearance))
}

func TestDetectClashes_SwingSideLimitsClearance(t *testing.T) {
	// Door swings left (negative Y side of this wall). A backing on the
	// positive Y side is outside the clearance zone.
	wall := doorWall("wall-1", 84, 32, model.SwingLeft)
	rightSide := testBacking("shelf", model.Backing2x6, 16, 16, 90, 10)
	leftSide := testBacking("cabinet", model.Backing2x6, 16, 16, 90, -26)

	clashes := DetectClashes([]model.BackingPlacement{rightSide, leftSide}, []model.WallSegment{wall}, model.DefaultSettings().Clash)

	door := clashesOfType(clashes, model.ClashDoorClearance)
	require.Len(t, door, 1)
	assert.Contains(t, door[0].Items, "cabinet")
}

func TestDetectClashes_WindowsHaveNoClearance(t *testing.T) {
	wall := doorWall("wall-1", 84, 32, model.SwingUnknown)
	wall.Openings[0].Type = model.OpeningWindow
	backings := []model.BackingPlacement{
		testBacking("grab-bar", model.Backing2x6, 16, 16, 90, 10),
	}

	clashes := DetectClashes(backings, []model.WallSegment{wall}, model.DefaultSettings().Clash)
	assert.Empty(t, clashesOfType(clashes, model.ClashDoorClearance))
}

func TestDetectClashes_SpacingSameTypeOnly(t *testing.T) {
	settings := model.DefaultSettings().Clash // MinSpacing 6

	near2x4 := []model.BackingPlacement{
		testBacking("a", model.Backing2x4, 16, 16, 0, 0),
		testBacking("b", model.Backing2x4, 16, 16, 20, 0), // 4 in gap
	}
	clashes := DetectClashes(near2x4, nil, settings)
	require.Len(t, clashesOfType(clashes, model.ClashSpacing), 1)
	assert.Equal(t, model.SeverityWarning, clashesOfType(clashes, model.ClashSpacing)[0].Severity)

	mixed := []model.BackingPlacement{
		testBacking("a", model.Backing2x4, 16, 16, 0, 0),
		testBacking("b", model.Backing2x6, 16, 16, 20, 0),
	}
	assert.Empty(t, clashesOfType(DetectClashes(mixed, nil, settings), model.ClashSpacing))

	apart := []model.BackingPlacement{
		testBacking("a", model.Backing2x4, 16, 16, 0, 0),
		testBacking("b", model.Backing2x4, 16, 16, 30, 0), // 14 in gap
	}
	assert.Empty(t, clashesOfType(DetectClashes(apart, nil, settings), model.ClashSpacing))
}

func TestDetectClashes_OverlapSuppressesSpacing(t *testing.T) {
	backings := []model.BackingPlacement{
		testBacking("a", model.Backing2x4, 16, 16, 0, 0),
		testBacking("b", model.Backing2x4, 16, 16, 8, 0),
	}

	clashes := DetectClashes(backings, nil, model.DefaultSettings().Clash)
	assert.Len(t, clashesOfType(clashes, model.ClashBackingOverlap), 1)
	assert.Empty(t, clashesOfType(clashes, model.ClashSpacing),
		"an overlapping pair is reported once, as an overlap")
}

func TestDetectClashes_SteelRequiresStructuralWall(t *testing.T) {
	steel := testBacking("steel-1", model.BackingSteel, 12, 12, 50, 100)

	clashes := DetectClashes([]model.BackingPlacement{steel}, nil, model.DefaultSettings().Clash)
	structural := clashesOfType(clashes, model.ClashStructural)
	require.Len(t, structural, 1)
	assert.Equal(t, model.SeverityError, structural[0].Severity)
	assert.Equal(t, []string{"steel-1"}, structural[0].Items)

	// Same backing over a structural wall is supported
	support := model.WallSegment{
		ID:        "str-1",
		Start:     geometry.Point{X: 0, Y: 105},
		End:       geometry.Point{X: 200, Y: 105},
		Thickness: 4.5,
		Type:      model.WallStructural,
	}
	clashes = DetectClashes([]model.BackingPlacement{steel}, []model.WallSegment{support}, model.DefaultSettings().Clash)
	assert.Empty(t, clashesOfType(clashes, model.ClashStructural))
}

func TestDetectClashes_SpanLimit(t *testing.T) {
	wide := testBacking("wide-2x4", model.Backing2x4, 40, 6, 0, 0) // 2x4 limit is 32

	clashes := DetectClashes([]model.BackingPlacement{wide}, nil, model.DefaultSettings().Clash)
	structural := clashesOfType(clashes, model.ClashStructural)
	require.Len(t, structural, 1)
	assert.Contains(t, structural[0].Resolution, "exceeds")

	ok := testBacking("ok-2x4", model.Backing2x4, 32, 6, 0, 0)
	assert.Empty(t, DetectClashes([]model.BackingPlacement{ok}, nil, model.DefaultSettings().Clash))
}

func TestDetectClashes_MalformedBackingReportedAndSkipped(t *testing.T) {
	bad := testBacking("bad", model.Backing2x4, 16, 16, 0, 0)
	bad.Dimensions.Width = math.NaN()
	pair := []model.BackingPlacement{
		bad,
		testBacking("a", model.Backing2x6, 16, 16, 100, 100),
		testBacking("b", model.Backing2x6, 16, 16, 100, 100),
	}

	clashes := DetectClashes(pair, nil, model.DefaultSettings().Clash)

	structural := clashesOfType(clashes, model.ClashStructural)
	require.Len(t, structural, 1, "malformed backing yields one error clash")
	assert.Equal(t, []string{"bad"}, structural[0].Items)
	assert.Contains(t, structural[0].Resolution, "invalid geometry")

	// Detection still ran over the remaining backings
	assert.Len(t, clashesOfType(clashes, model.ClashBackingOverlap), 1)
}

func TestDetectClashes_EmptyInputs(t *testing.T) {
	assert.Empty(t, DetectClashes(nil, nil, model.DefaultSettings().Clash))
	assert.Empty(t, DetectClashes([]model.BackingPlacement{}, []model.WallSegment{}, model.DefaultSettings().Clash))
}

func TestDetectClashes_Deterministic(t *testing.T) {
	backings := []model.BackingPlacement{
		testBacking("a", model.Backing2x6, 16, 16, 0, 0),
		testBacking("b", model.Backing2x6, 16, 16, 8, 0),
		testBacking("c", model.Backing2x4, 16, 16, 100, 0),
		testBacking("d", model.Backing2x4, 16, 16, 120, 0),
	}
	walls := []model.WallSegment{doorWall("wall-1", 84, 32, model.SwingUnknown)}
	settings := model.DefaultSettings().Clash

	first := DetectClashes(backings, walls, settings)
	second := DetectClashes(backings, walls, settings)
	assert.Equal(t, first, second, "same input must yield the same clash set and ids")
}

func TestDetectClashes_SequentialIDs(t *testing.T) {
	backings := []model.BackingPlacement{
		testBacking("a", model.Backing2x6, 16, 16, 0, 0),
		testBacking("b", model.Backing2x6, 16, 16, 0, 0),
		testBacking("c", model.Backing2x4, 40, 6, 200, 0),
	}

	clashes := DetectClashes(backings, nil, model.DefaultSettings().Clash)
	require.Len(t, clashes, 2)
	assert.Equal(t, "clash-1", clashes[0].ID)
	assert.Equal(t, "clash-2", clashes[1].ID)
}

func TestDetectClashesCtx_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backings := []model.BackingPlacement{
		testBacking("a", model.Backing2x6, 16, 16, 0, 0),
	}
	clashes, err := DetectClashesCtx(ctx, backings, nil, model.DefaultSettings().Clash, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, clashes)
}

func TestDetectClashesCtx_ProgressMonotonic(t *testing.T) {
	backings := []model.BackingPlacement{
		testBacking("a", model.Backing2x6, 16, 16, 0, 0),
		testBacking("b", model.Backing2x6, 16, 16, 0, 0),
	}

	var updates []int
	_, err := DetectClashesCtx(context.Background(), backings, nil, model.DefaultSettings().Clash, func(pct int) {
		updates = append(updates, pct)
	})
	require.NoError(t, err)
	require.NotEmpty(t, updates)
	for i := 1; i < len(updates); i++ {
		assert.GreaterOrEqual(t, updates[i], updates[i-1])
	}
	assert.Equal(t, 100, updates[len(updates)-1])
}

func TestHasBlockingClashes(t *testing.T) {
	assert.False(t, HasBlockingClashes(nil))
	assert.False(t, HasBlockingClashes([]model.Clash{{Severity: model.SeverityWarning}}))
	assert.True(t, HasBlockingClashes([]model.Clash{
		{Severity: model.SeverityWarning},
		{Severity: model.SeverityError},
	}))
}

func TestFormatClashMessages(t *testing.T) {
	msgs := FormatClashMessages([]model.Clash{
		{
			Type:       model.ClashBackingOverlap,
			Severity:   model.SeverityError,
			Items:      []string{"a", "b"},
			Resolution: "Relocate backing b by 4.0 in along X (positive)",
		},
	})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "[ERROR]")
	assert.Contains(t, msgs[0], "backing_overlap")
	assert.Contains(t, msgs[0], "a, b")
	assert.Contains(t, msgs[0], "Relocate backing b")
}

func clashesOfType(clashes []model.Clash, t model.ClashType) []model.Clash {
	var out []model.Clash
	for _, c := range clashes {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
