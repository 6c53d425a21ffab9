package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BackCheck/internal/geometry"
)

func TestNewBacking(t *testing.T) {
	b := NewBacking(Backing2x6,
		Dimensions{Width: 16, Height: 16, Thickness: 1.5},
		Location{X: 10, Y: 20, Z: 48}, "tv-mount")

	assert.Len(t, b.ID, 8)
	assert.Equal(t, Backing2x6, b.BackingType)
	assert.Equal(t, "tv-mount", b.ComponentID)
	assert.Equal(t, StatusUserModified, b.Status)
	assert.False(t, b.Optimized)

	other := NewBacking(Backing2x6, b.Dimensions, b.Location, "tv-mount")
	assert.NotEqual(t, b.ID, other.ID)
}

func TestBackingRect(t *testing.T) {
	b := BackingPlacement{
		Dimensions: Dimensions{Width: 16, Height: 24, Thickness: 1.5},
		Location:   Location{X: 5, Y: 10, Z: 48},
	}
	assert.Equal(t, geometry.NewRect(5, 10, 16, 24), b.Rect())
}

func TestBackingValidate(t *testing.T) {
	good := BackingPlacement{
		Dimensions: Dimensions{Width: 16, Height: 16, Thickness: 1.5},
		Location:   Location{X: 0, Y: 0, Z: 48},
	}
	assert.Empty(t, good.Validate())

	cases := []struct {
		name   string
		mutate func(*BackingPlacement)
	}{
		{"nan width", func(b *BackingPlacement) { b.Dimensions.Width = math.NaN() }},
		{"infinite x", func(b *BackingPlacement) { b.Location.X = math.Inf(1) }},
		{"zero height", func(b *BackingPlacement) { b.Dimensions.Height = 0 }},
		{"negative thickness", func(b *BackingPlacement) { b.Dimensions.Thickness = -1 }},
		{"negative aff", func(b *BackingPlacement) { b.Location.Z = -10 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := good
			tc.mutate(&b)
			assert.NotEmpty(t, b.Validate())
		})
	}
}

func TestWallSegmentRect(t *testing.T) {
	horizontal := WallSegment{
		Start: geometry.Point{X: 0, Y: 50}, End: geometry.Point{X: 100, Y: 50}, Thickness: 4,
	}
	assert.Equal(t, geometry.NewRect(0, 48, 100, 4), horizontal.Rect())
	assert.True(t, horizontal.Horizontal())
	assert.Equal(t, 100.0, horizontal.Length())

	vertical := WallSegment{
		Start: geometry.Point{X: 50, Y: 200}, End: geometry.Point{X: 50, Y: 0}, Thickness: 4,
	}
	assert.Equal(t, geometry.NewRect(48, 0, 4, 200), vertical.Rect())
	assert.False(t, vertical.Horizontal())
}

func TestWallSegmentOpeningRect(t *testing.T) {
	w := WallSegment{
		Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 200, Y: 0}, Thickness: 4.5,
	}
	o := Opening{Position: 84, Width: 32, Height: 80, Type: OpeningDoor}

	r := w.OpeningRect(o)
	assert.Equal(t, 84.0, r.X)
	assert.Equal(t, 32.0, r.Width)
	assert.Equal(t, -2.25, r.Y)
	assert.Equal(t, 4.5, r.Height)

	// Reversed wall direction yields the same footprint
	rev := WallSegment{Start: w.End, End: w.Start, Thickness: w.Thickness}
	o2 := Opening{Position: 200 - 84 - 32, Width: 32, Height: 80, Type: OpeningDoor}
	assert.Equal(t, r, rev.OpeningRect(o2))

	// Degenerate wall has no opening footprint
	point := WallSegment{Start: geometry.Point{X: 5, Y: 5}, End: geometry.Point{X: 5, Y: 5}}
	assert.Equal(t, geometry.Rect{}, point.OpeningRect(o))
}

func TestSpecFor(t *testing.T) {
	steel := SpecFor(BackingSteel)
	assert.True(t, steel.RequiresStructural)
	assert.Equal(t, 24.0, steel.MaxSpan)

	ply := SpecFor(BackingPlywood34)
	assert.False(t, ply.RequiresStructural)
	assert.Equal(t, 96.0, ply.MaxSpan)

	unknown := SpecFor(BackingType("cardboard"))
	assert.True(t, unknown.RequiresStructural, "unknown materials get the most restrictive rules")
	assert.Equal(t, 24.0, unknown.MaxSpan)
}

func TestMaterialTypeNames(t *testing.T) {
	names := MaterialTypeNames()
	assert.Len(t, names, len(MaterialSpecs))
	assert.Equal(t, "2x4", names[0])
	assert.Contains(t, names, "steel_plate")
}

func TestZoneWasteArea(t *testing.T) {
	z := BackingZone{
		Bounds:    geometry.NewRect(0, 0, 40, 16),
		TotalArea: 512,
	}
	assert.Equal(t, 128.0, z.WasteArea())

	// TotalArea can exceed bounds area when members overlap; waste clamps at zero
	z.TotalArea = 700
	assert.Equal(t, 0.0, z.WasteArea())
}

func TestCalculatePurchaseEstimate(t *testing.T) {
	zones := []BackingZone{
		{
			ID:           "zone-1",
			MaterialType: Backing2x4,
			Bounds:       geometry.NewRect(0, 0, 90, 16),
			TotalArea:    512,
		},
		{
			ID:           "zone-2",
			MaterialType: Backing2x4,
			Bounds:       geometry.NewRect(200, 0, 30, 16),
			TotalArea:    256,
		},
		{
			ID:           "zone-3",
			MaterialType: BackingSteel,
			Bounds:       geometry.NewRect(0, 200, 12, 12),
			TotalArea:    144,
		},
	}

	est := CalculatePurchaseEstimate(zones, DefaultSettings().Optimize, 10, 5)

	require.Len(t, est.Lines, 2, "one line per material, first-seen order")
	lumber := est.Lines[0]
	assert.Equal(t, Backing2x4, lumber.Material)
	assert.Equal(t, 2, lumber.ZoneCount)
	assert.Equal(t, 120.0, lumber.TotalLength)
	assert.Equal(t, 768.0, lumber.TotalArea)
	// 120 in * 1.1 waste = 132 in over 96 in sticks
	assert.Equal(t, 2, lumber.SticksNeeded)
	assert.Equal(t, 10.0, lumber.EstimatedCost)
	// 768 sq in * 1.5 in thick / 144
	assert.InDelta(t, 8.0, lumber.BoardFeet, 1e-9)

	steel := est.Lines[1]
	assert.Equal(t, BackingSteel, steel.Material)
	assert.Equal(t, 1, steel.SticksNeeded)

	assert.Equal(t, 10.0, est.WastePercent)
	assert.InDelta(t, lumber.BoardFeet+steel.BoardFeet, est.TotalBoardFeet, 1e-9)
	assert.Equal(t, 15.0, est.TotalCost)
}

func TestCalculatePurchaseEstimate_VerticalZoneUsesRunLength(t *testing.T) {
	// Identical 192 in runs, one along each axis, must cost the same.
	zones := []BackingZone{
		{
			ID:           "zone-1",
			MaterialType: Backing2x4,
			Bounds:       geometry.NewRect(0, 0, 192, 16),
			TotalArea:    192 * 16,
		},
		{
			ID:           "zone-2",
			MaterialType: Backing2x4,
			Bounds:       geometry.NewRect(400, 0, 16, 192),
			TotalArea:    192 * 16,
		},
	}

	settings := DefaultSettings().Optimize
	settings.MinimizeWaste = false
	est := CalculatePurchaseEstimate(zones, settings, 0, 0)

	require.Len(t, est.Lines, 1)
	assert.Equal(t, 384.0, est.Lines[0].TotalLength)
	// ceil(192/96) = 2 sticks per zone regardless of orientation
	assert.Equal(t, 4, est.Lines[0].SticksNeeded)
}

func TestCalculatePurchaseEstimate_MinimizeWastePoolsCuts(t *testing.T) {
	zones := []BackingZone{
		{ID: "zone-1", MaterialType: Backing2x4, Bounds: geometry.NewRect(0, 0, 40, 16), TotalArea: 640},
		{ID: "zone-2", MaterialType: Backing2x4, Bounds: geometry.NewRect(100, 0, 40, 16), TotalArea: 640},
	}

	settings := DefaultSettings().Optimize
	settings.MinimizeWaste = true
	pooled := CalculatePurchaseEstimate(zones, settings, 0, 0)
	require.Len(t, pooled.Lines, 1)
	assert.Equal(t, 1, pooled.Lines[0].SticksNeeded, "two 40 in cuts share one 96 in stick")

	settings.MinimizeWaste = false
	separate := CalculatePurchaseEstimate(zones, settings, 0, 0)
	require.Len(t, separate.Lines, 1)
	assert.Equal(t, 2, separate.Lines[0].SticksNeeded, "each zone buys its own stick")
}

func TestCalculatePurchaseEstimate_Empty(t *testing.T) {
	est := CalculatePurchaseEstimate(nil, DefaultSettings().Optimize, 15, 0)
	assert.Empty(t, est.Lines)
	assert.Zero(t, est.TotalBoardFeet)
	assert.Zero(t, est.TotalCost)
}

func TestDefaultAppConfig(t *testing.T) {
	c := DefaultAppConfig()
	defaults := DefaultSettings()

	assert.Equal(t, defaults.Clash.DoorClearance, c.DefaultDoorClearance)
	assert.Equal(t, defaults.Clash.MinSpacing, c.DefaultMinSpacing)
	assert.Equal(t, defaults.Optimize.GroupingDistance, c.DefaultGroupingDistance)
	assert.Equal(t, 15.0, c.DefaultWastePercent)
	assert.NotNil(t, c.RecentProjects)
}

func TestAppConfigApplyToSettings(t *testing.T) {
	c := DefaultAppConfig()
	c.DefaultDoorClearance = 42
	c.DefaultMinSpacing = 8
	c.DefaultGroupingDistance = 30

	s := DefaultSettings()
	c.ApplyToSettings(&s)

	assert.Equal(t, 42.0, s.Clash.DoorClearance)
	assert.Equal(t, 8.0, s.Clash.MinSpacing)
	assert.Equal(t, 30.0, s.Optimize.GroupingDistance)
	// Unrelated settings are untouched
	assert.Equal(t, 84.0, s.Clash.SwingHeightMax)
}

func TestAppConfigApplyToSettings_IgnoresZeroValues(t *testing.T) {
	// A hand-edited config.json with missing fields unmarshals to zeros;
	// those must not wipe out the built-in defaults.
	var sparse AppConfig

	s := DefaultSettings()
	sparse.ApplyToSettings(&s)

	assert.Equal(t, 36.0, s.Clash.DoorClearance)
	assert.Equal(t, 6.0, s.Clash.MinSpacing)
	assert.Equal(t, 24.0, s.Optimize.GroupingDistance)
}
