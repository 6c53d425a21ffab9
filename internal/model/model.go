package model

import (
	"math"

	"github.com/google/uuid"
	"github.com/piwi3910/BackCheck/internal/geometry"
)

// BackingType identifies the lumber or material code of a backing.
type BackingType string

const (
	Backing2x4       BackingType = "2x4"
	Backing2x6       BackingType = "2x6"
	Backing2x8       BackingType = "2x8"
	Backing2x10      BackingType = "2x10"
	BackingPlywood34 BackingType = "3/4_plywood"
	BackingSteel     BackingType = "steel_plate"
)

// Status tracks how a backing placement came to be.
type Status string

const (
	StatusAIGenerated  Status = "ai_generated"
	StatusUserModified Status = "user_modified"
	StatusApproved     Status = "approved"
)

// Dimensions holds the physical size of a backing in inches.
// Width and Height are the plan-view footprint; Thickness is the
// depth into the wall cavity.
type Dimensions struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Thickness float64 `json:"thickness"`
}

// Location positions a backing on the drawing. X and Y are plan
// coordinates; Z is the mounting height above finished floor (AFF).
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BackingPlacement is a single piece of required wall blocking.
type BackingPlacement struct {
	ID          string      `json:"id"`
	BackingType BackingType `json:"backing_type"`
	Dimensions  Dimensions  `json:"dimensions"`
	Location    Location    `json:"location"`
	ComponentID string      `json:"component_id"` // fixture it supports (TV, grab bar, ...)
	Status      Status      `json:"status"`
	Optimized   bool        `json:"optimized"`
	ZoneID      string      `json:"zone_id,omitempty"`
}

// NewBacking creates a backing placement with a fresh id.
func NewBacking(t BackingType, dims Dimensions, loc Location, componentID string) BackingPlacement {
	return BackingPlacement{
		ID:          uuid.New().String()[:8],
		BackingType: t,
		Dimensions:  dims,
		Location:    loc,
		ComponentID: componentID,
		Status:      StatusUserModified,
	}
}

// Rect returns the plan-view footprint of the backing.
func (b BackingPlacement) Rect() geometry.Rect {
	return geometry.NewRect(b.Location.X, b.Location.Y, b.Dimensions.Width, b.Dimensions.Height)
}

// Validate checks the placement for malformed geometry. Returns a
// non-empty problem description when the backing cannot be analyzed.
func (b BackingPlacement) Validate() string {
	vals := []float64{
		b.Dimensions.Width, b.Dimensions.Height, b.Dimensions.Thickness,
		b.Location.X, b.Location.Y, b.Location.Z,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "dimensions and location must be finite numbers"
		}
	}
	if b.Dimensions.Width <= 0 || b.Dimensions.Height <= 0 || b.Dimensions.Thickness <= 0 {
		return "width, height, and thickness must be positive"
	}
	if b.Location.Z < 0 {
		return "mounting height (AFF) cannot be negative"
	}
	return ""
}

// WallType classifies a wall segment.
type WallType string

const (
	WallExterior   WallType = "exterior"
	WallInterior   WallType = "interior"
	WallPartition  WallType = "partition"
	WallStructural WallType = "structural"
)

// OpeningType classifies a wall opening.
type OpeningType string

const (
	OpeningDoor   OpeningType = "door"
	OpeningWindow OpeningType = "window"
)

// SwingDirection is the side of the wall a door leaf swings toward,
// relative to the wall direction (start to end).
type SwingDirection string

const (
	SwingLeft    SwingDirection = "left"
	SwingRight   SwingDirection = "right"
	SwingUnknown SwingDirection = ""
)

// Opening is a door or window cut into a wall segment. Position is the
// distance in inches from the wall start point to the opening start.
type Opening struct {
	Position float64        `json:"position"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Type     OpeningType    `json:"type"`
	Swing    SwingDirection `json:"swing,omitempty"`
}

// WallSegment is a straight wall run with its openings.
type WallSegment struct {
	ID        string         `json:"id"`
	Start     geometry.Point `json:"start"`
	End       geometry.Point `json:"end"`
	Thickness float64        `json:"thickness"`
	Type      WallType       `json:"type"`
	Openings  []Opening      `json:"openings,omitempty"`
}

// NewWallSegment creates a wall segment with a fresh id.
func NewWallSegment(start, end geometry.Point, thickness float64, t WallType) WallSegment {
	return WallSegment{
		ID:        uuid.New().String()[:8],
		Start:     start,
		End:       end,
		Thickness: thickness,
		Type:      t,
	}
}

// Length returns the wall run length.
func (w WallSegment) Length() float64 {
	return geometry.Distance(w.Start, w.End)
}

// Horizontal reports whether the wall runs predominantly along the X axis.
func (w WallSegment) Horizontal() bool {
	return math.Abs(w.End.X-w.Start.X) >= math.Abs(w.End.Y-w.Start.Y)
}

// Rect returns the plan-view band the wall occupies. Walls are treated
// as axis-aligned; slightly skewed segments fall back to their bounding
// box expanded by half the thickness.
func (w WallSegment) Rect() geometry.Rect {
	half := w.Thickness / 2
	minX := math.Min(w.Start.X, w.End.X)
	minY := math.Min(w.Start.Y, w.End.Y)
	maxX := math.Max(w.Start.X, w.End.X)
	maxY := math.Max(w.Start.Y, w.End.Y)

	if w.Horizontal() {
		return geometry.NewRect(minX, (minY+maxY)/2-half, maxX-minX, w.Thickness)
	}
	return geometry.NewRect((minX+maxX)/2-half, minY, w.Thickness, maxY-minY)
}

// OpeningRect returns the plan-view footprint of an opening on this
// wall: the opening width along the wall direction, spanning the full
// wall thickness.
func (w WallSegment) OpeningRect(o Opening) geometry.Rect {
	length := w.Length()
	if length == 0 {
		return geometry.Rect{}
	}
	ux := (w.End.X - w.Start.X) / length
	uy := (w.End.Y - w.Start.Y) / length

	ax := w.Start.X + ux*o.Position
	ay := w.Start.Y + uy*o.Position
	bx := w.Start.X + ux*(o.Position+o.Width)
	by := w.Start.Y + uy*(o.Position+o.Width)

	half := w.Thickness / 2
	if w.Horizontal() {
		return geometry.NewRect(math.Min(ax, bx), ay-half, math.Abs(bx-ax), w.Thickness)
	}
	return geometry.NewRect(ax-half, math.Min(ay, by), w.Thickness, math.Abs(by-ay))
}

// DoorOpening is a detected door (or window) with its resolved plan
// geometry, produced by the opening detector.
type DoorOpening struct {
	ID      string         `json:"id"`
	WallID  string         `json:"wall_id"`
	Opening Opening        `json:"opening"`
	Rect    geometry.Rect  `json:"rect"`
	Swing   SwingDirection `json:"swing,omitempty"`
}

// ClashType identifies which rule produced a clash.
type ClashType string

const (
	ClashBackingOverlap ClashType = "backing_overlap"
	ClashDoorClearance  ClashType = "door_clearance"
	ClashSpacing        ClashType = "spacing"
	ClashStructural     ClashType = "structural"
)

// Severity determines whether a clash blocks sign-off (error) or is
// advisory (warning).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Clash is one detected conflict. Clashes are recomputed on every
// analysis pass and never persisted by the engine itself.
type Clash struct {
	ID         string    `json:"id"`
	Type       ClashType `json:"type"`
	Severity   Severity  `json:"severity"`
	Items      []string  `json:"items"`
	Resolution string    `json:"resolution,omitempty"`
}

// BackingZone is a cluster of backings grouped for combined material
// cutting and installation. Produced only by the optimizer.
type BackingZone struct {
	ID           string             `json:"id"`
	Backings     []BackingPlacement `json:"backings"`
	Bounds       geometry.Rect      `json:"bounds"`
	Center       geometry.Point     `json:"center"`
	TotalArea    float64            `json:"total_area"` // sum of member areas, not bounds area
	MaterialType BackingType        `json:"material_type"`
}

// WasteArea returns the difference between the zone's bounding area and
// the material actually covered by its members. Used for waste reporting.
func (z BackingZone) WasteArea() float64 {
	waste := z.Bounds.Area() - z.TotalArea
	if waste < 0 {
		return 0
	}
	return waste
}
