package model

// ClashSettings configures the clash rule evaluator.
type ClashSettings struct {
	DoorClearance  float64 `json:"door_clearance"`   // required clear zone in front of doors (in)
	MinSpacing     float64 `json:"min_spacing"`      // minimum gap between same-type backings (in)
	SwingHeightMax float64 `json:"swing_height_max"` // AFF below which a backing intrudes on a door swing (in)
}

// DoorSettings configures door/window opening detection.
type DoorSettings struct {
	MinWidth             float64 `json:"min_width"` // inches
	MaxWidth             float64 `json:"max_width"` // inches
	DetectSwingDirection bool    `json:"detect_swing_direction"`
	IncludeWindows       bool    `json:"include_windows"`
}

// OptimizeSettings configures zone clustering.
type OptimizeSettings struct {
	GroupingDistance   float64 `json:"grouping_distance"` // max center distance to group (in)
	MinimizeWaste      bool    `json:"minimize_waste"`
	OptimizeForSpeed   bool    `json:"optimize_for_speed"`
	MaintainStructural bool    `json:"maintain_structural"`
	AllowCombining     bool    `json:"allow_combining"` // permit mixing backing materials in one zone
}

// AnalysisSettings bundles the configuration for a full analysis pass.
type AnalysisSettings struct {
	Clash    ClashSettings    `json:"clash"`
	Doors    DoorSettings     `json:"doors"`
	Optimize OptimizeSettings `json:"optimize"`
}

// DefaultSettings returns the standard analysis configuration. The 36"
// door clearance matches accessibility code; 24" grouping distance is
// one stud bay beyond standard 16" o.c. spacing.
func DefaultSettings() AnalysisSettings {
	return AnalysisSettings{
		Clash: ClashSettings{
			DoorClearance:  36.0,
			MinSpacing:     6.0,
			SwingHeightMax: 84.0,
		},
		Doors: DoorSettings{
			MinWidth:             24.0,
			MaxWidth:             48.0,
			DetectSwingDirection: true,
			IncludeWindows:       false,
		},
		Optimize: OptimizeSettings{
			GroupingDistance:   24.0,
			MinimizeWaste:      true,
			OptimizeForSpeed:   false,
			MaintainStructural: true,
			AllowCombining:     false,
		},
	}
}
