package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default analysis settings applied to new projects
	DefaultDoorClearance    float64 `json:"default_door_clearance"`
	DefaultMinSpacing       float64 `json:"default_min_spacing"`
	DefaultGroupingDistance float64 `json:"default_grouping_distance"`
	DefaultWastePercent     float64 `json:"default_waste_percent"`

	// Application preferences
	ExportDirectory string   `json:"export_directory"`
	RecentProjects  []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultDoorClearance:    defaults.Clash.DoorClearance,
		DefaultMinSpacing:       defaults.Clash.MinSpacing,
		DefaultGroupingDistance: defaults.Optimize.GroupingDistance,
		DefaultWastePercent:     15.0,
		ExportDirectory:         "",
		RecentProjects:          []string{},
	}
}

// ApplyToSettings copies the saved defaults from AppConfig into an
// AnalysisSettings struct. Used when creating a new project so it
// inherits the user's preferences. Zero and negative values are ignored
// so a sparse or hand-edited config file keeps the built-in defaults
// instead of silently disabling rules.
func (c AppConfig) ApplyToSettings(s *AnalysisSettings) {
	if c.DefaultDoorClearance > 0 {
		s.Clash.DoorClearance = c.DefaultDoorClearance
	}
	if c.DefaultMinSpacing > 0 {
		s.Clash.MinSpacing = c.DefaultMinSpacing
	}
	if c.DefaultGroupingDistance > 0 {
		s.Optimize.GroupingDistance = c.DefaultGroupingDistance
	}
}
