// Package project handles persistence of backing analysis projects,
// application configuration, and data backups as JSON files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/BackCheck/internal/engine"
	"github.com/piwi3910/BackCheck/internal/model"
)

// Project ties a drawing's backings, walls, and settings together for
// save/load. Results are a cached copy of the last analysis; they are
// recomputed on demand and may be absent.
type Project struct {
	Name     string                   `json:"name"`
	Backings []model.BackingPlacement `json:"backings"`
	Walls    []model.WallSegment      `json:"walls"`
	Settings model.AnalysisSettings   `json:"settings"`
	Results  *engine.DetectionResults `json:"results,omitempty"`
}

// NewProject creates an empty project with default settings.
func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Backings: []model.BackingPlacement{},
		Walls:    []model.WallSegment{},
		Settings: model.DefaultSettings(),
	}
}

// Save writes the project to the specified JSON file, creating parent
// directories if they do not exist.
func Save(path string, p Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project from the specified JSON file.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	// Ensure slices are never nil
	if p.Backings == nil {
		p.Backings = []model.BackingPlacement{}
	}
	if p.Walls == nil {
		p.Walls = []model.WallSegment{}
	}
	return p, nil
}
