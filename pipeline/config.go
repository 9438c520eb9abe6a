package pipeline

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/matching"
)

// Strategy selects the raw extractor.
type Strategy string

const (
	// Columns uses the column-crossing stitcher.
	Columns Strategy = "columns"
	// Rings uses the marching-squares extractor.
	Rings Strategy = "rings"
)

// ErrBadConfig indicates an unusable configuration.
var ErrBadConfig = fmt.Errorf("%w: pipeline: bad config", contour.ErrInvalidInput)

// Config holds everything one build needs. Paths are taken relative to the
// working directory.
type Config struct {
	// Dataset keys the override table.
	Dataset string `toml:"dataset"`

	InputCSV      string `toml:"input_csv"`
	OutputJSON    string `toml:"output_json"`
	SQLitePath    string `toml:"sqlite_path"`
	OverridesFile string `toml:"overrides_file"`

	// Step is the spacing of contour levels.
	Step float64 `toml:"step"`

	Strategy Strategy `toml:"strategy"`
	Matching string   `toml:"matching"`
	Bridge   bool     `toml:"bridge"`

	// HeavyEvery marks every n-th level as heavy; heavy levels skip the
	// size filter. Zero disables heavy levels.
	HeavyEvery int `toml:"heavy_every"`

	// A run of a light level is dropped when it has fewer than MinRunPoints
	// points and a bounding-box area, in grid cells, under MinRunBBoxCells.
	MinRunPoints    int     `toml:"min_run_points"`
	MinRunBBoxCells float64 `toml:"min_run_bbox_cells"`

	// IslandMaxArea is the cut, in grid cells, below which closed runs are
	// trimmed when anchoring is ambiguous.
	IslandMaxArea float64 `toml:"island_max_area"`

	Tolerances contour.Tolerances `toml:"tolerances"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Dataset:         "sweden",
		InputCSV:        "data/population.csv",
		OutputJSON:      "out/contours.json",
		Step:            10000,
		Strategy:        Columns,
		Matching:        matching.Optimal.String(),
		Bridge:          true,
		HeavyEvery:      5,
		MinRunPoints:    3,
		MinRunBBoxCells: 0.5,
		IslandMaxArea:   4,
		Tolerances:      contour.DefaultTolerances(),
	}
}

// LoadConfig decodes a TOML file over DefaultConfig and validates it.
// Keys the file does not mention keep their defaults; unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: open config: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	md, err := toml.DecodeReader(f, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrBadConfig, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: %s: unknown keys %v", ErrBadConfig, path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field that the pipeline reads.
func (c Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("%w: dataset is empty", ErrBadConfig)
	}
	if math.IsNaN(c.Step) || math.IsInf(c.Step, 0) || c.Step <= 0 {
		return fmt.Errorf("%w: step=%g", ErrBadConfig, c.Step)
	}
	if c.Strategy != Columns && c.Strategy != Rings {
		return fmt.Errorf("%w: strategy %q", ErrBadConfig, c.Strategy)
	}
	if _, err := matching.ParsePolicy(c.Matching); err != nil {
		return fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if c.HeavyEvery < 0 || c.MinRunPoints < 0 {
		return fmt.Errorf("%w: heavy_every and min_run_points must not be negative", ErrBadConfig)
	}
	for name, v := range map[string]float64{
		"min_run_bbox_cells": c.MinRunBBoxCells,
		"island_max_area":    c.IslandMaxArea,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s=%g", ErrBadConfig, name, v)
		}
	}

	return c.Tolerances.Validate()
}
