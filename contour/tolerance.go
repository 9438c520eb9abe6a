package contour

import (
	"fmt"
	"math"
)

// Tolerances gathers every floating-point budget the pipeline uses.
// Stages receive it by value; none of them re-declares its own epsilon.
type Tolerances struct {
	// Epsilon guards interpolation-parameter inclusion (t ∈ [-ε, 1+ε]),
	// boundary tests and closed-run detection.
	Epsilon float64 `toml:"epsilon" yaml:"epsilon"`

	// DedupEpsilon is the per-axis distance under which consecutive points
	// are considered duplicates.
	DedupEpsilon float64 `toml:"dedup_epsilon" yaml:"dedup_epsilon"`

	// JoinToleranceInCells is the maximum endpoint gap, in grid cells, the
	// fragment merger will bridge.
	JoinToleranceInCells float64 `toml:"join_tolerance_in_cells" yaml:"join_tolerance_in_cells"`

	// BoundaryJoinFactor scales JoinToleranceInCells when either endpoint
	// lies on the field boundary.
	BoundaryJoinFactor float64 `toml:"boundary_join_factor" yaml:"boundary_join_factor"`

	// TangentDotMin is the minimum dot product of the aligned unit tangents
	// of two fragments for a join to be accepted.
	TangentDotMin float64 `toml:"tangent_dot_min" yaml:"tangent_dot_min"`

	// MaxJoinAgeSteps bounds the age distance, in age steps, between an
	// active run and the crossing it may continue into.
	MaxJoinAgeSteps float64 `toml:"max_join_age_steps" yaml:"max_join_age_steps"`

	// BridgeFactor widens the join distance for one-column bridges.
	BridgeFactor float64 `toml:"bridge_factor" yaml:"bridge_factor"`

	// NodeMatchEpsilon is the coordinate tolerance used when graph nodes are
	// identified by position (override references, graph construction).
	NodeMatchEpsilon float64 `toml:"node_match_epsilon" yaml:"node_match_epsilon"`
}

// DefaultTolerances returns the budgets tuned on the Swedish and US tables.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Epsilon:              1e-6,
		DedupEpsilon:         1e-9,
		JoinToleranceInCells: 1.0,
		BoundaryJoinFactor:   0.25,
		TangentDotMin:        0.85,
		MaxJoinAgeSteps:      4,
		BridgeFactor:         1.5,
		NodeMatchEpsilon:     1e-6,
	}
}

// Validate checks that every budget is finite and in range.
func (t Tolerances) Validate() error {
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"epsilon", t.Epsilon, t.Epsilon > 0},
		{"dedup_epsilon", t.DedupEpsilon, t.DedupEpsilon > 0},
		{"join_tolerance_in_cells", t.JoinToleranceInCells, t.JoinToleranceInCells >= 0},
		{"boundary_join_factor", t.BoundaryJoinFactor, t.BoundaryJoinFactor >= 0 && t.BoundaryJoinFactor <= 1},
		{"tangent_dot_min", t.TangentDotMin, t.TangentDotMin >= -1 && t.TangentDotMin <= 1},
		{"max_join_age_steps", t.MaxJoinAgeSteps, t.MaxJoinAgeSteps > 0},
		{"bridge_factor", t.BridgeFactor, t.BridgeFactor >= 1},
		{"node_match_epsilon", t.NodeMatchEpsilon, t.NodeMatchEpsilon > 0},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || !c.ok {
			return fmt.Errorf("%w: tolerance %s=%g out of range", ErrInvalidInput, c.name, c.v)
		}
	}

	return nil
}
