package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/isolines/anchor"
	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/field"
	"github.com/katalvlaran/isolines/march"
	"github.com/katalvlaran/isolines/matching"
	"github.com/katalvlaran/isolines/merge"
	"github.com/katalvlaran/isolines/override"
	"github.com/katalvlaran/isolines/snap"
	"github.com/katalvlaran/isolines/stitch"
)

// ErrNilField indicates Run was called without a field.
var ErrNilField = errors.New("pipeline: field is nil")

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind string

// TopologyAmbiguity is reported when anchoring found fewer paths than it
// has anchors.
const TopologyAmbiguity DiagnosticKind = "topology_ambiguity"

// Diagnostic is a non-fatal condition met while building one level.
type Diagnostic struct {
	Level   float64
	Kind    DiagnosticKind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("level %g: %s: %s", d.Level, d.Kind, d.Message)
}

// LevelStats counts what each stage did to one level. Regions and Islands
// count superlevel regions under field.ConnSaddle, the connectivity the
// rings extractor traces.
type LevelStats struct {
	Level    float64
	Heavy    bool
	Regions  int
	Islands  int
	Raw      int
	Snapped  int
	Merged   int
	Anchored int
	Trimmed  int
	Edits    int
	Filtered int
	Runs     int
	Points   int
}

// Result is the output of one pipeline run.
type Result struct {
	// Contours holds the non-empty levels in ascending order.
	Contours    []contour.LevelResult
	Diagnostics []Diagnostic
	Stats       []LevelStats
}

// Pipeline runs the contour stages with a fixed configuration.
type Pipeline struct {
	Cfg Config

	// Overrides may be nil.
	Overrides *override.Table

	Log logrus.FieldLogger

	policy matching.Policy
}

// New validates cfg and returns a Pipeline logging to the standard logger.
func New(cfg Config, overrides *override.Table) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := matching.ParsePolicy(cfg.Matching)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	return &Pipeline{
		Cfg:       cfg,
		Overrides: overrides,
		Log:       logrus.StandardLogger(),
		policy:    policy,
	}, nil
}

// Run builds every level of f.
func (p *Pipeline) Run(f *field.ScalarField) (Result, error) {
	if f == nil {
		return Result{}, ErrNilField
	}
	levels, err := field.SelectLevels(f, p.Cfg.Step)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, level := range levels {
		runs, st, diags, err := p.Level(f, level)
		if err != nil {
			return Result{}, fmt.Errorf("pipeline: level %g: %w", level, err)
		}
		res.Stats = append(res.Stats, st)
		res.Diagnostics = append(res.Diagnostics, diags...)
		if len(runs) == 0 {
			continue
		}
		res.Contours = append(res.Contours, contour.LevelResult{Level: level, Runs: runs})
	}
	p.Log.WithFields(logrus.Fields{
		"dataset":     p.Cfg.Dataset,
		"levels":      len(levels),
		"kept":        len(res.Contours),
		"diagnostics": len(res.Diagnostics),
	}).Info("contours built")

	return res, nil
}

// Level builds a single level and returns its final runs.
func (p *Pipeline) Level(f *field.ScalarField, level float64) ([]contour.Run, LevelStats, []Diagnostic, error) {
	tol := p.Cfg.Tolerances
	st := LevelStats{Level: level, Heavy: field.IsHeavy(level, p.Cfg.Step, p.Cfg.HeavyEvery)}
	var diags []Diagnostic

	// 1) Raw fragments.
	raw, rings, err := p.extract(f, level)
	if err != nil {
		return nil, st, nil, err
	}
	runs := contour.NormalizeAll(raw, rings, tol.DedupEpsilon)
	st.Raw = len(runs)
	for _, reg := range f.Regions(level, field.ConnSaddle) {
		st.Regions++
		if f.IsIsland(reg) {
			st.Islands++
		}
	}

	entry, hasEntry := p.Overrides.Lookup(p.Cfg.Dataset, level)

	// 2) Anchoring or snap+merge.
	if hasEntry && len(entry.Anchors) > 0 {
		aopts := anchor.Options{Epsilon: tol.NodeMatchEpsilon, YearUnit: f.YearStep(), AgeUnit: f.AgeStep()}
		ar, err := anchor.Resolve(runs, entry.Anchors, aopts)
		if err != nil {
			return nil, st, nil, err
		}
		if !ar.Ambiguous {
			runs = ar.Runs
			st.Anchored = ar.Found
		} else {
			msg := fmt.Sprintf("found %d of %d anchored paths (%s); trimming islands below %g cells",
				ar.Found, ar.Expected, strings.Join(ar.Failures, "; "), p.Cfg.IslandMaxArea)
			diags = append(diags, Diagnostic{Level: level, Kind: TopologyAmbiguity, Message: msg})
			p.Log.WithFields(logrus.Fields{
				"contour_level": level,
				"expected":      ar.Expected,
				"found":         ar.Found,
			}).Warn("anchoring ambiguous, falling back to merge")

			if runs, err = p.snapMerge(f, level, runs, entry.RidgeCheck, &st); err != nil {
				return nil, st, nil, err
			}
			runs, st.Trimmed = anchor.TrimIslands(runs, p.Cfg.IslandMaxArea, aopts)
		}
	} else {
		if runs, err = p.snapMerge(f, level, runs, entry.RidgeCheck, &st); err != nil {
			return nil, st, nil, err
		}
	}

	// 3) Graph surgery.
	if hasEntry && len(entry.Edits) > 0 {
		if runs, err = override.Apply(runs, entry.Edits, tol.NodeMatchEpsilon); err != nil {
			return nil, st, nil, err
		}
		st.Edits = len(entry.Edits)
	}

	// 4) Size filter.
	runs, st.Filtered = p.filter(f, runs, st.Heavy)
	st.Runs = len(runs)
	for _, r := range runs {
		st.Points += len(r)
	}

	p.Log.WithFields(logrus.Fields{
		"contour_level": level,
		"heavy":         st.Heavy,
		"regions":       st.Regions,
		"islands":       st.Islands,
		"raw":           st.Raw,
		"snapped":       st.Snapped,
		"merged":        st.Merged,
		"anchored":      st.Anchored,
		"edits":         st.Edits,
		"filtered":      st.Filtered,
		"runs":          st.Runs,
		"points":        st.Points,
	}).Info("level done")

	return runs, st, diags, nil
}

func (p *Pipeline) extract(f *field.ScalarField, level float64) ([]contour.Run, []bool, error) {
	tol := p.Cfg.Tolerances
	switch p.Cfg.Strategy {
	case Rings:
		return march.Extract(f, level, march.DefaultOptions())
	default:
		runs, err := stitch.Stitch(f, level, stitch.Options{
			Policy:          p.policy,
			MaxJoinAgeSteps: tol.MaxJoinAgeSteps,
			Bridge:          p.Cfg.Bridge,
			BridgeFactor:    tol.BridgeFactor,
			Epsilon:         tol.Epsilon,
		})

		return runs, nil, err
	}
}

func (p *Pipeline) snapMerge(f *field.ScalarField, level float64, runs []contour.Run, ridge bool, st *LevelStats) ([]contour.Run, error) {
	tol := p.Cfg.Tolerances
	sopts := snap.DefaultOptions()
	sopts.Epsilon, sopts.DedupEpsilon = tol.Epsilon, tol.DedupEpsilon
	runs, n, err := snap.Snap(f, level, runs, sopts)
	if err != nil {
		return nil, err
	}
	st.Snapped += n

	mopts := merge.NewOptions(f, tol)
	mopts.RidgeCheck = ridge
	runs, n, err = merge.Merge(runs, mopts)
	if err != nil {
		return nil, err
	}
	st.Merged += n

	return runs, nil
}

// filter drops runs below two points always. On light levels it also drops
// runs that are small on both counts: fewer than MinRunPoints points and a
// bounding box under MinRunBBoxCells cells.
func (p *Pipeline) filter(f *field.ScalarField, runs []contour.Run, heavy bool) ([]contour.Run, int) {
	yu, au := f.YearStep(), f.AgeStep()
	out := make([]contour.Run, 0, len(runs))
	for _, r := range runs {
		if len(r) < 2 {
			continue
		}
		if !heavy && len(r) < p.Cfg.MinRunPoints && r.BBoxArea(yu, au) < p.Cfg.MinRunBBoxCells {
			continue
		}
		out = append(out, r)
	}

	return out, len(runs) - len(out)
}
