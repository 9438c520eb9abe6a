package field

import (
	"fmt"
	"math"
)

// SelectLevels derives the contour levels for f: step, 2·step, …,
// floor(M/step)·step, where M is the largest finite value of f.
//
// Errors:
//   - ErrBadStep if step is not finite and positive.
//   - ErrDegenerateField if M is not finite or M <= 0.
//
// A field whose maximum is below step yields an empty list, not an error.
func SelectLevels(f *ScalarField, step float64) ([]float64, error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return nil, fmt.Errorf("%w: step=%g", ErrBadStep, step)
	}
	m := f.Max()
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return nil, fmt.Errorf("%w: max=%g", ErrDegenerateField, m)
	}

	n := int(math.Floor(m / step))
	levels := make([]float64, 0, n)
	for k := 1; k <= n; k++ {
		level := float64(k) * step
		if level > m {
			// floor(m/step)·step can round above m by one ulp.
			break
		}
		levels = append(levels, level)
	}

	return levels, nil
}

// IsHeavy reports whether level is a major level: a multiple of every·step.
// every <= 0 disables heavy levels.
func IsHeavy(level, step float64, every int) bool {
	if every <= 0 || step <= 0 {
		return false
	}
	k := math.Round(level / step)
	if math.Abs(k*step-level) > 1e-9*math.Max(1, math.Abs(level)) {
		return false
	}

	return int64(k)%int64(every) == 0
}
