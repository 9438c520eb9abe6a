package contour

// Dedup drops consecutive points that coincide within eps on both axes.
// It returns a new slice; r is left untouched.
func Dedup(r Run, eps float64) Run {
	if len(r) == 0 {
		return nil
	}
	out := make(Run, 0, len(r))
	out = append(out, r[0])
	for _, p := range r[1:] {
		if p.Near(out[len(out)-1], eps) {
			continue
		}
		out = append(out, p)
	}

	return out
}

// Normalize cleans one raw fragment.
//
// Steps:
//  1. Drop consecutive duplicates within eps.
//  2. If ring is true, make sure the run ends where it starts.
//     A ring that collapsed to fewer than three distinct points is dropped.
//  3. If ring is false and the run happens to close on itself, pop the
//     duplicate closing point so it stays an open run.
//  4. Drop runs shorter than two points.
//
// The boolean result is false when the run was dropped.
func Normalize(r Run, ring bool, eps float64) (Run, bool) {
	out := Dedup(r, eps)
	if ring {
		if len(out) >= 2 && out.First().Near(out.Last(), eps) {
			out = out[:len(out)-1]
		}
		if len(out) < 3 {
			return nil, false
		}
		out = append(out, out[0])

		return out, true
	}
	if len(out) >= 3 && out.First().Near(out.Last(), eps) {
		out = out[:len(out)-1]
	}
	if len(out) < 2 {
		return nil, false
	}

	return out, true
}

// NormalizeAll applies Normalize to every run, keeping survivors in order.
// rings[i] states whether runs[i] is a ring candidate; a nil rings slice
// treats every run as open.
func NormalizeAll(runs []Run, rings []bool, eps float64) []Run {
	out := make([]Run, 0, len(runs))
	for i, r := range runs {
		ring := rings != nil && rings[i]
		if n, ok := Normalize(r, ring, eps); ok {
			out = append(out, n)
		}
	}

	return out
}
