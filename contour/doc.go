// Package contour defines the shared vocabulary of the isoline pipeline:
// data-space points, polyline runs, per-level results, tolerance policy and
// the error taxonomy every stage reports through.
//
// Coordinates are always (year, age) in data space. Nothing in this package
// knows about pixels, projection or styling.
//
// Error taxonomy:
//
//	ErrInvalidInput       - malformed table, degenerate field, bad configuration.
//	ErrInvariantViolation - a computed value broke a pipeline invariant
//	                        (non-finite point, null-coerced coordinate).
//
// Both are sentinels; stages wrap them with fmt.Errorf("%w: ...") so callers
// can test with errors.Is and still read which level/run/point failed.
//
// Run lifecycle:
//
//	extract -> Normalize -> snap -> merge -> override -> serialize
//
// Runs are plain slices. Stages never share a backing array: any stage that
// mutates a run works on a Clone.
package contour
