// Package march is the alternate, ring-based extraction strategy.
//
// Rings computes closed contour rings of one level on the (col,row) index
// grid of a ScalarField with classic marching squares. The grid is
// surrounded by an implicit border of samples below the level and NaN
// samples count as below, so every ring closes even where the region above
// the level touches the edge of the data. Saddle cells are disambiguated by
// the mean of their four corners.
//
// Extract turns those rings into data-space fragments:
//
//   - rings with no vertex on the field boundary stay closed,
//   - rings touching the boundary are split at every boundary vertex into
//     open arcs,
//   - arcs with more than MaxBoundaryRatio of their vertices on the
//     boundary are discarded; these are the pieces that hug the frame
//     along the implicit border rather than cross the interior.
//
// Complexity: O(rows·cols) for the cell sweep plus O(s log s) to order the
// s crossing edges for deterministic ring traversal.
package march
