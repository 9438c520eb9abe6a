// Package merge joins open run fragments that belong to one isoline.
//
// Merge scans all pairs of open runs and, for each pair, four join
// configurations (end↔start, end↔end, start↔start, start↔end). A join is
// accepted only if every rule holds:
//
//  1. Distance: the two endpoints are within JoinToleranceInCells grid cells
//     (Δyear/YearUnit, Δage/AgeUnit). When either endpoint lies on the field
//     boundary the tolerance shrinks by BoundaryJoinFactor.
//  2. Tangents: the outward unit tangents at the two endpoints point against
//     each other, dot(outA, outB) ≤ -TangentDotMin. Equivalently the curve
//     keeps its heading through the join within a ≈32° cone.
//  3. Top/bottom: the endpoints are not both on the top edge, nor both on the
//     bottom edge. Fragments that leave through the same frame edge are two
//     sides of a ridge, not one line.
//  4. Ridge check (per level, opt-in): the local age-over-year slope has the
//     same sign on both sides of the join. A zero slope agrees with anything.
//
// The first accepted join in scan order is applied, the scan restarts, and
// Merge stops when no pair qualifies. Closed runs never take part.
//
// Complexity: O(k³) in the number of open runs for the worst case where
// every pass merges one pair.
package merge
