// Package matching pairs two ascending sequences of positions (the last
// ages of the runs still open at one column, and the crossing ages found in
// the next) so that each run continues into at most one crossing.
//
// Two policies are provided:
//
//   - Greedy: repeatedly take the closest unused pair within maxJoin.
//     Cheap, but can cross pairings when two runs compete for one crossing.
//   - Optimal: an order-preserving alignment computed with a dynamic
//     program over the two sequences. It maximises the number of pairs with
//     |a[i]-b[j]| <= maxJoin and, among alignments of equal size, minimises
//     the total distance. Pairings never cross, which matches the fact that
//     two isolines of one level cannot swap order between adjacent columns.
//
// Algorithm outline (Optimal):
//
//  1. Let n = len(a), m = len(b). Allocate an (n+1)×(m+1) table D over
//     suffixes; D[n][*] = D[*][m] = (0 pairs, 0 cost).
//  2. For i = n-1..0, j = m-1..0:
//     skipA = D[i+1][j]
//     skipB = D[i][j+1]
//     pair  = D[i+1][j+1] + (1, |a[i]-b[j]|)   only if within maxJoin
//     D[i][j] = best of the three (more pairs, then lower cost).
//  3. Walk the recorded moves from (0,0) to emit pairs in order.
//
// Complexity:
//
//	Time   = O(n·m)
//	Memory = O(n·m)
//
// The table is the same shape as a DTW full matrix; unlike DTW, elements may
// stay unmatched, which is how runs end and new runs start.
package matching
