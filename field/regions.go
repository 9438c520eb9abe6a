package field

// Connectivity selects which neighbouring samples touch: orthogonal only
// (Conn4), including diagonals (Conn8), or diagonals decided by the cell
// mean (ConnSaddle).
type Connectivity int

const (
	// Conn4 links N, E, S and W neighbours.
	Conn4 Connectivity = iota
	// Conn8 also links the diagonals.
	Conn8
	// ConnSaddle links a diagonal only when the mean of its 2×2 cell is
	// finite and ≥ level, matching the saddle rule of marching squares.
	ConnSaddle
)

func (c Connectivity) offsets() [][2]int {
	if c != Conn4 {
		return [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	}

	return [][2]int{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
}

// Region is a connected set of samples, as row-major indices r*Cols()+c
// in discovery order.
type Region []int

// Regions labels the connected superlevel regions of level: samples with a
// finite value ≥ level, linked by conn. Regions are returned in row-major
// order of their first sample. NaN samples are never part of a region.
//
// Time: O(rows·cols·d), Memory: O(rows·cols).
func (f *ScalarField) Regions(level float64, conn Connectivity) []Region {
	rows, cols := f.Rows(), f.Cols()
	seen := make([]bool, rows*cols)
	offsets := conn.offsets()
	above := func(r, c int) bool {
		v := f.At(r, c)
		return finite(v) && v >= level
	}

	var out []Region
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i0 := r*cols + c
			if seen[i0] || !above(r, c) {
				continue
			}
			// BFS over the region.
			queue := []int{i0}
			seen[i0] = true
			for qi := 0; qi < len(queue); qi++ {
				ur, uc := queue[qi]/cols, queue[qi]%cols
				for _, d := range offsets {
					vr, vc := ur+d[0], uc+d[1]
					if !f.InBounds(vr, vc) || !above(vr, vc) {
						continue
					}
					if conn == ConnSaddle && d[0] != 0 && d[1] != 0 && !f.cellAbove(ur, uc, vr, vc, level) {
						continue
					}
					if vi := vr*cols + vc; !seen[vi] {
						seen[vi] = true
						queue = append(queue, vi)
					}
				}
			}
			out = append(out, Region(queue))
		}
	}

	return out
}

// cellAbove reports whether the mean of the cell spanned by the diagonal
// (r0,c0)-(r1,c1) is finite and ≥ level.
func (f *ScalarField) cellAbove(r0, c0, r1, c1 int, level float64) bool {
	sum := f.At(r0, c0) + f.At(r0, c1) + f.At(r1, c0) + f.At(r1, c1)

	return finite(sum) && sum/4 >= level
}

// IsIsland reports whether no sample of reg lies on the first or last row
// or column. The contour around an island is a closed ring.
func (f *ScalarField) IsIsland(reg Region) bool {
	rows, cols := f.Rows(), f.Cols()
	for _, i := range reg {
		r, c := i/cols, i%cols
		if r == 0 || c == 0 || r == rows-1 || c == cols-1 {
			return false
		}
	}

	return true
}
