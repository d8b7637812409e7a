// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import "math"

// pivotKindResult classifies the outcome of a pivot search.
type pivotKindResult int

const (
	onebyone pivotKindResult = iota
	swapThenOnebyone
	twobytwo
	singular
)

type pivotResult struct {
	kind pivotKindResult
	r    int // partner row, meaningful for swapThenOnebyone, twobytwo and singular
	r2   int // second partner row, meaningful for twobytwo only
}

// maxAbsExcluding returns the largest |buf.val[i]| over buf's touched
// indices, skipping except, and the row at which it occurs. It returns
// (0, -1) if no other index is touched.
func maxAbsExcluding(buf *colBuffer, except int) (float64, int) {
	best, bestRow := 0.0, -1
	for _, i := range buf.idx {
		if i == except {
			continue
		}
		if v := math.Abs(buf.val[i]); v > best {
			best, bestRow = v, i
		}
	}
	return best, bestRow
}

// selectPivot assembles the column(s) needed to pick a pivot at step k,
// using st.colK (already assembled by the caller for column k) as the
// starting point, and returns the chosen pivot. It may assemble st.colR as
// a side effect.
func (st *state) selectPivot(k int) pivotResult {
	diagK := st.colK.val[k]
	omega1, r1 := maxAbsExcluding(st.colK, k)

	if omega1 == 0 {
		if diagK == 0 {
			return pivotResult{kind: singular, r: k}
		}
		return pivotResult{kind: onebyone}
	}

	if st.opts.Pivot == Bunch {
		ppTol := st.opts.PPTol
		if math.Abs(diagK) >= ppTol*omega1 {
			return pivotResult{kind: onebyone}
		}
		st.colR.reset()
		st.assembleInto(st.colR, r1, k)
		diagR := st.colR.val[r1]
		omegaR, _ := maxAbsExcluding(st.colR, r1)
		switch {
		case omegaR == 0 || math.Abs(diagK)*omegaR >= ppTol*omega1*omega1:
			return pivotResult{kind: onebyone}
		case math.Abs(diagR) >= ppTol*omegaR:
			return pivotResult{kind: swapThenOnebyone, r: r1}
		default:
			return pivotResult{kind: twobytwo, r: k, r2: r1}
		}
	}

	// Rook pivoting ignores pp_tol entirely: acceptance is plain diagonal
	// dominance within the column under consideration, ppTol=1 throughout.
	if math.Abs(diagK) >= omega1 {
		return pivotResult{kind: onebyone}
	}
	return st.rookSearch(k, r1)
}

// rookSearch follows the chain of column maxima starting at r1, the row of
// largest magnitude in the already-assembled column k, until it finds a
// column whose own maximum (excluding its diagonal) is no larger than its
// diagonal, or detects the chain oscillating between a pair of rows and
// returns that pair as a 2x2 pivot. Neither returned row is ever <= k
// unless the pair's other endpoint is k itself (when the oscillation comes
// straight back to the starting column).
func (st *state) rookSearch(k, r1 int) pivotResult {
	r := r1
	var next int
	visited := make(map[int]bool)

	for iter := 0; iter < st.n; iter++ {
		st.colR.reset()
		st.assembleInto(st.colR, r, k)
		diagR := st.colR.val[r]
		var omegaR float64
		omegaR, next = maxAbsExcluding(st.colR, r)

		if omegaR == 0 {
			if diagR == 0 {
				return pivotResult{kind: singular, r: r}
			}
			if r == k {
				return pivotResult{kind: onebyone}
			}
			return pivotResult{kind: swapThenOnebyone, r: r}
		}
		if math.Abs(diagR) >= omegaR {
			if r == k {
				return pivotResult{kind: onebyone}
			}
			return pivotResult{kind: swapThenOnebyone, r: r}
		}
		if visited[next] {
			// r's own column maximum points back to next, and next was
			// already visited -- the chain is oscillating between the pair
			// (r, next). Both rows, not just r, form the 2x2 pivot.
			return pivotResult{kind: twobytwo, r: r, r2: next}
		}
		visited[r] = true
		r = next
	}
	return pivotResult{kind: twobytwo, r: r, r2: next}
}
