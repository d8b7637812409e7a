// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import "github.com/PaulMullowney/matrix-factor/symsparse"

// swapA performs a symmetric swap of rows/columns k and r (r > k) on the
// still-active part of the matrix: the frozen prefix of both rows is
// relabeled in place, and the four regions of the active suffix -- row-row,
// row-column, column-column, and the two diagonals -- are rebuilt from
// scratch into fresh column/row arrays. L's row lists, which only ever
// touch finalized (frozen) columns, need nothing more than the same
// row-row relabeling.
func (st *state) swapA(k, r int) {
	a := st.a
	sign := float64(a.S)

	rowRPrefix := append([]int(nil), a.RowList[k][:a.RowFirst[k]]...)
	rowKPrefix := append([]int(nil), a.RowList[r][:a.RowFirst[r]]...)
	for _, col := range unionInts(rowRPrefix, rowKPrefix) {
		symsparse.SwapRowLabel(a.ColIdx[col], k, r)
	}

	rowR := append([]int(nil), rowRPrefix...)
	rowK := append([]int(nil), rowKPrefix...)
	var colKIdx []int
	var colKVal []float64
	var colRIdx []int
	var colRVal []float64

	// Row r's active suffix: entries (r, j), k <= j < r, stored in column j.
	// The diagonal (r, r) is left for the column-r pass below.
	for idx := a.RowFirst[r]; idx < len(a.RowList[r]); idx++ {
		j := a.RowList[r][idx]
		if j == r {
			continue
		}
		pos, ok := a.CoeffRef(r, j)
		if !ok {
			continue
		}
		v := a.ColVal[j][pos] * sign
		if j == k {
			colKIdx = append(colKIdx, r)
			colKVal = append(colKVal, v)
			rowR = append(rowR, k)
		} else {
			colKIdx = append(colKIdx, j)
			colKVal = append(colKVal, v)
			a.RowList[j] = append(a.RowList[j], k)
		}
		a.SwapRemove(j, pos)
	}

	// Column r's own suffix: the diagonal A(r,r) and A(i,r), i > r.
	for p, idx := range a.ColIdx[r] {
		v := a.ColVal[r][p]
		switch {
		case idx > r:
			colKIdx = append(colKIdx, idx)
			colKVal = append(colKVal, v)
			renameRowEntry(a, idx, r, k)
		case idx == r:
			colKIdx = append(colKIdx, k)
			colKVal = append(colKVal, v)
			rowK = append(rowK, k)
		}
	}

	// Column k's own suffix, classified against r.
	for p, idx := range a.ColIdx[k] {
		v := a.ColVal[k][p]
		switch {
		case idx > k && idx < r:
			a.ColIdx[idx] = append(a.ColIdx[idx], r)
			a.ColVal[idx] = append(a.ColVal[idx], v*sign)
			removeRowEntry(a, idx, k)
			rowR = append(rowR, idx)
		case idx > r:
			colRIdx = append(colRIdx, idx)
			colRVal = append(colRVal, v)
			renameRowEntry(a, idx, k, r)
		case idx == k:
			colRIdx = append(colRIdx, r)
			colRVal = append(colRVal, v)
			rowR = append(rowR, r)
		}
	}

	a.ColIdx[k], a.ColVal[k] = colKIdx, colKVal
	a.ColIdx[r], a.ColVal[r] = colRIdx, colRVal
	a.RowList[k], a.RowList[r] = rowK, rowR
	a.RowFirst[k], a.RowFirst[r] = a.RowFirst[r], a.RowFirst[k]

	st.l.SwapRows(k, r)
	st.perm[k], st.perm[r] = st.perm[r], st.perm[k]
	st.diag.Swaps++
}

// bringPairToFront brings the two pivot rows p and q -- the pair a rook
// search settled on, in either order, possibly with one of them already
// equal to k -- into positions k and k+1 using at most two calls to swapA,
// so the caller can always treat (k, k+1) as the 2x2 pivot's rows.
func (st *state) bringPairToFront(k, p, q int) {
	if p == k {
		if q != k+1 {
			st.swapA(k+1, q)
		}
		return
	}
	if q == k {
		if p != k+1 {
			st.swapA(k+1, p)
		}
		return
	}
	st.swapA(k, p)
	if q != k+1 {
		st.swapA(k+1, q)
	}
}

// renameRowEntry relabels the single entry equal to from in row i's list to
// to. It panics if from isn't present, which would mean a's row/column
// arrays had already gone out of sync before the swap began.
func renameRowEntry(a *symsparse.Matrix, i, from, to int) {
	pos, ok := a.FindInRow(i, from)
	if !ok {
		panic("ldl: swap: row entry not found for rename")
	}
	a.SetRowAt(i, pos, to)
}

// removeRowEntry deletes the single entry equal to col from row i's list.
func removeRowEntry(a *symsparse.Matrix, i, col int) {
	pos, ok := a.FindInRow(i, col)
	if !ok {
		panic("ldl: swap: row entry not found for removal")
	}
	a.RemoveRowAt(i, pos)
}

func unionInts(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
