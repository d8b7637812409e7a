// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import (
	"math"
	"sort"

	"github.com/PaulMullowney/matrix-factor/symsparse"
)

type candidate struct {
	row int
	val float64
}

// dropColumn applies the dual drop rule to an assembled column's
// off-diagonal candidates: a relative-norm threshold (discard anything
// smaller than tol times the column's one-norm) followed by the shared fill
// cap st.fillCap (keep only the floor(Fill*nnz(A)/n) largest survivors by
// magnitude, the same cap for every column).
func (st *state) dropColumn(cands []candidate) []candidate {
	if len(cands) == 0 {
		return cands
	}
	var norm float64
	for _, c := range cands {
		norm += math.Abs(c.val)
	}
	tau := st.opts.Tol * norm

	kept := cands[:0]
	for _, c := range cands {
		if math.Abs(c.val) >= tau {
			kept = append(kept, c)
		}
	}

	if len(kept) <= st.fillCap {
		return kept
	}
	sort.Slice(kept, func(i, j int) bool {
		return math.Abs(kept[i].val) > math.Abs(kept[j].val)
	})
	return kept[:st.fillCap]
}

// finalizeColumn moves column k's entries out of the active matrix: every
// row that currently lists k as active is frozen, and column k's own
// arrays are cleared, since everything in them has now been consumed into
// L and D.
func finalizeColumn(a *symsparse.Matrix, k int) {
	rows := append([]int(nil), a.ColIdx[k]...)
	for _, i := range rows {
		a.Freeze(i, k)
	}
	a.ColIdx[k] = nil
	a.ColVal[k] = nil
}

// emitOneByOne writes a 1x1 pivot at column k, built from buf (already
// assembled for column k, rows >= k), to L and D.
func (st *state) emitOneByOne(k int, buf *colBuffer) {
	d := buf.val[k]
	singular := d == 0
	if singular {
		d = 1
		st.diag.Singular = true
		st.diag.SingularSteps = append(st.diag.SingularSteps, k)
	}

	var cands []candidate
	for _, i := range buf.idx {
		if i == k {
			continue
		}
		cands = append(cands, candidate{i, buf.val[i]})
	}
	kept := st.dropColumn(cands)

	rows := make([]int, len(kept))
	vals := make([]float64, len(kept))
	for i, c := range kept {
		rows[i] = c.row
		vals[i] = c.val / d
	}
	st.l.AppendColumn(k, rows, vals)

	st.blockOf[k] = len(st.blocks)
	st.blockStart[k] = k
	st.blocks = append(st.blocks, Block{Start: k, Size: 1, D11: d})

	finalizeColumn(st.a, k)
}

// emitTwoByTwo writes a 2x2 pivot spanning columns k and k+1 (which must
// already be adjacent -- the caller is responsible for any swap needed to
// bring the second pivot row into k+1), built from colK (column k) and
// colK1 (column k+1), both assembled for rows >= k.
func (st *state) emitTwoByTwo(k int, colK, colK1 *colBuffer) {
	d11 := colK.val[k]
	d21 := colK.val[k+1]
	d22 := colK1.val[k+1]
	det := d11*d22 - d21*d21
	if det == 0 {
		det = 1
		d11, d22, d21 = 1, 1, 0
		st.diag.Singular = true
		st.diag.SingularSteps = append(st.diag.SingularSteps, k)
	}

	rows := make(map[int]bool)
	for _, i := range colK.idx {
		if i > k+1 {
			rows[i] = true
		}
	}
	for _, i := range colK1.idx {
		if i > k+1 {
			rows[i] = true
		}
	}

	var cands1, cands2 []candidate
	for i := range rows {
		a1 := colK.val[i]
		a2 := colK1.val[i]
		l1 := (d22*a1 - d21*a2) / det
		l2 := (-d21*a1 + d11*a2) / det
		cands1 = append(cands1, candidate{i, l1})
		cands2 = append(cands2, candidate{i, l2})
	}

	kept1 := st.dropColumn(cands1)
	kept2 := st.dropColumn(cands2)

	rows1 := make([]int, len(kept1))
	vals1 := make([]float64, len(kept1))
	for i, c := range kept1 {
		rows1[i], vals1[i] = c.row, c.val
	}
	rows2 := make([]int, len(kept2))
	vals2 := make([]float64, len(kept2))
	for i, c := range kept2 {
		rows2[i], vals2[i] = c.row, c.val
	}
	st.l.AppendColumn(k, rows1, vals1)
	st.l.AppendColumn(k+1, rows2, vals2)

	blk := Block{Start: k, Size: 2, D11: d11, D21: d21, D22: d22}
	idx := len(st.blocks)
	st.blocks = append(st.blocks, blk)
	st.blockOf[k] = idx
	st.blockOf[k+1] = idx
	st.blockStart[k] = k
	st.blockStart[k+1] = k

	finalizeColumn(st.a, k)
	finalizeColumn(st.a, k+1)
	st.diag.TwoByTwo++
}
