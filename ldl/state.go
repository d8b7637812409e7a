// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import "github.com/PaulMullowney/matrix-factor/symsparse"

// colBuffer is a reusable dense scratch column, cleared in O(touched)
// between uses.
type colBuffer struct {
	val    []float64
	marked []bool
	idx    []int
}

func newColBuffer(n int) *colBuffer {
	return &colBuffer{
		val:    make([]float64, n),
		marked: make([]bool, n),
	}
}

func (b *colBuffer) add(i int, v float64) {
	if !b.marked[i] {
		b.marked[i] = true
		b.idx = append(b.idx, i)
	}
	b.val[i] += v
}

func (b *colBuffer) reset() {
	for _, i := range b.idx {
		b.val[i] = 0
		b.marked[i] = false
	}
	b.idx = b.idx[:0]
}

// state carries everything the pivoting, swap, Crout, and drop steps share
// across a single call to Factorize.
type state struct {
	a *symsparse.Matrix
	l *symsparse.LStore
	n int

	perm []int

	// blockStart[j] names the first column of the finalized block that
	// column j belongs to; -1 if j hasn't been finalized yet.
	blockStart []int
	// blockOf[j], valid when blockStart[j] >= 0, indexes blocks.
	blockOf []int
	blocks  []Block

	opts Options
	diag Diagnostics

	colK, colR *colBuffer

	// fillCap is the maximum number of off-diagonal entries kept per
	// finalized column: floor(Fill * nnz(A)/n), computed once from A's
	// nonzero count before any column is consumed, per spec.
	fillCap int
}

func newState(a *symsparse.Matrix, perm []int, opts Options) *state {
	n := a.N
	blockStart := make([]int, n)
	blockOf := make([]int, n)
	for i := range blockStart {
		blockStart[i] = -1
		blockOf[i] = -1
	}
	nnz := 0
	for j := 0; j < n; j++ {
		nnz += len(a.ColIdx[j])
	}
	fillCap := int(opts.Fill * float64(nnz) / float64(n))
	if fillCap < 1 {
		fillCap = 1
	}
	return &state{
		a:          a,
		l:          symsparse.NewL(n),
		n:          n,
		perm:       perm,
		blockStart: blockStart,
		blockOf:    blockOf,
		opts:       opts,
		colK:       newColBuffer(n),
		colR:       newColBuffer(n),
		fillCap:    fillCap,
	}
}

// lstoreValueAt returns L(row, col), or 0 if not stored.
func lstoreValueAt(l *symsparse.LStore, row, col int) float64 {
	for p, r := range l.ColIdx[col] {
		if r == row {
			return l.ColVal[col][p]
		}
	}
	return 0
}
