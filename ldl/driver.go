// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import (
	"fmt"

	"github.com/PaulMullowney/matrix-factor/symsparse"
)

// Factorize computes an incomplete LDL^T factorization of a, assumed to
// already carry any equilibration and fill-reducing reordering the caller
// wants applied (see the equilibrate and reorder packages). perm is the
// permutation a's rows/columns currently correspond to -- typically the one
// reorder.Permute returned, or the identity if none was applied -- and is
// returned updated with every runtime pivot swap composed in, so the
// caller can recover the original row/column each entry of L and D refers
// to.
func Factorize(a *symsparse.Matrix, perm []int, opts Options) (*Factorization, error) {
	n := a.N
	if n <= 0 {
		return nil, ErrEmptyMatrix
	}
	if len(perm) != n {
		return nil, fmt.Errorf("ldl: permutation length %d does not match matrix order %d", len(perm), n)
	}

	work := a
	if !opts.Inplace {
		work = cloneMatrix(a)
	}
	p := append([]int(nil), perm...)
	st := newState(work, p, opts)
	log := opts.Logger

	k := 0
	for k < n-1 {
		st.colK.reset()
		st.assembleInto(st.colK, k, k)
		pr := st.selectPivot(k)

		switch pr.kind {
		case singular:
			if pr.r != k {
				st.swapA(k, pr.r)
				st.colK.reset()
				st.assembleInto(st.colK, k, k)
			}
			log.Warn().Int("step", k).Msg("singular column, substituting unit pivot")
			st.emitOneByOne(k, st.colK)
			k++

		case onebyone:
			st.emitOneByOne(k, st.colK)
			k++

		case swapThenOnebyone:
			st.swapA(k, pr.r)
			st.colK.reset()
			st.assembleInto(st.colK, k, k)
			st.emitOneByOne(k, st.colK)
			k++

		case twobytwo:
			st.bringPairToFront(k, pr.r, pr.r2)
			st.colK.reset()
			st.assembleInto(st.colK, k, k)
			colK1 := newColBuffer(n)
			st.assembleInto(colK1, k+1, k)
			st.emitTwoByTwo(k, st.colK, colK1)
			k += 2
		}
	}
	if k == n-1 {
		// A single column remains: it has no off-diagonal partner left to
		// pivot against, so it is always taken as a 1x1 pivot.
		st.colK.reset()
		st.assembleInto(st.colK, k, k)
		st.emitOneByOne(k, st.colK)
	}

	log.Info().
		Int("n", n).
		Int("swaps", st.diag.Swaps).
		Int("two_by_two", st.diag.TwoByTwo).
		Bool("singular", st.diag.Singular).
		Msg("factorization complete")

	return &Factorization{N: n, L: st.l, D: st.blocks, Perm: st.perm, Diag: st.diag}, nil
}

// cloneMatrix deep-copies a into a fresh Matrix with every row's
// frozen/active boundary reset to zero, the state Factorize expects of its
// input.
func cloneMatrix(a *symsparse.Matrix) *symsparse.Matrix {
	out := symsparse.New(a.N, a.S)
	for j := 0; j < a.N; j++ {
		for p, i := range a.ColIdx[j] {
			out.Append(i, j, a.ColVal[j][p])
		}
	}
	return out
}
