// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PaulMullowney/matrix-factor/symsparse"
)

// buildState assembles st.colK for column 0 of a small symmetric matrix
// given as a dense array, with the given options, ready for selectPivot(0).
func buildState(t *testing.T, dense [][]float64, opts Options) *state {
	t.Helper()
	n := len(dense)
	a := symsparse.New(n, symsparse.Symmetric)
	for j := 0; j < n; j++ {
		for i := j; i < n; i++ {
			if dense[i][j] != 0 {
				a.Append(i, j, dense[i][j])
			}
		}
	}
	st := newState(a, identityPerm(n), opts)
	st.colK.reset()
	st.assembleInto(st.colK, 0, 0)
	return st
}

func TestSelectPivotAcceptsOneByOneWhenDiagonalDominatesUnderPPTol(t *testing.T) {
	// Column 0: diag=4, largest off-diagonal magnitude 1. With pp_tol=1,
	// the literal threshold |A(k,k)| >= pp_tol*omega1 is 4 >= 1, so a 1x1
	// pivot at k is accepted outright without probing column 1.
	opts := DefaultOptions()
	opts.PPTol = 1.0
	opts.Pivot = Bunch
	st := buildState(t, [][]float64{
		{4, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	}, opts)

	got := st.selectPivot(0)
	assert.Equal(t, onebyone, got.kind)
}

func TestSelectPivotRejectsOneByOneWhenPPTolIsFull(t *testing.T) {
	// Same column, but the diagonal is now smaller than omega1, so even
	// pp_tol=1 (full Bunch-Kaufman) must probe column r1 before deciding.
	opts := DefaultOptions()
	opts.PPTol = 1.0
	opts.Pivot = Bunch
	st := buildState(t, [][]float64{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	}, opts)

	got := st.selectPivot(0)
	assert.NotEqual(t, onebyone, got.kind)
}

func TestSelectPivotZeroPPTolAlwaysAcceptsOneByOne(t *testing.T) {
	// pp_tol=0 disables partial pivoting entirely: the threshold
	// |A(k,k)| >= 0*omega1 holds unconditionally, including at a zero
	// diagonal with nonzero off-diagonal entries (handled separately as
	// the omega1==0 case doesn't apply here since omega1>0).
	opts := DefaultOptions()
	opts.PPTol = 0
	opts.Pivot = Bunch
	st := buildState(t, [][]float64{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	}, opts)

	got := st.selectPivot(0)
	assert.Equal(t, onebyone, got.kind)
}

func TestMaxAbsExcludingSkipsGivenIndex(t *testing.T) {
	buf := newColBuffer(4)
	buf.add(0, 5)
	buf.add(1, -9)
	buf.add(2, 3)

	best, row := maxAbsExcluding(buf, 1)
	assert.Equal(t, 5.0, best)
	assert.Equal(t, 0, row)
}

func TestMaxAbsExcludingEmptyReturnsNoRow(t *testing.T) {
	buf := newColBuffer(4)
	buf.add(2, 1)

	best, row := maxAbsExcluding(buf, 2)
	assert.Equal(t, 0.0, best)
	assert.Equal(t, -1, row)
}
