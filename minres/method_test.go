// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/linsolve"
	"gonum.org/v1/gonum/mat"
)

// denseMulVecToer adapts a dense symmetric matrix to linsolve.MulVecToer.
type denseMulVecToer [][]float64

func (m denseMulVecToer) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	n := len(m)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += m[i][j] * x.AtVec(j)
		}
		dst.SetVec(i, s)
	}
}

func TestMethodSolvesSPDSystemViaLinsolve(t *testing.T) {
	a := denseMulVecToer{
		{4, 1, 0},
		{1, 3, 1},
		{0, 1, 2},
	}
	b := mat.NewVecDense(3, []float64{1, 2, 3})

	res, err := linsolve.Iterative(a, b, &Method{}, &linsolve.Settings{Tolerance: 1e-10})
	require.NoError(t, err)

	var ax mat.VecDense
	ax.MulVec(matrixOf(a), res.X)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, b.AtVec(i), ax.AtVec(i), 1e-6)
	}
}

// matrixOf adapts denseMulVecToer to mat.Matrix for residual verification.
func matrixOf(m denseMulVecToer) mat.Matrix {
	n := len(m)
	data := make([]float64, 0, n*n)
	for _, row := range m {
		data = append(data, row...)
	}
	return mat.NewDense(n, n, data)
}

func TestMethodHandlesIndefiniteSystem(t *testing.T) {
	a := denseMulVecToer{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	}
	b := mat.NewVecDense(3, []float64{1, 0, 1})

	res, err := linsolve.Iterative(a, b, &Method{}, &linsolve.Settings{Tolerance: 1e-8, MaxIterations: 20})
	if err != nil {
		assert.ErrorIs(t, err, linsolve.ErrIterationLimit)
	}
	var ax mat.VecDense
	ax.MulVec(matrixOf(a), res.X)
	var resid mat.VecDense
	resid.SubVec(&ax, b)
	assert.Less(t, mat.Norm(&resid, 2), 1e-3)
}
