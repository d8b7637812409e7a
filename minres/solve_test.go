// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// denseSym is a small dense symmetric MatVec for testing.
type denseSym [][]float64

func (m denseSym) MulVec(dst, src []float64) {
	for i := range dst {
		var s float64
		for j, v := range src {
			s += m[i][j] * v
		}
		dst[i] = s
	}
}

func residualNorm(a MatVec, x, b []float64) float64 {
	n := len(b)
	ax := make([]float64, n)
	a.MulVec(ax, x)
	var s float64
	for i := range b {
		d := ax[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

func TestSolveSPDSystem(t *testing.T) {
	a := denseSym{
		{4, 1, 0},
		{1, 3, 1},
		{0, 1, 2},
	}
	b := []float64{1, 2, 3}
	res, err := Solve(a, b, nil, Settings{Tolerance: 1e-10, MaxIterations: 50})
	require.NoError(t, err)
	assert.Less(t, residualNorm(a, res.X, b), 1e-6)
}

func TestSolveIndefiniteSystem(t *testing.T) {
	a := denseSym{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	}
	b := []float64{1, 0, 1}
	res, err := Solve(a, b, nil, Settings{Tolerance: 1e-10, MaxIterations: 50})
	// This system's matrix is singular (rank 2 of 3); MINRES should still
	// reduce the residual substantially within the minimum residual
	// subspace even without converging to the requested tolerance.
	if err != nil {
		var limErr *ErrIterationLimit
		require.ErrorAs(t, err, &limErr)
	}
	assert.Less(t, residualNorm(a, res.X, b), 1e-3)
}

func TestSolveWithPreconditioner(t *testing.T) {
	a := denseSym{
		{4, 1, 0},
		{1, 3, 1},
		{0, 1, 2},
	}
	b := []float64{1, 2, 3}
	// Jacobi preconditioner.
	precon := PreconditionerFunc(func(dst, src []float64) error {
		diag := []float64{4, 3, 2}
		for i := range dst {
			dst[i] = src[i] / diag[i]
		}
		return nil
	})
	res, err := Solve(a, b, precon, Settings{Tolerance: 1e-10, MaxIterations: 50})
	require.NoError(t, err)
	assert.Less(t, residualNorm(a, res.X, b), 1e-6)
}

func TestSolveZeroRHS(t *testing.T) {
	a := denseSym{{1, 0}, {0, 1}}
	res, err := Solve(a, []float64{0, 0}, nil, Settings{Tolerance: 1e-10})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, res.X)
}
