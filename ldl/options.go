// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ldl computes an incomplete LDL^T factorization of a sparse
// symmetric or skew-symmetric matrix, pivoting for stability with a
// Bunch-Kaufman or rook rule and dropping small fill to bound the cost of
// the factors.
package ldl

import "github.com/rs/zerolog"

// PivotKind selects the stability test used to choose between 1x1 and 2x2
// pivots at each step.
type PivotKind int

const (
	// Bunch runs the classical Bunch-Kaufman test: examine the column of
	// largest off-diagonal magnitude, consult at most one other column.
	Bunch PivotKind = iota
	// Rook runs rook pivoting: follow the chain of maximum entries across
	// columns until one is found whose own column maximum is no larger than
	// its diagonal, or until a cycle forces a 2x2 pivot.
	Rook
)

func (k PivotKind) String() string {
	if k == Rook {
		return "rook"
	}
	return "bunch"
}

// ParsePivotKind parses the CLI/config spelling of a pivoting rule.
func ParsePivotKind(s string) (PivotKind, error) {
	switch s {
	case "rook", "":
		return Rook, nil
	case "bunch":
		return Bunch, nil
	default:
		return Rook, errUnknownPivot(s)
	}
}

// ClassicalAlpha is the textbook Bunch-Kaufman threshold (1+sqrt(17))/8,
// the value that minimizes the worst-case element growth factor. It isn't
// used directly here -- PPTol plays the threshold's role -- but is exposed
// for callers that want to reproduce the classical algorithm's default.
const ClassicalAlpha = 0.6404

// Options controls a single call to Factorize.
type Options struct {
	// Fill bounds the number of off-diagonal entries kept per column of L.
	// The cap is floor(Fill * nnz(A)/N) -- nnz(A)/N, A's average column
	// density, times Fill -- computed once from the input matrix and
	// applied uniformly to every column, with a floor of 1.
	Fill float64

	// Tol is the relative drop tolerance: entries of an assembled column
	// smaller in magnitude than Tol times the column's one-norm are
	// discarded before the fill cap is applied.
	Tol float64

	// PPTol is the partial-pivoting threshold. A 1x1 pivot at the current
	// step is accepted outright when its magnitude is at least
	// PPTol*omega1, where omega1 is the largest off-diagonal magnitude in
	// the assembled column. PPTol=1 recovers strict partial pivoting;
	// smaller values favor diagonal pivots more often, trading stability
	// for sparsity.
	PPTol float64

	// Pivot selects the stability test.
	Pivot PivotKind

	// Inplace permits Factorize to consume and overwrite its input matrix
	// rather than copying it first.
	Inplace bool

	// Logger receives progress and diagnostic events. The zero value logs
	// nothing.
	Logger zerolog.Logger
}

// DefaultOptions returns the option set the original driver falls back to
// when a flag is left unset.
func DefaultOptions() Options {
	return Options{
		Fill:    1.0,
		Tol:     0.001,
		PPTol:   1.0,
		Pivot:   Rook,
		Inplace: false,
		Logger:  zerolog.Nop(),
	}
}
