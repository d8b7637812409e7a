// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package minres implements the MINRES algorithm of Paige and Saunders for
// solving symmetric (possibly indefinite) linear systems, typically
// preconditioned by an incomplete LDL^T factorization from the ldl
// package.
//
// No published gonum release carries a MINRES method -- linsolve ships CG,
// BiCG, and GMRES-family solvers, none of which are appropriate for a
// symmetric indefinite system -- so this fills the gap the corpus leaves,
// modeled on linsolve's own shape: a MatVec/Preconditioner pair of small
// interfaces, a Settings struct, and a Stats-bearing Result, rather than a
// bespoke ad hoc signature.
package minres

import "math"

// MatVec multiplies a vector by the system matrix.
type MatVec interface {
	MulVec(dst, src []float64)
}

// MatVecFunc adapts a plain function to MatVec.
type MatVecFunc func(dst, src []float64)

// MulVec implements MatVec.
func (f MatVecFunc) MulVec(dst, src []float64) { f(dst, src) }

// Preconditioner approximately solves M*dst = src for a preconditioner M.
// The identity preconditioner is nil -- callers that don't have one simply
// pass nil to Solve.
type Preconditioner interface {
	PreconSolve(dst, src []float64) error
}

// PreconditionerFunc adapts a plain function to Preconditioner.
type PreconditionerFunc func(dst, src []float64) error

// PreconSolve implements Preconditioner.
func (f PreconditionerFunc) PreconSolve(dst, src []float64) error { return f(dst, src) }

// Settings controls a single call to Solve.
type Settings struct {
	// Tolerance is the relative residual ||Ax-b||/||b|| at which Solve
	// declares convergence.
	Tolerance float64
	// MaxIterations caps the number of Lanczos steps. Zero means len(b).
	MaxIterations int
	// InitialGuess, if non-nil, seeds x0. The zero vector is used
	// otherwise.
	InitialGuess []float64
}

// Stats reports how a call to Solve went.
type Stats struct {
	Iterations   int
	ResidualNorm float64 // ||Ax-b|| / ||b||
}

// Result is the outcome of a call to Solve.
type Result struct {
	X     []float64
	Stats Stats
}

// ErrIterationLimit is returned by Solve when MaxIterations is reached
// without meeting Tolerance.
type ErrIterationLimit struct {
	Stats Stats
}

func (e *ErrIterationLimit) Error() string {
	return "minres: iteration limit reached before convergence"
}

func axpy(dst []float64, a float64, src []float64) {
	for i, v := range src {
		dst[i] += a * v
	}
}

func norm2(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func symOrtho(a, b float64) (c, s, r float64) {
	switch {
	case b == 0:
		s = 0
		r = math.Abs(a)
		if a == 0 {
			c = 1
		} else {
			c = sign(a)
		}
	case a == 0:
		c = 0
		s = sign(b)
		r = math.Abs(b)
	case math.Abs(b) > math.Abs(a):
		tau := a / b
		s = sign(b) / math.Sqrt(1+tau*tau)
		c = s * tau
		r = b / s
	default:
		tau := b / a
		c = sign(a) / math.Sqrt(1+tau*tau)
		s = c * tau
		r = a / c
	}
	return c, s, r
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
