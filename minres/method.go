// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minres

import (
	"math"

	"gonum.org/v1/gonum/linsolve"
	"gonum.org/v1/gonum/mat"
)

// Method implements linsolve.Method for the Paige-Saunders MINRES
// algorithm, following the same reverse-communication resume-state pattern
// as linsolve's own CG: Init captures the starting point, and each call to
// Iterate advances one step of the Lanczos recurrence and its incrementally
// updated QR factorization, commanding the caller to perform a MulVec or
// PreconSolve in between.
//
// Method is the literal linsolve.Method-conforming counterpart to Solve;
// Solve remains the simpler entry point for callers that already have a
// MatVec/Preconditioner pair and don't need linsolve.Iterative's generic
// driver loop or statistics.
type Method struct {
	x, r1, r2, y, v, av, w, w1 mat.VecDense
	w2                         mat.VecDense

	alfa, beta, oldb    float64
	dbar, epsln, phibar float64
	cs, sn              float64
	firstIter           bool

	resume int
}

// Init initializes the method. See the Method interface for more details.
func (m *Method) Init(x, residual *mat.VecDense) {
	dim := x.Len()
	if residual.Len() != dim {
		panic("minres: vector length mismatch")
	}

	m.x.CloneVec(x)
	m.r1.CloneVec(residual)
	m.r2.CloneVec(residual)

	for _, v := range []*mat.VecDense{&m.y, &m.v, &m.av, &m.w, &m.w1, &m.w2} {
		v.Reset()
		v.ReuseAsVec(dim)
	}

	m.cs, m.sn = -1, 0
	m.oldb, m.dbar, m.epsln = 0, 0, 0
	m.firstIter = true
	m.resume = 1
}

// Iterate performs a step of MINRES. See the Method interface for more
// details.
//
// Method will command the following operations: PreconSolve, MulVec,
// CheckResidualNorm, MajorIteration.
func (m *Method) Iterate(ctx *linsolve.Context) (linsolve.Operation, error) {
	switch m.resume {
	case 1:
		// y_0 = M^-1 * r1, to compute beta_1 = sqrt(r1 . y_0).
		ctx.Src.CopyVec(&m.r1)
		m.resume = 2
		return linsolve.PreconSolve, nil

	case 2:
		y := ctx.Dst
		beta1 := math.Sqrt(mat.Dot(&m.r1, y))
		if beta1 == 0 {
			beta1 = 1e-300
		}
		m.beta = beta1
		m.phibar = beta1
		m.y.CloneVec(y)
		m.nextMulVec(ctx)
		return linsolve.MulVec, nil

	case 3:
		av := ctx.Dst
		m.av.CloneVec(av)
		if !m.firstIter {
			ratio := m.beta / m.oldb
			m.av.AddScaledVec(&m.av, -ratio, &m.r1)
		}
		m.firstIter = false

		m.alfa = mat.Dot(&m.v, &m.av)
		m.av.AddScaledVec(&m.av, -m.alfa/m.beta, &m.r2)

		m.r1.CopyVec(&m.r2)
		m.r2.CopyVec(&m.av)

		ctx.Src.CopyVec(&m.r2)
		m.resume = 4
		return linsolve.PreconSolve, nil

	case 4:
		y := ctx.Dst
		m.oldb = m.beta
		m.beta = math.Sqrt(mat.Dot(&m.r2, y))
		m.y.CloneVec(y)

		oldeps := m.epsln
		delta := m.cs*m.dbar + m.sn*m.alfa
		gbar := m.sn*m.dbar - m.cs*m.alfa
		m.epsln = m.sn * m.beta
		m.dbar = -m.cs * m.beta

		cs, sn, gamma := symOrtho(gbar, m.beta)
		if gamma == 0 {
			gamma = 1e-300
		}
		m.cs, m.sn = cs, sn

		phi := cs * m.phibar
		m.phibar = sn * m.phibar

		denom := 1 / gamma
		m.w1.CopyVec(&m.w2)
		m.w2.CopyVec(&m.w)
		m.w.CopyVec(&m.v)
		m.w.AddScaledVec(&m.w, -oldeps, &m.w1)
		m.w.AddScaledVec(&m.w, -delta, &m.w2)
		m.w.ScaleVec(denom, &m.w)

		m.x.AddScaledVec(&m.x, phi, &m.w)

		ctx.X.CopyVec(&m.x)
		ctx.ResidualNorm = math.Abs(m.phibar)
		m.resume = 5
		return linsolve.CheckResidualNorm, nil

	case 5:
		if ctx.Converged {
			m.resume = 0
			return linsolve.MajorIteration, nil
		}
		m.resume = 6
		return linsolve.MajorIteration, nil

	case 6:
		m.nextMulVec(ctx)
		return linsolve.MulVec, nil

	default:
		panic("minres: Init not called")
	}
}

// nextMulVec computes v = y/beta from the most recently stored
// preconditioner solve, stages it as the next MulVec operand, and sets the
// resume state to consume the resulting A*v.
func (m *Method) nextMulVec(ctx *linsolve.Context) {
	m.v.CloneVec(&m.y)
	m.v.ScaleVec(1/m.beta, &m.v)
	ctx.Src.CopyVec(&m.v)
	m.resume = 3
}
