// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minres

import "math"

// Solve runs preconditioned MINRES on A*x = b, following the Lanczos
// three-term recurrence with a running QR factorization of the resulting
// tridiagonal matrix (Paige & Saunders, 1975; Choi, 2006). precon may be
// nil, in which case the identity preconditioner is used.
func Solve(a MatVec, b []float64, precon Preconditioner, settings Settings) (Result, error) {
	n := len(b)
	maxIter := settings.MaxIterations
	if maxIter <= 0 {
		maxIter = n
	}

	x := make([]float64, n)
	if settings.InitialGuess != nil {
		copy(x, settings.InitialGuess)
	}
	bnorm := norm2(b)
	if bnorm == 0 {
		return Result{X: x, Stats: Stats{}}, nil
	}

	ax := make([]float64, n)
	a.MulVec(ax, x)
	r1 := make([]float64, n)
	for i := range r1 {
		r1[i] = b[i] - ax[i]
	}

	y := make([]float64, n)
	if err := solvePrecon(precon, y, r1); err != nil {
		return Result{}, err
	}
	beta1 := math.Sqrt(dot(r1, y))
	if beta1 == 0 {
		return Result{X: x, Stats: Stats{ResidualNorm: 0}}, nil
	}

	beta := beta1
	oldb := 0.0
	dbar := 0.0
	epsln := 0.0
	phibar := beta1
	cs, sn := -1.0, 0.0
	qrnorm := beta1

	r2 := append([]float64(nil), r1...)
	v := make([]float64, n)
	av := make([]float64, n)
	w := make([]float64, n)
	w1 := make([]float64, n)
	w2 := make([]float64, n)

	iter := 0
	for iter = 1; iter <= maxIter; iter++ {
		s := 1 / beta
		for i := range v {
			v[i] = s * y[i]
		}

		a.MulVec(av, v)
		if iter > 1 {
			ratio := beta / oldb
			for i := range av {
				av[i] -= ratio * r1[i]
			}
		}
		alfa := dot(v, av)
		for i := range av {
			av[i] -= (alfa / beta) * r2[i]
		}

		copy(r1, r2)
		copy(r2, av)
		if err := solvePrecon(precon, y, r2); err != nil {
			return Result{}, err
		}
		oldb = beta
		beta = math.Sqrt(dot(r2, y))

		oldeps := epsln
		delta := cs*dbar + sn*alfa
		gbar := sn*dbar - cs*alfa
		epsln = sn * beta
		dbar = -cs * beta

		var gamma float64
		cs, sn, gamma = symOrtho(gbar, beta)
		if gamma == 0 {
			gamma = 1e-300
		}

		phi := cs * phibar
		phibar = sn * phibar

		denom := 1 / gamma
		copy(w1, w2)
		copy(w2, w)
		for i := range w {
			w[i] = (v[i] - oldeps*w1[i] - delta*w2[i]) * denom
		}
		axpy(x, phi, w)

		qrnorm = math.Abs(phibar)
		if rel := qrnorm / bnorm; rel <= settings.Tolerance {
			return Result{X: x, Stats: Stats{Iterations: iter, ResidualNorm: rel}}, nil
		}
	}

	stats := Stats{Iterations: iter - 1, ResidualNorm: qrnorm / bnorm}
	return Result{X: x, Stats: stats}, &ErrIterationLimit{Stats: stats}
}

func solvePrecon(precon Preconditioner, dst, src []float64) error {
	if precon == nil {
		copy(dst, src)
		return nil
	}
	return precon.PreconSolve(dst, src)
}
