// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import "github.com/PaulMullowney/matrix-factor/minres"

// Preconditioner wraps a Factorization as a minres.Preconditioner: given a
// right-hand side in the original (pre-scaling, pre-reordering) variable
// order, it applies S*P*(L*D*L^T)^-1*P^T*S, approximately inverting A.
//
// scale is the diagonal equilibration the caller applied before handing
// the matrix to Factorize (equilibrate.Scale's return value), indexed by
// original variable; pass nil if no equilibration was used.
func (fac *Factorization) Preconditioner(scale []float64) minres.Preconditioner {
	n := fac.N
	return minres.PreconditionerFunc(func(dst, src []float64) error {
		permuted := make([]float64, n)
		for k := 0; k < n; k++ {
			orig := fac.Perm[k]
			s := 1.0
			if scale != nil {
				s = scale[orig]
			}
			permuted[k] = s * src[orig]
		}

		u := append([]float64(nil), permuted...)
		for j := 0; j < n; j++ {
			for p, i := range fac.L.ColIdx[j] {
				u[i] -= fac.L.ColVal[j][p] * u[j]
			}
		}

		w := make([]float64, n)
		for _, blk := range fac.D {
			if blk.Size == 1 {
				d := blk.D11
				if d == 0 {
					d = 1
				}
				w[blk.Start] = u[blk.Start] / d
				continue
			}
			det := blk.D11*blk.D22 - blk.D21*blk.D21
			if det == 0 {
				det = 1
			}
			a, b := u[blk.Start], u[blk.Start+1]
			w[blk.Start] = (blk.D22*a - blk.D21*b) / det
			w[blk.Start+1] = (-blk.D21*a + blk.D11*b) / det
		}

		y := append([]float64(nil), w...)
		for j := n - 1; j >= 0; j-- {
			for p, i := range fac.L.ColIdx[j] {
				y[j] -= fac.L.ColVal[j][p] * y[i]
			}
		}

		for k := 0; k < n; k++ {
			orig := fac.Perm[k]
			s := 1.0
			if scale != nil {
				s = scale[orig]
			}
			dst[orig] = s * y[k]
		}
		return nil
	})
}
