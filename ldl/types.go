// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import "github.com/PaulMullowney/matrix-factor/symsparse"

// Block describes one diagonal block of D. Size is 1 or 2. For a 2x2 block,
// D11 and D22 are the two diagonal entries and D21 is the off-diagonal
// entry shared by symmetry (D12 = D21).
type Block struct {
	Start int
	Size  int
	D11   float64
	D21   float64
	D22   float64
}

// Diagnostics reports numerical events encountered while factoring. None of
// them are treated as hard errors -- an indefinite, incomplete
// factorization routinely produces ill-conditioned or exactly singular
// 1x1 pivots -- but a caller doing iterative refinement or troubleshooting
// wants to see them.
type Diagnostics struct {
	// SingularSteps lists the (possibly empty) assembled columns at which
	// every candidate pivot rounded to zero and a unit pivot was
	// substituted to let the factorization continue.
	SingularSteps []int
	// Singular is true when SingularSteps is non-empty.
	Singular bool
	// Swaps counts the symmetric row/column swaps performed while pivoting.
	Swaps int
	// TwoByTwo counts the number of 2x2 blocks chosen.
	TwoByTwo int
}

// Factorization is the result of Factorize: P^T S A S P = L D L^T (up to
// dropped fill), where S is the equilibration the caller applied beforehand
// (equilibrate.Scale). Factorize never receives or applies S, and S is not
// recorded here; the caller keeps it (see Preconditioner).
type Factorization struct {
	N    int
	L    *symsparse.LStore
	D    []Block
	Perm []int
	Diag Diagnostics
}
