// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package equilibrate computes a symmetric diagonal scaling that puts a
// sparse symmetric (or skew-symmetric) matrix into Bunch's max-norm
// equilibrated form: after scaling, every stored entry has magnitude at
// most 1, and for each row/column with at least one nonzero, some entry in
// it attains magnitude exactly 1.
package equilibrate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/PaulMullowney/matrix-factor/symsparse"
)

// Scale computes a positive scaling vector S of length a.N such that the
// in-place update A <- S*A*S puts a's stored lower triangle into max-norm
// equilibrated form, and applies that update to a. Indices with no stored
// nonzero entry at all are left with scale 1.
//
// Entries are processed once, in decreasing order of magnitude: the first
// time a row/column index is touched by an unprocessed (still unscaled)
// entry, that entry pins the index's scale so the entry's magnitude becomes
// exactly 1; every later, smaller entry touching an already-pinned index is
// then automatically bounded by 1 without needing to revisit it. This
// reaches a consistent equilibration in a single sorted pass.
func Scale(a *symsparse.Matrix) []float64 {
	s := make([]float64, a.N)
	for i := range s {
		s[i] = 1
	}

	type entry struct {
		i, j int
		mag  float64
	}
	var entries []entry
	for j := 0; j < a.N; j++ {
		for p, i := range a.ColIdx[j] {
			entries = append(entries, entry{i, j, math.Abs(a.ColVal[j][p])})
		}
	}
	sort.Slice(entries, func(x, y int) bool { return entries[x].mag > entries[y].mag })

	fixed := make([]bool, a.N)
	for _, e := range entries {
		if e.mag == 0 {
			continue
		}
		if e.i == e.j {
			if !fixed[e.i] {
				s[e.i] = 1 / math.Sqrt(e.mag)
				fixed[e.i] = true
			}
			continue
		}
		switch {
		case !fixed[e.i] && !fixed[e.j]:
			v := 1 / math.Sqrt(e.mag)
			s[e.i], s[e.j] = v, v
			fixed[e.i], fixed[e.j] = true, true
		case fixed[e.i] && !fixed[e.j]:
			s[e.j] = 1 / (s[e.i] * e.mag)
			fixed[e.j] = true
		case !fixed[e.i] && fixed[e.j]:
			s[e.i] = 1 / (s[e.j] * e.mag)
			fixed[e.i] = true
		}
		// Both already fixed: this entry is bounded by construction.
	}

	apply(a, s)
	return s
}

// apply performs the in-place update A <- S*A*S over the stored lower
// triangle.
func apply(a *symsparse.Matrix, s []float64) {
	for j := 0; j < a.N; j++ {
		for p, i := range a.ColIdx[j] {
			a.ColVal[j][p] *= s[i] * s[j]
		}
	}
}

// MaxAbs returns the largest magnitude among a's stored entries, useful as
// a post-equilibration sanity check (it must be <= 1, modulo rounding).
func MaxAbs(a *symsparse.Matrix) float64 {
	var mags []float64
	for j := 0; j < a.N; j++ {
		for _, v := range a.ColVal[j] {
			mags = append(mags, math.Abs(v))
		}
	}
	if len(mags) == 0 {
		return 0
	}
	return floats.Max(mags)
}
