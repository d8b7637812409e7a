// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reorder computes a fill-reducing symmetric permutation of a
// sparse matrix's adjacency structure and applies it in place. The
// factorization kernel treats AMD and RCM as black boxes: it only relies on
// the contract that Permute takes the symmetric graph of A (its sparsity
// pattern, ignoring values and the diagonal) and returns a permutation
// vector, which is then applied symmetrically.
package reorder

import (
	"fmt"

	"github.com/PaulMullowney/matrix-factor/symsparse"
)

// Scheme selects a fill-reducing reordering algorithm.
type Scheme int

const (
	// None leaves the matrix in its input order.
	None Scheme = iota
	// AMD runs approximate minimum degree ordering.
	AMD
	// RCM runs reverse Cuthill-McKee ordering.
	RCM
)

func (s Scheme) String() string {
	switch s {
	case None:
		return "none"
	case AMD:
		return "amd"
	case RCM:
		return "rcm"
	default:
		return fmt.Sprintf("reorder.Scheme(%d)", int(s))
	}
}

// ParseScheme parses the CLI/config spelling of a reordering scheme.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "amd", "":
		return AMD, nil
	case "rcm":
		return RCM, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("reorder: unknown scheme %q (want amd, rcm, or none)", s)
	}
}

// adjacency builds an undirected, diagonal-free neighbor list from a's
// stored lower triangle: edge (i,j) exists whenever A(i,j) or A(j,i) is
// stored, regardless of value.
func adjacency(a *symsparse.Matrix) [][]int {
	adj := make([]map[int]struct{}, a.N)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	for j := 0; j < a.N; j++ {
		for _, i := range a.ColIdx[j] {
			if i == j {
				continue
			}
			adj[i][j] = struct{}{}
			adj[j][i] = struct{}{}
		}
	}
	out := make([][]int, a.N)
	for i, set := range adj {
		row := make([]int, 0, len(set))
		for v := range set {
			row = append(row, v)
		}
		out[i] = row
	}
	return out
}

// Permute computes a permutation of a's indices under scheme and applies it
// symmetrically to a in place. It returns perm, where perm[k] is the
// original index now occupying position k.
func Permute(a *symsparse.Matrix, scheme Scheme) ([]int, error) {
	var perm []int
	switch scheme {
	case None:
		perm = identity(a.N)
	case AMD:
		perm = amdOrder(adjacency(a))
	case RCM:
		perm = rcmOrder(adjacency(a))
	default:
		return nil, fmt.Errorf("reorder: unknown scheme %v", scheme)
	}
	apply(a, perm)
	return perm, nil
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// apply rebuilds a's column store and row lists under the permutation perm
// (perm[k] = original index at new position k).
func apply(a *symsparse.Matrix, perm []int) {
	n := a.N
	newIndex := make([]int, n)
	for k, orig := range perm {
		newIndex[orig] = k
	}

	type triplet struct {
		i, j int
		v    float64
	}
	var triplets []triplet
	for j := 0; j < n; j++ {
		for p, i := range a.ColIdx[j] {
			v := a.ColVal[j][p]
			ni, nj := newIndex[i], newIndex[j]
			if ni < nj {
				ni, nj = nj, ni
				v *= float64(a.S)
			}
			triplets = append(triplets, triplet{ni, nj, v})
		}
	}

	rebuilt := symsparse.New(n, a.S)
	for _, t := range triplets {
		rebuilt.Append(t.i, t.j, t.v)
	}
	*a = *rebuilt
}
