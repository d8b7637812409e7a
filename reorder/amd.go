// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reorder

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// amdOrder computes an approximate minimum degree elimination ordering of
// the graph described by adj (adj[i] lists i's neighbors). At each step the
// remaining vertex of smallest degree is eliminated, ties broken by lowest
// original index for determinism, and a fill edge is added between every
// pair of its still-live neighbors so later degree counts reflect the fill
// the elimination would actually introduce.
func amdOrder(adj [][]int) []int {
	n := len(adj)
	live := make([]map[int]struct{}, n)
	for i, nbrs := range adj {
		live[i] = make(map[int]struct{}, len(nbrs))
		for _, j := range nbrs {
			live[i][j] = struct{}{}
		}
	}
	eliminated := make([]bool, n)
	order := make([]int, 0, n)

	for len(order) < n {
		best, bestDeg := -1, -1
		for i := 0; i < n; i++ {
			if eliminated[i] {
				continue
			}
			d := len(live[i])
			if best == -1 || d < bestDeg || (d == bestDeg && i < best) {
				best, bestDeg = i, d
			}
		}

		nbrs := make([]int, 0, len(live[best]))
		for j := range live[best] {
			nbrs = append(nbrs, j)
		}
		sort.Ints(nbrs)

		// Form a fill clique among best's still-live neighbors: every pair
		// not already adjacent becomes adjacent, modeling the fill-in that
		// eliminating best would introduce.
		for _, pair := range combin.Combinations(len(nbrs), 2) {
			u, v := nbrs[pair[0]], nbrs[pair[1]]
			live[u][v] = struct{}{}
			live[v][u] = struct{}{}
		}

		for _, j := range nbrs {
			delete(live[j], best)
		}
		eliminated[best] = true
		order = append(order, best)
	}
	return order
}
