// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reorder

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// rcmOrder computes a reverse Cuthill-McKee ordering of the graph described
// by adj. Each connected component is rooted at an approximate peripheral
// vertex (one sweep of the George-Liu heuristic: BFS from an arbitrary
// vertex, then BFS again from the farthest vertex found), breadth-first
// numbered, and the whole numbering is reversed at the end.
func rcmOrder(adj [][]int) []int {
	n := len(adj)
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, nbrs := range adj {
		for _, j := range nbrs {
			if i < j {
				g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
			}
		}
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		root := pseudoPeripheral(g, int64(i))
		for _, v := range bfsOrder(g, root) {
			if !visited[v] {
				visited[v] = true
				order = append(order, v)
			}
		}
	}

	reversed := make([]int, n)
	for k, v := range order {
		reversed[n-1-k] = v
	}
	return reversed
}

// bfsOrder returns the breadth-first visiting order of start's connected
// component.
func bfsOrder(g graph.Graph, start int64) []int {
	var order []int
	bf := traverse.BreadthFirst{}
	bf.Walk(g, simple.Node(start), func(n graph.Node, _ int) bool {
		order = append(order, int(n.ID()))
		return false
	})
	return order
}

// pseudoPeripheral approximates a peripheral vertex of start's connected
// component with a single George-Liu sweep: BFS from start, then BFS again
// from the last (farthest) vertex reached.
func pseudoPeripheral(g graph.Graph, start int64) int64 {
	far := start
	bf := traverse.BreadthFirst{}
	bf.Walk(g, simple.Node(start), func(n graph.Node, _ int) bool {
		far = n.ID()
		return false
	})

	far2 := far
	bf2 := traverse.BreadthFirst{}
	bf2.Walk(g, simple.Node(far), func(n graph.Node, _ int) bool {
		far2 = n.ID()
		return false
	})
	return far2
}
