// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symsparse

import "fmt"

// Sign distinguishes a symmetric matrix, whose upper triangle mirrors the
// lower triangle exactly, from a skew-symmetric one, whose upper triangle is
// the negation of the lower. Every time an entry is reflected across the
// diagonal, it must be multiplied by Sign exactly once.
type Sign int

const (
	Symmetric     Sign = 1
	SkewSymmetric Sign = -1
)

// Matrix is the lower triangle of a square symmetric or skew-symmetric
// matrix of order N, stored as unordered per-column (row, value) arrays plus
// a per-row index of the columns that currently carry a nonzero in that row.
//
// RowList[i] is split by RowFirst[i] into a frozen prefix (columns j < the
// current factorization step k, already consumed into a finalized L column)
// and an active suffix (columns j >= k, still live in the column arrays).
// Both halves are fields a caller driving the factorization is expected to
// mutate directly — see the methods below for the operations that keep the
// column arrays and the row index consistent with each other.
type Matrix struct {
	N int
	S Sign

	// ColIdx[j] and ColVal[j] hold column j's (row, value) pairs for rows
	// i >= j, in no particular order.
	ColIdx [][]int
	ColVal [][]float64

	// RowList[i] holds, for row i, the column indices j <= i at which row i
	// currently carries a nonzero. RowFirst[i] is the boundary between the
	// frozen prefix and the active suffix described above.
	RowList  [][]int
	RowFirst []int
}

// New returns an empty Matrix of order n with no stored entries.
func New(n int, sign Sign) *Matrix {
	if n <= 0 {
		panic("symsparse: non-positive order")
	}
	m := &Matrix{
		N:        n,
		S:        sign,
		ColIdx:   make([][]int, n),
		ColVal:   make([][]float64, n),
		RowList:  make([][]int, n),
		RowFirst: make([]int, n),
	}
	return m
}

// ColNNZ returns the number of stored entries in column j.
func (m *Matrix) ColNNZ(j int) int { return len(m.ColIdx[j]) }

// RowNNZ returns the number of columns currently listed for row i.
func (m *Matrix) RowNNZ(i int) int { return len(m.RowList[i]) }

// CoeffRef locates the stored entry (i, j), i >= j, returning its position
// within column j's arrays. It reports ok=false if no such entry is stored.
func (m *Matrix) CoeffRef(i, j int) (pos int, ok bool) {
	if i < j {
		panic("symsparse: CoeffRef requires i >= j")
	}
	col := m.ColIdx[j]
	for p, r := range col {
		if r == i {
			return p, true
		}
	}
	return 0, false
}

// Append pushes the entry (i, j, v), i >= j, onto column j's arrays, and, if
// j is not already present in row i's active suffix, appends it there too.
func (m *Matrix) Append(i, j int, v float64) {
	if i < j {
		panic("symsparse: Append requires i >= j")
	}
	m.ColIdx[j] = append(m.ColIdx[j], i)
	m.ColVal[j] = append(m.ColVal[j], v)
	if _, ok := m.findInSuffix(i, j); !ok {
		m.RowList[i] = append(m.RowList[i], j)
	}
}

// SwapRemove deletes the entry at position pos of column j by swapping it
// with the column's last entry and shrinking the slice, an O(1) operation.
// It returns the row index and value that were removed. The caller is
// responsible for removing j from the row list of the removed row, and for
// noting that the entry formerly at the column's last position now lives at
// pos.
func (m *Matrix) SwapRemove(j, pos int) (row int, val float64) {
	col, vals := m.ColIdx[j], m.ColVal[j]
	last := len(col) - 1
	row, val = col[pos], vals[pos]
	col[pos], vals[pos] = col[last], vals[last]
	m.ColIdx[j] = col[:last]
	m.ColVal[j] = vals[:last]
	return row, val
}

// findInSuffix reports whether column index j is present in row i's active
// suffix (RowList[i][RowFirst[i]:]), and its position within RowList[i].
func (m *Matrix) findInSuffix(i, j int) (pos int, ok bool) {
	row := m.RowList[i]
	for p := m.RowFirst[i]; p < len(row); p++ {
		if row[p] == j {
			return p, true
		}
	}
	return 0, false
}

// FindInRow scans the whole of row i's list (prefix and suffix) for column
// index j.
func (m *Matrix) FindInRow(i, j int) (pos int, ok bool) {
	for p, c := range m.RowList[i] {
		if c == j {
			return p, true
		}
	}
	return 0, false
}

// SetRowAt overwrites the column label at position pos of row i's list,
// without touching the frozen/active boundary. It is used to relabel an
// entry in place, e.g. during a symmetric swap where a still-active column
// index is renamed to another still-active one.
func (m *Matrix) SetRowAt(i, pos, col int) {
	m.RowList[i][pos] = col
}

// RemoveRowAt deletes the entry at position pos of row i's list by
// swap-remove, adjusting RowFirst[i] if the removed or displaced entry
// crosses the frozen/active boundary.
func (m *Matrix) RemoveRowAt(i, pos int) (col int) {
	row := m.RowList[i]
	last := len(row) - 1
	col = row[pos]
	if pos < m.RowFirst[i] {
		// Removing from the frozen prefix: pull the boundary entry back
		// into the hole, then shrink from the end of the prefix.
		boundary := m.RowFirst[i] - 1
		row[pos] = row[boundary]
		row[boundary] = row[last]
		m.RowFirst[i]--
	} else {
		row[pos] = row[last]
	}
	m.RowList[i] = row[:last]
	return col
}

// Freeze marks column j as consumed for row i: it is moved from the active
// suffix into the frozen prefix of RowList[i]. It panics if j is not present
// in the active suffix.
func (m *Matrix) Freeze(i, j int) {
	pos, ok := m.findInSuffix(i, j)
	if !ok {
		panic(fmt.Sprintf("symsparse: Freeze: column %d not active in row %d", j, i))
	}
	boundary := m.RowFirst[i]
	m.RowList[i][pos], m.RowList[i][boundary] = m.RowList[i][boundary], m.RowList[i][pos]
	m.RowFirst[i]++
}

// CheckInvariants validates the structural invariants documented on Matrix:
// equal-length column arrays, and a one-to-one correspondence between
// off-diagonal column-store entries and row-list entries. It is intended for
// use in tests, not on any hot path.
func (m *Matrix) CheckInvariants() error {
	counts := make(map[[2]int]int)
	for j := 0; j < m.N; j++ {
		if len(m.ColIdx[j]) != len(m.ColVal[j]) {
			return fmt.Errorf("symsparse: column %d has %d indices but %d values", j, len(m.ColIdx[j]), len(m.ColVal[j]))
		}
		for _, i := range m.ColIdx[j] {
			if i < j || i >= m.N {
				return fmt.Errorf("symsparse: column %d has out-of-range row %d", j, i)
			}
			if i != j {
				counts[[2]int{i, j}]++
			}
		}
	}
	for i := 0; i < m.N; i++ {
		if m.RowFirst[i] < 0 || m.RowFirst[i] > len(m.RowList[i]) {
			return fmt.Errorf("symsparse: row %d has list_first=%d out of range [0,%d]", i, m.RowFirst[i], len(m.RowList[i]))
		}
		seen := make(map[int]bool, len(m.RowList[i]))
		for _, j := range m.RowList[i] {
			if seen[j] {
				return fmt.Errorf("symsparse: row %d lists column %d more than once", i, j)
			}
			seen[j] = true
			if i != j {
				counts[[2]int{i, j}]--
			}
		}
	}
	for k, c := range counts {
		if c != 0 {
			return fmt.Errorf("symsparse: entry (%d,%d) column-store/row-list mismatch (delta=%d)", k[0], k[1], c)
		}
	}
	return nil
}
