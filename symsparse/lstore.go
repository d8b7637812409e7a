// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symsparse

// LStore holds the unit lower triangular factor L as it is built
// column-by-column. Unlike Matrix, LStore never needs a frozen/active
// partition of its row lists: L only grows by appending finalized columns,
// so a row's list is simply every already-finalized column that touches it.
type LStore struct {
	N int

	// ColIdx[j] / ColVal[j] hold the subdiagonal entries of column j once it
	// has been finalized (rows i > j only; the unit diagonal is implicit).
	ColIdx [][]int
	ColVal [][]float64

	// RowList[i] holds the columns j < i with a nonzero L(i,j), in the order
	// the columns were finalized.
	RowList [][]int
}

// NewL returns an empty LStore of order n.
func NewL(n int) *LStore {
	return &LStore{
		N:       n,
		ColIdx:  make([][]int, n),
		ColVal:  make([][]float64, n),
		RowList: make([][]int, n),
	}
}

// AppendColumn finalizes column j of L with the given (row, value) pairs,
// all rows required to be > j, and records j in each touched row's list.
func (l *LStore) AppendColumn(j int, rows []int, vals []float64) {
	l.ColIdx[j] = rows
	l.ColVal[j] = vals
	for _, i := range rows {
		if i <= j {
			panic("symsparse: LStore.AppendColumn: row index not below diagonal")
		}
		l.RowList[i] = append(l.RowList[i], j)
	}
}

// ColNNZ returns the number of stored subdiagonal entries in column j.
func (l *LStore) ColNNZ(j int) int { return len(l.ColIdx[j]) }

// SwapRows exchanges the row-k and row-r entries within every finalized
// column of L (the row-row swap needed by a symmetric pivot swap(k, r)), and
// exchanges the two rows' lists.
func (l *LStore) SwapRows(k, r int) {
	for _, j := range l.RowList[k] {
		SwapRowLabel(l.ColIdx[j], k, r)
	}
	for _, j := range l.RowList[r] {
		if containsInt(l.RowList[k], j) {
			// already relabeled via the RowList[k] pass above; touching it
			// again would swap the labels right back.
			continue
		}
		SwapRowLabel(l.ColIdx[j], k, r)
	}
	l.RowList[k], l.RowList[r] = l.RowList[r], l.RowList[k]
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// SwapRowLabel relabels the row indices a and b within idx, a column's row
// index array: wherever a occurs it becomes b and vice versa. The
// corresponding value stays at its position — a physical row swap(a, b)
// means whatever value used to be read at row a is now read at row b, which
// is exactly relabeling the index that tags it. If only one of a, b is
// currently stored, that single entry is relabeled to the other index (the
// implicit zero at the other row needs no storage either before or after).
func SwapRowLabel(idx []int, a, b int) {
	pa, pb := -1, -1
	for p, v := range idx {
		switch v {
		case a:
			pa = p
		case b:
			pb = p
		}
	}
	switch {
	case pa != -1 && pb != -1:
		idx[pa], idx[pb] = idx[pb], idx[pa]
	case pa != -1:
		idx[pa] = b
	case pb != -1:
		idx[pb] = a
	}
}
