// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

// assembleInto fills buf with the Crout-updated values of column t,
// restricted to rows i in [lo, n): the entries A has stored for (i, t),
// reflected across the diagonal where t itself is the smaller index, minus
// the contribution of every L column finalized so far that touches row t.
//
// lo is always the current pivot step k, even when t is some other
// candidate column under examination by the pivot search -- ωr in a
// Bunch-Kaufman or rook test is a max over rows i >= k, not just i >= t.
func (s *state) assembleInto(buf *colBuffer, t, lo int) {
	sign := float64(s.a.S)

	for p, i := range s.a.ColIdx[t] {
		if i < lo {
			continue
		}
		buf.add(i, s.a.ColVal[t][p])
	}
	for i := lo; i < t; i++ {
		if pos, ok := s.a.CoeffRef(t, i); ok {
			buf.add(i, sign*s.a.ColVal[i][pos])
		}
	}

	seen := make(map[int]bool)
	for _, j := range s.l.RowList[t] {
		start := s.blockStart[j]
		if start < 0 || seen[start] {
			continue
		}
		seen[start] = true
		blk := s.blocks[s.blockOf[start]]
		if blk.Size == 1 {
			ljt := lstoreValueAt(s.l, t, start)
			if ljt == 0 {
				continue
			}
			for p, i := range s.l.ColIdx[start] {
				if i < lo {
					continue
				}
				lij := s.l.ColVal[start][p]
				buf.add(i, -lij*blk.D11*ljt)
			}
			continue
		}

		j0, j1 := blk.Start, blk.Start+1
		c := lstoreValueAt(s.l, t, j0)
		d := lstoreValueAt(s.l, t, j1)
		if c == 0 && d == 0 {
			continue
		}
		rows := make(map[int]bool)
		for _, i := range s.l.ColIdx[j0] {
			if i >= lo {
				rows[i] = true
			}
		}
		for _, i := range s.l.ColIdx[j1] {
			if i >= lo {
				rows[i] = true
			}
		}
		for i := range rows {
			a := lstoreValueAt(s.l, i, j0)
			b := lstoreValueAt(s.l, i, j1)
			contribution := a*(blk.D11*c+blk.D21*d) + b*(blk.D21*c+blk.D22*d)
			buf.add(i, -contribution)
		}
	}
}
