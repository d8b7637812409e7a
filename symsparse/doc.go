// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symsparse implements the doubly-indexed sparse structure used by
// the incomplete LDLᵀ factorization kernel: an unordered column store for
// the lower triangle of a symmetric or skew-symmetric matrix, together with
// a per-row index of which columns currently carry a nonzero entry.
//
// No standard sparse matrix format supports the mutation pattern the
// factorization needs — symmetric row/column swaps during pivoting, and
// column-by-column consumption as the factorization progresses — so the
// structure is kept explicit: two parallel arrays-of-arrays (ColIdx, ColVal)
// per column, plus a row-oriented list used to find, for any row, every
// column that still touches it.
package symsparse
