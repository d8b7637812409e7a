// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldl

import "fmt"

// ErrNotSquare reports an input matrix whose row and column counts
// disagree. Factorize never returns it, since symsparse.Matrix has a single
// order N shared between the two; it is kept for parity with callers that
// build their input from an external file format.
var ErrNotSquare = fmt.Errorf("ldl: input matrix is not square")

// ErrEmptyMatrix is returned by Factorize when the input has order zero.
var ErrEmptyMatrix = fmt.Errorf("ldl: input matrix has order 0")

func errUnknownPivot(s string) error {
	return fmt.Errorf("ldl: unknown pivot kind %q (want bunch or rook)", s)
}
