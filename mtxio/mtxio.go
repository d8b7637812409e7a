// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mtxio reads and writes the NIST Matrix Market coordinate format,
// the on-disk representation used for every matrix this program loads or
// saves.
//
// No example repository in the corpus carries a Matrix Market reader: it is
// a narrow, mechanically simple text format (a banner line, a comment
// block, a dimension line, then triplets), and hand-rolling it on bufio and
// strconv is the only sane choice here -- pulling in a dependency for two
// straightforward loops would be busywork, not idiom.
package mtxio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PaulMullowney/matrix-factor/ldl"
	"github.com/PaulMullowney/matrix-factor/symsparse"
)

const banner = "%%matrixmarket"

// ErrMalformed reports a structurally invalid Matrix Market file: a bad
// banner, a dimension line that doesn't parse, a non-square matrix, or a
// coordinate outside the declared bounds.
type ErrMalformed struct {
	Path   string
	Reason string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("mtxio: malformed input %q: %s", e.Path, e.Reason)
}

// LoadMatrix reads a square symmetric or skew-symmetric Matrix Market
// coordinate file into a symsparse.Matrix. Only the lower triangle is kept
// -- an entry given in the upper triangle is transposed and, for a
// skew-symmetric file, negated, to land in the canonical lower-triangle
// storage symsparse.Matrix expects.
func LoadMatrix(path string) (*symsparse.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMatrix(path, f)
}

// ReadMatrix parses r as a Matrix Market coordinate file. path is used only
// to annotate error messages.
func ReadMatrix(path string, r io.Reader) (*symsparse.Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return nil, &ErrMalformed{path, "empty file"}
	}
	header := strings.ToLower(strings.TrimSpace(sc.Text()))
	if !strings.HasPrefix(header, banner) {
		return nil, &ErrMalformed{path, "missing %%MatrixMarket banner"}
	}
	fields := strings.Fields(header)
	if len(fields) != 5 || fields[1] != "matrix" || fields[2] != "coordinate" {
		return nil, &ErrMalformed{path, "only coordinate-format matrices are supported"}
	}
	sign := symsparse.Symmetric
	switch fields[4] {
	case "symmetric":
		sign = symsparse.Symmetric
	case "skew-symmetric":
		sign = symsparse.SkewSymmetric
	case "general":
		return nil, &ErrMalformed{path, "general (non-symmetric) matrices are not supported"}
	default:
		return nil, &ErrMalformed{path, fmt.Sprintf("unknown symmetry %q", fields[4])}
	}

	var nrows, ncols, nnz int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		dims := strings.Fields(line)
		if len(dims) != 3 {
			return nil, &ErrMalformed{path, "malformed dimension line"}
		}
		var perr error
		nrows, ncols, nnz, perr = parseDims(dims)
		if perr != nil {
			return nil, &ErrMalformed{path, perr.Error()}
		}
		break
	}
	if nrows != ncols {
		return nil, &ErrMalformed{path, fmt.Sprintf("matrix is not square (%d x %d)", nrows, ncols)}
	}
	if nrows == 0 {
		return nil, &ErrMalformed{path, "matrix has order 0"}
	}

	m := symsparse.New(nrows, sign)
	count := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, &ErrMalformed{path, "malformed entry line"}
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, &ErrMalformed{path, "non-integer row index"}
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &ErrMalformed{path, "non-integer column index"}
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &ErrMalformed{path, "non-numeric value"}
		}
		i--
		j--
		if i < 0 || i >= nrows || j < 0 || j >= nrows {
			return nil, &ErrMalformed{path, fmt.Sprintf("entry (%d,%d) out of bounds", i+1, j+1)}
		}
		if i < j {
			i, j = j, i
			v *= float64(sign)
		}
		m.Append(i, j, v)
		count++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if nnz != 0 && count != nnz {
		return nil, &ErrMalformed{path, fmt.Sprintf("declared %d entries, found %d", nnz, count)}
	}
	return m, nil
}

func parseDims(fields []string) (rows, cols, nnz int, err error) {
	rows, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("non-integer row count")
	}
	cols, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("non-integer column count")
	}
	nnz, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("non-integer nonzero count")
	}
	return rows, cols, nnz, nil
}

// WriteMatrix writes m to path in Matrix Market coordinate format, storing
// only the lower triangle (the format's symmetric/skew-symmetric flag
// tells a reader to reconstruct the rest).
func WriteMatrix(path string, m *symsparse.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeMatrix(f, m)
}

// EncodeMatrix writes m to w in Matrix Market coordinate format.
func EncodeMatrix(w io.Writer, m *symsparse.Matrix) error {
	bw := bufio.NewWriter(w)
	symWord := "symmetric"
	if m.S == symsparse.SkewSymmetric {
		symWord = "skew-symmetric"
	}
	fmt.Fprintf(bw, "%%%%MatrixMarket matrix coordinate real %s\n", symWord)

	nnz := 0
	for j := 0; j < m.N; j++ {
		nnz += m.ColNNZ(j)
	}
	fmt.Fprintf(bw, "%d %d %d\n", m.N, m.N, nnz)
	for j := 0; j < m.N; j++ {
		for p, i := range m.ColIdx[j] {
			fmt.Fprintf(bw, "%d %d %.17g\n", i+1, j+1, m.ColVal[j][p])
		}
	}
	return bw.Flush()
}

// LoadVector reads a dense right-hand-side vector stored as a Matrix
// Market coordinate or array file with a single column.
func LoadVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVector(path, f)
}

// ReadVector parses r as a one-column Matrix Market file, either dense
// (array) or sparse (coordinate) format.
func ReadVector(path string, r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, &ErrMalformed{path, "empty file"}
	}
	header := strings.ToLower(strings.TrimSpace(sc.Text()))
	if !strings.HasPrefix(header, banner) {
		return nil, &ErrMalformed{path, "missing %%MatrixMarket banner"}
	}
	isArray := strings.Contains(header, "array")

	var rows, cols int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if isArray {
			if len(fields) != 2 {
				return nil, &ErrMalformed{path, "malformed dimension line"}
			}
		} else if len(fields) != 3 {
			return nil, &ErrMalformed{path, "malformed dimension line"}
		}
		var err error
		rows, err = strconv.Atoi(fields[0])
		if err != nil {
			return nil, &ErrMalformed{path, "non-integer row count"}
		}
		cols, err = strconv.Atoi(fields[1])
		if err != nil {
			return nil, &ErrMalformed{path, "non-integer column count"}
		}
		break
	}
	if cols != 1 {
		return nil, &ErrMalformed{path, "right-hand side must have exactly one column"}
	}

	out := make([]float64, rows)
	idx := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if isArray {
			v, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, &ErrMalformed{path, "non-numeric value"}
			}
			if idx >= rows {
				return nil, &ErrMalformed{path, "too many entries for declared size"}
			}
			out[idx] = v
			idx++
		} else {
			i, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, &ErrMalformed{path, "non-integer row index"}
			}
			v, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, &ErrMalformed{path, "non-numeric value"}
			}
			if i-1 < 0 || i-1 >= rows {
				return nil, &ErrMalformed{path, "row index out of bounds"}
			}
			out[i-1] = v
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteVector writes v to path as a dense Matrix Market array file.
func WriteVector(path string, v []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeVector(f, v)
}

// EncodeVector writes v to w as a dense Matrix Market array file.
func EncodeVector(w io.Writer, v []float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%%%%MatrixMarket matrix array real general\n")
	fmt.Fprintf(bw, "%d 1\n", len(v))
	for _, x := range v {
		fmt.Fprintf(bw, "%.17g\n", x)
	}
	return bw.Flush()
}

// WriteLStore writes the unit lower triangular factor l to path as a
// general Matrix Market coordinate file, with the implicit unit diagonal
// written out explicitly so the file stands on its own.
func WriteLStore(path string, l *symsparse.LStore) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLStore(f, l)
}

// EncodeLStore writes l to w in the same format as WriteLStore.
func EncodeLStore(w io.Writer, l *symsparse.LStore) error {
	bw := bufio.NewWriter(w)
	nnz := l.N
	for j := 0; j < l.N; j++ {
		nnz += l.ColNNZ(j)
	}
	fmt.Fprintf(bw, "%%%%MatrixMarket matrix coordinate real general\n")
	fmt.Fprintf(bw, "%d %d %d\n", l.N, l.N, nnz)
	for j := 0; j < l.N; j++ {
		fmt.Fprintf(bw, "%d %d %.17g\n", j+1, j+1, 1.0)
		for p, i := range l.ColIdx[j] {
			fmt.Fprintf(bw, "%d %d %.17g\n", i+1, j+1, l.ColVal[j][p])
		}
	}
	return bw.Flush()
}

// WriteBlockDiagonal writes the block-diagonal factor D, described by
// blocks, to path as a symmetric Matrix Market coordinate file holding the
// lower triangle only: a 2x2 block contributes its D11, D21 and D22
// entries, and a reader mirrors D21 above the diagonal.
func WriteBlockDiagonal(path string, n int, blocks []ldl.Block) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeBlockDiagonal(f, n, blocks)
}

// EncodeBlockDiagonal writes blocks to w in the same format as
// WriteBlockDiagonal.
func EncodeBlockDiagonal(w io.Writer, n int, blocks []ldl.Block) error {
	bw := bufio.NewWriter(w)
	nnz := 0
	for _, b := range blocks {
		if b.Size == 1 {
			nnz++
		} else {
			nnz += 3
		}
	}
	fmt.Fprintf(bw, "%%%%MatrixMarket matrix coordinate real symmetric\n")
	fmt.Fprintf(bw, "%d %d %d\n", n, n, nnz)
	for _, b := range blocks {
		s := b.Start
		if b.Size == 1 {
			fmt.Fprintf(bw, "%d %d %.17g\n", s+1, s+1, b.D11)
			continue
		}
		fmt.Fprintf(bw, "%d %d %.17g\n", s+1, s+1, b.D11)
		fmt.Fprintf(bw, "%d %d %.17g\n", s+2, s+1, b.D21)
		fmt.Fprintf(bw, "%d %d %.17g\n", s+2, s+2, b.D22)
	}
	return bw.Flush()
}

// WritePermutation writes perm to path as a dense integer column, 1-based
// like every other Matrix Market index.
func WritePermutation(path string, perm []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "%%%%MatrixMarket matrix array integer general\n")
	fmt.Fprintf(bw, "%d 1\n", len(perm))
	for _, p := range perm {
		fmt.Fprintf(bw, "%d\n", p+1)
	}
	return bw.Flush()
}
