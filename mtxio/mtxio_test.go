// Copyright ©2024 The matrix-factor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtxio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaulMullowney/matrix-factor/ldl"
	"github.com/PaulMullowney/matrix-factor/symsparse"
)

const sampleSymmetric = `%%MatrixMarket matrix coordinate real symmetric
% a tiny tridiagonal test matrix
3 3 5
1 1 2
2 1 1
2 2 2
3 2 1
3 3 2
`

func TestReadMatrixSymmetric(t *testing.T) {
	m, err := ReadMatrix("sample.mtx", strings.NewReader(sampleSymmetric))
	require.NoError(t, err)
	assert.Equal(t, 3, m.N)

	pos, ok := m.CoeffRef(1, 0)
	require.True(t, ok)
	assert.Equal(t, 1.0, m.ColVal[0][pos])
}

func TestReadMatrixRejectsBadBanner(t *testing.T) {
	_, err := ReadMatrix("bad.mtx", strings.NewReader("not a matrix market file\n"))
	require.Error(t, err)
	var merr *ErrMalformed
	assert.ErrorAs(t, err, &merr)
}

func TestReadMatrixRejectsNonSquare(t *testing.T) {
	src := "%%MatrixMarket matrix coordinate real symmetric\n2 3 0\n"
	_, err := ReadMatrix("bad.mtx", strings.NewReader(src))
	require.Error(t, err)
}

func TestReadMatrixRejectsGeneral(t *testing.T) {
	src := "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1 1.0\n"
	_, err := ReadMatrix("bad.mtx", strings.NewReader(src))
	require.Error(t, err)
}

func TestReadMatrixUpperTriangleEntryIsReflected(t *testing.T) {
	src := "%%MatrixMarket matrix coordinate real skew-symmetric\n2 2 1\n1 2 3.0\n"
	m, err := ReadMatrix("sample.mtx", strings.NewReader(src))
	require.NoError(t, err)
	pos, ok := m.CoeffRef(1, 0)
	require.True(t, ok)
	assert.Equal(t, -3.0, m.ColVal[0][pos])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m, err := ReadMatrix("sample.mtx", strings.NewReader(sampleSymmetric))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeMatrix(&buf, m))

	m2, err := ReadMatrix("roundtrip.mtx", &buf)
	require.NoError(t, err)
	assert.Equal(t, m.N, m2.N)
	for j := 0; j < m.N; j++ {
		assert.ElementsMatch(t, m.ColVal[j], m2.ColVal[j])
	}
}

func TestEncodeDecodeVectorRoundTrip(t *testing.T) {
	v := []float64{1, 2, 3.5}
	var buf bytes.Buffer
	require.NoError(t, EncodeVector(&buf, v))

	got, err := ReadVector("v.mtx", &buf)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestEncodeLStoreWritesExplicitUnitDiagonal(t *testing.T) {
	l := symsparse.NewL(3)
	l.AppendColumn(0, []int{1, 2}, []float64{2, 3})
	l.AppendColumn(1, []int{2}, []float64{4})
	l.AppendColumn(2, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, EncodeLStore(&buf, l))

	// L is written with a general banner, which ReadMatrix rejects, so the
	// entry lines are checked directly.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2+6) // banner + size line + 3 unit diagonal + 3 subdiagonal entries
	assert.Equal(t, "%%MatrixMarket matrix coordinate real general", lines[0])
	assert.Equal(t, "3 3 6", lines[1])

	for _, diag := range []string{"1 1 1", "2 2 1", "3 3 1"} {
		assert.Contains(t, lines[2:], diag, "unit diagonal entry")
	}
	assert.Contains(t, lines[2:], "2 1 2")
	assert.Contains(t, lines[2:], "3 1 3")
	assert.Contains(t, lines[2:], "3 2 4")
}

func TestEncodeBlockDiagonalWritesOneByOneAndTwoByTwoBlocks(t *testing.T) {
	blocks := []ldl.Block{
		{Start: 0, Size: 1, D11: 5},
		{Start: 1, Size: 2, D11: 2, D21: 7, D22: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeBlockDiagonal(&buf, 3, blocks))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2+4) // banner + size line + 1 entry + 3 entries
	assert.Equal(t, "%%MatrixMarket matrix coordinate real symmetric", lines[0])
	assert.Equal(t, "3 3 4", lines[1])

	d, err := ReadMatrix("d.mtx", strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 3, d.N)

	pos, ok := d.CoeffRef(0, 0)
	require.True(t, ok)
	assert.Equal(t, 5.0, d.ColVal[0][pos])

	pos, ok = d.CoeffRef(1, 1)
	require.True(t, ok)
	assert.Equal(t, 2.0, d.ColVal[1][pos])

	pos, ok = d.CoeffRef(2, 1)
	require.True(t, ok)
	assert.Equal(t, 7.0, d.ColVal[1][pos])

	pos, ok = d.CoeffRef(2, 2)
	require.True(t, ok)
	assert.Equal(t, 3.0, d.ColVal[2][pos])
}
