// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matbench

import (
	"math"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// BytesPerElement is the storage size of one matrix cell.
const BytesPerElement = 8

// Matrix is an N×N dense matrix of float64 values stored in row-major order.
type Matrix struct {
	n    int
	data []float64
}

// New returns a zeroed n×n matrix. It panics if n < 1.
func New(n int) *Matrix {
	if n < 1 {
		panic(errors.Wrapf(ErrInvalidSize, "matbench.New(%d)", n))
	}
	return &Matrix{n: n, data: make([]float64, n*n)}
}

// FromRows builds a matrix from a square slice of rows. The values are copied.
func FromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.Wrap(ErrInvalidSize, "no rows given")
	}
	m := New(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, errors.Errorf("row %d has %d columns, matrix requires %d", i, len(row), n)
		}
		copy(m.data[i*n:(i+1)*n], row)
	}
	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := New(n)
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// Size returns N, the number of rows (and columns).
func (m *Matrix) Size() int {
	return m.n
}

// Data returns the row-major backing slice, len N*N. Callers may write to it.
func (m *Matrix) Data() []float64 {
	return m.data
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Set assigns the value at row i, column j.
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*m.n+j] = v
}

// Row returns a view of row i. Writes go through to the matrix.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// Rows materializes the matrix as a freshly allocated 2-D slice.
// This is the serializable view used for display and JSON payloads.
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = slices.Clone(m.Row(i))
	}
	return rows
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, data: slices.Clone(m.data)}
}

// Zero sets every cell to 0.
func (m *Matrix) Zero() {
	clear(m.data)
}

// Equal reports whether both matrices have the same size and bit-identical values.
func (m *Matrix) Equal(other *Matrix) bool {
	return m.n == other.n && slices.Equal(m.data, other.data)
}

// MaxAbsDiff returns max |a[i,j] - b[i,j]|. It returns +Inf if the sizes differ.
func MaxAbsDiff(a, b *Matrix) float64 {
	if a.n != b.n {
		return math.Inf(1)
	}
	var maxDiff float64
	for i, v := range a.data {
		maxDiff = max(maxDiff, math.Abs(v-b.data[i]))
	}
	return maxDiff
}

// MaxAbs returns the largest absolute value in the matrix, used to scale tolerances.
func (m *Matrix) MaxAbs() float64 {
	var maxAbs float64
	for _, v := range m.data {
		maxAbs = max(maxAbs, math.Abs(v))
	}
	return maxAbs
}

// Dense returns a gonum copy of the matrix.
func (m *Matrix) Dense() *mat.Dense {
	return mat.NewDense(m.n, m.n, slices.Clone(m.data))
}

// FromDense copies a square gonum matrix.
func FromDense(d mat.Matrix) (*Matrix, error) {
	r, c := d.Dims()
	if r != c {
		return nil, errors.Errorf("matrix must be square, got %dx%d", r, c)
	}
	if r == 0 {
		return nil, errors.Wrap(ErrInvalidSize, "empty gonum matrix")
	}
	m := New(r)
	for i := range r {
		for j := range c {
			m.data[i*r+j] = d.At(i, j)
		}
	}
	return m, nil
}

// Reference computes A×B with gonum. It is independent of every strategy in
// this module and is used to verify their products.
func Reference(a, b *Matrix) (*Matrix, error) {
	if a.n != b.n {
		return nil, errors.Errorf("operand sizes differ: %d vs %d", a.n, b.n)
	}
	// gonum does not write to its operands, so the backing slices are shared.
	da := mat.NewDense(a.n, a.n, a.data)
	db := mat.NewDense(b.n, b.n, b.data)
	var dc mat.Dense
	dc.Mul(da, db)
	return FromDense(&dc)
}
