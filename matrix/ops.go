// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Products and reductions needed by Sinkhorn iteration and attention.
//
// Determinism & Performance:
//   - Fixed loop orders (i→k→j for Mul, flat 0..n-1 otherwise).
//   - Dense fast-path operates on the flat row-major buffer.

package matrix

import "fmt"

// Mul returns the matrix product a·b.
// Errors: ErrNilMatrix, ErrDimensionMismatch when a.Cols != b.Rows.
// Complexity: O(r·k·c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf("Mul", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf("Mul", err)
	}
	if a.Cols() != b.Rows() {
		return nil, matrixErrorf(fmt.Sprintf("Mul: %dx%d · %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols()), ErrDimensionMismatch)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf("Mul", err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf("Mul", err)
	}

	out, err := NewDense(da.r, db.c)
	if err != nil {
		return nil, matrixErrorf("Mul", err)
	}
	for i := 0; i < da.r; i++ {
		rowOut := out.data[i*out.c : (i+1)*out.c]
		for k := 0; k < da.c; k++ {
			aik := da.data[i*da.c+k]
			if aik == 0 {
				continue
			}
			rowB := db.data[k*db.c : (k+1)*db.c]
			for j, bkj := range rowB {
				rowOut[j] += aik * bkj
			}
		}
	}

	return out, nil
}

// Transpose returns mᵀ.
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Transpose", err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf("Transpose", err)
	}
	out := &Dense{r: d.c, c: d.r, data: make([]float64, len(d.data))}
	for i := 0; i < d.r; i++ {
		for j := 0; j < d.c; j++ {
			out.data[j*out.c+i] = d.data[i*d.c+j]
		}
	}

	return out, nil
}

// Scale returns alpha·m.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Scale", err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf("Scale", err)
	}
	out := d.clone()
	for i := range out.data {
		out.data[i] *= alpha
	}

	return out, nil
}

// RowSums returns Σ_j m[i,j] for every row i.
func RowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("RowSums", err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf("RowSums", err)
	}

	return d.rowSums(), nil
}

// ColSums returns Σ_i m[i,j] for every column j.
func ColSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("ColSums", err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf("ColSums", err)
	}

	return d.colSums(), nil
}

func (m *Dense) rowSums() []float64 {
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		var s float64
		for _, v := range m.data[i*m.c : (i+1)*m.c] {
			s += v
		}
		out[i] = s
	}

	return out
}

func (m *Dense) colSums() []float64 {
	out := make([]float64, m.c)
	for i := 0; i < m.r; i++ {
		for j, v := range m.data[i*m.c : (i+1)*m.c] {
			out[j] += v
		}
	}

	return out
}

// ScaleRowsInPlace multiplies row i by f[i]. It is the in-place half-step of
// a Sinkhorn iteration; m must be a matrix the caller owns.
func (m *Dense) ScaleRowsInPlace(f []float64) error {
	if len(f) != m.r {
		return matrixErrorf("ScaleRowsInPlace", ErrDimensionMismatch)
	}
	for i := 0; i < m.r; i++ {
		row := m.data[i*m.c : (i+1)*m.c]
		for j := range row {
			row[j] *= f[i]
		}
	}

	return nil
}

// ScaleColsInPlace multiplies column j by f[j].
func (m *Dense) ScaleColsInPlace(f []float64) error {
	if len(f) != m.c {
		return matrixErrorf("ScaleColsInPlace", ErrDimensionMismatch)
	}
	for i := 0; i < m.r; i++ {
		row := m.data[i*m.c : (i+1)*m.c]
		for j := range row {
			row[j] *= f[j]
		}
	}

	return nil
}

// FillRow sets every entry of row i to v.
func (m *Dense) FillRow(i int, v float64) error {
	if i < 0 || i >= m.r {
		return fmt.Errorf("Dense.FillRow(%d): %w", i, ErrOutOfRange)
	}
	row := m.data[i*m.c : (i+1)*m.c]
	for j := range row {
		row[j] = v
	}

	return nil
}

// FillCol sets every entry of column j to v.
func (m *Dense) FillCol(j int, v float64) error {
	if j < 0 || j >= m.c {
		return fmt.Errorf("Dense.FillCol(%d): %w", j, ErrOutOfRange)
	}
	for i := 0; i < m.r; i++ {
		m.data[i*m.c+j] = v
	}

	return nil
}

// SubCols returns the column slice [from, to) of m as a new matrix.
func SubCols(m Matrix, from, to int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("SubCols", err)
	}
	if from < 0 || to > m.Cols() || from >= to {
		return nil, fmt.Errorf("SubCols(%d,%d) of %d cols: %w", from, to, m.Cols(), ErrOutOfRange)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf("SubCols", err)
	}
	w := to - from
	out := &Dense{r: d.r, c: w, data: make([]float64, d.r*w)}
	for i := 0; i < d.r; i++ {
		copy(out.data[i*w:(i+1)*w], d.data[i*d.c+from:i*d.c+to])
	}

	return out, nil
}

// AddScaledInPlace performs m += alpha·x.
func (m *Dense) AddScaledInPlace(x Matrix, alpha float64) error {
	if err := ValidateNotNil(x); err != nil {
		return matrixErrorf("AddScaledInPlace", err)
	}
	if x.Rows() != m.r || x.Cols() != m.c {
		return matrixErrorf("AddScaledInPlace", ErrDimensionMismatch)
	}
	dx, err := asDense(x)
	if err != nil {
		return matrixErrorf("AddScaledInPlace", err)
	}
	for i, v := range dx.data {
		m.data[i] += alpha * v
	}

	return nil
}
