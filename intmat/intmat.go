// Package intmat implements dense integer matrices over math/big.Int,
// tailored to lattice bases: ordered rows supporting the row surgery that
// reduction algorithms perform (swaps, cyclic moves, integer
// combinations), exact norms, a text codec and Hermite Normal Form.
package intmat

import (
	"math/big"
)

// Matrix is an ordered list of integer row vectors of equal length.
// The zero Matrix is not usable; use NewMatrix or FromInt64.
type Matrix struct {
	rows [][]*big.Int
	cols int
}

// NewMatrix returns a rows x cols matrix filled with zeros.
func NewMatrix(rows, cols int) *Matrix {
	m := &Matrix{cols: cols, rows: make([][]*big.Int, rows)}
	for i := range m.rows {
		m.rows[i] = newZeroRow(cols)
	}
	return m
}

// FromInt64 returns a matrix with the given entries. All rows must have
// the same length.
func FromInt64(entries [][]int64) *Matrix {
	if len(entries) == 0 {
		return &Matrix{}
	}
	m := &Matrix{cols: len(entries[0]), rows: make([][]*big.Int, len(entries))}
	for i, row := range entries {
		if len(row) != m.cols {
			panic("intmat: rows of unequal length")
		}
		m.rows[i] = make([]*big.Int, m.cols)
		for j, v := range row {
			m.rows[i][j] = big.NewInt(v)
		}
	}
	return m
}

func newZeroRow(cols int) []*big.Int {
	row := make([]*big.Int, cols)
	for j := range row {
		row[j] = new(big.Int)
	}
	return row
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at row i, column j. The returned value aliases the
// matrix storage.
func (m *Matrix) At(i, j int) *big.Int { return m.rows[i][j] }

// Row returns row i. The returned slice aliases the matrix storage.
func (m *Matrix) Row(i int) []*big.Int { return m.rows[i] }

// CopyNew returns a deep copy of the matrix.
func (m *Matrix) CopyNew() *Matrix {
	c := &Matrix{cols: m.cols, rows: make([][]*big.Int, len(m.rows))}
	for i, row := range m.rows {
		c.rows[i] = make([]*big.Int, m.cols)
		for j, v := range row {
			c.rows[i][j] = new(big.Int).Set(v)
		}
	}
	return c
}

// Equal reports whether m and o have identical dimensions and entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.Rows() != o.Rows() || m.cols != o.cols {
		return false
	}
	for i, row := range m.rows {
		for j, v := range row {
			if v.Cmp(o.rows[i][j]) != 0 {
				return false
			}
		}
	}
	return true
}

// RowIsZero reports whether row i is the zero vector.
func (m *Matrix) RowIsZero(i int) bool {
	for _, v := range m.rows[i] {
		if v.Sign() != 0 {
			return false
		}
	}
	return true
}

// SwapRows exchanges rows i and j.
func (m *Matrix) SwapRows(i, j int) {
	m.rows[i], m.rows[j] = m.rows[j], m.rows[i]
}

// RotateRow moves the row at index src to index dst, cyclically shifting
// the rows in between by one position. Both directions are valid.
func (m *Matrix) RotateRow(src, dst int) {
	if src == dst {
		return
	}
	row := m.rows[src]
	if src < dst {
		copy(m.rows[src:dst], m.rows[src+1:dst+1])
	} else {
		copy(m.rows[dst+1:src+1], m.rows[dst:src])
	}
	m.rows[dst] = row
}

// AddMulRow adds c times row src to row dst.
func (m *Matrix) AddMulRow(dst, src int, c *big.Int) {
	t := new(big.Int)
	for j := range m.rows[dst] {
		m.rows[dst][j].Add(m.rows[dst][j], t.Mul(c, m.rows[src][j]))
	}
}

// SubMulRow subtracts c times row src from row dst.
func (m *Matrix) SubMulRow(dst, src int, c *big.Int) {
	t := new(big.Int)
	for j := range m.rows[dst] {
		m.rows[dst][j].Sub(m.rows[dst][j], t.Mul(c, m.rows[src][j]))
	}
}

// NegRow negates row i in place.
func (m *Matrix) NegRow(i int) {
	for _, v := range m.rows[i] {
		v.Neg(v)
	}
}

// AppendZeroRow appends a zero row at the bottom of the matrix.
func (m *Matrix) AppendZeroRow() {
	m.rows = append(m.rows, newZeroRow(m.cols))
}

// RemoveLastRow drops the last row.
func (m *Matrix) RemoveLastRow() {
	m.rows = m.rows[:len(m.rows)-1]
}

// NormSq returns the exact squared Euclidean norm of row i.
func (m *Matrix) NormSq(i int) *big.Int {
	s := new(big.Int)
	t := new(big.Int)
	for _, v := range m.rows[i] {
		s.Add(s, t.Mul(v, v))
	}
	return s
}

// DotRows returns the exact inner product of rows i and j.
func (m *Matrix) DotRows(i, j int) *big.Int {
	s := new(big.Int)
	t := new(big.Int)
	for k, v := range m.rows[i] {
		s.Add(s, t.Mul(v, m.rows[j][k]))
	}
	return s
}
