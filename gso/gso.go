// Package gso maintains the Gram-Schmidt orthogonalisation of an integer
// lattice basis under row mutations. The basis rows are exact big
// integers; the R-factor and the mu coefficients are tracked in the
// floating-point type chosen at construction.
//
// Rows are updated lazily: mutating operations only invalidate the
// affected suffix of the factorisation, and UpdateRow recomputes a row on
// demand. Compound integer row operations must be wrapped in a
// RowOpBegin/RowOpEnd bracket so the touched range is invalidated as a
// unit.
package gso

import (
	"math/big"

	"github.com/lattired/lattired/fpnum"
	"github.com/lattired/lattired/intmat"
)

// Mat is the Gram-Schmidt state of a basis. It borrows the basis matrix
// for its whole lifetime; all mutations of the basis must go through it.
type Mat struct {
	b        *intmat.Matrix
	newFloat fpnum.Factory

	// mu[i][j] for j < i, r[i][j] for j <= i.
	mu    [][]fpnum.Float
	r     [][]fpnum.Float
	valid []bool

	inRowOp bool
}

// NewMat binds a Gram-Schmidt state to b, using floats allocated by
// newFloat for all derived quantities.
func NewMat(b *intmat.Matrix, newFloat fpnum.Factory) *Mat {
	m := &Mat{b: b, newFloat: newFloat}
	for i := 0; i < b.Rows(); i++ {
		m.appendRowState()
	}
	return m
}

func (m *Mat) appendRowState() {
	i := len(m.r)
	mur := make([]fpnum.Float, i)
	rr := make([]fpnum.Float, i+1)
	for j := range mur {
		mur[j] = m.newFloat()
	}
	for j := range rr {
		rr[j] = m.newFloat()
	}
	m.mu = append(m.mu, mur)
	m.r = append(m.r, rr)
	m.valid = append(m.valid, false)
}

// D returns the current number of rows.
func (m *Mat) D() int { return m.b.Rows() }

// Basis returns the underlying basis matrix.
func (m *Mat) Basis() *intmat.Matrix { return m.b }

// NewFloat allocates a float of the kind the state is built on.
func (m *Mat) NewFloat() fpnum.Float { return m.newFloat() }

// RowIsZero reports whether basis row i is the zero vector.
func (m *Mat) RowIsZero(i int) bool { return m.b.RowIsZero(i) }

// UpdateRow ensures the Gram-Schmidt data of row i (and of all rows
// before it) is current. It is idempotent. It returns false if a
// non-finite value appeared, in which case the state is unusable until
// the basis is repaired.
func (m *Mat) UpdateRow(i int) bool {
	for k := 0; k <= i; k++ {
		if m.valid[k] {
			continue
		}
		if !m.computeRow(k) {
			return false
		}
	}
	return true
}

// DiscoverAllRows extends the internal arrays to cover every current
// basis row. No Gram-Schmidt data is computed; rows stay lazy.
func (m *Mat) DiscoverAllRows() {
	for len(m.r) < m.b.Rows() {
		m.appendRowState()
	}
}

func (m *Mat) computeRow(i int) bool {
	t := m.newFloat()
	s := m.newFloat()

	for j := 0; j <= i; j++ {
		s.SetInt(m.b.DotRows(i, j))
		for k := 0; k < j; k++ {
			s.Sub(s, t.Mul(m.mu[j][k], m.r[i][k]))
		}
		m.r[i][j].Set(s)
		if j < i {
			if m.r[j][j].Sign() == 0 {
				// Zero Gram-Schmidt vector (dependent or zero row):
				// the projection is void, not infinite.
				m.mu[i][j].SetFloat64(0)
			} else {
				m.mu[i][j].Quo(m.r[i][j], m.r[j][j])
			}
			if !m.mu[i][j].IsFinite() {
				return false
			}
		}
	}
	if !m.r[i][i].IsFinite() {
		return false
	}
	m.valid[i] = true
	return true
}

// R returns r_{i,j}. Row i must have been updated.
func (m *Mat) R(i, j int) fpnum.Float {
	m.mustBeValid(i)
	return m.r[i][j]
}

// Mu returns mu_{i,j} for j < i. Row i must have been updated.
func (m *Mat) Mu(i, j int) fpnum.Float {
	m.mustBeValid(i)
	return m.mu[i][j]
}

// RExp returns r_{i,j} as a normalised mantissa and a binary exponent
// such that r_{i,j} = mant * 2^expo. Row i must have been updated.
func (m *Mat) RExp(i, j int) (mant fpnum.Float, expo int) {
	m.mustBeValid(i)
	return m.r[i][j].Frexp()
}

func (m *Mat) mustBeValid(i int) {
	if !m.valid[i] {
		panic("gso: row queried before update")
	}
}

// CreateRow appends a zero row at index D and increments D.
func (m *Mat) CreateRow() {
	m.b.AppendZeroRow()
	m.appendRowState()
}

// RemoveLastRow drops the last row, which must be zero.
func (m *Mat) RemoveLastRow() {
	d := m.b.Rows() - 1
	if !m.b.RowIsZero(d) {
		panic("gso: removing a nonzero row")
	}
	m.b.RemoveLastRow()
	m.mu = m.mu[:d]
	m.r = m.r[:d]
	m.valid = m.valid[:d]
}

// MoveRow moves the row at index src to index dst, cyclically shifting
// the rows in between by one position. Valid for either direction.
func (m *Mat) MoveRow(src, dst int) {
	m.b.RotateRow(src, dst)
	if src < dst {
		m.invalidateFrom(src)
	} else {
		m.invalidateFrom(dst)
	}
}

// SwapRows exchanges rows i and j.
func (m *Mat) SwapRows(i, j int) {
	m.b.SwapRows(i, j)
	if i > j {
		i, j = j, i
	}
	m.invalidateFrom(i)
}

// RowOpBegin declares that rows in [lo, hi) are about to be mutated by
// hand through RowAddMul.
func (m *Mat) RowOpBegin(lo, hi int) {
	if m.inRowOp {
		panic("gso: nested row operation bracket")
	}
	m.inRowOp = true
}

// RowOpEnd closes the bracket opened by RowOpBegin and invalidates the
// mutated range as a unit.
func (m *Mat) RowOpEnd(lo, hi int) {
	if !m.inRowOp {
		panic("gso: unmatched RowOpEnd")
	}
	m.inRowOp = false
	m.invalidateFrom(lo)
}

// RowAddMul adds c times row src to row dst. Outside a bracket the
// Gram-Schmidt data of the suffix starting at dst is invalidated
// immediately; inside a bracket invalidation is deferred to RowOpEnd.
func (m *Mat) RowAddMul(dst, src int, c *big.Int) {
	m.b.AddMulRow(dst, src, c)
	if !m.inRowOp {
		m.invalidateFrom(dst)
	}
}

func (m *Mat) invalidateFrom(i int) {
	for k := i; k < len(m.valid); k++ {
		m.valid[k] = false
	}
}
