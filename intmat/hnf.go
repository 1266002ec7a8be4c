package intmat

import "math/big"

// HNF returns the row-style Hermite Normal Form of the matrix: an
// upper-echelon matrix with positive pivots and entries above each pivot
// reduced into [0, pivot). Two bases span the same lattice exactly when
// their HNFs (with zero rows dropped) are equal.
func (m *Matrix) HNF() *Matrix {
	h := m.CopyNew()
	q := new(big.Int)
	rem := new(big.Int)

	r := 0
	for c := 0; c < h.cols && r < h.Rows(); c++ {
		for {
			piv := -1
			for i := r; i < h.Rows(); i++ {
				if h.rows[i][c].Sign() == 0 {
					continue
				}
				if piv < 0 || h.rows[i][c].CmpAbs(h.rows[piv][c]) < 0 {
					piv = i
				}
			}
			if piv < 0 {
				break
			}
			h.SwapRows(r, piv)

			done := true
			for i := r + 1; i < h.Rows(); i++ {
				if h.rows[i][c].Sign() == 0 {
					continue
				}
				q.Quo(h.rows[i][c], h.rows[r][c])
				if q.Sign() != 0 {
					h.SubMulRow(i, r, q)
				}
				if h.rows[i][c].Sign() != 0 {
					done = false
				}
			}
			if done {
				if h.rows[r][c].Sign() < 0 {
					h.NegRow(r)
				}
				for i := 0; i < r; i++ {
					q.QuoRem(h.rows[i][c], h.rows[r][c], rem)
					if rem.Sign() < 0 {
						q.Sub(q, big.NewInt(1))
					}
					if q.Sign() != 0 {
						h.SubMulRow(i, r, q)
					}
				}
				r++
				break
			}
		}
	}

	// Zero rows sink to the bottom.
	out := NewMatrix(0, h.cols)
	for i := 0; i < h.Rows(); i++ {
		if !h.RowIsZero(i) {
			out.rows = append(out.rows, h.rows[i])
		}
	}
	for len(out.rows) < h.Rows() {
		out.AppendZeroRow()
	}
	return out
}

// Determinant returns the exact determinant of a square matrix, computed
// with Bareiss fraction-free elimination.
func (m *Matrix) Determinant() *big.Int {
	n := m.Rows()
	if n == 0 {
		return big.NewInt(1)
	}
	if n != m.cols {
		panic("intmat: determinant of a non-square matrix")
	}

	b := m.CopyNew()
	sign := 1
	prev := big.NewInt(1)
	t := new(big.Int)

	for k := 0; k < n-1; k++ {
		if b.rows[k][k].Sign() == 0 {
			swapped := false
			for i := k + 1; i < n; i++ {
				if b.rows[i][k].Sign() != 0 {
					b.SwapRows(k, i)
					sign = -sign
					swapped = true
					break
				}
			}
			if !swapped {
				return new(big.Int)
			}
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				t.Mul(b.rows[i][j], b.rows[k][k])
				t.Sub(t, new(big.Int).Mul(b.rows[i][k], b.rows[k][j]))
				b.rows[i][j].Quo(t, prev)
			}
			b.rows[i][k].SetInt64(0)
		}
		prev.Set(b.rows[k][k])
	}

	det := new(big.Int).Set(b.rows[n-1][n-1])
	if sign < 0 {
		det.Neg(det)
	}
	return det
}
