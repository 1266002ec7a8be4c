// Package lll implements LLL reduction and size reduction of an integer
// lattice basis over a gso.Mat. The reducer operates on row ranges so it
// can serve both as a standalone reduction and as the local re-reduction
// step of block algorithms; linearly dependent rows collapse to zero and
// are moved to the end of the working range.
package lll

import (
	"math/big"

	"github.com/lattired/lattired/fpnum"
	"github.com/lattired/lattired/gso"
	"github.com/lattired/lattired/red"
	"github.com/lattired/lattired/utils"
)

// Reducer reduces row ranges of a basis through its Gram-Schmidt state.
type Reducer struct {
	// Status is the outcome of the most recent call.
	Status red.Status
	// NSwaps counts the row swaps performed by the most recent call.
	NSwaps int

	m     *gso.Mat
	delta fpnum.Float
	eta   fpnum.Float
}

// NewReducer returns a reducer with Lovasz parameter delta and
// size-reduction parameter eta. Values out of range fall back to the
// defaults.
func NewReducer(m *gso.Mat, delta, eta float64) *Reducer {
	if delta <= 0.25 || delta > 1 {
		delta = red.DefaultDelta
	}
	if eta < 0.5 {
		eta = red.DefaultEta
	}
	return &Reducer{
		Status: red.Success,
		m:      m,
		delta:  m.NewFloat().SetFloat64(delta),
		eta:    m.NewFloat().SetFloat64(eta),
	}
}

func (l *Reducer) fail(s red.Status) bool {
	l.Status = s
	return false
}

// Reduce LLL-reduces the rows [kappaMin, kappaEnd), assuming rows
// [kappaMin, kappaStart) are already reduced among themselves. All row
// operations stay inside the range. Rows that collapse to zero are moved
// to the end of the range. Returns false on failure, with Status set.
func (l *Reducer) Reduce(kappaMin, kappaStart, kappaEnd int) bool {
	l.Status = red.Success
	l.NSwaps = 0

	if kappaEnd-kappaMin <= 0 {
		return true
	}

	end := kappaEnd
	k := utils.Max(kappaStart, kappaMin+1)
	if k == kappaMin+1 && !l.sizeReduceRow(kappaMin, kappaMin) {
		return false
	}

	// Generous cap: LLL on a well-formed range terminates in far fewer
	// rounds. Tripping it means the float precision cannot certify
	// progress any more.
	maxRounds := 64*(kappaEnd-kappaMin)*(kappaEnd-kappaMin) + 1024

	t0 := l.m.NewFloat()
	t1 := l.m.NewFloat()
	t2 := l.m.NewFloat()

	for rounds := 0; k < end; rounds++ {
		if rounds >= maxRounds {
			return l.fail(red.LLLFailure)
		}
		if !l.sizeReduceRow(k, kappaMin) {
			return false
		}
		if l.m.RowIsZero(k) {
			l.m.MoveRow(k, end-1)
			end--
			continue
		}

		// Lovasz: delta*r_{k-1,k-1} <= r_{k,k} + mu_{k,k-1}^2 * r_{k-1,k-1}.
		rPrev := l.m.R(k-1, k-1)
		mu := l.m.Mu(k, k-1)
		t0.Mul(l.delta, rPrev)
		t1.Mul(mu, mu)
		t1.Mul(t1, rPrev)
		t2.Add(l.m.R(k, k), t1)
		if t0.Cmp(t2) <= 0 {
			k++
		} else {
			l.m.SwapRows(k-1, k)
			l.NSwaps++
			if k > kappaMin+1 {
				k--
			}
		}
	}
	return true
}

// SizeReduce size-reduces each row of [kappaMin, kappaEnd) against all
// the rows before it. Returns false on failure, with Status set.
func (l *Reducer) SizeReduce(kappaMin, kappaEnd int) bool {
	l.Status = red.Success
	l.NSwaps = 0
	for k := kappaMin; k < kappaEnd; k++ {
		if !l.sizeReduceRow(k, 0) {
			return false
		}
	}
	return true
}

// sizeReduceRow makes |mu_{k,j}| <= eta for all first <= j < k by
// subtracting rounded integer combinations of the earlier rows. The
// rounded coefficients of one pass are derived top-down from a snapshot
// of the mu row, correcting lower entries as higher ones are fixed, so a
// single bracket of row operations realises the whole translation.
func (l *Reducer) sizeReduceRow(k, first int) bool {
	if !l.m.UpdateRow(k) {
		return l.fail(red.GSOFailure)
	}
	if k <= first {
		return true
	}

	t := l.m.NewFloat()
	x := l.m.NewFloat()
	prevNorm := l.m.Basis().NormSq(k)
	stuck := 0

	for {
		muRow := make([]fpnum.Float, k-first)
		for j := first; j < k; j++ {
			muRow[j-first] = l.m.Mu(k, j).Clone()
		}

		coeffs := make([]*big.Int, k-first)
		translated := false
		for j := k - 1; j >= first; j-- {
			mu := muRow[j-first]
			if t.Abs(mu).Cmp(l.eta) <= 0 {
				continue
			}
			x.Rint(mu)
			c := x.Int(new(big.Int))
			if c.Sign() == 0 {
				continue
			}
			coeffs[j-first] = c
			translated = true
			// Fixing x_j shifts the lower part of the mu row.
			for j2 := first; j2 < j; j2++ {
				muRow[j2-first].Sub(muRow[j2-first], t.Mul(x, l.m.Mu(j, j2)))
			}
		}
		if !translated {
			return true
		}

		l.m.RowOpBegin(k, k+1)
		for j := k - 1; j >= first; j-- {
			if c := coeffs[j-first]; c != nil {
				l.m.RowAddMul(k, j, c.Neg(c))
			}
		}
		l.m.RowOpEnd(k, k+1)

		if !l.m.UpdateRow(k) {
			return l.fail(red.GSOFailure)
		}

		norm := l.m.Basis().NormSq(k)
		if norm.Cmp(prevNorm) < 0 {
			stuck = 0
		} else {
			stuck++
			if stuck >= red.SizeRedFailureThresh {
				return l.fail(red.BabaiFailure)
			}
		}
		prevNorm = norm
	}
}
