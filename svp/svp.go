// Package svp solves the shortest-vector problem over a block of
// consecutive basis rows by Schnorr-Euchner enumeration: a depth-first
// zig-zag walk over integer coefficient vectors, bounded by a radius that
// shrinks as better vectors are found, optionally tightened per level by
// pruning coefficients.
package svp

import (
	"math"
	"math/big"

	"github.com/lattired/lattired/fpnum"
	"github.com/lattired/lattired/gso"
)

// Evaluator collects the best solution seen by an enumeration. SolCoord
// holds the coefficients of the shortest vector found, expressed in the
// block basis; it stays empty when the search fails.
type Evaluator struct {
	SolCoord []*big.Int
}

// Reset clears the collected solution.
func (e *Evaluator) Reset() {
	e.SolCoord = nil
}

func (e *Evaluator) record(x []int64) {
	e.SolCoord = make([]*big.Int, len(x))
	for i, v := range x {
		e.SolCoord[i] = big.NewInt(v)
	}
}

// Enumerate searches the block [kappa, kappaEnd) for a nonzero lattice
// vector of squared norm at most maxDist * 2^maxDistExpo. The first
// admissible vector found is the block's leading Gram-Schmidt vector
// whenever the radius equals r_{kappa,kappa}, so a solution exists unless
// the radius was tightened below the block minimum or the search breaks
// down numerically.
//
// On success the evaluator holds the winning coefficients and maxDist is
// lowered (at unchanged maxDistExpo) to the squared norm of that vector.
// pruning, when non-empty, gives one radius factor per number of fixed
// coordinates.
func Enumerate(m *gso.Mat, maxDist fpnum.Float, maxDistExpo int, ev *Evaluator, kappa, kappaEnd int, pruning []float64) {
	ev.Reset()
	n := kappaEnd - kappa
	if n <= 0 {
		return
	}
	if !m.UpdateRow(kappaEnd - 1) {
		return
	}

	// Native-precision copies of the block Gram data. The scaled radius
	// keeps the comparison consistent with the caller's representation.
	rdiag := make([]float64, n)
	mu := make([][]float64, n)
	for i := 0; i < n; i++ {
		rdiag[i] = scaledFloat(m.R(kappa+i, kappa+i))
		mu[i] = make([]float64, i)
		for j := 0; j < i; j++ {
			mu[i][j] = m.Mu(kappa+i, kappa+j).Float64()
		}
	}
	for i := range rdiag {
		if math.IsInf(rdiag[i], 0) || math.IsNaN(rdiag[i]) || rdiag[i] <= 0 {
			// A degenerate or non-finite block cannot be searched.
			return
		}
	}

	bound := math.Ldexp(maxDist.Float64(), maxDistExpo)
	if bound <= 0 {
		return
	}

	var (
		x      = make([]int64, n)
		roundC = make([]int64, n)
		dx     = make([]int64, n)
		ddx    = make([]int64, n)
		center = make([]float64, n)
		rho    = make([]float64, n+1)
	)

	best := math.Inf(1)
	var bestX []int64

	levelBound := func(t int) float64 {
		b := bound
		if len(pruning) > 0 {
			k := n - t
			if k-1 < len(pruning) {
				b *= pruning[k-1]
			}
		}
		return b
	}

	enter := func(t int) {
		c := 0.0
		for j := t + 1; j < n; j++ {
			c -= float64(x[j]) * mu[j][t]
		}
		center[t] = c
		roundC[t] = int64(math.Round(c))
		x[t] = roundC[t]
		dx[t] = 0
		if c < float64(roundC[t]) {
			ddx[t] = -1
		} else {
			ddx[t] = 1
		}
	}

	step := func(t int) {
		// Zig-zag around the center: round(c), round(c)+d, round(c)-d, ...
		dx[t] = -dx[t]
		if dx[t]*ddx[t] >= 0 {
			dx[t] += ddx[t]
		}
		x[t] = roundC[t] + dx[t]
	}

	t := n - 1
	enter(t)

	for {
		y := float64(x[t]) - center[t]
		dist := rho[t+1] + y*y*rdiag[t]

		if dist <= levelBound(t) && dist <= best {
			if t > 0 {
				rho[t] = dist
				t--
				enter(t)
				continue
			}
			if !allZero(x) && dist > 0 {
				if dist <= best {
					best = dist
					bestX = append(bestX[:0], x...)
					bound = best
				}
			}
			step(t)
			continue
		}

		// All remaining siblings at this level lie further from the
		// center; climb.
		t++
		if t == n {
			break
		}
		step(t)
	}

	if bestX == nil {
		return
	}
	ev.record(bestX)
	maxDist.Mul2Exp(maxDist.SetFloat64(best), -maxDistExpo)
}

func allZero(x []int64) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}
	return true
}

func scaledFloat(f fpnum.Float) float64 {
	mant, expo := f.Frexp()
	return math.Ldexp(mant.Float64(), expo)
}
