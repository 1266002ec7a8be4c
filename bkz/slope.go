package bkz

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/lattired/lattired/gso"
)

// CurrentSlope returns the least-squares slope of ln r_{i,i} against i
// over the rows [startRow, stopRow). Well-reduced bases have a flat,
// slightly negative profile; steep slopes mean unbalanced Gram-Schmidt
// norms.
func CurrentSlope(m *gso.Mat, startRow, stopRow int) float64 {
	n := stopRow - startRow
	if n < 2 {
		return 0
	}

	idx := make([]float64, n)
	x := make([]float64, n)
	logF := m.NewFloat()
	for i := startRow; i < stopRow; i++ {
		if !m.UpdateRow(i) {
			return 0
		}
		f, expo := m.RExp(i, i)
		idx[i-startRow] = float64(i)
		x[i-startRow] = logF.Log(f).Float64() + float64(expo)*math.Ln2
	}

	cov, err := stats.CovariancePopulation(idx, x)
	if err != nil {
		return 0
	}
	v, err := stats.PopulationVariance(idx)
	if err != nil || v == 0 {
		return 0
	}
	return cov / v
}
