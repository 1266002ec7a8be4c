package bkz

import (
	"math"

	"github.com/lattired/lattired/gso"
)

// AutoAbort detects stalled reductions by watching the negated profile
// slope across successive tours. It is cheap to create; each tour
// sequence owns its own instance.
type AutoAbort struct {
	m        *gso.Mat
	startRow int
	numRows  int

	oldSlope float64
	noDec    int
}

// NewAutoAbort returns a detector over the rows [startRow, numRows).
func NewAutoAbort(m *gso.Mat, numRows, startRow int) *AutoAbort {
	return &AutoAbort{
		m:        m,
		startRow: startRow,
		numRows:  numRows,
		oldSlope: math.Inf(1),
		// Sentinel: the first evaluation always counts as progress and
		// resets the stall count to zero, whatever the slope.
		noDec: -1,
	}
}

// TestAbort folds in the current slope and reports whether the slope
// failed to improve by the factor scale for at least maxNoDec
// consecutive calls.
func (a *AutoAbort) TestAbort(scale float64, maxNoDec int) bool {
	newSlope := -CurrentSlope(a.m, a.startRow, a.numRows)
	if a.noDec == -1 || newSlope < scale*a.oldSlope {
		a.noDec = 0
	} else {
		a.noDec++
	}
	a.oldSlope = math.Min(a.oldSlope, newSlope)
	return a.noDec >= maxNoDec
}
