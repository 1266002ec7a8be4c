package bkz

import (
	"fmt"
	"math"

	"github.com/lattired/lattired/fpnum"
	"github.com/lattired/lattired/gso"
	"github.com/lattired/lattired/lll"
	"github.com/lattired/lattired/red"
	"github.com/lattired/lattired/svp"
	"github.com/lattired/lattired/utils"
)

// Reduction drives BKZ tours over a basis through its Gram-Schmidt state
// and an LLL reducer. It borrows all three for the duration of Reduce
// and leaves the basis spanning the same lattice whatever the outcome.
type Reduction struct {
	par    *Params
	m      *gso.Mat
	lllObj *lll.Reducer
	obs    Observer

	status  red.Status
	numRows int
	delta   fpnum.Float

	evaluator    svp.Evaluator
	cputimeStart float64
}

// New binds a reduction to an existing (basis, GSO, LLL) triple. A nil
// observer discards all events. Trailing zero rows of the basis are
// treated as reserved workspace, not as part of the lattice.
func New(m *gso.Mat, lllObj *lll.Reducer, par *Params, obs Observer) *Reduction {
	if obs == nil {
		obs = NopObserver{}
	}
	b := &Reduction{
		par:    par,
		m:      m,
		lllObj: lllObj,
		obs:    obs,
		status: red.Success,
		delta:  m.NewFloat().SetFloat64(par.Delta),
	}
	for b.numRows = m.D(); b.numRows > 0 && m.RowIsZero(b.numRows-1); b.numRows-- {
	}
	return b
}

// Status returns the status of the most recent Reduce call.
func (b *Reduction) Status() red.Status { return b.status }

func (b *Reduction) setStatus(status red.Status) bool {
	b.status = status
	if b.par.Flags&FlagVerbose != 0 {
		b.obs.OnFinal(status)
	}
	return status == red.Success || status.IsLimit()
}

// Reduce runs BKZ tours until a tour leaves the basis unchanged, the
// auto-abort detector fires, or a loop/time budget runs out. It returns
// false only on subsystem failure; budget exhaustion returns true with a
// limit status, leaving the basis consistent but under-reduced.
func (b *Reduction) Reduce() bool {
	flags := b.par.Flags
	finalStatus := red.Success

	if flags&FlagDumpGSO != 0 {
		b.dumpGSO(b.par.DumpGSOFilename, "Input", false)
	}

	if b.par.BlockSize < 2 {
		return b.setStatus(red.Success)
	}

	kappaMax := 0
	autoAbort := NewAutoAbort(b.m, b.numRows, 0)

	if flags&FlagVerbose != 0 {
		b.obs.OnParams(b.par)
	}
	b.cputimeStart = cputimeMS()

	b.m.DiscoverAllRows()

	for iLoop := 0; ; iLoop++ {
		if flags&FlagMaxLoops != 0 && iLoop >= b.par.MaxLoops {
			finalStatus = red.BKZLoopsLimit
			break
		}
		if flags&FlagMaxTime != 0 && (cputimeMS()-b.cputimeStart)*0.001 >= b.par.MaxTime {
			finalStatus = red.BKZTimeLimit
			break
		}
		if flags&FlagAutoAbort != 0 && autoAbort.TestAbort(b.par.AutoAbortScale, b.par.AutoAbortMaxNoDec) {
			break
		}

		clean := true
		if !b.tour(iLoop, &kappaMax, b.par, 0, b.numRows, &clean) {
			return false
		}
		if clean || b.par.BlockSize >= b.numRows {
			break
		}
	}

	if flags&FlagDumpGSO != 0 {
		prefix := fmt.Sprintf("Output  (%9.3fs)", (cputimeMS()-b.cputimeStart)*0.001)
		b.dumpGSO(b.par.DumpGSOFilename, prefix, true)
	}
	return b.setStatus(finalStatus)
}

// tour sweeps one block reduction over every starting index kappa in
// [minRow, maxRow-1); the last block starts at maxRow-2. clean is cleared
// as soon as any block changes the basis.
func (b *Reduction) tour(loop int, kappaMax *int, par *Params, minRow, maxRow int, clean *bool) bool {
	for kappa := minRow; kappa < maxRow-1; kappa++ {
		blockSize := utils.Min(par.BlockSize, maxRow-kappa)
		if !b.svpReduce(kappa, blockSize, par, clean) {
			return false
		}
		if par.Flags&FlagVerbose != 0 && *kappaMax < kappa && *clean {
			b.obs.OnBlockFirstReduced(kappa, par.BlockSize)
			*kappaMax = kappa
		}
	}

	if par.Flags&FlagVerbose != 0 {
		if !b.m.UpdateRow(minRow) {
			return b.setStatus(red.GSOFailure)
		}
		mant, expo := b.m.RExp(minRow, minRow)
		r0 := math.Ldexp(mant.Float64(), expo)
		elapsed := (cputimeMS() - b.cputimeStart) * 0.001
		b.obs.OnTourEnd(loop, elapsed, r0, CurrentSlope(b.m, minRow, maxRow))
	}
	if par.Flags&FlagDumpGSO != 0 {
		elapsed := (cputimeMS() - b.cputimeStart) * 0.001
		prefix := fmt.Sprintf("End of BKZ loop %4d (%9.3fs)", loop, elapsed)
		b.dumpGSO(par.DumpGSOFilename, prefix, true)
	}
	return true
}

// svpReduce reduces the block [kappa, kappa+blockSize): pre-LLL,
// optional recursive preprocessing, enumeration, then insertion of the
// found vector unless the leading vector is already within a delta
// factor of it.
func (b *Reduction) svpReduce(kappa, blockSize int, par *Params, clean *bool) bool {
	lllStart := 0
	if par.Flags&FlagBoundedLLL != 0 {
		lllStart = kappa
	}

	if !b.lllObj.Reduce(lllStart, kappa, kappa+blockSize) {
		return b.setStatus(b.lllObj.Status)
	}
	if b.lllObj.NSwaps > 0 {
		*clean = false
	}

	if pre := par.Preprocessing; pre != nil && pre.BlockSize < blockSize && pre.BlockSize > 2 {
		if !b.preprocess(kappa, blockSize, pre, clean) {
			return false
		}
	}

	if !b.m.UpdateRow(kappa) {
		return b.setStatus(red.GSOFailure)
	}
	maxDist, maxDistExpo := b.m.RExp(kappa, kappa)
	deltaMaxDist := b.m.NewFloat().Mul(b.delta, maxDist)

	b.evaluator.Reset()
	svp.Enumerate(b.m, maxDist, maxDistExpo, &b.evaluator, kappa, kappa+blockSize, par.Pruning)
	solCoord := b.evaluator.SolCoord
	if len(solCoord) == 0 {
		return b.setStatus(red.EnumFailure)
	}

	// Is the solution a basis row already?
	nzVectors, iVector := 0, -1
	for i, c := range solCoord {
		if c.Sign() == 0 {
			continue
		}
		nzVectors++
		if iVector == -1 && c.BitLen() == 1 {
			iVector = i
		}
	}

	if maxDist.Cmp(deltaMaxDist) >= 0 {
		// The leading vector is already within a delta factor of the
		// block minimum.
		return true
	}

	if nzVectors == 1 && iVector >= 0 {
		b.m.MoveRow(kappa+iVector, kappa)
		if !b.lllObj.SizeReduce(kappa, kappa+1) {
			return b.setStatus(b.lllObj.Status)
		}
	} else {
		// General case: append the integer combination as an extra row,
		// rotate it into place and let LLL collapse the dependency it
		// introduced into a zero row at the end of the block.
		d := b.m.D()
		b.m.CreateRow()
		b.m.RowOpBegin(d, d+1)
		for i := 0; i < blockSize; i++ {
			if solCoord[i].Sign() != 0 {
				b.m.RowAddMul(d, kappa+i, solCoord[i])
			}
		}
		b.m.RowOpEnd(d, d+1)
		b.m.MoveRow(d, kappa)
		if !b.lllObj.Reduce(kappa, kappa, kappa+blockSize+1) {
			return b.setStatus(b.lllObj.Status)
		}
		if !b.m.RowIsZero(kappa + blockSize) {
			// The inserted row must have produced an exact dependency;
			// anything else is an internal error, not recoverable.
			return b.setStatus(red.BKZFailure)
		}
		b.m.MoveRow(kappa+blockSize, d)
		b.m.RemoveLastRow()
	}
	*clean = false
	return true
}

// preprocess runs a bounded tour sequence at the nested parameters over
// [kappa, kappa+blockSize). It stops on a clean inner tour, the nested
// budgets, or a local auto-abort, whichever comes first.
func (b *Reduction) preprocess(kappa, blockSize int, pre *Params, clean *bool) bool {
	dummyKappaMax := b.numRows
	autoAbort := NewAutoAbort(b.m, kappa+blockSize, kappa)
	cputimeStart := cputimeMS()

	for i := 0; ; i++ {
		if pre.Flags&FlagMaxLoops != 0 && i >= pre.MaxLoops {
			break
		}
		if pre.Flags&FlagMaxTime != 0 && (cputimeMS()-cputimeStart)*0.001 >= pre.MaxTime {
			break
		}
		if autoAbort.TestAbort(pre.AutoAbortScale, pre.AutoAbortMaxNoDec) {
			break
		}

		innerClean := true
		if !b.tour(i, &dummyKappaMax, pre, kappa, kappa+blockSize, &innerClean) {
			return false
		}
		if innerClean {
			break
		}
		*clean = false
	}
	return true
}
