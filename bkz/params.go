// Package bkz implements block Korkine-Zolotarev reduction of an integer
// lattice basis: tours of local shortest-vector reductions over
// consecutive blocks, interleaved with LLL re-reduction, with recursive
// preprocessing at a smaller block size, slope-based auto-abort and
// loop/time budgets.
package bkz

import "github.com/lattired/lattired/red"

// Flag is a bitset of behaviour switches of the reduction.
type Flag uint32

const (
	FlagDefault    Flag = 0
	FlagVerbose    Flag = 1
	FlagNoLLL      Flag = 2
	FlagMaxLoops   Flag = 4
	FlagMaxTime    Flag = 8
	FlagBoundedLLL Flag = 0x10
	FlagAutoAbort  Flag = 0x20
	FlagDumpGSO    Flag = 0x40

	// Reserved switches: accepted and echoed, no behaviour yet.
	FlagGHBound      Flag = 0x80
	FlagSDVariant    Flag = 0x100
	FlagSLDReduction Flag = 0x200
)

// Auto-abort defaults.
const (
	DefaultAutoAbortScale    = 1.0
	DefaultAutoAbortMaxNoDec = 5
)

// Params configures one level of the reduction. Preprocessing chains a
// nested parameter set with a strictly smaller block size. The reduction
// follows the chain by recursion: each block reduction runs its
// preprocessing tours at the next node, one call level per node.
type Params struct {
	// BlockSize is the number of consecutive rows reduced as one block.
	// Below 2 the reduction is a successful no-op.
	BlockSize int

	// Delta is the LLL quality parameter in (1/4, 1].
	Delta float64

	Flags Flag

	// MaxLoops caps the number of tours; applied only with FlagMaxLoops.
	MaxLoops int
	// MaxTime caps the run time in seconds; applied only with
	// FlagMaxTime, checked at tour boundaries.
	MaxTime float64

	AutoAbortScale    float64
	AutoAbortMaxNoDec int

	// Pruning holds the radius factors handed through to the
	// enumeration, one per number of fixed coordinates. Empty means no
	// pruning.
	Pruning []float64

	// Preprocessing, when non-nil with 2 < BlockSize < the outer block
	// size, BKZ-reduces every block at the nested parameters before
	// enumeration.
	Preprocessing *Params

	// DumpGSOFilename receives the Gram-Schmidt log profile when
	// FlagDumpGSO is set.
	DumpGSOFilename string
}

// NewParams returns parameters at the given block size with the default
// quality settings.
func NewParams(blockSize int) *Params {
	return &Params{
		BlockSize:         blockSize,
		Delta:             red.DefaultDelta,
		AutoAbortScale:    DefaultAutoAbortScale,
		AutoAbortMaxNoDec: DefaultAutoAbortMaxNoDec,
	}
}
