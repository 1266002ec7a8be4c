package bkz

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattired/lattired/fpnum"
	"github.com/lattired/lattired/gso"
	"github.com/lattired/lattired/intmat"
	"github.com/lattired/lattired/lll"
	"github.com/lattired/lattired/red"
)

type recordingObserver struct {
	params   int
	tours    int
	firstRed []int
	dumps    []string
	final    []red.Status
}

func (r *recordingObserver) OnParams(*Params)                    { r.params++ }
func (r *recordingObserver) OnBlockFirstReduced(kappa, _ int)    { r.firstRed = append(r.firstRed, kappa) }
func (r *recordingObserver) OnTourEnd(int, float64, float64, float64) { r.tours++ }
func (r *recordingObserver) OnDump(prefix string, _ []float64)   { r.dumps = append(r.dumps, prefix) }
func (r *recordingObserver) OnFinal(s red.Status)                { r.final = append(r.final, s) }

func newReduction(b *intmat.Matrix, par *Params, obs Observer) (*gso.Mat, *Reduction) {
	m := gso.NewMat(b, fpnum.DoubleFactory)
	l := lll.NewReducer(m, par.Delta, red.DefaultEta)
	return m, New(m, l, par, obs)
}

func knapsackWithRelation() *intmat.Matrix {
	// 10 knapsack rows with ambient weights around 10^6 and the planted
	// relation w0 + w1 = w2, hiding a vector of squared norm 3.
	weights := []int64{
		911773, 1040411, 1952184, 1318027, 1473757,
		1628461, 1787995, 1944923, 2100017, 2259001,
	}
	entries := make([][]int64, len(weights))
	for i, w := range weights {
		row := make([]int64, len(weights)+1)
		row[0] = w
		row[i+1] = 1
		entries[i] = row
	}
	return intmat.FromInt64(entries)
}

func TestIdentityBasisOneCleanTour(t *testing.T) {
	b := intmat.FromInt64([][]int64{{1, 0}, {0, 1}})
	before := b.CopyNew()
	obs := new(recordingObserver)

	par := NewParams(2)
	par.Flags |= FlagVerbose
	_, r := newReduction(b, par, obs)

	require.True(t, r.Reduce())
	require.Equal(t, red.Success, r.Status())
	require.True(t, before.Equal(b), "basis changed")
	require.Equal(t, 1, obs.tours, "expected exactly one clean tour")
	require.Equal(t, []red.Status{red.Success}, obs.final)
}

func TestSmallBasisFullyReduced(t *testing.T) {
	b := intmat.FromInt64([][]int64{{1, 0, 0}, {0, 1, 0}, {1000, 1000, 1}})
	want := b.HNF()

	par := NewParams(2)
	_, r := newReduction(b, par, nil)
	require.True(t, r.Reduce())
	require.Equal(t, red.Success, r.Status())

	for i := 0; i < 3; i++ {
		require.LessOrEqual(t, b.NormSq(i).Int64(), int64(3), "row %d too long", i)
	}
	require.True(t, want.Equal(b.HNF()), "lattice changed")
	det := b.Determinant().Int64()
	require.Equal(t, int64(1), det*det, "determinant changed")
}

func TestKnapsackFindsPlantedShortVector(t *testing.T) {
	b := knapsackWithRelation()
	require.Equal(t, b.At(2, 0).Int64(), b.At(0, 0).Int64()+b.At(1, 0).Int64(), "broken fixture relation")
	want := b.HNF()

	par := NewParams(4)
	par.Flags |= FlagMaxLoops
	par.MaxLoops = 5
	_, r := newReduction(b, par, nil)
	require.True(t, r.Reduce())

	found := false
	for i := 0; i < b.Rows(); i++ {
		if b.NormSq(i).Int64() <= 9 {
			found = true
		}
	}
	require.True(t, found, "no short vector within 5 tours:\n%v", b)
	require.True(t, want.Equal(b.HNF()), "lattice changed")
}

func TestMaxLoopsZeroRunsNoTour(t *testing.T) {
	b := intmat.FromInt64([][]int64{
		{9, 1, 0, 0, 0}, {4, 8, 2, 0, 0}, {1, 1, 7, 1, 0}, {2, 0, 1, 9, 1}, {3, 1, 0, 1, 11},
	})
	before := b.CopyNew()
	obs := new(recordingObserver)

	par := NewParams(3)
	par.Flags |= FlagMaxLoops | FlagVerbose
	par.MaxLoops = 0
	_, r := newReduction(b, par, obs)

	require.True(t, r.Reduce(), "a loops limit is not an error")
	require.Equal(t, red.BKZLoopsLimit, r.Status())
	require.True(t, before.Equal(b), "basis must be untouched")
	require.Equal(t, 0, obs.tours)
}

func TestUnitCoordinateInsertion(t *testing.T) {
	// LLL-stable basis whose last row is nevertheless the shortest
	// lattice vector: the pre-LLL is clean, enumeration returns the unit
	// coordinate e_2, and the insertion degenerates to a cyclic row move
	// with no transient extra row.
	b := intmat.FromInt64([][]int64{{10, 0, 0}, {5, 9, 0}, {1, 4, 9}})

	par := NewParams(3)
	m, r := newReduction(b, par, nil)

	clean := true
	require.True(t, r.svpReduce(0, 3, par, &clean))
	require.False(t, clean)
	require.Equal(t, 3, m.D())

	// Exactly the cyclic shift of the input: the general insertion path
	// would have rewritten the block through LLL instead.
	want := intmat.FromInt64([][]int64{{1, 4, 9}, {10, 0, 0}, {5, 9, 0}})
	require.True(t, want.Equal(b), "expected a pure row move, got:\n%v", b)
}

func TestReducedBasisSingleTour(t *testing.T) {
	b := intmat.FromInt64([][]int64{
		{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1},
	})
	obs := new(recordingObserver)
	par := NewParams(10)
	par.Flags |= FlagVerbose
	_, r := newReduction(b, par, obs)

	require.True(t, r.Reduce())
	require.Equal(t, 1, obs.tours, "already-reduced basis needs one clean tour")
}

func TestTrivialBlockSizes(t *testing.T) {
	for _, blockSize := range []int{0, 1} {
		b := intmat.FromInt64([][]int64{{4, 1}, {1, 3}})
		before := b.CopyNew()
		_, r := newReduction(b, NewParams(blockSize), nil)
		require.True(t, r.Reduce())
		require.Equal(t, red.Success, r.Status())
		require.True(t, before.Equal(b))
	}
}

func TestEmptyBasis(t *testing.T) {
	b := intmat.NewMatrix(0, 3)
	_, r := newReduction(b, NewParams(2), nil)
	require.True(t, r.Reduce())
	require.Equal(t, red.Success, r.Status())
}

func TestTrailingZeroRowsAreWorkspace(t *testing.T) {
	b := intmat.FromInt64([][]int64{{7, 1, 0}, {2, 9, 0}, {0, 0, 0}})
	_, r := newReduction(b, NewParams(2), nil)
	require.True(t, r.Reduce())
	require.True(t, b.RowIsZero(2), "workspace row must stay zero")
	require.False(t, b.RowIsZero(0))
	require.False(t, b.RowIsZero(1))
}

func TestTimeLimitZero(t *testing.T) {
	b := intmat.FromInt64([][]int64{{9, 1}, {4, 8}})
	par := NewParams(2)
	par.Flags |= FlagMaxTime
	par.MaxTime = 0
	_, r := newReduction(b, par, nil)
	require.True(t, r.Reduce())
	require.Equal(t, red.BKZTimeLimit, r.Status())
}

func TestIdempotence(t *testing.T) {
	b := knapsackWithRelation()
	par := NewParams(4)
	_, r := newReduction(b, par, nil)
	require.True(t, r.Reduce())
	after := b.CopyNew()

	obs := new(recordingObserver)
	par2 := NewParams(4)
	par2.Flags |= FlagVerbose
	_, r2 := newReduction(b, par2, obs)
	require.True(t, r2.Reduce())
	require.True(t, after.Equal(b), "second run modified a reduced basis")
	require.Equal(t, 1, obs.tours)
}

func TestMonotoneLeadingGramSchmidtNorm(t *testing.T) {
	b := knapsackWithRelation()
	r00Before := b.NormSq(0)

	par := NewParams(3)
	_, r := newReduction(b, par, nil)
	require.True(t, r.Reduce())
	require.LessOrEqual(t, b.NormSq(0).Cmp(r00Before), 0, "r_{0,0} grew")
}

func TestPreprocessingRecursion(t *testing.T) {
	b := knapsackWithRelation()
	want := b.HNF()

	pre := NewParams(3)
	pre.Flags |= FlagMaxLoops
	pre.MaxLoops = 2

	par := NewParams(6)
	par.Preprocessing = pre
	_, r := newReduction(b, par, nil)

	require.True(t, r.Reduce())
	require.Equal(t, red.Success, r.Status())
	require.True(t, want.Equal(b.HNF()), "lattice changed")

	found := false
	for i := 0; i < b.Rows(); i++ {
		if b.NormSq(i).Int64() <= 9 {
			found = true
		}
	}
	require.True(t, found)
}

func TestPreprocessingOutOfRangeIsNoOp(t *testing.T) {
	// Nested block sizes outside (2, blockSize) are ignored.
	for _, nested := range []int{2, 3, 4} {
		b := intmat.FromInt64([][]int64{{9, 1, 0}, {4, 8, 2}, {1, 1, 7}})
		par := NewParams(3)
		par.Preprocessing = NewParams(nested)
		_, r := newReduction(b, par, nil)
		require.True(t, r.Reduce(), "nested=%d", nested)
		require.Equal(t, red.Success, r.Status())
	}
}

func TestEnumFailurePropagates(t *testing.T) {
	b := intmat.FromInt64([][]int64{{4, 1, 0}, {1, 5, 1}, {0, 1, 6}})
	par := NewParams(2)
	par.Pruning = []float64{0, 0}
	_, r := newReduction(b, par, nil)

	require.False(t, r.Reduce())
	require.Equal(t, red.EnumFailure, r.Status())
}

func TestReservedFlagsAreInert(t *testing.T) {
	b := intmat.FromInt64([][]int64{{1, 0, 0}, {0, 1, 0}, {1000, 1000, 1}})
	par := NewParams(2)
	par.Flags |= FlagGHBound | FlagSDVariant | FlagSLDReduction | FlagNoLLL
	_, r := newReduction(b, par, nil)
	require.True(t, r.Reduce())
	require.Equal(t, red.Success, r.Status())
}

func TestDumpGSO(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.txt")

	b := intmat.FromInt64([][]int64{{1, 0}, {0, 1}})
	obs := new(recordingObserver)
	par := NewParams(2)
	par.Flags |= FlagDumpGSO
	par.DumpGSOFilename = path
	_, r := newReduction(b, par, obs)
	require.True(t, r.Reduce())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	// Input dump, one per tour, output dump.
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Input: ")
	require.Contains(t, lines[1], "End of BKZ loop")
	require.Contains(t, lines[2], "Output")
	require.Len(t, obs.dumps, 3)

	// ln(1) for both rows of the identity.
	fields := strings.Fields(strings.SplitN(lines[0], ":", 2)[1])
	require.Len(t, fields, 2)
	for _, f := range fields {
		require.Equal(t, "0", f)
	}

	// A second run truncates the previous profile.
	_, r2 := newReduction(b, par, nil)
	require.True(t, r2.Reduce())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimRight(string(data), "\n"), "\n"), 3)
}

func TestCurrentSlope(t *testing.T) {
	// Gram-Schmidt norms 1, 4, 16, 64: ln r_{i,i} = 2*ln2*i.
	b := intmat.FromInt64([][]int64{{1, 0, 0, 0}, {0, 2, 0, 0}, {0, 0, 4, 0}, {0, 0, 0, 8}})
	m := gso.NewMat(b, fpnum.DoubleFactory)
	require.InDelta(t, 2*math.Ln2, CurrentSlope(m, 0, 4), 1e-9)

	flat := intmat.FromInt64([][]int64{{1, 0}, {0, 1}})
	require.InDelta(t, 0, CurrentSlope(gso.NewMat(flat, fpnum.DoubleFactory), 0, 2), 1e-12)

	require.Equal(t, 0.0, CurrentSlope(m, 0, 1), "degenerate ranges have no slope")
}

func TestAutoAbortSentinel(t *testing.T) {
	b := intmat.FromInt64([][]int64{{4, 0, 0}, {0, 2, 0}, {0, 0, 1}})
	m := gso.NewMat(b, fpnum.DoubleFactory)
	a := NewAutoAbort(m, 3, 0)

	// The basis never changes, so the slope never improves; the sentinel
	// still swallows the first call.
	require.False(t, a.TestAbort(1.0, 1))
	require.True(t, a.TestAbort(1.0, 1))
}

func TestAutoAbortStallCount(t *testing.T) {
	b := intmat.FromInt64([][]int64{{4, 0, 0}, {0, 2, 0}, {0, 0, 1}})
	m := gso.NewMat(b, fpnum.DoubleFactory)
	a := NewAutoAbort(m, 3, 0)

	for i := 0; i < DefaultAutoAbortMaxNoDec; i++ {
		require.False(t, a.TestAbort(DefaultAutoAbortScale, DefaultAutoAbortMaxNoDec), "call %d", i)
	}
	require.True(t, a.TestAbort(DefaultAutoAbortScale, DefaultAutoAbortMaxNoDec))
}

func TestAutoAbortLenientScaleNeverFires(t *testing.T) {
	// The profile slope is positive after negation; doubling the
	// tolerance keeps every call counting as progress.
	b := intmat.FromInt64([][]int64{{4, 0, 0}, {0, 2, 0}, {0, 0, 1}})
	m := gso.NewMat(b, fpnum.DoubleFactory)
	a := NewAutoAbort(m, 3, 0)

	for i := 0; i < 20; i++ {
		require.False(t, a.TestAbort(2.0, 1))
	}
}

func TestAutoAbortDriverConvergence(t *testing.T) {
	b := knapsackWithRelation()
	par := NewParams(3)
	par.Flags |= FlagAutoAbort
	_, r := newReduction(b, par, nil)
	require.True(t, r.Reduce())
	require.Equal(t, red.Success, r.Status())
}

func TestRankAndLatticePreservedAcrossConfigs(t *testing.T) {
	for _, blockSize := range []int{2, 3, 5, 10, 12} {
		b := knapsackWithRelation()
		want := b.HNF()
		rows := b.Rows()

		_, r := newReduction(b, NewParams(blockSize), nil)
		require.True(t, r.Reduce(), "blockSize=%d", blockSize)
		require.Equal(t, rows, b.Rows(), "rank changed at blockSize=%d", blockSize)
		require.True(t, want.Equal(b.HNF()), "lattice changed at blockSize=%d", blockSize)
	}
}
