package fpnum

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testString(opname, impl string) string {
	return fmt.Sprintf("%s/%s", opname, impl)
}

func factories() map[string]Factory {
	return map[string]Factory{
		"Double":  DoubleFactory,
		"Big/128": BigFactory(128),
	}
}

func TestArithmetic(t *testing.T) {
	for impl, newFloat := range factories() {
		t.Run(testString("AddSubMulQuo", impl), func(t *testing.T) {
			a := newFloat().SetFloat64(3.5)
			b := newFloat().SetFloat64(-1.25)

			require.Equal(t, 2.25, newFloat().Add(a, b).Float64())
			require.Equal(t, 4.75, newFloat().Sub(a, b).Float64())
			require.Equal(t, -4.375, newFloat().Mul(a, b).Float64())
			require.Equal(t, -2.8, newFloat().Quo(a, b).Float64())
			require.Equal(t, -3.5, newFloat().Neg(a).Float64())
			require.Equal(t, 1.25, newFloat().Abs(b).Float64())
		})

		t.Run(testString("Mul2Exp", impl), func(t *testing.T) {
			a := newFloat().SetFloat64(3)
			require.Equal(t, 48.0, newFloat().Mul2Exp(a, 4).Float64())
			require.Equal(t, 0.75, newFloat().Mul2Exp(a, -2).Float64())
			require.Equal(t, 0.0, newFloat().Mul2Exp(newFloat(), 10).Float64())
		})

		t.Run(testString("Frexp", impl), func(t *testing.T) {
			a := newFloat().SetFloat64(96)
			mant, expo := a.Frexp()
			require.Equal(t, 0.75, mant.Float64())
			require.Equal(t, 7, expo)
			require.Equal(t, 96.0, newFloat().Mul2Exp(mant, expo).Float64())

			mant, expo = newFloat().Frexp()
			require.Equal(t, 0.0, mant.Float64())
			require.Equal(t, 0, expo)
		})

		t.Run(testString("Log", impl), func(t *testing.T) {
			a := newFloat().SetFloat64(0.75)
			require.InDelta(t, math.Log(0.75), newFloat().Log(a).Float64(), 1e-12)
		})

		t.Run(testString("Rint", impl), func(t *testing.T) {
			require.Equal(t, 3.0, newFloat().Rint(newFloat().SetFloat64(2.5)).Float64())
			require.Equal(t, -3.0, newFloat().Rint(newFloat().SetFloat64(-2.5)).Float64())
			require.Equal(t, 2.0, newFloat().Rint(newFloat().SetFloat64(2.25)).Float64())
		})

		t.Run(testString("SetInt", impl), func(t *testing.T) {
			x := new(big.Int).SetInt64(1 << 40)
			require.Equal(t, math.Ldexp(1, 40), newFloat().SetInt(x).Float64())

			z := new(big.Int)
			newFloat().SetFloat64(-17).Int(z)
			require.Equal(t, int64(-17), z.Int64())
		})

		t.Run(testString("CmpSign", impl), func(t *testing.T) {
			a := newFloat().SetFloat64(1)
			b := newFloat().SetFloat64(2)
			require.Equal(t, -1, a.Cmp(b))
			require.Equal(t, 1, b.Cmp(a))
			require.Equal(t, 0, a.Cmp(a.Clone()))
			require.Equal(t, 1, a.Sign())
			require.Equal(t, -1, newFloat().Neg(a).Sign())
			require.Equal(t, 0, newFloat().Sign())
		})

		t.Run(testString("CloneIsIndependent", impl), func(t *testing.T) {
			a := newFloat().SetFloat64(5)
			c := a.Clone()
			a.SetFloat64(7)
			require.Equal(t, 5.0, c.Float64())
			require.True(t, c.IsFinite())
		})
	}
}

func TestBigHighPrecisionLog(t *testing.T) {
	newFloat := BigFactory(256)

	// ln(2^100) = 100 ln 2, far outside what a float64 mantissa tracks
	// exactly; the Big implementation must agree to many digits.
	x := newFloat().SetInt(new(big.Int).Lsh(big.NewInt(1), 100))
	got := newFloat().Log(x).Float64()
	require.InDelta(t, 100*math.Ln2, got, 1e-9)
}

func TestDoubleNonFinite(t *testing.T) {
	a := NewDouble().SetFloat64(1)
	z := NewDouble()
	require.False(t, NewDouble().Quo(a, z).(*Double).IsFinite())
}
