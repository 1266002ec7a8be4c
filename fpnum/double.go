package fpnum

import (
	"math"
	"math/big"
)

// Double is the float64 implementation of [Float]. It is the default of
// the reduction stack: fastest, with the dynamic range of IEEE binary64.
type Double struct {
	v float64
}

// NewDouble returns a zero Double.
func NewDouble() *Double {
	return new(Double)
}

// DoubleFactory allocates Double values.
func DoubleFactory() Float {
	return new(Double)
}

func dbl(x Float) *Double {
	return x.(*Double)
}

func (d *Double) Set(x Float) Float {
	d.v = dbl(x).v
	return d
}

func (d *Double) SetFloat64(v float64) Float {
	d.v = v
	return d
}

func (d *Double) SetInt(x *big.Int) Float {
	// Conversion through big.Float keeps integers beyond 2^63 exact up to
	// the float64 rounding.
	d.v, _ = new(big.Float).SetInt(x).Float64()
	return d
}

func (d *Double) Add(a, b Float) Float { d.v = dbl(a).v + dbl(b).v; return d }
func (d *Double) Sub(a, b Float) Float { d.v = dbl(a).v - dbl(b).v; return d }
func (d *Double) Mul(a, b Float) Float { d.v = dbl(a).v * dbl(b).v; return d }
func (d *Double) Quo(a, b Float) Float { d.v = dbl(a).v / dbl(b).v; return d }
func (d *Double) Neg(a Float) Float    { d.v = -dbl(a).v; return d }
func (d *Double) Abs(a Float) Float    { d.v = math.Abs(dbl(a).v); return d }

func (d *Double) Mul2Exp(a Float, k int) Float {
	d.v = math.Ldexp(dbl(a).v, k)
	return d
}

func (d *Double) Log(a Float) Float {
	d.v = math.Log(dbl(a).v)
	return d
}

func (d *Double) Rint(a Float) Float {
	d.v = math.Round(dbl(a).v)
	return d
}

func (d *Double) Int(z *big.Int) *big.Int {
	bf := big.NewFloat(d.v)
	bf.Int(z)
	return z
}

func (d *Double) Float64() float64 {
	return d.v
}

func (d *Double) Frexp() (Float, int) {
	mant, expo := math.Frexp(d.v)
	return &Double{v: mant}, expo
}

func (d *Double) Cmp(x Float) int {
	o := dbl(x).v
	switch {
	case d.v < o:
		return -1
	case d.v > o:
		return 1
	}
	return 0
}

func (d *Double) Sign() int {
	switch {
	case d.v < 0:
		return -1
	case d.v > 0:
		return 1
	}
	return 0
}

func (d *Double) IsFinite() bool {
	return !math.IsInf(d.v, 0) && !math.IsNaN(d.v)
}

func (d *Double) Clone() Float {
	return &Double{v: d.v}
}

func (d *Double) New() Float {
	return new(Double)
}
