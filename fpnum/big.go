package fpnum

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Big is the arbitrary-precision implementation of [Float], backed by
// big.Float at a fixed mantissa precision. Use it when the Gram-Schmidt
// coefficients of a basis exceed the dynamic range of float64.
type Big struct {
	v *big.Float
}

// NewBig returns a zero Big with prec bits of mantissa.
func NewBig(prec uint) *Big {
	return &Big{v: new(big.Float).SetPrec(prec)}
}

// BigFactory allocates Big values with prec bits of mantissa.
func BigFactory(prec uint) Factory {
	return func() Float {
		return NewBig(prec)
	}
}

func bigf(x Float) *Big {
	return x.(*Big)
}

func (b *Big) Set(x Float) Float {
	b.v.Set(bigf(x).v)
	return b
}

func (b *Big) SetFloat64(v float64) Float {
	b.v.SetFloat64(v)
	return b
}

func (b *Big) SetInt(x *big.Int) Float {
	b.v.SetInt(x)
	return b
}

func (b *Big) Add(a, c Float) Float { b.v.Add(bigf(a).v, bigf(c).v); return b }
func (b *Big) Sub(a, c Float) Float { b.v.Sub(bigf(a).v, bigf(c).v); return b }
func (b *Big) Mul(a, c Float) Float { b.v.Mul(bigf(a).v, bigf(c).v); return b }
func (b *Big) Quo(a, c Float) Float { b.v.Quo(bigf(a).v, bigf(c).v); return b }
func (b *Big) Neg(a Float) Float    { b.v.Neg(bigf(a).v); return b }
func (b *Big) Abs(a Float) Float    { b.v.Abs(bigf(a).v); return b }

func (b *Big) Mul2Exp(a Float, k int) Float {
	x := bigf(a).v
	if x.Sign() == 0 {
		b.v.Set(x)
		return b
	}
	mant := new(big.Float).SetPrec(b.v.Prec())
	expo := x.MantExp(mant)
	b.v.SetMantExp(mant, expo+k)
	return b
}

func (b *Big) Log(a Float) Float {
	b.v.Set(bigfloat.Log(bigf(a).v))
	return b
}

func (b *Big) Rint(a Float) Float {
	x := bigf(a).v
	half := new(big.Float).SetFloat64(0.5)
	t := new(big.Float).SetPrec(b.v.Prec())
	if x.Sign() >= 0 {
		t.Add(x, half)
	} else {
		t.Sub(x, half)
	}
	z := new(big.Int)
	t.Int(z)
	b.v.SetInt(z)
	return b
}

func (b *Big) Int(z *big.Int) *big.Int {
	b.v.Int(z)
	return z
}

func (b *Big) Float64() float64 {
	f, _ := b.v.Float64()
	return f
}

func (b *Big) Frexp() (Float, int) {
	if b.v.Sign() == 0 {
		return NewBig(b.v.Prec()), 0
	}
	mant := new(big.Float).SetPrec(b.v.Prec())
	expo := b.v.MantExp(mant)
	return &Big{v: mant}, expo
}

func (b *Big) Cmp(x Float) int {
	return b.v.Cmp(bigf(x).v)
}

func (b *Big) Sign() int {
	return b.v.Sign()
}

func (b *Big) IsFinite() bool {
	return !b.v.IsInf()
}

func (b *Big) Clone() Float {
	return &Big{v: new(big.Float).SetPrec(b.v.Prec()).Set(b.v)}
}

func (b *Big) New() Float {
	return NewBig(b.v.Prec())
}
