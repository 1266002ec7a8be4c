// Package fpnum provides the floating-point abstraction used by the
// reduction stack. All Gram-Schmidt quantities are manipulated through the
// [Float] interface so that the same algorithms run either on native
// float64 arithmetic or on arbitrary-precision big.Float arithmetic.
//
// A Float follows the mutating style of math/big: operations store their
// result in the receiver and return it. Values of different concrete
// implementations must not be mixed in a single operation.
package fpnum

import "math/big"

// Float is a mutable floating-point value. Implementations are Double
// (native float64) and Big (big.Float at a fixed precision).
type Float interface {
	// Set sets the receiver to x and returns the receiver.
	Set(x Float) Float
	// SetFloat64 sets the receiver to v and returns the receiver.
	SetFloat64(v float64) Float
	// SetInt sets the receiver to the (possibly rounded) value of x.
	SetInt(x *big.Int) Float

	// Add sets the receiver to a+b and returns the receiver.
	Add(a, b Float) Float
	// Sub sets the receiver to a-b and returns the receiver.
	Sub(a, b Float) Float
	// Mul sets the receiver to a*b and returns the receiver.
	Mul(a, b Float) Float
	// Quo sets the receiver to a/b and returns the receiver.
	// Division by zero yields an infinity on Double and is the caller's
	// responsibility on Big.
	Quo(a, b Float) Float
	// Neg sets the receiver to -a and returns the receiver.
	Neg(a Float) Float
	// Abs sets the receiver to |a| and returns the receiver.
	Abs(a Float) Float
	// Mul2Exp sets the receiver to a*2^k and returns the receiver.
	Mul2Exp(a Float, k int) Float
	// Log sets the receiver to the natural logarithm of a and returns the
	// receiver. a must be positive. The result is rounded as math.Log
	// (Double) or bigfloat.Log (Big) round it; no rounding towards
	// +infinity is applied.
	Log(a Float) Float
	// Rint sets the receiver to the integer nearest to a (ties away from
	// zero) and returns the receiver.
	Rint(a Float) Float

	// Int sets z to the value of the receiver truncated towards zero.
	Int(z *big.Int) *big.Int
	// Float64 returns the receiver converted to float64.
	Float64() float64
	// Frexp returns a freshly allocated mantissa m with 0.5 <= |m| < 1
	// and an exponent e such that the receiver equals m*2^e. A zero
	// receiver yields (0, 0).
	Frexp() (mant Float, expo int)

	// Cmp compares the receiver with x: -1 if smaller, 0 if equal, +1 if
	// greater.
	Cmp(x Float) int
	// Sign returns -1, 0 or +1 depending on the sign of the receiver.
	Sign() int
	// IsFinite reports whether the receiver is neither infinite nor NaN.
	IsFinite() bool
	// Clone returns an independent copy of the receiver.
	Clone() Float
	// New returns a fresh zero value of the same implementation and
	// precision as the receiver.
	New() Float
}

// Factory allocates zero Floats of a fixed implementation and precision.
type Factory func() Float
