// Package fixed provides the 16.16 fixed-point unit used for sub-block
// world positions. The world core only ever converts it to whole block
// coordinates; rendering layers may use the fractional part.
package fixed

import "math"

// Unit is a signed 16.16 fixed-point count of blocks.
type Unit int32

const one = 1 << 16

// MaxValue doubles as the "no value" sentinel for distance comparisons.
const MaxValue Unit = math.MaxInt32

// FromInt converts whole blocks, saturating at the representable range of
// about ±32767 blocks rather than wrapping.
func FromInt(i int) Unit {
	return saturate(int64(i) * one)
}

// FromFloat converts fractional blocks, saturating like FromInt.
func FromFloat(f float64) Unit {
	return saturate(int64(math.Round(f * one)))
}

func saturate(v int64) Unit {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return Unit(v)
}

func (u Unit) Float() float64 {
	return float64(u) / one
}

// Floor rounds toward negative infinity. The arithmetic shift keeps that
// true for negative values, unlike integer division.
func (u Unit) Floor() int {
	return int(u >> 16)
}

func (u Unit) Frac() Unit {
	return u & (one - 1)
}

func (u Unit) Mul(v Unit) Unit {
	return Unit((int64(u) * int64(v)) >> 16)
}

func (u Unit) Div(v Unit) Unit {
	return Unit((int64(u) << 16) / int64(v))
}

func Min(a, b Unit) Unit {
	if a < b {
		return a
	}
	return b
}

func Max(a, b Unit) Unit {
	if a > b {
		return a
	}
	return b
}
