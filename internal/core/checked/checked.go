// Package checked provides overflow-checked arithmetic on unsigned
// 64-bit amounts. Every reserve and balance computation in the pool
// transactors goes through these helpers; a false return means the
// operation must be rejected, never clamped.
package checked

import "math/bits"

// Add returns a+b and false on overflow.
func Add(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// Sub returns a-b and false on underflow.
func Sub(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}

// Mul returns a*b and false on overflow.
func Mul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// Div returns a/b and false when b is zero.
func Div(a, b uint64) (uint64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

// MulDiv returns a*b/d using a 128-bit intermediate, so the product may
// exceed 64 bits as long as the quotient fits. False when d is zero or
// the quotient overflows.
func MulDiv(a, b, d uint64) (uint64, bool) {
	if d == 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, false
	}
	quo, _ := bits.Div64(hi, lo, d)
	return quo, true
}
