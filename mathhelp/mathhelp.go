// Package mathhelp holds small numeric helpers shared by the tiling packages.
package mathhelp

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// BetweenInc reports whether f lies between p and q, both ends included, in either order.
func BetweenInc[T Number](f, p, q T) bool {
	if p <= q {
		return p <= f && f <= q
	}
	return q <= f && f <= p
}

// Clamp limits v to [lo, hi].
func Clamp[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pow2 returns 2^n as a float, exact for every n a tile pyramid uses.
func Pow2(n int) float64 {
	return math.Ldexp(1, n)
}

// EuclidianMod is d mod m with the sign of m, so -1 mod 4 = 3.
func EuclidianMod(d, m int) int {
	r := d % m
	if (r < 0 && m > 0) || (r > 0 && m < 0) {
		return r + m
	}
	return r
}

// FloorDiv is d / m rounded towards negative infinity.
func FloorDiv(d, m int) int {
	q := d / m
	if (d%m != 0) && ((d < 0) != (m < 0)) {
		q--
	}
	return q
}
