package common

import "math"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp01 restricts v to the [0, 1] range.
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WrapFloat returns v modulo period, always in [0, period).
//
// Parameters:
//   - v: the value to wrap
//   - period: the positive wrap length
//
// Returns:
//   - float32: the wrapped value
func WrapFloat(v, period float32) float32 {
	w := float32(math.Mod(float64(v), float64(period)))
	if w < 0 {
		w += period
	}
	return w
}
