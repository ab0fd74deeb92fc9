package common

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

// FirstOr returns the first element of values, or fallback when values is empty.
//
// Parameters:
//   - values: the slice to take the first element from
//   - fallback: the value returned for an empty slice
//
// Returns:
//   - T: values[0] or fallback
func FirstOr[T any](values []T, fallback T) T {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

// Abs returns the absolute value of n.
func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
