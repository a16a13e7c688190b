package sliceutil

func Map[From any, To any](v []From, f func(From) To) []To {
	out := make([]To, len(v))
	for idx := 0; idx < len(v); idx++ {
		out[idx] = f(v[idx])
	}
	return out
}

// Filter returns the elements for which keep returns true, in order.
func Filter[T any](v []T, keep func(T) bool) []T {
	out := make([]T, 0, len(v))
	for idx := 0; idx < len(v); idx++ {
		if keep(v[idx]) {
			out = append(out, v[idx])
		}
	}
	return out
}
