package kernel

// Inner returns the sum of x[i]*y[i].
func Inner[T Float](x, y []T) T {
	y = y[:len(x)]

	var s T
	for i := range x {
		s += x[i] * y[i]
	}

	return s
}

// Inner3 returns the sum of w[i]*x[i]*y[i].
func Inner3[T Float](w, x, y []T) T {
	x = x[:len(w)]
	y = y[:len(w)]

	var s T
	for i := range w {
		s += w[i] * x[i] * y[i]
	}

	return s
}
