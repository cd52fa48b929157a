package encoder

import "math"

// Distance is the Euclidean distance between two face encodings.
// Lower distance means more similar faces. Encodings of different
// lengths never come from the same model, so they are infinitely far
// apart rather than compared over a shared prefix.
func Distance(a, b Encoding) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
