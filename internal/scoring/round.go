package scoring

// RoundPercent returns n/d as a whole percentage, rounding halves up.
// A zero or negative denominator yields 0.
func RoundPercent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (200*n + d) / (2 * d)
}
