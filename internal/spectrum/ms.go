package spectrum

// ToMidSide converts a left/right pair into mid/side in place:
// M = (L + R) / 2, S = (L - R) / 2.
func ToMidSide(left, right []float32) {
	for i := range left {
		l, r := left[i], right[i]
		left[i] = 0.5 * (l + r)
		right[i] = 0.5 * (l - r)
	}
}

// ToLeftRight converts a mid/side pair back into left/right in place:
// L = M + S, R = M - S.
func ToLeftRight(mid, side []float32) {
	for i := range mid {
		m, s := mid[i], side[i]
		mid[i] = m + s
		side[i] = m - s
	}
}
