package spectrum

// ZigZag maps a signed integer onto a non-negative one:
// 0, -1, 1, -2, 2 ... become 0, 1, 2, 3, 4 ...
func ZigZag(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// UnZigZag inverts ZigZag.
func UnZigZag(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}
