// Package spectrum implements the per-line processing between the transform
// and the entropy coder.
//
// This includes the line-to-band mapping, scalar quantization, zig-zag
// mapping of signed coefficients, the mid/side joint transform and the
// noise-to-peak measure used by the quality search.
package spectrum
