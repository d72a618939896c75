// Package huffman implements the canonical Huffman coder for coefficient
// byte planes.
//
// The alphabet has 257 symbols: the byte values 0-255 and a STOP symbol
// that ends a plane early when only zeros remain. Codes are fully
// determined by a per-symbol length table, so only lengths travel in the
// stream header. Two independent contexts code the low and the high byte
// plane of every coefficient block.
package huffman
