// Package syntax implements the compressed stream layout: the stream
// header, the one-byte frame header, the packed quantizer indices and the
// Huffman-coded coefficient payload.
//
// Multi-byte header fields are big-endian. A frame starts on a byte
// boundary; inside its payload the byte planes follow each other without
// alignment and the frame is padded with zero bits to the next byte.
package syntax
