package huffman

// Model distributions for the built-in tables. The low-byte context
// favours small zig-zag magnitudes. The high-byte context is dominated by
// zero and STOP.
func modelFrequencies(ctx int) []uint64 {
	f := make([]uint64, NumSymbols)
	switch ctx {
	case 0:
		for s := 0; s < 256; s++ {
			f[s] = 64 + 65536/uint64(1+s)
		}
		f[Stop] = 2048
	default:
		f[0] = 16384
		for s := 1; s < 256; s++ {
			f[s] = 64 + 4096/uint64((1+s)*(1+s))
		}
		f[Stop] = 16384
	}
	return f
}

var defaultLengths = buildDefaultLengths()

func buildDefaultLengths() [NumContexts]Lengths {
	var out [NumContexts]Lengths
	for ctx := range out {
		lengths, err := DeriveLengths(modelFrequencies(ctx))
		if err != nil {
			panic("huffman: default tables: " + err.Error())
		}
		copy(out[ctx][:], lengths)
	}
	return out
}

// DefaultLengths returns the built-in length tables used when the encoder
// is not given tuned ones.
func DefaultLengths() [NumContexts]Lengths {
	return defaultLengths
}
