// Package toycodec implements TOY1, a small lossy transform audio codec.
//
// The encoder splits PCM into fixed-width blocks, transforms them with a
// sine-windowed MDCT, quantizes the coefficients per critical band and
// entropy-codes them with two canonical Huffman contexts. The decoder
// reverses every step.
//
// # Encoding
//
//	cfg := toycodec.DefaultEncoderConfig()
//	enc, err := toycodec.NewEncoder(w, 48000, 2, cfg)
//	if err != nil {
//	    return err
//	}
//	for each block {
//	    if err := enc.WriteBlock(block); err != nil {
//	        return err
//	    }
//	}
//	stats, err := enc.Close()
//
// Encode runs the same loop over a PCMSource.
//
// # Rate control
//
// A negative EncoderConfig.Quality selects average bit rate mode: every
// frame gets the budget implied by EncoderConfig.Ratio relative to 16-bit
// PCM, and unused bits carry over to later frames. A quality of zero or
// more selects variable bit rate mode, where each band is quantized as
// coarsely as its noise target scaled by the quality allows. Larger
// quality values give smaller streams.
//
// # Decoding
//
//	dec, err := toycodec.NewDecoder(r)
//	if err != nil {
//	    return err
//	}
//	info := dec.Info()
//	stats, err := dec.WriteTo(sink)
//
// Decoder also implements PCMSource, so its output can be read block by
// block or fed straight back into Encode.
//
// # Stream format
//
// A stream is a header (magic "TOY1", sample rate, pre-roll, total
// sample count, channel layout, frame width, band widths, quantizer step
// table and Huffman code lengths) followed by byte-aligned frames. Each
// frame has a one-byte header, zero or more 12-byte quantizer index
// vectors and the Huffman-coded coefficient planes of every channel.
//
// # Errors
//
// Errors carry one of the Error kinds: ErrFormat for malformed streams,
// ErrRange for values that do not fit the stream, ErrConfig for invalid
// parameters, ErrIO for reader or writer failures, and ErrClosed and
// ErrBlockSize for API misuse. A stream error aborts decoding; there is
// no resynchronization.
//
// # Thread Safety
//
// Encoder and Decoder instances are NOT safe for concurrent use.
package toycodec
