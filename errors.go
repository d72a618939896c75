package toycodec

import "fmt"

// Error is the kind of a failure reported by the encoder or decoder.
// Errors returned by this package wrap one kind together with the
// underlying cause, so both can be matched with errors.Is.
type Error int

// Error kinds.
const (
	ErrNone      Error = 0
	ErrFormat    Error = 1 // malformed or truncated stream
	ErrRange     Error = 2 // value exceeds its representable width
	ErrConfig    Error = 3 // invalid encoder parameters or stream layout
	ErrIO        Error = 4 // failure of the underlying reader, writer or sink
	ErrClosed    Error = 5 // use after Close
	ErrBlockSize Error = 6 // block shape does not match the stream
)

var errMessages = [...]string{
	"no error",
	"malformed stream",
	"value out of representable range",
	"invalid configuration",
	"I/O failure",
	"encoder closed",
	"block size mismatch",
}

// Error implements the error interface.
func (e Error) Error() string {
	if e >= 0 && int(e) < len(errMessages) {
		return errMessages[e]
	}
	return "unknown error"
}

// wrap attaches kind to cause.
func wrap(kind Error, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
