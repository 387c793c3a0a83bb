// Package zcvt implements the DEFLATE/zlib half of the conversion engine:
// a bit-level finite state machine that turns a zlib bitstream (RFC 1950
// framing around RFC 1951 DEFLATE) into the intermediate command language
// of blockbuf.Buffer, and back again.
package zcvt

import "runtime"

// Error is this package's sentinel error type, in the same style as
// flate.Error/brotli.Error in the teacher.
type Error string

func (e Error) Error() string { return "zcvt: " + string(e) }

// Sentinel errors corresponding to the entries of spec.md §4.7.3 relevant
// to zcvt. ErrZDictionary is recoverable (supply the dictionary via Bypass
// and call In again); every other error poisons the State.
const (
	ErrSanitize    = Error("malformed DEFLATE/zlib stream")
	ErrParam       = Error("invalid argument")
	ErrZDictionary = Error("stream requires an external dictionary")
	ErrOutOfRange  = Error("index exceeds a container")
	ErrInit        = Error("conversion state not initialized")
)

// errNeedInput is an internal control-transfer sentinel: a step function
// panics with it when the source slice given to the current In/Out call
// runs out mid-code. It never escapes to a caller — errRecover translates
// it into a Success status instead of an error.
var errNeedInput = Error("need more input")

// errRecover is the panic/recover control-transfer helper bounding one step
// of work to a single function call, mirroring flate.errRecover /
// prefix.errRecover in the rest of this engine.
func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
