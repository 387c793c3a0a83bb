package brcvt

import "runtime"

// Error is the sentinel error type brcvt returns, mirroring zcvt's flat
// string-enum convention.
type Error string

func (e Error) Error() string { return "brcvt: " + string(e) }

const (
	ErrSanitize   = Error("malformed Brotli stream")
	ErrParam      = Error("invalid argument")
	ErrInit       = Error("conversion state not initialized")
	ErrMetaLength = Error("metadata entry exceeds the maximum size")
)

var errNeedInput = Error("need more input")

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
