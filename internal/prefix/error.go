// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "runtime"

// Error is the wrapper type for errors specific to this package, in the
// same style as flate.Error and brotli.Error.
type Error string

func (e Error) Error() string { return "prefix: " + string(e) }

// Sentinel errors corresponding to the relevant entries of spec.md §4.7.3's
// flat error enumeration.
var (
	ErrLenRange  error = Error("code length exceeds the maximum, or alphabet too large")
	ErrCodeAlloc error = Error("prefix code lengths violate Kraft's inequality")
	ErrCorrupt   error = Error("prefix tree is corrupted or under/over-subscribed")
)

// errRecover is the panic/recover control-transfer helper shared across the
// engine's packages (see flate.errRecover / brotli.errRecover in the
// teacher). It is used internally by Reader/Writer to keep a single step of
// work bounded to one function call without threading error returns through
// every bit-level helper.
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
