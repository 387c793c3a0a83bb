// Package inscopy enumerates the literal/length/copy alphabets DEFLATE and
// Brotli each use (and the intermediate command language borrows), as typed
// rows rather than the bare length tables flate/prefix.go and
// brotli/prefix.go keep privately, so the conversion state machines can look
// a row up by (insert length, copy length, zero-distance flag) as well as
// by code.
//
// Grounded on flate/prefix.go's initPrefixLUTs (the DEFLATE 286-alphabet
// length table) and brotli/prefix.go's initPrefixRangeLUTs
// (insLenRanges/cpyLenRanges/blkLenRanges), generalized into one row shape
// per the original engine's inscopy.hpp field list.
package inscopy

// RowType distinguishes what a Row's Code actually means.
type RowType uint8

const (
	// Literal rows stand for a single output byte (DEFLATE codes 0..255).
	Literal RowType = iota
	// Stop marks end-of-block (DEFLATE code 256).
	Stop
	// Insert rows carry only an insert (literal-run) length, used by
	// Brotli's block-count alphabet.
	Insert
	// InsertCopy rows carry both an insert length and a copy length, used
	// by DEFLATE's length codes (insert implicitly 0) and Brotli's
	// insert-copy alphabet.
	InsertCopy
)

// Row is one line of an insert-copy table.
type Row struct {
	Type RowType

	// ZeroDistanceTF is Brotli's per-row flag: true when this insert-copy
	// row always means "reuse the last distance" (RFC 7932 §5's
	// zero-distance blocks), false when the distance is read from the
	// distance stream as usual.
	ZeroDistanceTF bool

	InsertFirst, InsertBits uint32
	CopyFirst, CopyBits     uint32

	// CopyMinus1 shrinks this row's copy range by one at its top end for
	// the purposes of length-sort range matching. DEFLATE code 284's
	// nominal copy range is 227..258, exactly overlapping code 285's
	// single length 258; RFC 1951 reserves 258 for code 285 alone, so code
	// 284 is built with CopyMinus1 set and therefore never matches a
	// requested copy length of 258.
	CopyMinus1 bool

	// Code is this row's position in the original code-order table (its
	// DEFLATE length-code number, Brotli insert-copy code, or block-count
	// code).
	Code uint32
}

// InsertRange reports the inclusive [lo, hi] insert-length range this row
// covers.
func (r Row) InsertRange() (lo, hi uint32) {
	return r.InsertFirst, r.InsertFirst + (1<<r.InsertBits - 1)
}

// CopyRange reports the inclusive [lo, hi] copy-length range this row
// covers, already adjusted for CopyMinus1.
func (r Row) CopyRange() (lo, hi uint32) {
	hi = r.CopyFirst + (1<<r.CopyBits - 1)
	if r.CopyMinus1 && hi > r.CopyFirst {
		hi--
	}
	return r.CopyFirst, hi
}

// Table is an insert-copy alphabet: one Row per code.
type Table []Row

// NotFound is returned by Encode when no row matches.
const NotFound = -1
