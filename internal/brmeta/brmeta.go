// Package brmeta implements the Brotli metadata list: an ordered sequence
// of opaque byte blobs, one per metadata meta-block a brcvt stream carries,
// grown with the same geometric reserve discipline
// original_source/src/brmeta.cpp's brmeta_ensure uses (new_cap = 2*cap+1)
// rather than relying on append's opaque growth policy, since spec.md
// names that growth rule directly. Grounded on xflate/meta/meta.go's
// ordered-entries idiom for package shape (a small, package-local list
// type rather than a generic container).
package brmeta

const maxEntryLen = 16 * 1024 * 1024 // 16 MiB, per spec.md §4.6

// Error is a sentinel returned by this package's operations.
type Error string

func (e Error) Error() string { return "brmeta: " + string(e) }

const (
	ErrParam  = Error("entry length is zero")
	ErrMemory = Error("entry exceeds the maximum metadata size")
)

// List is an ordered sequence of metadata entries.
type List struct {
	lines []([]byte)
}

// Init resets the list to empty, pre-reserving capacity for reserve
// entries.
func (l *List) Init(reserve int) {
	l.lines = make([][]byte, 0, reserve)
}

// Size reports the number of entries.
func (l *List) Size() int { return len(l.lines) }

// At returns entry i.
func (l *List) At(i int) []byte { return l.lines[i] }

// Emplace appends a new zero-filled n-byte entry, pre-growing the backing
// slice with the geometric reserve new_cap = 2*cap+1 when the current
// capacity is exhausted. Fails with ErrParam if n == 0, ErrMemory if
// n exceeds the 16 MiB per-entry cap.
func (l *List) Emplace(n int) error {
	if n == 0 {
		return ErrParam
	}
	if n > maxEntryLen {
		return ErrMemory
	}
	if len(l.lines) == cap(l.lines) {
		newCap := 2*cap(l.lines) + 1
		grown := make([][]byte, len(l.lines), newCap)
		copy(grown, l.lines)
		l.lines = grown
	}
	l.lines = append(l.lines, make([]byte, n))
	return nil
}
