// Package blockbuf implements the engine's block buffer: the two block
// strings (input staging, output command stream) and the sliding window
// they share, plus the hash-chain match finder used to turn a run of input
// bytes into the intermediate command language's insert/copy commands.
//
// Grounded on brotli/dict_decoder.go for the sliding window's sizing
// discipline ((1<<wbits)-16, lazy growth) and on flate/reader.go's call
// sites (WriteByte/WriteCopy/WriteSlice/WriteMark/ReadFlush/AvailSize) for
// the method names a dictDecoder-shaped type needs, since the teacher's own
// flate/dict_decoder.go was not present among the retrieved sources.
package blockbuf

// BlockString is a resizable byte buffer holding intermediate command
// language bytes, capped at a caller-chosen capacity.
type BlockString struct {
	buf []byte
	cap uint32
}

// Init resets the BlockString to empty with the given capacity. cap == 0
// means unbounded.
func (bs *BlockString) Init(capacity uint32) {
	bs.buf = bs.buf[:0]
	bs.cap = capacity
}

// Size reports the current length.
func (bs *BlockString) Size() uint32 { return uint32(len(bs.buf)) }

// Cap reports the configured capacity (0 meaning unbounded).
func (bs *BlockString) Cap() uint32 { return bs.cap }

// Append writes p to the end of the string, all-or-nothing: if p would
// push Size() past Cap(), nothing is written and ok is false.
func (bs *BlockString) Append(p ...byte) (ok bool) {
	if bs.cap != 0 && bs.Size()+uint32(len(p)) > bs.cap {
		return false
	}
	bs.buf = append(bs.buf, p...)
	return true
}

// Bytes exposes the string's contents. The caller must not retain the
// slice past the next mutating call.
func (bs *BlockString) Bytes() []byte { return bs.buf }

// Clear empties the string without changing its capacity.
func (bs *BlockString) Clear() { bs.buf = bs.buf[:0] }
