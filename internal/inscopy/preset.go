package inscopy

// DeflatePreset builds RFC 1951 §3.2.5's 286-row literal/length alphabet:
// 256 literal rows, one stop row, and 29 length rows, ported from
// flate/prefix.go's initPrefixLUTs length table.
func DeflatePreset() Table {
	t := make(Table, 286)
	for i := 0; i < 256; i++ {
		t[i] = Row{Type: Literal, Code: uint32(i)}
	}
	t[256] = Row{Type: Stop, Code: 256}

	// RFC 1951 §3.2.5 length table: codes 257..264 carry no extra bits,
	// codes 265..284 follow with four codes per extra-bit width 1..5, and
	// code 285 is the single fixed length-258 code.
	first := uint32(3)
	for code := 257; code <= 284; code++ {
		i := code - 257
		bits := uint32(i/4 - 1)
		if i < 4 {
			bits = 0
		}
		t[code] = Row{
			Type:       InsertCopy,
			CopyFirst:  first,
			CopyBits:   bits,
			CopyMinus1: code == 284,
			Code:       uint32(code),
		}
		first += 1 << bits
	}
	t[285] = Row{Type: InsertCopy, CopyFirst: 258, CopyBits: 0, Code: 285}
	return t
}

// brotliInsertBits/First and brotliCopyBits/First are RFC 7932 §5's 24-entry insert and
// copy length tables (insert starts at 0, copy starts at 2), ported from
// brotli/prefix.go's initPrefixRangeLUTs (insLenRanges/cpyLenRanges).
var (
	brotliInsertBits  = [24]uint32{0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 7, 8, 9, 10, 12, 14, 24}
	brotliInsertFirst = makeFirsts(0, brotliInsertBits[:])
	brotliCopyBits    = [24]uint32{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 7, 8, 9, 10, 24}
	brotliCopyFirst   = makeFirsts(2, brotliCopyBits[:])
)

func makeFirsts(base uint32, bits []uint32) []uint32 {
	firsts := make([]uint32, len(bits))
	for i, b := range bits {
		firsts[i] = base
		base += 1 << b
	}
	return firsts
}

// brotliBlockKind maps an insert-copy code (0..703) to its insert code,
// copy code and zero-distance flag. RFC 7932 §5 lays the 704 codes out as
// 11 blocks of 64: code>>6 selects the block, whose first insert and copy
// codes are listed in bases; bits 3..5 of the code add to the insert code
// and bits 0..2 to the copy code. Blocks 0 and 1 (codes 0..127) reuse the
// last distance.
func brotliBlockKind(code int) (insertCode, copyCode int, zeroDistanceTF bool) {
	bases := [11][2]int{{0, 0}, {0, 8}, {0, 0}, {0, 8}, {8, 0}, {8, 8}, {0, 16}, {16, 0}, {8, 16}, {16, 8}, {16, 16}}
	b := bases[code>>6]
	return b[0] + code>>3&7, b[1] + code&7, code < 128
}

// BrotliInsertCopyPreset builds RFC 7932 §5's 704-row insert-copy
// alphabet in code order, each row's insert code, copy code and
// ZeroDistanceTF flag taken from brotliBlockKind.
func BrotliInsertCopyPreset() Table {
	t := make(Table, 0, 704)
	for code := 0; code < 704; code++ {
		ic, cc, zeroTF := brotliBlockKind(code)
		t = append(t, Row{
			Type:           InsertCopy,
			ZeroDistanceTF: zeroTF,
			InsertFirst:    brotliInsertFirst[ic],
			InsertBits:     brotliInsertBits[ic],
			CopyFirst:      brotliCopyFirst[cc],
			CopyBits:       brotliCopyBits[cc],
			Code:           uint32(code),
		})
	}
	return t
}

// brotliBlockCountBits/First are RFC 7932 §9.2's 26-entry NBLTYPES/count
// alphabet, ported from brotli/prefix.go's initPrefixRangeLUTs
// (blkLenRanges).
var (
	brotliBlockCountBits = [26]uint32{
		2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5,
		6, 6, 7, 8, 9, 10, 11, 12, 13, 24,
	}
	brotliBlockCountFirst = makeFirsts(1, brotliBlockCountBits[:])
)

// BrotliBlockCountPreset builds the 26-row block-count alphabet used for
// both block-type-switch counts and literal/insert-copy/distance
// block-length fields.
func BrotliBlockCountPreset() Table {
	t := make(Table, 26)
	for i := range t {
		t[i] = Row{
			Type:        Insert,
			InsertFirst: brotliBlockCountFirst[i],
			InsertBits:  brotliBlockCountBits[i],
			Code:        uint32(i),
		}
	}
	return t
}
