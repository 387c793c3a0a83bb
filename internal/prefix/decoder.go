// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

const (
	countBits  = 4
	symbolBits = 12

	countMask    = (1 << countBits) - 1
	maxChunkBits = 9 // Tunable: caps the first-level lookup table's size.
)

// Decoder is a chunked bit-directed Huffman decode table, generalized from
// brotli/prefix_decoder.go's prefixDecoder (the more complete of the
// teacher's two near-identical copies) so that both DEFLATE and Brotli, and
// the intermediate command language's own small alphabets, share one
// implementation.
type Decoder struct {
	chunks    []uint16   // First-level lookup map
	links     [][]uint16 // Second-level lookup map, for codes longer than chunkBits
	chunkMask uint16
	linkMask  uint16
	numSyms   uint16
	chunkBits uint8
	minBits   uint8 // Minimum bits that can safely be fed before a lookup
}

// MinBits reports the minimum number of bits the bit reader must have
// buffered before a lookup in this table can make progress.
func (pd *Decoder) MinBits() uint { return uint(pd.minBits) }

// NumSymbols reports how many symbols this table was built with.
func (pd *Decoder) NumSymbols() int { return int(pd.numSyms) }

// Init builds the decode table from codes. The symbols provided must be
// unique; their Sym values need not be sorted.
//
// If assignCodes is true, codes is first treated as a (Sym, Len) list
// (values are ignored) and canonical values are generated internally via
// GeneratePrefixes, exactly as spec.md §4.1's gen_codes does. If false,
// codes must already carry valid, non-overlapping (Val, Len) pairs (e.g. a
// preset table).
func (pd *Decoder) Init(codes PrefixCodes, assignCodes bool) error {
	codes = append(PrefixCodes{}, codes...) // Local copy; caller's slice order is untouched.

	if assignCodes {
		codes.SortBySymbol()
		if err := GeneratePrefixes(codes); err != nil {
			return err
		}
	}

	// Drop unused (zero-length) symbols before building the table.
	var used PrefixCodes
	for _, c := range codes {
		if c.Len > 0 {
			used = append(used, c)
		}
	}

	switch len(used) {
	case 0:
		*pd = Decoder{}
		return nil
	case 1:
		*pd = Decoder{
			chunks:  []uint16{uint16(used[0].Sym) << countBits},
			numSyms: 1,
		}
		return nil
	}

	var maxBits, minBits uint32 = 0, MaxPrefixBits + 1
	for _, c := range used {
		if c.Len > maxBits {
			maxBits = c.Len
		}
		if c.Len < minBits {
			minBits = c.Len
		}
	}
	if !checkPrefixes(used) {
		return ErrCorrupt
	}

	pd.numSyms = uint16(len(used))
	pd.minBits = uint8(minBits)
	pd.chunkBits = uint8(maxBits)
	if pd.chunkBits > maxChunkBits {
		pd.chunkBits = maxChunkBits
	}
	numChunks := 1 << pd.chunkBits
	pd.chunks = make([]uint16, numChunks)
	pd.chunkMask = uint16(numChunks - 1)

	pd.links = nil
	pd.linkMask = 0
	if uint32(pd.chunkBits) < maxBits {
		numLinks := 1 << (maxBits - uint32(pd.chunkBits))
		pd.linkMask = uint16(numLinks - 1)

		for _, c := range used {
			if c.Len <= uint32(pd.chunkBits) {
				continue
			}
			code := uint16(c.Val) & pd.chunkMask
			if pd.chunks[code] > 0 {
				continue
			}
			linkIdx := len(pd.links)
			pd.links = append(pd.links, make([]uint16, numLinks))
			pd.chunks[code] = uint16(linkIdx<<countBits) | uint16(pd.chunkBits+1)
		}
	}

	for _, c := range used {
		chunk := uint16(c.Sym)<<countBits | uint16(c.Len)
		if c.Len <= uint32(pd.chunkBits) {
			skip := 1 << uint(c.Len)
			for i := int(c.Val); i < len(pd.chunks); i += skip {
				pd.chunks[i] = chunk
			}
		} else {
			linkIdx := pd.chunks[uint16(c.Val)&pd.chunkMask] >> countBits
			links := pd.links[linkIdx]
			skip := 1 << uint(c.Len-uint32(pd.chunkBits))
			for i := int(c.Val >> uint32(pd.chunkBits)); i < len(links); i += skip {
				links[i] = chunk
			}
		}
	}
	return nil
}

// Lookup decodes one symbol from the low bits of peek (LSB-first), given
// that avail bits of peek are actually valid. It reports ok == false if
// avail doesn't carry enough bits to resolve this code, in which case the
// caller must buffer more bits and retry — the same shape as
// Reader.TryReadSymbol, but usable by a caller that owns its own bit
// accumulator instead of reading through a Reader/io.Reader. zcvt and brcvt
// use this to decode symbols from a resumable, byte-slice-backed cursor
// that must be able to suspend mid-code without losing state.
func (pd *Decoder) Lookup(peek uint64, avail uint) (sym uint32, nb uint, ok bool) {
	if len(pd.chunks) == 0 || avail < uint(pd.minBits) {
		return 0, 0, false
	}
	chunk := pd.chunks[uint16(peek)&pd.chunkMask]
	nb = uint(chunk & countMask)
	if nb > uint(pd.chunkBits) {
		linkIdx := chunk >> countBits
		chunk = pd.links[linkIdx][uint16(peek>>pd.chunkBits)&pd.linkMask]
		nb = uint(chunk & countMask)
	}
	if nb == 0 || nb > avail {
		return 0, 0, false
	}
	return uint32(chunk >> countBits), nb, true
}

// checkPrefixes reports whether codes is prefix-free: it returns false if
// any two codes have overlapping prefixes.
func checkPrefixes(codes PrefixCodes) bool {
	for i, c1 := range codes {
		for j, c2 := range codes {
			if c1.Len == 0 || c2.Len == 0 {
				continue
			}
			mask := uint32(1)<<c1.Len - 1
			if i != j && c1.Len <= c2.Len && c1.Val&mask == c2.Val&mask {
				return false
			}
		}
	}
	return true
}
