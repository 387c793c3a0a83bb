// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

// GeneratePrefixes implements spec.md §4.1's gen_codes: given the Len field
// of each line (as produced by GenerateLengths, or by a preset table),
// assign canonical Val values per RFC 1951 §3.2.2. codes must be sorted by
// ascending Sym (SortBySymbol) on entry, and lines with Len == 0 are
// skipped (they remain unused).
//
// Fails with ErrLenRange if any Len >= 16, and with ErrCodeAlloc if the
// lengths violate Kraft's inequality (an over-subscribed tree); an
// under-subscribed set of lengths is accepted.
func GeneratePrefixes(codes PrefixCodes) error {
	var bitCount [MaxPrefixBits + 1]uint32
	var maxLen uint32
	for _, c := range codes {
		if c.Len >= 16 {
			return ErrLenRange
		}
		if c.Len > 0 {
			bitCount[c.Len]++
			if c.Len > maxLen {
				maxLen = c.Len
			}
		}
	}
	if maxLen == 0 {
		return nil // Empty alphabet; nothing to assign.
	}

	var nextCode [MaxPrefixBits + 1]uint32
	var code uint32
	for l := uint32(1); l <= maxLen; l++ {
		code = (code + bitCount[l-1]) << 1
		nextCode[l] = code
	}

	// Kraft check: after consuming every symbol, each next_code[l] must not
	// have overflowed past what maxLen bits can represent.
	var used uint64
	for _, c := range codes {
		if c.Len > 0 {
			used += uint64(1) << (maxLen - c.Len)
		}
	}
	if used > uint64(1)<<maxLen {
		return ErrCodeAlloc
	}

	for i, c := range codes {
		if c.Len == 0 {
			codes[i].Val = 0
			continue
		}
		codes[i].Val = reverseBits(nextCode[c.Len], c.Len)
		nextCode[c.Len]++
	}
	return nil
}

var reverseLUT [256]byte

func init() {
	for i := range reverseLUT {
		b := byte(i)
		b = (b&0xaa)>>1 | (b&0x55)<<1
		b = (b&0xcc)>>2 | (b&0x33)<<2
		b = (b&0xf0)>>4 | (b&0x0f)<<4
		reverseLUT[i] = b
	}
}

// reverseUint32 reverses all 32 bits of v. Ported from flate/common.go and
// internal/common.go's ReverseUint32 (the teacher keeps two copies; this
// package is the one place it belongs).
func reverseUint32(v uint32) (x uint32) {
	x |= uint32(reverseLUT[byte(v>>0)]) << 24
	x |= uint32(reverseLUT[byte(v>>8)]) << 16
	x |= uint32(reverseLUT[byte(v>>16)]) << 8
	x |= uint32(reverseLUT[byte(v>>24)]) << 0
	return x
}

// reverseBits reverses the lower n bits of v.
func reverseBits(v uint32, n uint32) uint32 {
	return reverseUint32(v << (32 - n))
}
