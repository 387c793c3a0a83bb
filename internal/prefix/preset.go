// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

// DeflateCLenOrder is the permuted code-length symbol order of
// RFC 1951 §3.2.7, ported from flate/prefix.go's clenLens.
var DeflateCLenOrder = [19]uint{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// DeflateFixedLiteralLengths is the fixed Huffman literal/length code
// lengths of RFC 1951 §3.2.6, ported from flate/prefix.go's initPrefixLUTs.
func DeflateFixedLiteralLengths() PrefixCodes {
	codes := make(PrefixCodes, 288)
	for i := 0; i < 144; i++ {
		codes[i] = PrefixCode{Sym: uint32(i), Len: 8}
	}
	for i := 144; i < 256; i++ {
		codes[i] = PrefixCode{Sym: uint32(i), Len: 9}
	}
	for i := 256; i < 280; i++ {
		codes[i] = PrefixCode{Sym: uint32(i), Len: 7}
	}
	for i := 280; i < 288; i++ {
		codes[i] = PrefixCode{Sym: uint32(i), Len: 8}
	}
	return codes
}

// DeflateFixedDistanceLengths is the fixed Huffman distance code lengths of
// RFC 1951 §3.2.6.
func DeflateFixedDistanceLengths() PrefixCodes {
	codes := make(PrefixCodes, 32)
	for i := range codes {
		codes[i] = PrefixCode{Sym: uint32(i), Len: 5}
	}
	return codes
}

// BrotliComplexCLenOrder is the permuted 18-entry order Brotli's complex
// prefix code uses for its inner code-length alphabet (RFC 7932 §3.5).
var BrotliComplexCLenOrder = [18]uint{
	1, 2, 3, 4, 0, 5, 17, 6, 16, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Brotli simple-code lengths (RFC 7932 §3.4), ported from brotli/prefix.go.
var (
	BrotliSimpleLens1  = [1]uint{0}
	BrotliSimpleLens2  = [2]uint{1, 1}
	BrotliSimpleLens3  = [3]uint{1, 2, 2}
	BrotliSimpleLens4A = [4]uint{2, 2, 2, 2}
	BrotliSimpleLens4B = [4]uint{1, 2, 3, 3}
)

// BrotliCLenCode is the fixed prefix code used to read the complex code's
// inner 18 code-length symbols (RFC 7932 §3.5), ported from brotli/prefix.go's
// initPrefixCodeLUTs.
func BrotliCLenCode() PrefixCodes {
	lens := []uint{2, 4, 3, 2, 2, 4}
	vals := []uint{0, 7, 3, 2, 1, 15} // LSB-first: 00, 0111, 011, 10, 01, 1111
	codes := make(PrefixCodes, len(lens))
	for sym, l := range lens {
		codes[sym] = PrefixCode{Sym: uint32(sym), Val: uint32(vals[sym]), Len: uint32(l)}
	}
	return codes
}

// BrotliWBitsCode is the fixed 16-entry code used to decode WBITS
// (RFC 7932 §9.1), ported from brotli/prefix.go's initPrefixCodeLUTs. Index
// 0 is the invalid "1000100" bit pattern, folded to symbol 0 as the teacher
// does.
func BrotliWBitsCode() PrefixCodes {
	var codes PrefixCodes
	for i := uint32(9); i <= 24; i++ {
		var c PrefixCode
		switch {
		case i == 16:
			c = PrefixCode{Sym: i, Val: (i - 16) << 0, Len: 1}
		case i > 17:
			c = PrefixCode{Sym: i, Val: (i-17)<<1 | 1, Len: 4}
		case i < 17:
			c = PrefixCode{Sym: i, Val: (i-8)<<4 | 1, Len: 7}
		default: // i == 17
			c = PrefixCode{Sym: i, Val: (i-17)<<4 | 1, Len: 7}
		}
		codes = append(codes, c)
	}
	codes[0].Sym = 0 // Invalid "1000100" pattern maps to symbol zero.
	return codes
}

// BrotliCountCode is the fixed code used for NBLTYPES*/NTREES* count fields
// in the meta-block header (RFC 7932 §9.2), ported from brotli/prefix.go's
// initPrefixCodeLUTs.
func BrotliCountCode() PrefixCodes {
	codes := PrefixCodes{{Sym: 1, Val: 0, Len: 1}}
	sym := uint32(1)
	for i := uint32(0); i < 8; i++ {
		for j := uint32(0); j < 1<<i; j++ {
			sym++
			codes = append(codes, PrefixCode{
				Sym: sym,
				Val: j<<4 | i<<1 | 1,
				Len: i + 4,
			})
		}
	}
	return codes
}

// BrotliMaxRLECode is the fixed code used to read RLEMAX in a context map
// definition (RFC 7932 §7.3), ported from brotli/prefix.go's
// initPrefixCodeLUTs.
func BrotliMaxRLECode() PrefixCodes {
	codes := PrefixCodes{{Sym: 0, Val: 0, Len: 1}}
	for i := uint32(0); i < 16; i++ {
		codes = append(codes, PrefixCode{Sym: i + 1, Val: i<<1 | 1, Len: 5})
	}
	return codes
}

// Brotli range tables (RFC 7932 §5, §6, §7.3), ported from brotli/prefix.go's
// initPrefixRangeLUTs.
var (
	BrotliInsertLenRanges = MakeRangeCodes(0, []uint{
		0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 7, 8, 9, 10, 12, 14, 24,
	})
	BrotliCopyLenRanges = MakeRangeCodes(2, []uint{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 7, 8, 9, 10, 24,
	})
	BrotliBlockLenRanges = MakeRangeCodes(1, []uint{
		2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 6, 6, 7, 8, 9, 10, 11, 12, 13, 24,
	})
	BrotliMaxRLERanges = MakeRangeCodes(2, []uint{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	})
)

// DeflateLengthRanges is the RFC 1951 §3.2.5 length-symbol table (symbols
// 257..285), ported from flate/prefix.go's initPrefixLUTs.
func DeflateLengthRanges() RangeCodes {
	rc := make(RangeCodes, 29)
	base := uint32(3)
	for i := 0; i < len(rc)-1; i++ {
		nb := uint32(i/4 - 1)
		if i < 4 {
			nb = 0
		}
		rc[i] = RangeCode{Base: base, Bits: nb}
		base += 1 << nb
	}
	rc[len(rc)-1] = RangeCode{Base: 258, Bits: 0}
	return rc
}

// DeflateDistanceRanges is the RFC 1951 §3.2.5 distance-symbol table.
func DeflateDistanceRanges() RangeCodes {
	rc := make(RangeCodes, 30)
	base := uint32(1)
	for i := range rc {
		nb := uint32(i/2 - 1)
		if i < 2 {
			nb = 0
		}
		rc[i] = RangeCode{Base: base, Bits: nb}
		base += 1 << nb
	}
	return rc
}
