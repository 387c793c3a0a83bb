// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package prefix implements the canonical Huffman alphabet shared by the
// engine's three wire formats: DEFLATE/zlib, Brotli, and the intermediate
// command language. It centralizes the prefix-code logic that the teacher
// package left duplicated, near-identically, between its flate and brotli
// packages.
package prefix

import "golang.org/x/exp/slices"

// MaxPrefixBits is the maximum bit-width of any prefix code used by either
// wire format (RFC 1951 §3.2.7, RFC 7932 §3.5).
const MaxPrefixBits = 15

// PrefixCode is a single line of a prefix list: the triple (code, len,
// value) of spec.md §3. Sym is the value/symbol being mapped (spec.md's
// "value" field); Cnt accumulates frequency counts for GenerateLengths;
// Val and Len hold the assigned canonical code and its bit-width.
type PrefixCode struct {
	Sym uint32 // The symbol/value being mapped
	Cnt uint32 // Frequency count, populated before GenerateLengths
	Val uint32 // Assigned prefix code (must be in [0, 1<<Len))
	Len uint32 // Bit-width of Val; zero means unused
}

// PrefixCodes is a resizable prefix list (spec.md §3 "Prefix list").
type PrefixCodes []PrefixCode

// SortBySymbol reorders codes by ascending Sym — the "value order" of
// spec.md §3, used for alphabet-directed encoding.
func (pc PrefixCodes) SortBySymbol() {
	slices.SortFunc(pc, func(a, b PrefixCode) int {
		switch {
		case a.Sym < b.Sym:
			return -1
		case a.Sym > b.Sym:
			return 1
		default:
			return 0
		}
	})
}

// SortByCount reorders codes by ascending Cnt, used as the input order to
// GenerateLengths.
func (pc PrefixCodes) SortByCount() {
	slices.SortFunc(pc, func(a, b PrefixCode) int {
		switch {
		case a.Cnt < b.Cnt:
			return -1
		case a.Cnt > b.Cnt:
			return 1
		default:
			return 0
		}
	})
}

// SortByCode reorders codes into "code order" (spec.md §3): Len ascending,
// then Val ascending. This is the order bit-directed decoding relies on for
// binary search.
func (pc PrefixCodes) SortByCode() {
	slices.SortFunc(pc, func(a, b PrefixCode) int {
		switch {
		case a.Len < b.Len:
			return -1
		case a.Len > b.Len:
			return 1
		case a.Val < b.Val:
			return -1
		case a.Val > b.Val:
			return 1
		default:
			return 0
		}
	})
}

// CodeSearch performs a binary search for the line with the given (len,
// val) pair in a list ordered by SortByCode. It returns the index, or -1
// if no such line exists (the NOT_FOUND sentinel of spec.md §4.1).
func (pc PrefixCodes) CodeSearch(length, val uint32) int {
	lo, hi := 0, len(pc)
	for lo < hi {
		mid := (lo + hi) / 2
		c := pc[mid]
		switch {
		case c.Len < length || (c.Len == length && c.Val < val):
			lo = mid + 1
		default:
			hi = mid
		}
	}
	if lo < len(pc) && pc[lo].Len == length && pc[lo].Val == val {
		return lo
	}
	return -1
}

// SymbolSearch performs a binary search for the line with the given Sym in
// a list ordered by SortBySymbol. It returns the index, or -1 if absent.
func (pc PrefixCodes) SymbolSearch(sym uint32) int {
	lo, hi := 0, len(pc)
	for lo < hi {
		mid := (lo + hi) / 2
		if pc[mid].Sym < sym {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(pc) && pc[lo].Sym == sym {
		return lo
	}
	return -1
}

// RangeCode is a single (base, bits) range entry, shared by both wire
// formats' length/distance/block-count tables (spec.md's insert-copy and
// distance tables are built from these).
type RangeCode struct {
	Base uint32 // Starting base offset of the range
	Bits uint32 // Bit-width of the extra value added to Base
}

// RangeCodes is an ordered list of RangeCode, indexed by symbol.
type RangeCodes []RangeCode

// MakeRangeCodes builds a RangeCodes table starting at base, with one entry
// per element of bits; each successive base is the prior base plus 1<<bits.
func MakeRangeCodes(base uint32, bits []uint) RangeCodes {
	rc := make(RangeCodes, len(bits))
	for i, nb := range bits {
		rc[i] = RangeCode{Base: base, Bits: uint32(nb)}
		base += 1 << nb
	}
	return rc
}

// Base returns the smallest value representable by the first range.
func (rc RangeCodes) Base() uint32 { return rc[0].Base }

// End returns one past the largest value representable by the last range.
func (rc RangeCodes) End() uint32 {
	last := rc[len(rc)-1]
	return last.Base + 1<<last.Bits
}
