// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

// Encoder is a symbol-indexed Huffman encode table. Every alphabet in this
// engine (DEFLATE's 286/30, Brotli's 256/numInsSyms/26/maxNumDistSyms, and
// the command language's own small alphabets) uses small, dense symbol
// spaces, so a flat slice indexed by Sym is used rather than a map.
type Encoder struct {
	codes []PrefixCode // Indexed by Sym
}

// Init builds the encode table from codes (Val/Len must already be
// assigned, e.g. via GeneratePrefixes or a preset table).
func (pe *Encoder) Init(codes PrefixCodes) {
	var maxSym uint32
	for _, c := range codes {
		if c.Sym > maxSym {
			maxSym = c.Sym
		}
	}
	pe.codes = make([]PrefixCode, maxSym+1)
	for _, c := range codes {
		pe.codes[c.Sym] = c
	}
}

// Lookup returns the (val, len) pair for sym. len == 0 means sym has no
// assigned code (e.g. it never occurred in the histogram).
func (pe *Encoder) Lookup(sym uint32) (val, length uint32) {
	c := pe.codes[sym]
	return c.Val, c.Len
}

// NumSymbols reports the size of the encoder's symbol space.
func (pe *Encoder) NumSymbols() int { return len(pe.codes) }
