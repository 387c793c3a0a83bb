// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

// DecoderForest is the "gasp vector" of spec.md §3: an ordered sequence of
// Decoders, indexed by context-map entry, used for Brotli's per-context
// literal and distance Huffman forests.
type DecoderForest []Decoder

// EncoderForest is DecoderForest's encode-direction counterpart.
type EncoderForest []Encoder

// Grow extends the forest to have exactly n trees, reusing existing
// storage where possible (the same growth discipline flate/bit_reader.go's
// allocUint32s and brotli/prefix_decoder.go's extendUint16s use).
func (f *DecoderForest) Grow(n int) {
	if cap(*f) >= n {
		*f = (*f)[:n]
		return
	}
	next := make(DecoderForest, n)
	copy(next, *f)
	*f = next
}

// Grow extends the forest to have exactly n trees.
func (f *EncoderForest) Grow(n int) {
	if cap(*f) >= n {
		*f = (*f)[:n]
		return
	}
	next := make(EncoderForest, n)
	copy(next, *f)
	*f = next
}
