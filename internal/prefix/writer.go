// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "io"

// Writer writes individual bits, prefix symbols, and range-coded integers
// in LSB-first order. It is the encode-direction counterpart of Reader,
// grounded on the emission half of bzip2/writer.go's prefixWriter usage
// (WriteBits/WriteSymbol/TryWriteSymbol/Flush), adapted from MSB-first
// bzip2 framing to the LSB-first framing DEFLATE and Brotli both use.
type Writer struct {
	wr      io.Writer
	bufBits uint64
	numBits uint
	Offset  int64
	scratch [4096]byte
	pos     int
}

// Init resets the Writer to write to w.
func (bw *Writer) Init(w io.Writer) {
	*bw = Writer{wr: w}
}

// WriteBits writes the low nb bits of val.
func (bw *Writer) WriteBits(val uint, nb uint) {
	bw.bufBits |= uint64(val) << bw.numBits
	bw.numBits += nb
	bw.drain()
}

// TryWriteSymbol attempts to write sym's code using only buffer space
// already available, without draining to the underlying writer. Returns ok
// == false if the symbol has no assigned code.
func (bw *Writer) TryWriteSymbol(sym uint32, pe *Encoder) bool {
	val, length := pe.Lookup(sym)
	if length == 0 {
		return false
	}
	bw.bufBits |= uint64(val) << bw.numBits
	bw.numBits += uint(length)
	bw.drain()
	return true
}

// WriteSymbol writes sym's code as assigned by pe. Panics if sym has no
// assigned code (the caller's histogram guaranteed it would occur).
func (bw *Writer) WriteSymbol(sym uint32, pe *Encoder) {
	if !bw.TryWriteSymbol(sym, pe) {
		panic(ErrCorrupt)
	}
}

// WriteOffset writes the extra bits for sym's range code, i.e. val - Base
// in rc[sym].Bits bits.
func (bw *Writer) WriteOffset(sym uint, val uint, rc RangeCodes) {
	r := rc[sym]
	bw.WriteBits(uint(val)-uint(r.Base), uint(r.Bits))
}

// WritePads emits 0-7 zero bits to reach byte alignment.
func (bw *Writer) WritePads() {
	if n := bw.numBits % 8; n != 0 {
		bw.WriteBits(0, 8-n)
	}
}

// drain flushes complete bytes from the bit buffer to the scratch array,
// spilling to the underlying writer when the scratch fills.
func (bw *Writer) drain() {
	for bw.numBits >= 8 {
		bw.scratch[bw.pos] = byte(bw.bufBits)
		bw.bufBits >>= 8
		bw.numBits -= 8
		bw.pos++
		if bw.pos == len(bw.scratch) {
			bw.spill()
		}
	}
}

func (bw *Writer) spill() {
	if bw.pos == 0 {
		return
	}
	n, err := bw.wr.Write(bw.scratch[:bw.pos])
	bw.Offset += int64(n)
	bw.pos = 0
	if err != nil {
		panic(err)
	}
}

// Flush pads to a byte boundary, writes every buffered byte to the
// underlying writer, and returns the new Offset.
func (bw *Writer) Flush() (int64, error) {
	bw.WritePads()
	bw.spill()
	return bw.Offset, nil
}
