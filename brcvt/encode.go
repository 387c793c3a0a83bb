package brcvt

// rawBlockMax bounds a single uncompressed meta-block's payload to what a
// 16-bit MLEN-1 field can hold (RFC 7932 §9.2's MNIBBLES=4 case), so this
// encoder never needs to justify a shorter nibble count than the minimum.
const rawBlockMax = 1 << 16

// Out is the encode direction: it consumes raw bytes from src, stages them
// into the block buffer's input block in chunks of InputBlockSize, and for
// each full chunk runs the hash-chain match search (TryBlock) so the
// intermediate command-language recording (Intermediate/Str) reflects real
// LZ77 matches a downstream zcvt_out can transcode. The Brotli bytes this
// call actually produces use RFC 7932's ISUNCOMPRESSED meta-block framing
// rather than a from-scratch entropy-coded writer — see DESIGN.md: the
// teacher package carries no Brotli writer at all (brotli/reader.go is
// decode-only), and no entropy writer for this format appears anywhere
// else in the reference corpus to ground one on. The round trip (Out then
// Unshift, fed back through In) does not depend on which meta-block form
// carries the bytes, exactly as zcvt.State.Out's stored-block approach
// doesn't for DEFLATE.
func (s *State) Out(src, dst []byte) (nSrc, nDst int, status Status, err error) {
	if !s.ready {
		return 0, 0, StatusSuccess, ErrInit
	}
	if s.buffer.InputBlockSize == 0 {
		return 0, 0, StatusSuccess, ErrParam
	}
	if s.err != nil {
		return 0, 0, StatusSuccess, s.err
	}
	if !s.headerSent {
		s.emitStreamHeader()
		s.headerSent = true
	}
	for {
		if len(s.writeOut) > 0 {
			n := copy(dst[nDst:], s.writeOut)
			s.writeOut = s.writeOut[n:]
			nDst += n
			if nDst >= len(dst) && len(s.writeOut) > 0 {
				return nSrc, nDst, StatusPartial, nil
			}
			continue
		}
		if nSrc >= len(src) {
			return nSrc, nDst, StatusSuccess, nil
		}
		room := int(s.buffer.InputBlockSize) - len(s.buffer.Input.Bytes())
		if room <= 0 {
			if ferr := s.flushBlock(); ferr != nil {
				s.err = ferr
				return nSrc, nDst, StatusSuccess, ferr
			}
			continue
		}
		n := len(src) - nSrc
		if n > room {
			n = room
		}
		chunk := src[nSrc : nSrc+n]
		if werr := s.buffer.Write(chunk); werr != nil {
			s.err = ErrSanitize
			return nSrc, nDst, StatusSuccess, s.err
		}
		nSrc += n
	}
}

// Unshift finalizes the stream: it flushes any input staged but not yet
// turned into a meta-block, appends the terminating ISLAST/ISLASTEMPTY
// empty meta-block (RFC 7932 §9.2's documented empty-stream shortcut), and
// drains the result into dst. Call it once, after the last Out call,
// possibly more than once if dst is too small to take the whole tail in
// one pass.
func (s *State) Unshift(dst []byte) (nDst int, status Status, err error) {
	if !s.ready {
		return 0, StatusSuccess, ErrInit
	}
	if s.err != nil {
		return 0, StatusSuccess, s.err
	}
	if !s.headerSent {
		s.emitStreamHeader()
		s.headerSent = true
	}
	if !s.finalized {
		if ferr := s.flushBlock(); ferr != nil {
			s.err = ferr
			return 0, StatusSuccess, ferr
		}
		s.putBits(1, 1) // ISLAST
		s.putBits(1, 1) // ISLASTEMPTY
		s.alignToByte()
		s.finalized = true
	}
	n := copy(dst, s.writeOut)
	s.writeOut = s.writeOut[n:]
	if len(s.writeOut) > 0 {
		return n, StatusPartial, nil
	}
	return n, StatusEndOfFile, nil
}

// Flush emits a Brotli empty metadata meta-block as a byte-aligned flush
// point: a place a decoder reading this stream incrementally can resync
// to. zcvt has no counterpart. It does not end the stream.
func (s *State) Flush(dst []byte) (nDst int, status Status, err error) {
	if !s.ready {
		return 0, StatusSuccess, ErrInit
	}
	if s.err != nil {
		return 0, StatusSuccess, s.err
	}
	if !s.headerSent {
		s.emitStreamHeader()
		s.headerSent = true
	}
	if len(s.writeOut) == 0 && !s.pendingFlush {
		if ferr := s.flushBlock(); ferr != nil {
			s.err = ferr
			return 0, StatusSuccess, ferr
		}
		s.putBits(0, 1) // ISLAST
		s.putBits(3, 2) // MNIBBLES-4 = 3, i.e. nibbles==7: a metadata block
		s.putBits(0, 1) // reserved bit
		s.putBits(0, 2) // MSKIPBYTES = 0: an empty metadata block
		s.alignToByte()
		s.pendingFlush = true
	}
	n := copy(dst, s.writeOut)
	s.writeOut = s.writeOut[n:]
	if len(s.writeOut) == 0 {
		s.pendingFlush = false
		return n, StatusSuccess, nil
	}
	return n, StatusPartial, nil
}

// emitStreamHeader writes WBITS=16 (RFC 7932 §9.1), the single-bit "0"
// pattern the fixed WBITS code assigns that value — see wbitsDecoder.
func (s *State) emitStreamHeader() {
	s.putBits(0, 1)
	s.winSize = (1 << 16) - 16
}

// flushBlock turns the currently staged input into one or more raw
// (ISUNCOMPRESSED) meta-blocks, while also running it through the block
// buffer's match search so Intermediate() carries a real command-language
// recording of the same bytes.
func (s *State) flushBlock() error {
	data := append([]byte(nil), s.buffer.Input.Bytes()...)
	if err := s.buffer.TryBlock(); err != nil {
		return ErrSanitize
	}
	for len(data) > rawBlockMax {
		s.writeRawMetaBlock(data[:rawBlockMax])
		data = data[rawBlockMax:]
	}
	if len(data) > 0 {
		s.writeRawMetaBlock(data)
	}
	return nil
}

// writeRawMetaBlock emits one non-final ISUNCOMPRESSED meta-block carrying
// data verbatim (RFC 7932 §9.2), using the minimal 4-nibble MLEN field.
func (s *State) writeRawMetaBlock(data []byte) {
	s.putBits(0, 1) // ISLAST = 0
	s.putBits(0, 2) // MNIBBLES-4 = 0 (4 nibbles, 16-bit MLEN-1)
	n := uint32(len(data) - 1)
	s.putBits(n, 16)
	s.putBits(1, 1) // ISUNCOMPRESSED
	s.alignToByte()
	s.writeOut = append(s.writeOut, data...)
}

// putBits appends the low nb bits of v (LSB-first, RFC 7932's bit order)
// to the pending output bit accumulator, flushing whole bytes out to
// writeOut as they fill.
func (s *State) putBits(v uint32, nb uint) {
	s.writeBits |= uint64(v) << s.writeNum
	s.writeNum += nb
	for s.writeNum >= 8 {
		s.writeOut = append(s.writeOut, byte(s.writeBits))
		s.writeBits >>= 8
		s.writeNum -= 8
	}
}

// alignToByte pads the bit accumulator out to a byte boundary with zero
// bits, the encode-direction mirror of readPads.
func (s *State) alignToByte() {
	if s.writeNum > 0 {
		s.writeOut = append(s.writeOut, byte(s.writeBits))
		s.writeBits = 0
		s.writeNum = 0
	}
}
