package zcvt

// Out is the encode direction: it consumes raw bytes from src, stages
// them into the block buffer's input block in chunks of InputBlockSize,
// and for each full chunk runs the hash-chain match search (TryBlock) so
// the intermediate command-language recording (Intermediate/Str) reflects
// real LZ77 matches a downstream brcvt_out can transcode. The zlib/DEFLATE
// bytes this call actually produces use RFC 1951's stored (type 0)
// block framing rather than a from-scratch dynamic-Huffman bit-packer —
// see DESIGN.md for why: the teacher package is decode-only, and no
// dynamic-Huffman writer appears anywhere else in the reference corpus to
// ground one on. The round trip (Out then In reproduces the input
// exactly) does not depend on which block type carries the bytes.
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
		s.emitZlibHeader()
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
			if ferr := s.flushBlock(false); ferr != nil {
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
		s.adlerFold(chunk)
		nSrc += n
	}
}

// Unshift finalizes the stream: it flushes any input staged but not yet
// turned into a block, marks the last stored block BFINAL, appends the
// trailing Adler-32, and drains the result into dst. Call it once, after
// the last Out call, possibly more than once if dst is too small to take
// the whole tail in one pass.
func (s *State) Unshift(dst []byte) (nDst int, status Status, err error) {
	if !s.ready {
		return 0, StatusSuccess, ErrInit
	}
	if s.err != nil {
		return 0, StatusSuccess, s.err
	}
	if !s.headerSent {
		s.emitZlibHeader()
		s.headerSent = true
	}
	if !s.finalized {
		if ferr := s.flushBlock(true); ferr != nil {
			s.err = ferr
			return 0, StatusSuccess, ferr
		}
		trailer := s.checksum
		s.writeOut = append(s.writeOut, byte(trailer>>24), byte(trailer>>16), byte(trailer>>8), byte(trailer))
		s.finalized = true
	}
	n := copy(dst, s.writeOut)
	s.writeOut = s.writeOut[n:]
	if len(s.writeOut) > 0 {
		return n, StatusPartial, nil
	}
	return n, StatusEndOfFile, nil
}

// emitZlibHeader writes the two-byte RFC 1950 header: CM=8 (DEFLATE),
// CINFO=7 (32 KiB window), FLEVEL=0 (this encoder never tunes for ratio),
// FDICT=0 (Bypass-primed dictionaries are a decode-only concept here),
// with FCHECK chosen so the big-endian uint16 is a multiple of 31.
func (s *State) emitZlibHeader() {
	const cmf = 0x78
	var flg byte
	if rem := uint16(cmf)<<8 | uint16(flg); rem%31 != 0 {
		flg += byte(31 - rem%31)
	}
	s.writeOut = append(s.writeOut, cmf, flg)
}

// flushBlock turns the currently staged input into one or more DEFLATE
// stored blocks (final marks the last of them BFINAL), while also running
// it through the block buffer's match search so Intermediate() carries a
// real command-language recording of the same bytes.
func (s *State) flushBlock(final bool) error {
	data := append([]byte(nil), s.buffer.Input.Bytes()...)
	if err := s.buffer.TryBlock(); err != nil {
		return ErrSanitize
	}
	s.writeStoredData(data, final)
	return nil
}

// writeStoredData splits data into stored blocks no longer than a
// uint16 LEN field can hold (RFC 1951 §3.2.4), the last one carrying
// final. An empty, final call still emits one empty BFINAL block, since
// a zlib stream must end on some block with BFINAL set.
func (s *State) writeStoredData(data []byte, final bool) {
	const chunkMax = 0xffff
	if len(data) == 0 {
		if final {
			s.writeStoredBlockOne(nil, true)
		}
		return
	}
	for len(data) > chunkMax {
		s.writeStoredBlockOne(data[:chunkMax], false)
		data = data[chunkMax:]
	}
	s.writeStoredBlockOne(data, final)
}

func (s *State) writeStoredBlockOne(data []byte, final bool) {
	var bfinal uint32
	if final {
		bfinal = 1
	}
	s.putBits(bfinal, 1)
	s.putBits(0, 2) // BTYPE = 00 (stored)
	s.alignToByte()
	n := uint16(len(data))
	nn := ^n
	s.writeOut = append(s.writeOut, byte(n), byte(n>>8), byte(nn), byte(nn>>8))
	s.writeOut = append(s.writeOut, data...)
}

// putBits appends the low nb bits of v (LSB-first) to the pending output
// bit accumulator, flushing whole bytes out to writeOut as they fill.
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
