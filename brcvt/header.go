package brcvt

import "github.com/codylico/tcmplx-go/internal/prefix"

const decodeChunkCap = 1 << 16

// wbitsDecoder is the fixed 16-entry code RFC 7932 §9.1 uses for WBITS,
// ported via internal/prefix.BrotliWBitsCode (itself a port of
// brotli/prefix.go's codeWinBits, which the teacher's own reader never ends
// up using — it parses WBITS with raw ad hoc bit reads instead). Decoding
// through the table keeps this engine's reading symmetric with how every
// other fixed-alphabet field (NBLTYPES/NTREES, RLEMAX) is read.
var wbitsDecoder prefix.Decoder

func init() { wbitsDecoder.Init(prefix.BrotliWBitsCode(), false) }

// In is the decode direction: consumes Brotli bytes from src, produces
// decompressed bytes into dst. Mirrors zcvt.State.In's calling convention
// and resumable-panic dispatch loop (see zcvt/decode.go).
func (s *State) In(src, dst []byte) (nSrc, nDst int, status Status, err error) {
	if !s.ready {
		return 0, 0, StatusSuccess, ErrInit
	}
	if s.err != nil {
		return 0, 0, StatusSuccess, s.err
	}
	s.curSrc = src
	origLen := len(src)
	consumed := func() int { return origLen - len(s.curSrc) }

	for {
		if len(s.toRead) > 0 {
			n := copy(dst[nDst:], s.toRead)
			s.toRead = s.toRead[n:]
			nDst += n
			if nDst >= len(dst) && len(s.toRead) > 0 {
				return consumed(), nDst, StatusPartial, nil
			}
			continue
		}
		if s.streamEnd {
			return consumed(), nDst, StatusEndOfFile, nil
		}

		var stepErr error
		func() {
			defer errRecover(&stepErr)
			s.step(s)
		}()
		switch stepErr {
		case nil:
		case errNeedInput:
			return consumed(), nDst, StatusSuccess, nil
		default:
			s.err = stepErr
			return consumed(), nDst, StatusSuccess, stepErr
		}
	}
}

// readStreamHeader reads WBITS (RFC 7932 §9.1) via the fixed wbitsDecoder
// table; readSymbol is already all-or-nothing, so this needs no sub-state.
func (s *State) readStreamHeader() {
	sym := s.readSymbol(&wbitsDecoder)
	if sym == 0 {
		panic(ErrSanitize) // the reserved "1000100" pattern folds to symbol 0
	}
	s.wbits = uint(sym)
	s.finishStreamHeader()
}

func (s *State) finishStreamHeader() {
	s.winSize = (1 << s.wbits) - 16
	s.subState = 0
	s.step = (*State).readBlockHeader
}

// readBlockHeader reads one meta-block header (RFC 7932 §9.2), ported from
// brotli/reader.go's function of the same name, decomposed field-by-field
// for resumability and with its metadata/raw/compressed branches completed
// (the teacher's version handles metadata and raw data in full; only the
// compressed branch was left as a pseudocode stub, picked up in prefixtree.go
// and blockdata.go).
func (s *State) readBlockHeader() {
	if s.subState == 0 {
		if s.last {
			if s.readPads() > 0 {
				panic(ErrSanitize)
			}
			s.streamEnd = true
			return
		}
		s.subState = 1
	}
	if s.subState == 1 {
		s.last = s.readBits(1) == 1
		s.subState = 2
	}
	if s.subState == 2 {
		if s.last {
			if s.readBits(1) == 1 { // ISLASTEMPTY
				s.subState = 0
				s.step = (*State).readBlockHeader
				return
			}
		}
		s.subState = 3
	}
	if s.subState == 3 {
		s.nibbles = int(s.readBits(2)) + 4
		s.subState = 4
	}
	if s.nibbles == 7 {
		s.readMetaBlockHeader()
		return
	}
	if s.subState == 4 {
		n := s.readBits(uint(s.nibbles) * 4)
		if s.nibbles > 4 && n>>(uint(s.nibbles-1)*4) == 0 {
			panic(ErrSanitize) // shortest representation not used
		}
		s.blkLen = int(n) + 1
		s.subState = 5
	}
	if s.subState == 5 {
		if !s.last {
			if s.readBits(1) == 1 { // ISUNCOMPRESSED
				if s.readPads() > 0 {
					panic(ErrSanitize)
				}
				s.subState = 0
				s.step = (*State).readRawData
				return
			}
		}
		s.subState = 0
		s.beginPrefixCodesSetup()
	}
}

// readMetaBlockHeader continues the nibbles==7 metadata branch: MSKIPBYTES,
// MSKIPLEN, byte-alignment, and the metadata payload itself.
func (s *State) readMetaBlockHeader() {
	switch {
	case s.subState == 4:
		if s.readBits(1) == 1 { // reserved bit
			panic(ErrSanitize)
		}
		s.subState = 5
		fallthrough
	case s.subState == 5:
		s.skipBytes = int(s.readBits(2))
		s.skipLen = 0
		if s.skipBytes == 0 {
			s.subState = 7
		} else {
			s.subState = 6
		}
	}
	if s.subState == 6 {
		n := s.readBits(uint(s.skipBytes) * 8)
		if s.skipBytes > 1 && n>>((uint(s.skipBytes)-1)*8) == 0 {
			panic(ErrSanitize) // shortest representation not used
		}
		s.skipLen = int(n) + 1
		s.subState = 7
	}
	if s.subState == 7 {
		if s.readPads() > 0 {
			panic(ErrSanitize)
		}
		s.subState = 8
		if s.skipLen > 0 {
			if err := s.meta.Emplace(s.skipLen); err != nil {
				panic(ErrMetaLength)
			}
			s.metaLeft = s.skipLen
		} else {
			s.metaLeft = 0
		}
	}
	if s.subState == 8 {
		if s.metaLeft > 0 {
			entry := s.meta.At(s.meta.Size() - 1)
			pos := len(entry) - s.metaLeft
			entry[pos] = byte(s.readBits(8))
			s.metaLeft--
			if s.metaLeft > 0 {
				return
			}
		}
		s.subState = 0
		s.step = (*State).readBlockHeader
	}
}

// readRawData reads an uncompressed meta-block's payload verbatim, the
// brcvt analogue of zcvt's readStoredBytes.
func (s *State) readRawData() {
	for s.blkLen > 0 {
		b := byte(s.readBits(8))
		if err := s.buffer.EmitLiteral([]byte{b}); err != nil {
			panic(ErrSanitize)
		}
		s.toRead = append(s.toRead, s.buffer.ReadFlush()...)
		s.p2, s.p1 = s.p1, b
		s.blkLen--
		if len(s.toRead) >= decodeChunkCap {
			return
		}
	}
	s.step = (*State).readBlockHeader
}
