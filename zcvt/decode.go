package zcvt

import (
	"github.com/codylico/tcmplx-go/internal/prefix"
)

// decodeChunkCap bounds how much decompressed output a single step-function
// invocation accumulates into toRead before yielding back to the In loop —
// the resumable-cursor analogue of flate/reader.go's
// `dict.AvailSize() == 0` checkpoint, adapted because blockbuf.SlidingWindow
// auto-slides rather than reporting a hard capacity limit (see DESIGN.md).
const decodeChunkCap = 1 << 16

var (
	deflateFixedLit   = prefix.DeflateFixedLiteralLengths()
	deflateFixedDist  = prefix.DeflateFixedDistanceLengths()
	deflateLenRanges  = prefix.DeflateLengthRanges()
	deflateDistRanges = prefix.DeflateDistanceRanges()
)

// handleDegenerateCodes mirrors flate/bit_reader.go's function of the same
// name: RFC 1951 §3.2.7 allows a degenerate one-symbol tree that needs a
// single bit, which breaks canonical code generation unless a second,
// unreachable placeholder symbol is added to balance the tree.
func handleDegenerateCodes(codes prefix.PrefixCodes, maxSyms uint32) prefix.PrefixCodes {
	if len(codes) != 1 {
		return codes
	}
	return append(codes, prefix.PrefixCode{Sym: maxSyms, Len: 1})
}

// In is the decode direction: it consumes compressed zlib/DEFLATE bytes
// from src and produces the plain decompressed bytes into dst, returning
// how much of each buffer it used. The command-language recording of the
// same content accumulates in Intermediate() as a side effect, for a
// caller transcoding to brcvt.
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
			// fall through to loop again
		case errNeedInput:
			return consumed(), nDst, StatusSuccess, nil
		case ErrZDictionary:
			return consumed(), nDst, StatusSuccess, ErrZDictionary
		default:
			s.err = stepErr
			return consumed(), nDst, StatusSuccess, stepErr
		}
	}
}

func (s *State) readZlibHeader() {
	for s.count < 2 {
		s.trailerBuf[s.count] = byte(s.readBits(8))
		s.count++
	}
	cmf, flg := s.trailerBuf[0], s.trailerBuf[1]
	if (uint(cmf)<<8|uint(flg))%31 != 0 {
		panic(ErrSanitize)
	}
	if cmf&0x0f != 8 {
		panic(ErrSanitize)
	}
	if cmf>>4 > 7 {
		panic(ErrSanitize)
	}
	s.count = 0
	if flg&0x20 != 0 {
		s.step = (*State).readZlibHeaderDict
	} else {
		s.step = (*State).readBlockStart
	}
}

func (s *State) readZlibHeaderDict() {
	for s.count < 4 {
		s.trailerBuf[s.count] = byte(s.readBits(8))
		s.count++
	}
	s.dictAdler = uint32(s.trailerBuf[0])<<24 | uint32(s.trailerBuf[1])<<16 |
		uint32(s.trailerBuf[2])<<8 | uint32(s.trailerBuf[3])
	s.count = 0
	s.step = (*State).readZlibHeaderDictChk
}

func (s *State) readZlibHeaderDictChk() {
	if s.dictBypass != s.dictAdler {
		panic(ErrZDictionary)
	}
	s.step = (*State).readBlockStart
}

func (s *State) readBlockStart() {
	if s.last {
		s.readPads()
		s.step = (*State).readAdler32Tail
		return
	}
	if s.subState == 0 {
		s.last = s.readBits(1) == 1
		s.subState = 1
	}
	btype := s.readBits(2)
	s.subState = 0
	switch btype {
	case 0:
		s.readPads()
		s.step = (*State).readStoredLengths
	case 1:
		if err := s.litTree.Init(deflateFixedLit, true); err != nil {
			panic(ErrSanitize)
		}
		if err := s.distTree.Init(deflateFixedDist, true); err != nil {
			panic(ErrSanitize)
		}
		s.step = (*State).readHuffmanLiteral
	case 2:
		s.count = 0
		s.step = (*State).readDynamicHCounts
	default:
		panic(ErrSanitize)
	}
}

func (s *State) readStoredLengths() {
	for s.count < 4 {
		s.trailerBuf[s.count] = byte(s.readBits(8))
		s.count++
	}
	n := uint16(s.trailerBuf[0]) | uint16(s.trailerBuf[1])<<8
	nn := uint16(s.trailerBuf[2]) | uint16(s.trailerBuf[3])<<8
	if n^nn != 0xffff {
		panic(ErrSanitize)
	}
	s.blkLen = int(n)
	s.count = 0
	if s.blkLen == 0 {
		s.step = (*State).readBlockStart
		return
	}
	s.step = (*State).readStoredBytes
}

func (s *State) readStoredBytes() {
	for s.blkLen > 0 {
		b := byte(s.readBits(8))
		if err := s.buffer.EmitLiteral([]byte{b}); err != nil {
			panic(ErrSanitize)
		}
		s.adlerFold([]byte{b})
		s.toRead = append(s.toRead, s.buffer.ReadFlush()...)
		s.blkLen--
		if len(s.toRead) >= decodeChunkCap {
			return
		}
	}
	s.step = (*State).readBlockStart
}

func (s *State) readAdler32Tail() {
	for s.count < 4 {
		s.trailerBuf[s.count] = byte(s.readBits(8))
		s.count++
	}
	trailer := uint32(s.trailerBuf[0])<<24 | uint32(s.trailerBuf[1])<<16 |
		uint32(s.trailerBuf[2])<<8 | uint32(s.trailerBuf[3])
	if trailer != s.checksum {
		panic(ErrSanitize)
	}
	s.count = 0
	s.streamEnd = true
}

func (s *State) readHuffmanLiteral() {
	for {
		litSym := s.readSymbol(&s.litTree)
		switch {
		case litSym < 256:
			b := byte(litSym)
			if err := s.buffer.EmitLiteral([]byte{b}); err != nil {
				panic(ErrSanitize)
			}
			s.adlerFold([]byte{b})
			s.toRead = append(s.toRead, s.buffer.ReadFlush()...)
			if len(s.toRead) >= decodeChunkCap {
				return
			}
		case litSym == 256:
			s.step = (*State).readBlockStart
			return
		case litSym < 286:
			s.lenSym = int(litSym)
			s.step = (*State).readCopyExtra
			return
		default:
			panic(ErrSanitize)
		}
	}
}

func (s *State) readCopyExtra() {
	rc := deflateLenRanges[s.lenSym-257]
	extra := s.readBits(uint(rc.Bits))
	s.cpyLen = int(rc.Base) + int(extra)
	s.step = (*State).readHuffmanDistance
}

func (s *State) readHuffmanDistance() {
	distSym := s.readSymbol(&s.distTree)
	if int(distSym) >= len(deflateDistRanges) {
		panic(ErrSanitize)
	}
	s.distSym = int(distSym)
	s.step = (*State).readDistanceExtra
}

func (s *State) readDistanceExtra() {
	rc := deflateDistRanges[s.distSym]
	extra := s.readBits(uint(rc.Bits))
	s.dist = int(rc.Base) + int(extra)
	s.step = (*State).readCopyRun
}

func (s *State) readCopyRun() {
	wireDist := s.dist - 1
	if wireDist < 0 {
		panic(ErrSanitize)
	}
	if err := s.buffer.EmitCopy(wireDist, s.cpyLen); err != nil {
		panic(ErrSanitize)
	}
	copied := s.buffer.ReadFlush()
	s.adlerFold(copied)
	s.toRead = append(s.toRead, copied...)
	s.step = (*State).readHuffmanLiteral
}
