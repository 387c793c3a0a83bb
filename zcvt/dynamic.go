package zcvt

import "github.com/codylico/tcmplx-go/internal/prefix"

// RFC 1951 §3.2.7's three alphabet size ceilings.
const (
	maxNumCLenSyms = 19
	maxNumLitSyms  = 286
	maxNumDistSyms = 30
)

// readDynamicHCounts reads HLIT/HDIST/HCLEN (§3.2.7), then the HCLEN
// 3-bit code-length-alphabet lengths in their permuted order, and builds
// the code-length tree used to decode the HLIT+HDIST sequence itself.
// Each field is committed only once its own read fully succeeds, so a
// errNeedInput panic partway through always resumes at the next unread
// field rather than re-reading or skipping one.
func (s *State) readDynamicHCounts() {
	switch s.subState {
	case 0:
		s.hlit = int(s.readBits(5)) + 257
		s.subState = 1
		fallthrough
	case 1:
		s.hdist = int(s.readBits(5)) + 1
		s.subState = 2
		fallthrough
	case 2:
		s.hclen = int(s.readBits(4)) + 4
		s.subState = 0
		s.count = 0
		s.clenLens = [19]uint{}
		s.step = (*State).readDynamicCodeLengths
	}
}

// readDynamicCodeLengths reads the HCLEN code-length-alphabet lengths (3
// bits apiece, in DeflateCLenOrder) and builds the code-length tree.
func (s *State) readDynamicCodeLengths() {
	order := prefix.DeflateCLenOrder
	for s.count < s.hclen {
		v := s.readBits(3)
		s.clenLens[order[s.count]] = uint(v)
		s.count++
	}
	var codes prefix.PrefixCodes
	for sym, ln := range s.clenLens {
		if ln > 0 {
			codes = append(codes, prefix.PrefixCode{Sym: uint32(sym), Len: uint32(ln)})
		}
	}
	codes = handleDegenerateCodes(codes, maxNumCLenSyms)
	if err := s.clenTree.Init(codes, true); err != nil {
		panic(ErrSanitize)
	}

	s.index = 0
	s.prevLen = 0
	s.pendingSym = -1
	s.litCodes = s.litCodes[:0]
	s.distCodes = s.distCodes[:0]
	s.step = (*State).readDynamicLLSequence
}

// readDynamicLLSequence decodes the combined HLIT+HDIST code-length
// sequence through the code-length tree, expanding the three repeater
// symbols (16/17/18) per §3.2.7, and splits the result into the literal
// and distance code lists. pendingSym checkpoints a repeater symbol whose
// extra bits haven't been read yet, so a suspended repeater resumes
// without re-decoding the symbol or re-appending codes already committed.
func (s *State) readDynamicLLSequence() {
	maxSyms := uint(s.hlit + s.hdist)
	appendCode := func(sym, clen uint) {
		if sym < uint(s.hlit) {
			s.litCodes = append(s.litCodes, prefix.PrefixCode{Sym: uint32(sym), Len: uint32(clen)})
		} else {
			s.distCodes = append(s.distCodes, prefix.PrefixCode{Sym: uint32(sym - uint(s.hlit)), Len: uint32(clen)})
		}
	}

	for uint(s.index) < maxSyms {
		if s.pendingSym < 0 {
			clen := s.readSymbol(&s.clenTree)
			if clen < 16 {
				if clen > 0 {
					appendCode(uint(s.index), uint(clen))
				}
				s.prevLen = uint(clen)
				s.index++
				continue
			}
			s.pendingSym = int(clen)
		}

		var clen, repCnt uint
		switch s.pendingSym {
		case 16:
			if s.index == 0 {
				panic(ErrSanitize)
			}
			clen = s.prevLen
			repCnt = 3 + s.readBits(2)
		case 17:
			clen = 0
			repCnt = 3 + s.readBits(3)
		case 18:
			clen = 0
			repCnt = 11 + s.readBits(7)
		default:
			panic(ErrSanitize)
		}

		if clen > 0 {
			for i := uint(0); i < repCnt; i++ {
				appendCode(uint(s.index), clen)
				s.index++
			}
		} else {
			s.index += int(repCnt)
		}
		if uint(s.index) > maxSyms {
			panic(ErrSanitize)
		}
		s.pendingSym = -1
	}
	s.step = (*State).readDynamicGenTrees
}

// readDynamicGenTrees builds the block's literal/length and distance
// trees from the code lists accumulated by readDynamicLLSequence.
func (s *State) readDynamicGenTrees() {
	litCodes := handleDegenerateCodes(s.litCodes, maxNumLitSyms)
	if err := s.litTree.Init(litCodes, true); err != nil {
		panic(ErrSanitize)
	}
	distCodes := handleDegenerateCodes(s.distCodes, maxNumDistSyms)
	if err := s.distTree.Init(distCodes, true); err != nil {
		panic(ErrSanitize)
	}
	s.step = (*State).readHuffmanLiteral
}
