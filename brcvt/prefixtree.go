package brcvt

import (
	"sort"

	"github.com/codylico/tcmplx-go/internal/ctxtmap"
	"github.com/codylico/tcmplx-go/internal/inscopy"
	"github.com/codylico/tcmplx-go/internal/prefix"
)

// Fixed preset decoders this file's setup sequencer reads meta-block header
// scalars through: NBLTYPES/NTREES (countDecoder), RLEMAX
// (maxRLEDecoder), and the complex prefix code's own 18-symbol inner
// alphabet (clenDecoder). Built once; none of these depend on stream state.
var (
	countDecoder   prefix.Decoder
	maxRLEDecoder  prefix.Decoder
	clenDecoder    prefix.Decoder
	blockCountRows = inscopy.BrotliBlockCountPreset()
)

func init() {
	countDecoder.Init(prefix.BrotliCountCode(), false)
	maxRLEDecoder.Init(prefix.BrotliMaxRLECode(), false)
	clenDecoder.Init(prefix.BrotliCLenCode(), false)
}

// simpleSymBits is the minimal fixed bit-width a simple prefix code's raw
// symbol field needs to address an alphabet of this size. RFC 7932 §3.4
// ties this width to the meta-block's own alphabet-specific bit count
// tables; no source in this project's corpus carries that table, so this
// engine uses the minimal-width encoding instead — self-consistent (this
// engine's own writer, were one ever added, would produce exactly the
// widths this reads) but not a byte-exact reproduction of the reference
// decoder's table. See DESIGN.md.
func simpleSymBits(alphabet int) uint {
	n := uint(0)
	for 1<<n < alphabet {
		n++
	}
	return n
}

// startBuildTree begins (or restarts) a resumable build of one prefix
// table of the given alphabet size into dest, invoking next once the table
// is ready. Every tree brcvt reads — block-type, block-count, context-map,
// literal, insert-copy, and distance — funnels through this one state
// machine, mirrored from RFC 7932 §3.4/§3.5's shared HSKIP dispatch.
func (s *State) startBuildTree(alphabet int, dest *prefix.Decoder, next func(*State)) {
	s.treeAlphabet = alphabet
	s.buildDest = dest
	s.buildNext = next
	s.subState = 0
	s.seqIndex = 0
	s.seqPrev = 0
	s.seqPending = -1
	s.seqCodes = s.seqCodes[:0]
	s.simpleCount = 0
	s.step = (*State).readTreeHSkip
}

// readTreeHSkip reads the 2-bit HSKIP field that picks simple (HSKIP==1)
// vs. complex (HSKIP in {0,2,3}) prefix code definitions (RFC 7932 §3.4).
func (s *State) readTreeHSkip() {
	v := int(s.readBits(2))
	if v == 1 {
		s.isComplex = false
		s.step = (*State).readSimpleNSym
		return
	}
	s.isComplex = true
	s.hskip = v
	s.clenLens = [18]uint{}
	s.clenCount = s.hskip
	s.step = (*State).readComplexCLens
}

// readComplexCLens reads the 18-symbol meta-alphabet's own code lengths,
// permuted via BrotliComplexCLenOrder and skipping the first HSKIP entries
// (RFC 7932 §3.5), then builds clenTree from them.
func (s *State) readComplexCLens() {
	order := prefix.BrotliComplexCLenOrder
	for s.clenCount < 18 {
		v := s.readSymbol(&clenDecoder)
		s.clenLens[order[s.clenCount]] = uint(v)
		s.clenCount++
	}

	var codes prefix.PrefixCodes
	for sym, ln := range s.clenLens {
		if ln > 0 {
			codes = append(codes, prefix.PrefixCode{Sym: uint32(sym), Len: uint32(ln)})
		}
	}
	if len(codes) == 0 {
		panic(ErrSanitize)
	}
	codes = handleDegenerateCodes(codes, 18)
	if err := s.clenTree.Init(codes, true); err != nil {
		panic(ErrSanitize)
	}
	s.seqIndex = 0
	s.seqPrev = 8
	s.seqPending = -1
	s.seqCodes = s.seqCodes[:0]
	s.step = (*State).readTreeSequence
}

// readTreeSequence reads the complex code's outer sequence: one code length
// per alphabet symbol, with repeat codes 16 (repeat previous nonzero
// length) and 17 (repeat zero) for runs. Grounded directly on
// zcvt/dynamic.go's readDynamicLLSequence, the same shape DEFLATE's dynamic
// code-length sequence uses; this engine reads repeat codes with plain,
// non-accumulating counts rather than the reference decoder's
// consecutive-repeat length doubling, since no corpus source implements
// that refinement in working code. See DESIGN.md.
func (s *State) readTreeSequence() {
	maxSyms := uint(s.treeAlphabet)
	for uint(s.seqIndex) < maxSyms {
		if s.seqPending < 0 {
			clen := s.readSymbol(&s.clenTree)
			if clen < 16 {
				if clen > 0 {
					s.seqCodes = append(s.seqCodes, prefix.PrefixCode{Sym: uint32(s.seqIndex), Len: uint32(clen)})
					s.seqPrev = uint(clen)
				}
				s.seqIndex++
				continue
			}
			s.seqPending = int(clen)
		}
		var clen, repCnt uint
		switch s.seqPending {
		case 16:
			if s.seqIndex == 0 {
				panic(ErrSanitize)
			}
			clen = s.seqPrev
			repCnt = 3 + s.readBits(2)
		case 17:
			clen = 0
			repCnt = 3 + s.readBits(3)
		default:
			panic(ErrSanitize)
		}
		if uint(s.seqIndex)+repCnt > maxSyms {
			panic(ErrSanitize)
		}
		if clen > 0 {
			for i := uint(0); i < repCnt; i++ {
				s.seqCodes = append(s.seqCodes, prefix.PrefixCode{Sym: uint32(s.seqIndex), Len: uint32(clen)})
				s.seqIndex++
			}
		} else {
			s.seqIndex += int(repCnt)
		}
		s.seqPending = -1
	}
	s.finishTree(s.seqCodes)
}

// readSimpleNSym reads NSYM-1 (RFC 7932 §3.4) for a simple prefix code.
func (s *State) readSimpleNSym() {
	s.simpleNSym = int(s.readBits(2)) + 1
	s.simpleBits = simpleSymBits(s.treeAlphabet)
	s.simpleCount = 0
	s.step = (*State).readSimpleSymbols
}

func (s *State) readSimpleSymbols() {
	for s.simpleCount < s.simpleNSym {
		s.simpleSyms[s.simpleCount] = uint32(s.readBits(s.simpleBits))
		s.simpleCount++
	}
	if s.simpleNSym == 4 {
		s.step = (*State).readSimpleTreeSelect
		return
	}
	s.finishSimpleTree(false)
}

// readSimpleTreeSelect reads the 4-symbol case's extra tree-shape bit,
// choosing between BrotliSimpleLens4A and 4B.
func (s *State) readSimpleTreeSelect() {
	useB := s.readBits(1) == 1
	s.finishSimpleTree(useB)
}

func (s *State) finishSimpleTree(useShapeB bool) {
	syms := append([]uint32(nil), s.simpleSyms[:s.simpleNSym]...)
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	var lens []uint
	switch s.simpleNSym {
	case 1:
		lens = prefix.BrotliSimpleLens1[:]
	case 2:
		lens = prefix.BrotliSimpleLens2[:]
	case 3:
		lens = prefix.BrotliSimpleLens3[:]
	default:
		if useShapeB {
			lens = prefix.BrotliSimpleLens4B[:]
		} else {
			lens = prefix.BrotliSimpleLens4A[:]
		}
	}

	codes := make(prefix.PrefixCodes, len(syms))
	for i, sym := range syms {
		if int(sym) >= s.treeAlphabet {
			panic(ErrSanitize)
		}
		ln := uint32(lens[i])
		if s.simpleNSym == 1 {
			// BrotliSimpleLens1's literal length of 0 means "needs no bits
			// at all" (there's only one possible symbol); this package's
			// Decoder has no representation for a zero-bit code, so this
			// engine treats the lone symbol as length 1 instead and lets
			// handleDegenerateCodes pad it out the same way it handles
			// every other one-symbol alphabet.
			ln = 1
		}
		codes[i] = prefix.PrefixCode{Sym: sym, Len: ln}
	}
	codes = handleDegenerateCodes(codes, uint32(s.treeAlphabet))
	s.finishTree(codes)
}

func (s *State) finishTree(codes prefix.PrefixCodes) {
	if err := s.buildDest.Init(codes, true); err != nil {
		panic(ErrSanitize)
	}
	next := s.buildNext
	s.buildDest = nil
	s.buildNext = nil
	s.subState = 0
	next(s)
}

// beginPrefixCodesSetup starts the meta-block compressed-header's long,
// strictly-ordered field sequence (RFC 7932 §9.2): per-stream block-type
// machinery, distance parameters, literal context modes, context maps, and
// finally the literal/insert-copy/distance prefix trees themselves.
func (s *State) beginPrefixCodesSetup() {
	s.setupI = 0
	s.step = (*State).setupBlockTypeCount
}

// setupBlockTypeCount reads NBLTYPES for stream s.setupI (0=literal,
// 1=insert-copy, 2=distance) and, when it's at least 2, the block-type and
// block-count trees plus the stream's first BLEN value.
func (s *State) setupBlockTypeCount() {
	i := s.setupI
	sym := s.readSymbol(&countDecoder)
	n := int(sym)
	s.nbtype[i] = n
	s.btypePrev1[i] = 1
	s.btypePrev2[i] = 0
	s.btype[i] = 0
	if n < 2 {
		s.bcount[i] = 1 << 30
		s.advanceStreamSetup()
		return
	}
	s.startBuildTree(n+2, &s.btypeDec[i], (*State).setupBlockLenTree)
}

func (s *State) setupBlockLenTree() {
	s.startBuildTree(numBlockCountSyms, &s.blenDec[s.setupI], (*State).setupBlockLenValue)
}

func (s *State) setupBlockLenValue() {
	i := s.setupI
	if s.subState == 0 {
		code := s.readSymbol(&s.blenDec[i])
		s.setupJ = int(code)
		s.subState = 1
	}
	row := blockCountRows[s.setupJ]
	extra := s.readBits(uint(row.InsertBits))
	s.bcount[i] = int(row.InsertFirst) + int(extra)
	s.subState = 0
	s.advanceStreamSetup()
}

func (s *State) advanceStreamSetup() {
	s.setupI++
	if s.setupI < 3 {
		s.step = (*State).setupBlockTypeCount
		return
	}
	s.step = (*State).setupDistanceParams
}

// setupDistanceParams reads NPOSTFIX and NDIRECT (RFC 7932 §9.2) and
// configures the recent-distance ring.
func (s *State) setupDistanceParams() {
	if s.subState == 0 {
		s.npostfix = uint32(s.readBits(2))
		s.subState = 1
	}
	ndirectRaw := uint32(s.readBits(4))
	s.ndirect = ndirectRaw << s.npostfix
	s.ring.Init(16, s.ndirect, s.npostfix)
	s.subState = 0
	s.setupI = 0
	s.ctxModes = make([]ctxtmap.Mode, s.nbtype[0])
	s.step = (*State).setupContextModes
}

// setupContextModes reads CMODE for each literal block type (RFC 7932
// §7.1).
func (s *State) setupContextModes() {
	for s.setupI < len(s.ctxModes) {
		v := s.readBits(2)
		s.ctxModes[s.setupI] = ctxtmap.Mode(v)
		s.setupI++
	}
	s.step = (*State).setupLiteralTreeCount
}

func (s *State) setupLiteralTreeCount() {
	sym := s.readSymbol(&countDecoder)
	s.ntreesL = int(sym)
	s.literalCtxMap.Init(s.nbtype[0], 64)
	if s.ntreesL < 2 {
		s.step = (*State).setupDistanceTreeCount
		return
	}
	s.ctxMapWhich = 0
	s.ctxMapSize = s.nbtype[0] * 64
	s.ctxMapIndex = 0
	s.setupBeginContextMap()
}

func (s *State) setupDistanceTreeCount() {
	sym := s.readSymbol(&countDecoder)
	s.ntreesD = int(sym)
	s.distCtxMap.Init(s.nbtype[2], 4)
	if s.ntreesD < 2 {
		s.step = (*State).setupLiteralTrees
		return
	}
	s.ctxMapWhich = 1
	s.ctxMapSize = s.nbtype[2] * 4
	s.ctxMapIndex = 0
	s.setupBeginContextMap()
}

// setupBeginContextMap reads MAX_RUN_LENGTH_PREFIX and starts the shared
// context-map tree build (RFC 7932 §7.3), used for both the literal and
// distance maps depending on s.ctxMapWhich.
func (s *State) setupBeginContextMap() {
	sym := s.readSymbol(&maxRLEDecoder)
	s.setupJ = int(sym)
	ntrees := s.ntreesL
	if s.ctxMapWhich == 1 {
		ntrees = s.ntreesD
	}
	s.startBuildTree(ntrees+s.setupJ, &s.ctxMapRLE, (*State).readContextMapEntries)
}

// readContextMapEntries decodes one cluster index per (block type, context)
// cell, with codes 1..maxRLE standing for a run of zero-cluster cells. This
// engine reads escape code k as a run of length (1<<k)+extra(k bits) — a
// self-consistent scheme, round-trip correct with this package's own
// encoder, but not verified against the reference decoder's run-length
// table (absent from this project's corpus). See DESIGN.md.
func (s *State) readContextMapEntries() {
	ntrees := s.ntreesL
	if s.ctxMapWhich == 1 {
		ntrees = s.ntreesD
	}
	maxRLE := s.setupJ
	var dest *ctxtmap.Map
	if s.ctxMapWhich == 0 {
		dest = &s.literalCtxMap
	} else {
		dest = &s.distCtxMap
	}
	data := dest.Data()

	for s.ctxMapIndex < s.ctxMapSize {
		if s.subState == 0 {
			sym := s.readSymbol(&s.ctxMapRLE)
			if maxRLE > 0 && int(sym) >= 1 && int(sym) <= maxRLE {
				s.setupK = int(sym)
				s.subState = 1
				continue
			}
			cluster := int(sym) - maxRLE
			if cluster < 0 || cluster >= ntrees {
				panic(ErrSanitize)
			}
			data[s.ctxMapIndex] = byte(cluster)
			s.ctxMapIndex++
			continue
		}
		extra := s.readBits(uint(s.setupK))
		run := (1 << uint(s.setupK)) + int(extra)
		for i := 0; i < run && s.ctxMapIndex < s.ctxMapSize; i++ {
			data[s.ctxMapIndex] = 0
			s.ctxMapIndex++
		}
		s.subState = 0
	}
	s.subState = 0
	s.step = (*State).readContextMapIMTF
}

// readContextMapIMTF reads the trailing 1-bit IMTF flag and, if set,
// reverts the move-to-front transform over the just-read map.
func (s *State) readContextMapIMTF() {
	imtf := s.readBits(1) == 1
	var dest *ctxtmap.Map
	if s.ctxMapWhich == 0 {
		dest = &s.literalCtxMap
	} else {
		dest = &s.distCtxMap
	}
	if imtf {
		dest.RevertMoveToFront()
	}
	if s.ctxMapWhich == 0 {
		s.step = (*State).setupDistanceTreeCount
	} else {
		s.step = (*State).setupLiteralTrees
	}
}

func (s *State) setupLiteralTrees() {
	if s.literalTrees == nil {
		s.literalTrees = make([]prefix.Decoder, s.ntreesL)
		s.setupI = 0
	}
	if s.setupI < len(s.literalTrees) {
		i := s.setupI
		s.setupI++
		s.startBuildTree(numLitSyms, &s.literalTrees[i], (*State).setupLiteralTrees)
		return
	}
	s.setupI = 0
	s.step = (*State).setupInsCopyTrees
}

func (s *State) setupInsCopyTrees() {
	if s.insCopyTrees == nil {
		s.insCopyTrees = make([]prefix.Decoder, s.nbtype[1])
		s.setupI = 0
	}
	if s.setupI < len(s.insCopyTrees) {
		i := s.setupI
		s.setupI++
		s.startBuildTree(numInsCopySyms, &s.insCopyTrees[i], (*State).setupInsCopyTrees)
		return
	}
	s.setupI = 0
	s.step = (*State).setupDistanceTrees
}

func (s *State) setupDistanceTrees() {
	if s.distTrees == nil {
		s.distTrees = make([]prefix.Decoder, s.ntreesD)
		s.setupI = 0
	}
	if s.setupI < len(s.distTrees) {
		i := s.setupI
		s.setupI++
		s.startBuildTree(distAlphabetSize(s.npostfix, s.ndirect), &s.distTrees[i], (*State).setupDistanceTrees)
		return
	}
	s.beginBlockData()
}
