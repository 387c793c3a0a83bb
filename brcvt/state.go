// Package brcvt implements the Brotli half of the engine's pair of
// conversion states: a resumable, non-blocking bit-level finite state
// machine that decodes/encodes a Brotli bitstream against the shared
// block-buffer command language, the same role zcvt plays for DEFLATE/zlib.
//
// Grounded on brotli/reader.go's Reader (the step-function/panic-driven
// dispatch loop) and brotli/bit_reader.go's bitReader (LSB-first bit
// accumulator), adapted to the resumable-panic style zcvt already
// establishes for this engine (see zcvt/state.go's architecture note): every
// teacher step triggered by io.Reader blocking here instead checkpoints into
// a State field and panics errNeedInput, to be resumed on the next call
// instead of blocking a goroutine.
package brcvt

import (
	"github.com/codylico/tcmplx-go/internal/blockbuf"
	"github.com/codylico/tcmplx-go/internal/brmeta"
	"github.com/codylico/tcmplx-go/internal/ctxtmap"
	"github.com/codylico/tcmplx-go/internal/inscopy"
	"github.com/codylico/tcmplx-go/internal/prefix"
	"github.com/codylico/tcmplx-go/internal/ringdist"
)

// Status mirrors zcvt.Status; the two packages don't share a type since a
// caller may hold one of each and the duplication costs nothing.
type Status int

const (
	StatusSuccess Status = iota
	StatusPartial
	StatusEndOfFile
)

// Brotli alphabet sizes, RFC 7932 §3.3, ported from brotli/prefix.go's
// same-named constants.
const (
	numLitSyms          = 256
	numInsCopySyms      = 704
	numBlockCountSyms   = 26
	maxNumBlockTypeSyms = 256 + 2
	maxNumCtxMapSyms    = 256 + 16
)

// distAlphabetSize computes NSYM for the distance prefix trees: the 16
// recent-distance codes, NDIRECT direct codes, and the complex range's
// 48<<NPOSTFIX codes (RFC 7932 §4, §9.2).
func distAlphabetSize(npostfix, ndirect uint32) int {
	return 16 + int(ndirect) + int(48<<npostfix)
}

// State is a brcvt conversion state: a Brotli bitstream codec bound to one
// blockbuf.Buffer. Construct one per direction per stream.
type State struct {
	buffer blockbuf.Buffer

	// Resumable bit cursor, identical in spirit to zcvt.State's.
	bitBuf uint64
	bitNum uint
	curSrc []byte

	step      func(*State)
	subState  int
	err       error
	streamEnd bool

	// Stream/meta-block framing.
	wbits   uint
	winSize int
	last    bool
	blkLen  int

	meta      brmeta.List
	metaLeft  int // metadata bytes still to read/write for the current entry
	nibbles   int
	skipBytes int
	skipLen   int

	// Prefix-tree construction scratch, shared by every tree this state
	// reads (block-type/count trees, context-map RLE trees, literal,
	// insert-copy, and distance trees). One tree is built at a time; when it
	// completes, the finished table is built into buildDest and buildNext
	// decides what happens next (queue another tree, or move on).
	treeAlphabet int
	isComplex    bool
	hskip        int
	clenTree     prefix.Decoder
	clenLens     [18]uint
	clenCount    int
	seqIndex     int
	seqPrev      uint
	seqPending   int
	seqCodes     prefix.PrefixCodes
	simpleNSym   int
	simpleSyms   [4]uint32
	simpleCount  int
	simpleBits   uint
	buildDest    *prefix.Decoder
	buildNext    func(*State)

	// Meta-block compressed-header setup progression: setupI indexes
	// whichever stream/tree loop is currently running, setupJ and setupK
	// carry a decoded scalar across a readBits call that might need to
	// suspend (e.g. a block-count code awaiting its extra bits, or a
	// context-map RLE escape code awaiting its run-length extra bits).
	setupI int
	setupJ int
	setupK int

	nbtype     [3]int
	btype      [3]int
	btypePrev1 [3]int
	btypePrev2 [3]int
	bcount     [3]int
	btypeDec   [3]prefix.Decoder
	blenDec    [3]prefix.Decoder

	npostfix uint32
	ndirect  uint32
	ring     ringdist.Ring

	ctxModes      []ctxtmap.Mode
	literalCtxMap ctxtmap.Map
	distCtxMap    ctxtmap.Map
	ntreesL       int
	ntreesD       int
	ctxMapWhich   int // 0 = literal map being read, 1 = distance map
	ctxMapIndex   int
	ctxMapRLE     prefix.Decoder
	ctxMapSize    int

	literalTrees []prefix.Decoder
	insCopyTrees []prefix.Decoder
	distTrees    []prefix.Decoder

	insCopyTable inscopy.Table // BrotliInsertCopyPreset, code-ordered for O(1) decode lookup

	// Block-data loop scratch.
	blockProduced int // bytes emitted so far in the current meta-block
	insertLeft    int
	copyLeft      int
	zeroDistTF    bool
	icRow         inscopy.Row
	distCode      uint32
	p1, p2        byte

	// Block-type-switch scratch, shared by all three streams (see
	// beginBlockTypeSwitch in blockdata.go).
	switchWhich int
	afterSwitch func(*State)

	toRead []byte

	// Encode side: mirrors zcvt's stored-block approach (see encode.go).
	writeBits    uint64
	writeNum     uint
	writeOut     []byte
	headerSent   bool
	finalized    bool
	pendingFlush bool

	ready bool
}

// New constructs a brcvt conversion state.
func New(blockSize, windowSize, chainLength int) *State {
	s := &State{}
	s.buffer.Init(uint32(blockSize), windowSize, chainLength)
	s.step = (*State).readStreamHeader
	s.insCopyTable = inscopy.BrotliInsertCopyPreset()
	s.insCopyTable.SortByCode()
	s.ready = true
	return s
}

// Intermediate returns the command-language bytes accumulated so far.
func (s *State) Intermediate() []byte { return s.buffer.Str() }

// ClearIntermediate empties the accumulated command-language bytes.
func (s *State) ClearIntermediate() { s.buffer.ClearOutput() }

// Metadata returns the ordered metadata blobs decoded so far. The encode
// direction does not write the list's entries into its output.
func (s *State) Metadata() *brmeta.List { return &s.meta }

func (s *State) fill() {
	for s.bitNum <= 56 && len(s.curSrc) > 0 {
		s.bitBuf |= uint64(s.curSrc[0]) << s.bitNum
		s.bitNum += 8
		s.curSrc = s.curSrc[1:]
	}
}

func (s *State) readBits(nb uint) uint {
	for s.bitNum < nb {
		if len(s.curSrc) == 0 {
			panic(errNeedInput)
		}
		s.fill()
	}
	v := uint(s.bitBuf & (1<<nb - 1))
	s.bitBuf >>= nb
	s.bitNum -= nb
	return v
}

func (s *State) readPads() uint {
	nb := s.bitNum % 8
	v := uint(s.bitBuf & (1<<nb - 1))
	s.bitBuf >>= nb
	s.bitNum -= nb
	return v
}

func (s *State) readSymbol(pd *prefix.Decoder) uint32 {
	for {
		if sym, nb, ok := pd.Lookup(s.bitBuf, s.bitNum); ok {
			s.bitBuf >>= nb
			s.bitNum -= nb
			return sym
		}
		if len(s.curSrc) == 0 {
			panic(errNeedInput)
		}
		s.fill()
	}
}

// handleDegenerateCodes appends an unreachable placeholder symbol so a
// one-symbol alphabet still builds a valid canonical table, exactly as
// zcvt's function of the same name does for DEFLATE's trees.
func handleDegenerateCodes(codes prefix.PrefixCodes, maxSyms uint32) prefix.PrefixCodes {
	if len(codes) != 1 {
		return codes
	}
	return append(codes, prefix.PrefixCode{Sym: maxSyms, Len: 1})
}
