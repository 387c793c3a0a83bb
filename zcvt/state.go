package zcvt

import (
	"github.com/codylico/tcmplx-go/internal/adler32"
	"github.com/codylico/tcmplx-go/internal/blockbuf"
	"github.com/codylico/tcmplx-go/internal/prefix"
)

// Status is the positive, informational half of spec.md §4.7.3's result
// enumeration: the negative half is carried as a plain error instead (see
// Error/errRecover), matching Design Note 9's "pick one convention".
type Status int

const (
	// StatusSuccess means both buffers were exhausted without reaching the
	// end of the stream: call again with more input and/or a fresh
	// destination slice.
	StatusSuccess Status = iota
	// StatusPartial means the destination slice filled up; progress is
	// saved, call again with a fresh destination slice.
	StatusPartial
	// StatusEndOfFile means the stream terminated cleanly.
	StatusEndOfFile
)

// Decode direction dispatches through named step methods (step, below)
// rather than through an integer state id — spec.md §4.7.1's numbered
// decode states 0-19 correspond one-to-one with the step functions in
// decode.go/dynamic.go (readZlibHeader, readBlockStart,
// readDynamicHCounts, and so on); see DESIGN.md for the mapping.

// State is a zcvt conversion state: a DEFLATE/zlib bit-level codec bound to
// one blockbuf.Buffer. A single State decodes OR encodes one bitstream at a
// time — construct one per direction per stream, as the teacher's
// flate.Reader/flate.Writer pair does.
type State struct {
	buffer blockbuf.Buffer

	// Resumable bit cursor. Persists across In/Out calls; curSrc is reset
	// to the caller's slice at the top of each call and drained by fill.
	bitBuf uint64
	bitNum uint
	curSrc []byte

	step      func(*State)
	subState  int
	err       error // poisons the state once set (ZDictionary excepted)
	streamEnd bool

	// Decode scratch (named per spec.md §3's Conversion state bag).
	last       bool
	dist       int
	cpyLen     int
	blkLen     int
	count      int
	index      int
	litTree    prefix.Decoder
	distTree   prefix.Decoder
	clenTree   prefix.Decoder
	clenLens   [19]uint
	litCodes   prefix.PrefixCodes // accumulated while decoding the HLIT+HDIST sequence
	distCodes  prefix.PrefixCodes
	hlit       int
	hdist      int
	hclen      int
	prevLen    uint
	pendingSym int // a decoded code-length alphabet symbol awaiting its extra bits, or -1
	lenSym     int // a decoded length symbol awaiting copy-extra bits
	distSym    int // a decoded distance symbol awaiting distance-extra bits
	trailerBuf [4]byte
	checksum   uint32 // running Adler-32 over decoded/encoded content bytes
	dictAdler  uint32 // expected FDICT Adler-32 from the zlib header
	dictBypass uint32 // running Adler-32 over bytes pushed in via Bypass

	toRead []byte // decompressed bytes ready to hand the caller (decode direction)

	// Encode scratch. Input bytes are staged directly in buffer.Input;
	// writeBits/writeNum accumulate output bits and writeOut holds encoded
	// bytes ready to hand the caller, the same toRead-style handoff the
	// decode direction uses in reverse.
	writeBits  uint64
	writeNum   uint
	writeOut   []byte
	headerSent bool
	finalized  bool

	ready bool // set by New; guards against use of a zero-value State
}

// New constructs a zcvt conversion state. blockSize bounds how many bytes
// the encode direction stages per trial block; windowSize/chainLength
// configure the block buffer's sliding window and hash-chain match search.
func New(blockSize, windowSize, chainLength int) *State {
	s := &State{}
	s.buffer.Init(uint32(blockSize), windowSize, chainLength)
	s.step = (*State).readZlibHeader
	s.checksum = 1
	s.dictBypass = 1
	s.ready = true
	return s
}

// Intermediate returns the command-language bytes accumulated so far in
// the underlying block buffer (§6.2's transcoding hand-off point).
func (s *State) Intermediate() []byte { return s.buffer.Str() }

// ClearIntermediate empties the accumulated command-language bytes once a
// caller has consumed them (e.g. handed them to a brcvt_out call).
func (s *State) ClearIntermediate() { s.buffer.ClearOutput() }

// fill tops up the bit accumulator from curSrc without blocking; it simply
// stops when curSrc runs out.
func (s *State) fill() {
	for s.bitNum <= 56 && len(s.curSrc) > 0 {
		s.bitBuf |= uint64(s.curSrc[0]) << s.bitNum
		s.bitNum += 8
		s.curSrc = s.curSrc[1:]
	}
}

// readBits reads nb bits (LSB-first, matching RFC 1951 §3.1.1), panicking
// errNeedInput if curSrc is exhausted before nb bits are available.
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

// readPads discards the 0..7 bits needed to reach byte alignment.
func (s *State) readPads() {
	nb := s.bitNum % 8
	s.bitBuf >>= nb
	s.bitNum -= nb
}

// readSymbol decodes the next prefix symbol using pd, panicking
// errNeedInput if curSrc runs out before the code resolves.
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

// adlerFold folds p into the content checksum.
func (s *State) adlerFold(p []byte) { s.checksum = adler32.Update(s.checksum, p) }
