package blockbuf

// Command-stream length encoding bounds: the header's low 6 bits hold a
// short length directly (0..63); setting bit6 extends it with one more
// byte, giving lengths up to 63<<8 + 255 + 64.
const (
	shortLenMax = 0x3f
	longLenMax  = shortLenMax<<8 + 255 + 64

	distShortMax = 1<<14 - 1
	distLongBias = 16384
)

// Error is a sentinel returned by Buffer's operations.
type Error string

func (e Error) Error() string { return "blockbuf: " + string(e) }

const (
	ErrBlockOverflow = Error("input exceeds input_block_size")
	ErrOutOfRange    = Error("index exceeds container")
	ErrSanitize      = Error("malformed command stream")
)

// Buffer is the block buffer of SPEC_FULL.md §4.4: two block strings and
// one sliding window. Input is staged byte-for-byte; Flush/TryBlock turn it
// into the intermediate command language's commands in Output; Bypass
// pushes bytes straight into the window without emitting a command, for
// installing a preset dictionary or catching the window up with bytes the
// other side of the conversion already decoded.
type Buffer struct {
	Input, Output  BlockString
	ring           SlidingWindow
	chain          hashChain
	UseBDict       bool
	InputBlockSize uint32

	outRd int // Read cursor into Output.buf, for the decode-direction helpers
}

// Init prepares a Buffer with the given input staging limit, sliding
// window size, and hash-chain search depth.
func (b *Buffer) Init(inputBlockSize uint32, windowSize, chainLength int) {
	*b = Buffer{InputBlockSize: inputBlockSize}
	b.Input.Init(inputBlockSize)
	b.Output.Init(0)
	b.ring.Init(windowSize)
	b.chain.Init(2*windowSize, chainLength)
}

// Write appends p to the input block string, all-or-nothing.
func (b *Buffer) Write(p []byte) error {
	if !b.Input.Append(p...) {
		return ErrBlockOverflow
	}
	return nil
}

// Peek reads the byte dist+1 positions back in the sliding window.
func (b *Buffer) Peek(dist int) byte { return b.ring.Peek(dist) }

// ReadFlush returns every window byte written since the last ReadFlush
// call, the decoded-content analogue of flate's dictDecoder.ReadFlush —
// used by zcvt/brcvt's decode direction to hand the caller the plain
// decompressed bytes alongside the command-language recording in Output.
func (b *Buffer) ReadFlush() []byte { return b.ring.ReadFlush() }

// AvailSize reports how many bytes may still be written to the window
// before it must slide, the same bound flate/reader.go's readBlock uses to
// decide when to pause a literal-decoding loop and flush to the caller.
func (b *Buffer) AvailSize() int { return b.ring.AvailSize() }

// Str exposes the accumulated output command bytes.
func (b *Buffer) Str() []byte { return b.Output.Bytes() }

// ClearOutput empties the output command string and resets its read
// cursor.
func (b *Buffer) ClearOutput() {
	b.Output.Clear()
	b.outRd = 0
}

// Bypass pushes bytes directly into the sliding window without emitting a
// command.
func (b *Buffer) Bypass(buf []byte) {
	for _, c := range buf {
		b.ring.WriteByte(c)
	}
}

// EmitLiteral writes a single insert command for data (already known to the
// caller, e.g. a literal run decoded from someone else's compressed format)
// and pushes it into the window, without running a match search over it.
func (b *Buffer) EmitLiteral(data []byte) error {
	if err := b.emitLiteralRun(data); err != nil {
		return err
	}
	b.Bypass(data)
	return nil
}

// EmitCopy writes a single copy command for a (dist, length) pair already
// known to the caller (e.g. decoded from someone else's compressed format,
// so no match search is needed) and replays it into the window so later
// Peek/EmitCopy calls see the copied bytes as history.
func (b *Buffer) EmitCopy(dist, length int) error {
	if err := b.emitCopy(dist, length); err != nil {
		return err
	}
	if n := b.ring.WriteCopy(dist, length); n < length {
		return ErrOutOfRange
	}
	return nil
}

// NoConvBlock writes a pure-literal command sequence for the current input
// (no match search), pushes every byte into the window, and clears input.
func (b *Buffer) NoConvBlock() error {
	data := append([]byte(nil), b.Input.Bytes()...)
	if err := b.emitLiteralRun(data); err != nil {
		return err
	}
	b.Bypass(data)
	b.Input.Clear()
	return nil
}

// Flush takes a snapshot of Input, turns it into commands via a
// hash-chain match search (the same search TryBlock uses — a generic
// Flush has no reason to settle for a worse encoding than the compressed
// path offers), and clears Input.
func (b *Buffer) Flush() error {
	return b.TryBlock()
}

// TryBlock writes a Huffman-amenable compressed command sequence for the
// current input into Output, using LZ77-style matches found via the
// buffer's hash chain, then clears Input.
func (b *Buffer) TryBlock() error {
	data := append([]byte(nil), b.Input.Bytes()...)
	pos := 0
	litStart := 0

	flushLiteralsUpTo := func(end int) error {
		if end > litStart {
			if err := b.emitLiteralRun(data[litStart:end]); err != nil {
				return err
			}
			b.Bypass(data[litStart:end])
		}
		return nil
	}

	for pos < len(data) {
		maxLen := len(data) - pos
		dist, length, ok := b.chain.find(data, pos, maxLen)
		if ok {
			if err := flushLiteralsUpTo(pos); err != nil {
				return err
			}
			if err := b.emitCopy(dist, length); err != nil {
				return err
			}
			for i := 0; i < length; i++ {
				b.chain.insert(data, pos+i)
			}
			b.Bypass(data[pos : pos+length])
			pos += length
			litStart = pos
			continue
		}
		b.chain.insert(data, pos)
		pos++
	}
	if err := flushLiteralsUpTo(pos); err != nil {
		return err
	}
	b.Input.Clear()
	return nil
}

// emitLiteralRun writes one or more insert commands covering data,
// splitting at longLenMax since a single command's length field cannot
// exceed it.
func (b *Buffer) emitLiteralRun(data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > longLenMax {
			n = longLenMax
		}
		if err := b.writeHeader(false, n); err != nil {
			return err
		}
		if !b.Output.Append(data[:n]...) {
			return ErrBlockOverflow
		}
		data = data[n:]
	}
	return nil
}

// emitCopy writes one copy command (distance encoded per §3's short14 /
// long30 grammar). A length above longLenMax is split into repeated
// max-length copies against the same distance, each one rewound from the
// distance's frame of reference as the window grows.
func (b *Buffer) emitCopy(dist, length int) error {
	for length > 0 {
		n := length
		if n > longLenMax {
			n = longLenMax
		}
		if err := b.writeHeader(true, n); err != nil {
			return err
		}
		if err := b.writeDistance(dist); err != nil {
			return err
		}
		length -= n
	}
	return nil
}

// writeHeader emits the header byte (and, for long lengths, the extension
// byte) per §3's grammar: bit7 selects insert/copy, bit6 selects short/long
// length encoding.
func (b *Buffer) writeHeader(isCopy bool, length int) error {
	var top byte
	if isCopy {
		top |= 0x80
	}
	if length <= shortLenMax {
		if !b.Output.Append(top | byte(length)) {
			return ErrBlockOverflow
		}
		return nil
	}
	ext := length - 64
	hi := byte((ext >> 8) & shortLenMax)
	lo := byte(ext & 0xff)
	if !b.Output.Append(top|0x40|hi, lo) {
		return ErrBlockOverflow
	}
	return nil
}

// writeDistance emits a copy command's distance payload. dist already uses
// the wire grammar's own "zero means the most-recently-written byte"
// convention — the same convention SlidingWindow.WriteCopy/Peek use
// internally — so unlike DEFLATE/Brotli's distance codes (which are
// 1-indexed) no shift is needed here; the only arithmetic is long30's
// +16384 bias, which separates the two ranges (short14 covers 0..16383,
// long30 the rest).
func (b *Buffer) writeDistance(dist int) error {
	if dist < 0 {
		return ErrOutOfRange
	}
	if dist <= distShortMax {
		r := byte(0x80 | (dist>>8)&0x3f)
		q := byte(dist & 0xff)
		if !b.Output.Append(r, q) {
			return ErrBlockOverflow
		}
		return nil
	}
	v := dist - distLongBias
	if v < 0 {
		return ErrOutOfRange
	}
	r := byte(0xc0 | (v>>24)&0x3f)
	s1 := byte(v >> 16)
	s2 := byte(v >> 8)
	s3 := byte(v)
	if !b.Output.Append(r, s1, s2, s3) {
		return ErrBlockOverflow
	}
	return nil
}

// Command is one decoded command-stream entry: either an insert of Length
// literal bytes (read separately via ReadLiteral) or a copy of Length bytes
// from Dist+1 positions back in the window.
type Command struct {
	IsCopy bool
	Length int
	Dist   int // valid only when IsCopy
}

// ReadCommand decodes the next command header (and, for copies, its
// distance payload) from Output, advancing the read cursor. Returns
// ErrSanitize if the stream ends mid-command.
func (b *Buffer) ReadCommand() (Command, error) {
	buf := b.Output.Bytes()
	if b.outRd >= len(buf) {
		return Command{}, ErrSanitize
	}
	header := buf[b.outRd]
	b.outRd++

	isCopy := header&0x80 != 0
	var length int
	if header&0x40 == 0 {
		length = int(header & 0x3f)
	} else {
		if b.outRd >= len(buf) {
			return Command{}, ErrSanitize
		}
		ext := buf[b.outRd]
		b.outRd++
		length = int(header&0x3f)<<8 + int(ext) + 64
	}

	cmd := Command{IsCopy: isCopy, Length: length}
	if isCopy {
		dist, err := b.readDistance()
		if err != nil {
			return Command{}, err
		}
		cmd.Dist = dist
	}
	return cmd, nil
}

// ReadLiteral returns the next n payload bytes of an insert command,
// advancing the read cursor.
func (b *Buffer) ReadLiteral(n int) ([]byte, error) {
	buf := b.Output.Bytes()
	if b.outRd+n > len(buf) {
		return nil, ErrSanitize
	}
	p := buf[b.outRd : b.outRd+n]
	b.outRd += n
	return p, nil
}

// readDistance decodes a short14/long30 distance payload (bdict_ref is not
// produced by this engine's own writer — see DESIGN.md). The result is
// already in the window's own "zero means most-recently-written byte"
// convention; no further shift is applied.
func (b *Buffer) readDistance() (int, error) {
	buf := b.Output.Bytes()
	if b.outRd >= len(buf) {
		return 0, ErrSanitize
	}
	lead := buf[b.outRd]
	switch {
	case lead&0xc0 == 0x80: // short14
		if b.outRd+2 > len(buf) {
			return 0, ErrSanitize
		}
		v := int(lead&0x3f)<<8 | int(buf[b.outRd+1])
		b.outRd += 2
		return v, nil
	case lead&0xc0 == 0xc0: // long30
		if b.outRd+4 > len(buf) {
			return 0, ErrSanitize
		}
		v := int(lead&0x3f)<<24 | int(buf[b.outRd+1])<<16 | int(buf[b.outRd+2])<<8 | int(buf[b.outRd+3])
		b.outRd += 4
		return v + distLongBias, nil
	default: // bdict_ref: 0xxxxxxx
		return 0, ErrSanitize
	}
}

// ApplyCommand replays a decoded Command against the sliding window: an
// insert copies its literal payload in; a copy reproduces bytes from the
// window's own history. Used both to keep the window in sync while
// producing output bytes for the caller and to round-trip-verify a
// freshly parsed command stream.
func (b *Buffer) ApplyCommand(cmd Command, literal []byte) {
	if !cmd.IsCopy {
		b.Bypass(literal)
		return
	}
	b.ring.WriteCopy(cmd.Dist, cmd.Length)
}
