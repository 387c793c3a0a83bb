package brcvt

import (
	"bytes"
	"testing"

	"github.com/codylico/tcmplx-go/internal/prefix"
)

// runOut drives the encode direction to completion over all of b in one
// shot, a small destination buffer to exercise the partial/status handling a
// streaming caller would hit. Mirrored from zcvt_test.go's helper of the
// same name.
func runOut(t *testing.T, s *State, b []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	dst := make([]byte, 3)
	src := b
	for len(src) > 0 {
		n, nd, status, err := s.Out(src, dst)
		if err != nil {
			t.Fatalf("Out: %v", err)
		}
		out.Write(dst[:nd])
		src = src[n:]
		if status == StatusPartial {
			continue
		}
	}
	for {
		nd, status, err := s.Unshift(dst)
		if err != nil {
			t.Fatalf("Unshift: %v", err)
		}
		out.Write(dst[:nd])
		if status == StatusEndOfFile {
			break
		}
	}
	return out.Bytes()
}

// runIn drives the decode direction to completion, feeding a Brotli stream
// one byte at a time into a tiny dst, exercising the resumable-cursor
// suspend/resume path on every call.
func runIn(t *testing.T, s *State, z []byte) ([]byte, Status) {
	t.Helper()
	var out bytes.Buffer
	dst := make([]byte, 3)
	lastStatus := StatusSuccess
	for i := 0; i < len(z); {
		end := i + 1
		if end > len(z) {
			end = len(z)
		}
		chunk := z[i:end]
		for {
			n, nd, status, err := s.In(chunk, dst)
			if err != nil {
				t.Fatalf("In: %v", err)
			}
			out.Write(dst[:nd])
			chunk = chunk[n:]
			lastStatus = status
			if status == StatusEndOfFile {
				return out.Bytes(), status
			}
			if len(chunk) == 0 {
				break
			}
		}
		i = end
	}
	for {
		n, nd, status, err := s.In(nil, dst)
		if err != nil {
			t.Fatalf("In (drain): %v", err)
		}
		out.Write(dst[:nd])
		lastStatus = status
		if status == StatusEndOfFile || (n == 0 && nd == 0) {
			break
		}
	}
	return out.Bytes(), lastStatus
}

// TestEmptyStreamEncodesToMinimalByte checks that a stream with no payload
// at all collapses to the single minimal byte RFC 7932 §9.2's
// ISLAST/ISLASTEMPTY shortcut describes: WBITS=16's 1-bit "0" code, ISLAST=1,
// ISLASTEMPTY=1, and zero pad bits out to the byte boundary.
func TestEmptyStreamEncodesToMinimalByte(t *testing.T) {
	enc := New(1<<16, 1<<15, 32)
	got := runOut(t, enc, nil)
	want := []byte{0x06}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

// TestDecodeMinimalStream decodes that same minimal byte directly, checking
// it yields zero output and StatusEndOfFile.
func TestDecodeMinimalStream(t *testing.T) {
	dec := New(1<<16, 1<<15, 32)
	got, status := runIn(t, dec, []byte{0x06})
	if len(got) != 0 {
		t.Fatalf("got %d bytes, want 0", len(got))
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
}

// TestRoundTripSmall exercises the "abc" scenario shared with zcvt: encoding
// a few bytes then decoding the resulting Brotli stream reproduces it
// exactly.
func TestRoundTripSmall(t *testing.T) {
	enc := New(1<<16, 1<<15, 32)
	z := runOut(t, enc, []byte("abc"))

	dec := New(1<<16, 1<<15, 32)
	got, status := runIn(t, dec, z)
	if !bytes.Equal(got, []byte("abc")) {
		t.Fatalf("round trip: got %q, want %q", got, "abc")
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
}

// TestRoundTripProperty checks that byte sequences up to 32 KiB, including
// one spanning several raw meta-blocks (rawBlockMax is 64 KiB so this stays
// under one block; the multi-block path is covered by
// TestRoundTripMultipleRawBlocks), round-trip exactly.
func TestRoundTripProperty(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("x"),
		bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 400),
		func() []byte {
			b := make([]byte, 32<<10)
			for i := range b {
				b[i] = byte(i * 2654435761 >> 13)
			}
			return b
		}(),
	}
	for i, want := range cases {
		enc := New(1<<14, 1<<15, 32)
		z := runOut(t, enc, want)

		dec := New(1<<14, 1<<15, 32)
		got, status := runIn(t, dec, z)
		if !bytes.Equal(got, want) {
			t.Fatalf("case %d: round trip mismatch (got %d bytes, want %d)", i, len(got), len(want))
		}
		if status != StatusEndOfFile {
			t.Fatalf("case %d: status = %v, want StatusEndOfFile", i, status)
		}
	}
}

// TestRoundTripMultipleRawBlocks forces more than one raw meta-block
// (rawBlockMax bytes each) and checks the boundary between them round-trips
// cleanly.
func TestRoundTripMultipleRawBlocks(t *testing.T) {
	want := make([]byte, rawBlockMax+1000)
	for i := range want {
		want[i] = byte(i)
	}
	enc := New(1<<17, 1<<15, 32)
	z := runOut(t, enc, want)

	dec := New(1<<17, 1<<15, 32)
	got, status := runIn(t, dec, z)
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch (got %d bytes, want %d)", len(got), len(want))
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
}

// TestIntermediateRecordsCommands checks that encoding also leaves a
// non-empty command-language recording behind for a transcoding caller.
func TestIntermediateRecordsCommands(t *testing.T) {
	enc := New(1<<16, 1<<15, 32)
	runOut(t, enc, bytes.Repeat([]byte("abcabcabcabc"), 50))
	if len(enc.Intermediate()) == 0 {
		t.Fatal("Intermediate() is empty after encoding repetitive input")
	}
}

// TestFlushResync checks that a Flush call between two Out spans produces a
// decodable metadata meta-block: the decoded payload still matches the
// concatenation of both spans, the flush output ends in the empty
// metadata header byte 0x06 (ISLAST=0, MNIBBLES code 3, reserved 0,
// MSKIPBYTES=0), and that empty block adds no entry to Metadata().
func TestFlushResync(t *testing.T) {
	enc := New(1<<16, 1<<15, 32)
	var out bytes.Buffer
	out.Write(runOut0(t, enc, []byte("hello ")))
	fbuf := make([]byte, 16)
	var flushed []byte
	for {
		n, status, err := enc.Flush(fbuf)
		if err != nil {
			t.Fatalf("Flush: %v", err)
		}
		out.Write(fbuf[:n])
		flushed = append(flushed, fbuf[:n]...)
		if status == StatusSuccess {
			break
		}
	}
	out.Write(runOut(t, enc, []byte("world")))

	dec := New(1<<16, 1<<15, 32)
	got, status := runIn(t, dec, out.Bytes())
	if !bytes.Equal(got, []byte("hello world")) {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
	if dec.Metadata().Size() != 0 {
		t.Fatalf("Metadata().Size() = %d, want 0", dec.Metadata().Size())
	}
	if n := len(flushed); n == 0 || flushed[n-1] != 0x06 {
		t.Fatalf("Flush output = %#v, want it to end in the empty metadata header byte 0x06", flushed)
	}
}

// runOut0 is runOut without the trailing Unshift, used when more output
// follows before the stream is finalized.
func runOut0(t *testing.T, s *State, b []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	dst := make([]byte, 3)
	src := b
	for len(src) > 0 {
		n, nd, status, err := s.Out(src, dst)
		if err != nil {
			t.Fatalf("Out: %v", err)
		}
		out.Write(dst[:nd])
		src = src[n:]
		if status == StatusPartial {
			continue
		}
	}
	return out.Bytes()
}

// writeSimpleTree1 emits a one-symbol simple prefix code definition
// (HSKIP=1, NSYM-1=0, the raw symbol in its alphabet's minimal bit width),
// matching readSimpleNSym/readSimpleSymbols/finishSimpleTree's NSYM==1 path.
func writeSimpleTree1(bw *prefix.Writer, alphabet int, sym uint32) {
	bw.WriteBits(1, 2) // HSKIP = 1 (simple prefix code)
	bw.WriteBits(0, 2) // NSYM-1 = 0 (one symbol)
	bw.WriteBits(uint(sym), simpleSymBits(alphabet))
}

// degenerateEncoder builds the Encoder for a one-real-symbol alphabet the
// same way finishSimpleTree/handleDegenerateCodes build the matching
// Decoder: a two-entry, 1-bit-each canonical code with sym as the real
// symbol and alphabet as the unreachable placeholder.
func degenerateEncoder(t *testing.T, sym uint32, alphabet int) *prefix.Encoder {
	t.Helper()
	codes := handleDegenerateCodes(prefix.PrefixCodes{{Sym: sym, Len: 1}}, uint32(alphabet))
	if err := prefix.GeneratePrefixes(codes); err != nil {
		t.Fatalf("GeneratePrefixes: %v", err)
	}
	var enc prefix.Encoder
	enc.Init(codes)
	return &enc
}

// buildHandBuiltCompressedBlock hand-assembles a one-meta-block compressed
// Brotli stream decoding to "aaaa": NBLTYPES=1 for all three streams (no
// block-type/count trees to read), NPOSTFIX=NDIRECT=0, CMODE=LSB6,
// NTREESL=NTREESD=1 (no context maps to read), and one-symbol simple prefix
// codes for the literal ('a'), insert-copy (code 160: insert 4, copy 2, zero
// extra bits both ways), and distance (an arbitrary, never-decoded symbol —
// the meta-block's only insert-copy command already produces all 4 bytes
// MLEN calls for, so RFC 7932 §9.2's "final copy length may go unused"
// allowance means the copy and its distance are never actually read).
// Exercises the full compressed-header setup sequencer and the block-data
// loop's literal/insert-copy path end to end.
func buildHandBuiltCompressedBlock(t *testing.T) []byte {
	t.Helper()
	var body bytes.Buffer
	var bw prefix.Writer
	bw.Init(&body)

	var wbitsEnc prefix.Encoder
	wbitsEnc.Init(prefix.BrotliWBitsCode())
	bw.WriteSymbol(16, &wbitsEnc) // WBITS = 16

	var countEnc prefix.Encoder
	countEnc.Init(prefix.BrotliCountCode())

	bw.WriteBits(0, 1)  // ISLAST = 0
	bw.WriteBits(0, 2)  // MNIBBLES-4 = 0 (4 nibbles)
	bw.WriteBits(3, 16) // MLEN-1 = 3 (blkLen = 4)
	bw.WriteBits(0, 1)  // ISUNCOMPRESSED = 0 (compressed)

	bw.WriteSymbol(1, &countEnc) // NBLTYPES (literal) = 1
	bw.WriteSymbol(1, &countEnc) // NBLTYPES (insert-copy) = 1
	bw.WriteSymbol(1, &countEnc) // NBLTYPES (distance) = 1

	bw.WriteBits(0, 2) // NPOSTFIX = 0
	bw.WriteBits(0, 4) // NDIRECT = 0
	bw.WriteBits(0, 2) // CMODE[0] = LSB6

	bw.WriteSymbol(1, &countEnc) // NTREESL = 1
	bw.WriteSymbol(1, &countEnc) // NTREESD = 1

	writeSimpleTree1(&bw, numLitSyms, 97)             // literal tree: 'a'
	writeSimpleTree1(&bw, numInsCopySyms, 160)        // insert-copy tree: ic=4,cc=0
	writeSimpleTree1(&bw, distAlphabetSize(0, 0), 0)  // distance tree: never decoded

	icEnc := degenerateEncoder(t, 160, numInsCopySyms)
	litEnc := degenerateEncoder(t, 97, numLitSyms)

	bw.WriteSymbol(160, icEnc) // insert-copy symbol: insert 4, copy 2
	for i := 0; i < 4; i++ {
		bw.WriteSymbol(97, litEnc) // literal 'a', four times
	}

	bw.WriteBits(1, 1) // ISLAST = 1
	bw.WriteBits(1, 1) // ISLASTEMPTY = 1
	if _, err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return body.Bytes()
}

// TestInHandBuiltCompressedBlock decodes the hand-built stream above,
// exercising the compressed meta-block path (prefix-tree construction,
// block-data loop) this package's own Out never produces (see encode.go:
// Out only emits raw/ISUNCOMPRESSED meta-blocks).
func TestInHandBuiltCompressedBlock(t *testing.T) {
	z := buildHandBuiltCompressedBlock(t)
	dec := New(1<<16, 1<<15, 32)
	got, status := runIn(t, dec, z)
	if !bytes.Equal(got, []byte("aaaa")) {
		t.Fatalf("got %q, want %q", got, "aaaa")
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
}

// TestBypass checks that Bypass primes the sliding window without emitting
// a command or consuming any bitstream input.
func TestBypass(t *testing.T) {
	s := New(1<<16, 1<<15, 32)
	if err := s.Bypass([]byte("preamble")); err != nil {
		t.Fatalf("Bypass: %v", err)
	}
	if len(s.Intermediate()) != 0 {
		t.Fatalf("Intermediate() is non-empty after Bypass alone")
	}
}

// TestInRejectsReservedWBits confirms the reserved WBITS bit pattern
// (BrotliWBitsCode's entry 0, folded to symbol 0 by readStreamHeader) is
// rejected rather than accepted as a window size.
func TestInRejectsReservedWBits(t *testing.T) {
	var bw prefix.Writer
	var body bytes.Buffer
	bw.Init(&body)
	var wbitsEnc prefix.Encoder
	wbitsEnc.Init(prefix.BrotliWBitsCode())
	bw.WriteSymbol(0, &wbitsEnc) // the reserved pattern
	if _, err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	dec := New(1<<16, 1<<15, 32)
	if _, _, _, err := dec.In(body.Bytes(), make([]byte, 8)); err != ErrSanitize {
		t.Fatalf("err = %v, want ErrSanitize", err)
	}
}
