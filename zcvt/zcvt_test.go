package zcvt

import (
	"bytes"
	"testing"

	"github.com/codylico/tcmplx-go/internal/adler32"
	"github.com/codylico/tcmplx-go/internal/prefix"
)

// runOut drives the encode direction to completion over all of b in one
// shot, a small source buffer and a tiny destination to exercise the
// partial/status handling a streaming caller would hit.
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

// runIn drives the decode direction to completion over a zlib stream,
// feeding it one byte of src at a time into a tiny dst, exercising the
// resumable-cursor suspend/resume path on every call.
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
	// Drain whatever the last byte's worth of bits still yields.
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

// TestRoundTripSmall exercises spec.md's "abc" scenario: encoding the
// 3-byte input then decoding the resulting zlib stream reproduces it
// exactly, ending in EndOfFile.
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

// TestRoundTripProperty is property P7: for byte sequences up to 32 KiB,
// encoding then decoding reproduces the input exactly.
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

// TestIntermediateRecordsCommands checks that encoding also leaves a
// non-empty command-language recording behind for a transcoding caller,
// per §6.2's pipeline example.
func TestIntermediateRecordsCommands(t *testing.T) {
	enc := New(1<<16, 1<<15, 32)
	runOut(t, enc, bytes.Repeat([]byte("abcabcabcabc"), 50))
	if len(enc.Intermediate()) == 0 {
		t.Fatal("Intermediate() is empty after encoding repetitive input")
	}
}

// buildFixedHuffmanZlib hand-assembles a one-block, fixed-Huffman-coded
// zlib stream containing data as pure literals (no back-references),
// exercising the Huffman decode path (readHuffmanLiteral and friends) of
// In against a stream this package's own Out never produces — Out only
// emits stored blocks (see encode.go) — but a real zlib encoder routinely
// would.
func buildFixedHuffmanZlib(t *testing.T, data []byte) []byte {
	t.Helper()
	litCodes := prefix.DeflateFixedLiteralLengths()
	if err := prefix.GeneratePrefixes(litCodes); err != nil {
		t.Fatalf("GeneratePrefixes(lit): %v", err)
	}
	var litEnc prefix.Encoder
	litEnc.Init(litCodes)

	var body bytes.Buffer
	var bw prefix.Writer
	bw.Init(&body)
	bw.WriteBits(1, 1) // BFINAL
	bw.WriteBits(1, 2) // BTYPE = 01 (fixed Huffman)
	for _, b := range data {
		bw.WriteSymbol(uint32(b), &litEnc)
	}
	bw.WriteSymbol(256, &litEnc) // end-of-block
	if _, err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	var out bytes.Buffer
	out.Write([]byte{0x78, 0x01})
	out.Write(body.Bytes())
	sum := adler32.Update(1, data)
	out.Write([]byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)})
	return out.Bytes()
}

// TestInFixedHuffmanBlock decodes a hand-built fixed-Huffman zlib stream,
// confirming the Huffman literal/EOB path works for streams this
// package's own encoder never produces.
func TestInFixedHuffmanBlock(t *testing.T) {
	want := []byte("the quick brown fox jumps over the lazy dog")
	z := buildFixedHuffmanZlib(t, want)

	dec := New(1<<16, 1<<15, 32)
	got, status := runIn(t, dec, z)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
}

// TestInFixedHuffmanBackref decodes a hand-built fixed-Huffman stream
// containing one back-reference (length 3, distance 3, both encoded with
// zero extra bits per DeflateLengthRanges/DeflateDistanceRanges' first
// entries), exercising readCopyExtra/readHuffmanDistance/
// readDistanceExtra/readCopyRun.
func TestInFixedHuffmanBackref(t *testing.T) {
	litCodes := prefix.DeflateFixedLiteralLengths()
	if err := prefix.GeneratePrefixes(litCodes); err != nil {
		t.Fatalf("GeneratePrefixes(lit): %v", err)
	}
	var litEnc prefix.Encoder
	litEnc.Init(litCodes)

	distCodes := prefix.DeflateFixedDistanceLengths()
	if err := prefix.GeneratePrefixes(distCodes); err != nil {
		t.Fatalf("GeneratePrefixes(dist): %v", err)
	}
	var distEnc prefix.Encoder
	distEnc.Init(distCodes)

	var body bytes.Buffer
	var bw prefix.Writer
	bw.Init(&body)
	bw.WriteBits(1, 1) // BFINAL
	bw.WriteBits(1, 2) // BTYPE = 01
	for _, b := range []byte("abc") {
		bw.WriteSymbol(uint32(b), &litEnc)
	}
	bw.WriteSymbol(257, &litEnc) // length symbol: base 3, 0 extra bits
	bw.WriteSymbol(2, &distEnc)  // distance symbol: base 3, 0 extra bits
	bw.WriteSymbol(256, &litEnc) // end-of-block
	if _, err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []byte("abcabc")
	var z bytes.Buffer
	z.Write([]byte{0x78, 0x01})
	z.Write(body.Bytes())
	sum := adler32.Update(1, want)
	z.Write([]byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)})

	dec := New(1<<16, 1<<15, 32)
	got, status := runIn(t, dec, z.Bytes())
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
}

// buildDynamicHuffmanZlib hand-assembles a one-block, dynamic-Huffman
// zlib stream decoding to data, a repetition of the single byte rep.
// The code-length sequence is transmitted as plain (non-repeated) symbols
// — it never uses the 16/17/18 repeater codes — so this exercises
// readDynamicHCounts/readDynamicCodeLengths/readDynamicLLSequence/
// readDynamicGenTrees along their plain-literal path; the repeater path
// is covered by hand-tracing in DESIGN.md instead of a second stream.
func buildDynamicHuffmanZlib(t *testing.T, rep byte, count int) []byte {
	t.Helper()

	litCodes := make(prefix.PrefixCodes, 257) // symbols 0..256
	for i := range litCodes {
		litCodes[i] = prefix.PrefixCode{Sym: uint32(i)}
	}
	litCodes[rep].Cnt = uint32(count)
	litCodes[256].Cnt = 1
	litCodes.SortByCount()
	if err := prefix.GenerateLengths(litCodes, prefix.MaxPrefixBits); err != nil {
		t.Fatalf("GenerateLengths(lit): %v", err)
	}
	litCodes.SortBySymbol()
	if err := prefix.GeneratePrefixes(litCodes); err != nil {
		t.Fatalf("GeneratePrefixes(lit): %v", err)
	}
	var litEnc prefix.Encoder
	litEnc.Init(litCodes)

	distCodes := prefix.PrefixCodes{{Sym: 0, Cnt: 1}} // one unused dummy entry
	if err := prefix.GenerateLengths(distCodes, prefix.MaxPrefixBits); err != nil {
		t.Fatalf("GenerateLengths(dist): %v", err)
	}
	if err := prefix.GeneratePrefixes(distCodes); err != nil {
		t.Fatalf("GeneratePrefixes(dist): %v", err)
	}

	// The combined HLIT+HDIST code-length sequence, transmitted as plain
	// symbols (no RLE repeaters).
	seq := make([]uint32, 0, len(litCodes)+len(distCodes))
	for _, c := range litCodes {
		seq = append(seq, c.Len)
	}
	for _, c := range distCodes {
		seq = append(seq, c.Len)
	}

	clenCodes := make(prefix.PrefixCodes, 19)
	for i := range clenCodes {
		clenCodes[i] = prefix.PrefixCode{Sym: uint32(i)}
	}
	for _, v := range seq {
		clenCodes[v].Cnt++
	}
	clenCodes.SortByCount()
	if err := prefix.GenerateLengths(clenCodes, 7); err != nil {
		t.Fatalf("GenerateLengths(clen): %v", err)
	}
	clenCodes.SortBySymbol()
	if err := prefix.GeneratePrefixes(clenCodes); err != nil {
		t.Fatalf("GeneratePrefixes(clen): %v", err)
	}
	var clenEnc prefix.Encoder
	clenEnc.Init(clenCodes)

	hclen := len(prefix.DeflateCLenOrder)
	for hclen > 4 && clenCodes[prefix.DeflateCLenOrder[hclen-1]].Len == 0 {
		hclen--
	}

	var body bytes.Buffer
	var bw prefix.Writer
	bw.Init(&body)
	bw.WriteBits(1, 1) // BFINAL
	bw.WriteBits(2, 2) // BTYPE = 10 (dynamic Huffman)
	bw.WriteBits(uint(len(litCodes)-257), 5)
	bw.WriteBits(uint(len(distCodes)-1), 5)
	bw.WriteBits(uint(hclen-4), 4)
	for i := 0; i < hclen; i++ {
		bw.WriteBits(uint(clenCodes[prefix.DeflateCLenOrder[i]].Len), 3)
	}
	for _, v := range seq {
		bw.WriteSymbol(v, &clenEnc)
	}
	for i := 0; i < count; i++ {
		bw.WriteSymbol(uint32(rep), &litEnc)
	}
	bw.WriteSymbol(256, &litEnc)
	if _, err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data := bytes.Repeat([]byte{rep}, count)
	var z bytes.Buffer
	z.Write([]byte{0x78, 0x01})
	z.Write(body.Bytes())
	sum := adler32.Update(1, data)
	z.Write([]byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)})
	return z.Bytes()
}

// TestInDynamicHuffmanBlock decodes a hand-built dynamic-Huffman zlib
// stream, exercising the dynamic code-length-header state sequence.
func TestInDynamicHuffmanBlock(t *testing.T) {
	z := buildDynamicHuffmanZlib(t, 'a', 4)
	dec := New(1<<16, 1<<15, 32)
	got, status := runIn(t, dec, z)
	if !bytes.Equal(got, []byte("aaaa")) {
		t.Fatalf("got %q, want %q", got, "aaaa")
	}
	if status != StatusEndOfFile {
		t.Fatalf("status = %v, want StatusEndOfFile", status)
	}
}

// TestInCorruptHeader confirms a bad CMF/FLG checksum is rejected.
func TestInCorruptHeader(t *testing.T) {
	dec := New(1<<16, 1<<15, 32)
	_, _, _, err := dec.In([]byte{0x78, 0x00}, make([]byte, 16))
	if err != ErrSanitize {
		t.Fatalf("err = %v, want ErrSanitize", err)
	}
}
