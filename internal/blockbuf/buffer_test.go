package blockbuf

import (
	"bytes"
	"testing"
)

// decodeAll parses every command out of buf's Output via a fresh window and
// returns the reconstructed byte sequence, exercising the same ReadCommand/
// ReadLiteral/ApplyCommand path a real zcvt/brcvt decode loop would use.
func decodeAll(t *testing.T, buf *Buffer) []byte {
	t.Helper()
	var dec Buffer
	dec.Init(1<<20, 1<<15, 32)
	dec.Output = buf.Output // share the command bytes to read from
	dec.outRd = 0

	var out []byte
	for {
		cmd, err := dec.ReadCommand()
		if err == ErrSanitize && dec.outRd >= len(dec.Output.Bytes()) {
			break
		}
		if err != nil {
			t.Fatalf("ReadCommand: %v", err)
		}
		if !cmd.IsCopy {
			lit, err := dec.ReadLiteral(cmd.Length)
			if err != nil {
				t.Fatalf("ReadLiteral: %v", err)
			}
			dec.ApplyCommand(cmd, lit)
			out = append(out, lit...)
			continue
		}
		before := dec.ring.wrPos
		dec.ApplyCommand(cmd, nil)
		out = append(out, dec.ring.hist[before:dec.ring.wrPos]...)
		if dec.outRd >= len(dec.Output.Bytes()) {
			break
		}
	}
	return out
}

func TestNoConvBlockRoundTrip(t *testing.T) {
	var b Buffer
	b.Init(1<<20, 1<<15, 32)

	data := []byte("the quick brown fox jumps over the lazy dog")
	if err := b.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := b.NoConvBlock(); err != nil {
		t.Fatalf("NoConvBlock: %v", err)
	}

	got := decodeAll(t, &b)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip = %q, want %q", got, data)
	}
}

func TestTryBlockRoundTripWithRepetition(t *testing.T) {
	var b Buffer
	b.Init(1<<20, 1<<15, 64)

	data := []byte("abcdabcdabcdabcd the quick brown fox the quick brown fox")
	if err := b.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := b.TryBlock(); err != nil {
		t.Fatalf("TryBlock: %v", err)
	}
	if len(b.Output.Bytes()) >= len(data) {
		t.Fatalf("TryBlock produced %d command bytes for %d input bytes, expected compression on a repetitive string", len(b.Output.Bytes()), len(data))
	}

	got := decodeAll(t, &b)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip = %q, want %q", got, data)
	}
}

func TestFlushMatchesTryBlock(t *testing.T) {
	var b1, b2 Buffer
	b1.Init(1<<20, 1<<15, 64)
	b2.Init(1<<20, 1<<15, 64)

	data := []byte("mississippi river mississippi river")
	b1.Write(data)
	b2.Write(data)
	b1.Flush()
	b2.TryBlock()
	if !bytes.Equal(b1.Output.Bytes(), b2.Output.Bytes()) {
		t.Fatalf("Flush and TryBlock diverged")
	}
}

func TestTryBlockSelfOverlappingShortRun(t *testing.T) {
	var b Buffer
	b.Init(4, 1<<15, 8)

	data := []byte{0x54, 0x54, 0x54, 0x54} // "TTTT"
	if err := b.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := b.TryBlock(); err != nil {
		t.Fatalf("TryBlock: %v", err)
	}

	want := []byte{0x01, 0x54, 0x83, 0x80, 0x00}
	if got := b.Output.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("TryBlock(%q) = % x, want % x", data, got, want)
	}

	got := decodeAll(t, &b)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip = %q, want %q", got, data)
	}
}

func TestWriteBlockOverflow(t *testing.T) {
	var b Buffer
	b.Init(4, 1<<15, 8)
	if err := b.Write([]byte("12345")); err != ErrBlockOverflow {
		t.Fatalf("Write over cap = %v, want ErrBlockOverflow", err)
	}
}

func TestBypassAndPeek(t *testing.T) {
	var b Buffer
	b.Init(1<<20, 1<<15, 8)
	b.Bypass([]byte("hello"))
	if got := b.Peek(0); got != 'o' {
		t.Fatalf("Peek(0) = %q, want 'o'", got)
	}
	if got := b.Peek(4); got != 'h' {
		t.Fatalf("Peek(4) = %q, want 'h'", got)
	}
}
