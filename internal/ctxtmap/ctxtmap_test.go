package ctxtmap

import "testing"

func TestMapAtSet(t *testing.T) {
	var m Map
	m.Init(3, 4)
	if m.BlockTypes() != 3 || m.Contexts() != 4 {
		t.Fatalf("dims = %d,%d want 3,4", m.BlockTypes(), m.Contexts())
	}
	if err := m.Set(1, 2, 0x5a); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := m.At(1, 2)
	if err != nil || v != 0x5a {
		t.Fatalf("At(1,2) = %v,%v want 0x5a,nil", v, err)
	}
	if _, err := m.At(3, 0); err != ErrOutOfRange {
		t.Fatalf("At out of range = %v, want ErrOutOfRange", err)
	}
	if err := m.SetMode(0, UTF8); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	mode, err := m.Mode(0)
	if err != nil || mode != UTF8 {
		t.Fatalf("Mode(0) = %v,%v want UTF8,nil", mode, err)
	}
}

func TestDistanceContext(t *testing.T) {
	cases := []struct {
		in   uint32
		want uint32
	}{
		{2, 0}, {3, 1}, {4, 2}, {5, 3}, {100, 3},
	}
	for _, c := range cases {
		got, err := DistanceContext(c.in)
		if err != nil {
			t.Fatalf("DistanceContext(%d): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("DistanceContext(%d) = %d, want %d", c.in, got, c.want)
		}
	}
	if _, err := DistanceContext(1); err != ErrParam {
		t.Fatalf("DistanceContext(1) = %v, want ErrParam", err)
	}
	if _, err := DistanceContext(0); err != ErrParam {
		t.Fatalf("DistanceContext(0) = %v, want ErrParam", err)
	}
}

func TestLiteralContextLSB6MSB6(t *testing.T) {
	p1, p2 := byte(0xcd), byte(0x12)
	got, _ := LiteralContext(LSB6, p1, p2)
	if want := uint32(p1) & 0x3f; got != want {
		t.Errorf("LSB6 = %d, want %d", got, want)
	}
	got, _ = LiteralContext(MSB6, p1, p2)
	if want := uint32(p1) >> 2; got != want {
		t.Errorf("MSB6 = %d, want %d", got, want)
	}
	if _, err := LiteralContext(ModeMax, p1, p2); err != ErrParam {
		t.Fatalf("LiteralContext(ModeMax,..) = %v, want ErrParam", err)
	}
}

func TestLiteralContextUTF8SignedInRange(t *testing.T) {
	for p1 := 0; p1 < 256; p1 += 7 {
		for p2 := 0; p2 < 256; p2 += 11 {
			ctx, err := LiteralContext(UTF8, byte(p1), byte(p2))
			if err != nil || ctx >= 64 {
				t.Fatalf("UTF8 context out of range: %d (err %v)", ctx, err)
			}
			ctx, err = LiteralContext(Signed, byte(p1), byte(p2))
			if err != nil || ctx >= 64 {
				t.Fatalf("Signed context out of range: %d (err %v)", ctx, err)
			}
		}
	}
}

func TestMoveToFrontRoundTrip(t *testing.T) {
	var m Map
	m.Init(4, 8)
	data := m.Data()
	src := []byte{3, 3, 1, 0, 5, 5, 5, 2, 9, 9, 2, 0, 1, 7, 7, 7, 3, 2, 1, 0, 255, 128, 64, 32, 16, 8, 4, 2, 1, 0, 10, 20}
	copy(data, src)

	before := append([]byte(nil), data...)
	m.ApplyMoveToFront()
	m.RevertMoveToFront()
	for i := range before {
		if data[i] != before[i] {
			t.Fatalf("round trip mismatch at %d: got %d want %d", i, data[i], before[i])
		}
	}
}

func TestApplyMoveToFrontIsInverseOfRevert(t *testing.T) {
	var m Map
	m.Init(1, 16)
	data := m.Data()
	for i := range data {
		data[i] = byte(255 - i*3)
	}
	before := append([]byte(nil), data...)

	m.RevertMoveToFront()
	m.ApplyMoveToFront()
	for i := range before {
		if data[i] != before[i] {
			t.Fatalf("revert-then-apply mismatch at %d: got %d want %d", i, data[i], before[i])
		}
	}
}
