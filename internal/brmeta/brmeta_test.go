package brmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmplaceGrowsAndZeroFills(t *testing.T) {
	var l List
	l.Init(0)
	for i, n := range []int{4, 8, 1, 1024} {
		if err := l.Emplace(n); err != nil {
			t.Fatalf("Emplace(%d): %v", n, err)
		}
		if l.Size() != i+1 {
			t.Fatalf("Size() = %d, want %d", l.Size(), i+1)
		}
		entry := l.At(i)
		if len(entry) != n {
			t.Fatalf("entry %d len = %d, want %d", i, len(entry), n)
		}
		for _, b := range entry {
			if b != 0 {
				t.Fatalf("entry %d not zero-filled", i)
			}
		}
	}
}

func TestEmplaceZeroLength(t *testing.T) {
	var l List
	l.Init(0)
	assert.Equal(t, ErrParam, l.Emplace(0))
}

func TestEmplaceOverMax(t *testing.T) {
	var l List
	l.Init(0)
	assert.Equal(t, ErrMemory, l.Emplace(maxEntryLen+1))
	assert.Nil(t, l.Emplace(maxEntryLen))
}

func TestEmplaceGeometricGrowth(t *testing.T) {
	var l List
	l.Init(0)
	prevCap := cap(l.lines)
	for i := 0; i < 20; i++ {
		full := len(l.lines) == cap(l.lines)
		if err := l.Emplace(1); err != nil {
			t.Fatalf("Emplace: %v", err)
		}
		want := prevCap
		if full {
			want = 2*prevCap + 1
		}
		if cap(l.lines) != want {
			t.Fatalf("capacity = %d after Emplace from capacity %d, want %d", cap(l.lines), prevCap, want)
		}
		prevCap = cap(l.lines)
	}
	if l.Size() != 20 {
		t.Fatalf("Size() = %d, want 20", l.Size())
	}
}

func TestEntriesAreIndependent(t *testing.T) {
	var l List
	l.Init(2)
	l.Emplace(3)
	l.Emplace(3)
	l.At(0)[0] = 0xff
	if l.At(1)[0] != 0 {
		t.Fatalf("entries alias each other's storage")
	}
}
