package blockbuf

import "github.com/cespare/xxhash/v2"

const (
	// minMatchLen must stay low enough to catch short self-overlapping
	// runs (e.g. "TTTT") as a literal-plus-copy pair rather than an
	// all-literal command; LZF's filter_lzf.go uses the same 3-byte
	// floor for exactly that reason.
	minMatchLen = 3
	hashBits    = 15
	hashSize    = 1 << hashBits
)

// hashChain is a classic LZ77 hash-chain match finder: one bucket head per
// minMatchLen-byte prefix hash, chained through a same-sized prev[] array
// indexed by window position. Grounded on
// elliotnunn-BeHierarchic/internal/fileid/fileid_linux.go's use of
// xxhash.Digest as a streaming hash — here xxhash.Sum64 seeds each bucket
// instead of a hand-rolled multiplicative hash, since the teacher's own
// compressors (flate/brotli) only ever decode and never needed a match
// finder of their own.
type hashChain struct {
	head [hashSize]int32 // bucket -> most recent window position, -1 if empty
	prev []int32         // window position -> previous position with the same hash, -1 if none

	chainLength int
}

func (hc *hashChain) Init(windowCap, chainLength int) {
	for i := range hc.head {
		hc.head[i] = -1
	}
	hc.prev = make([]int32, windowCap)
	hc.chainLength = chainLength
}

func bucket(window []byte, pos int) uint32 {
	if pos+minMatchLen > len(window) {
		return 0
	}
	return uint32(xxhash.Sum64(window[pos:pos+minMatchLen])) & (hashSize - 1)
}

// insert records window position pos (window[pos:] must have at least
// minMatchLen bytes) in its hash bucket.
func (hc *hashChain) insert(window []byte, pos int) {
	if pos >= len(hc.prev) {
		return
	}
	b := bucket(window, pos)
	hc.prev[pos] = hc.head[b]
	hc.head[b] = int32(pos)
}

// find searches for the longest match starting before pos, within [0, pos),
// of at least minMatchLen bytes, returning its distance (pos - matchStart
// - 1, zero meaning the immediately preceding byte — the block buffer's
// own window convention) and length. ok is false if no qualifying match
// exists.
func (hc *hashChain) find(window []byte, pos, maxLen int) (dist, length int, ok bool) {
	if pos+minMatchLen > len(window) {
		return 0, 0, false
	}
	b := bucket(window, pos)
	cand := hc.head[b]
	best := 0
	var bestPos int32 = -1

	for tries := 0; cand >= 0 && tries < hc.chainLength; tries++ {
		c := int(cand)
		n := matchLen(window, c, pos, maxLen)
		if n > best {
			best, bestPos = n, cand
		}
		if c >= len(hc.prev) {
			break
		}
		cand = hc.prev[c]
	}
	if best < minMatchLen {
		return 0, 0, false
	}
	return pos - int(bestPos) - 1, best, true
}

func matchLen(window []byte, a, b, maxLen int) int {
	n := 0
	for b+n < len(window) && n < maxLen && window[a+n] == window[b+n] {
		n++
	}
	return n
}
