package blockbuf

// SlidingWindow is the engine's generalization of brotli/dict_decoder.go's
// dictDecoder: a single growable byte history used both to satisfy
// backward-copy references and to seed the hash-chain match finder.
// Unlike the teacher's stub (which only sized the window), this one keeps a
// contiguous buffer twice the configured size and slides the live tail down
// to the front once it grows past capacity, exactly the technique
// flate/reader.go's call sites (WriteSlice/WriteMark/AvailSize) assume a
// real dictDecoder provides.
type SlidingWindow struct {
	size  int    // Target history size (the largest distance a copy may reference)
	hist  []byte // Backing storage, len(hist) == 2*size (or a 4096-byte floor)
	wrPos int    // Next write position
	rdPos int    // Unread boundary for ReadFlush
}

// Init resets the window to hold up to size bytes of addressable history.
func (sw *SlidingWindow) Init(size int) {
	capacity := 2 * size
	if capacity < 4096 {
		capacity = 4096
	}
	*sw = SlidingWindow{size: size, hist: make([]byte, capacity)}
}

// HistSize reports how many bytes of valid backward-reference history are
// currently available.
func (sw *SlidingWindow) HistSize() int {
	if sw.wrPos < sw.size {
		return sw.wrPos
	}
	return sw.size
}

// AvailSize reports how many bytes can be written before the window must
// slide.
func (sw *SlidingWindow) AvailSize() int { return len(sw.hist) - sw.wrPos }

func (sw *SlidingWindow) slideIfNeeded() {
	if sw.wrPos < len(sw.hist) {
		return
	}
	start := sw.wrPos - sw.size
	if start < 0 {
		start = 0
	}
	n := copy(sw.hist, sw.hist[start:sw.wrPos])
	sw.wrPos = n
	sw.rdPos -= start
	if sw.rdPos < 0 {
		sw.rdPos = 0
	}
}

// WriteSlice returns the writable region at the current position for a
// bulk copy; the caller must follow up with WriteMark.
func (sw *SlidingWindow) WriteSlice() []byte {
	sw.slideIfNeeded()
	return sw.hist[sw.wrPos:]
}

// WriteMark advances the write position by cnt bytes already placed via
// WriteSlice.
func (sw *SlidingWindow) WriteMark(cnt int) { sw.wrPos += cnt }

// WriteByte appends a single literal byte to the window.
func (sw *SlidingWindow) WriteByte(b byte) {
	sw.slideIfNeeded()
	sw.hist[sw.wrPos] = b
	sw.wrPos++
}

// WriteCopy copies length bytes from dist+1 positions back in the window
// to the current position (dist == 0 means the immediately preceding byte,
// the command stream's own convention — see buffer.go's writeDistance),
// byte at a time so overlapping copies (dist < length) see already-written
// bytes. Returns the number of bytes actually written, which is less than
// length only if the window ran out of addressable history for the
// requested distance.
func (sw *SlidingWindow) WriteCopy(dist, length int) int {
	if dist+1 > sw.HistSize() {
		return 0
	}
	written := 0
	for written < length {
		sw.slideIfNeeded()
		avail := len(sw.hist) - sw.wrPos
		if avail == 0 {
			break
		}
		n := length - written
		if n > avail {
			n = avail
		}
		for i := 0; i < n; i++ {
			sw.hist[sw.wrPos] = sw.hist[sw.wrPos-dist-1]
			sw.wrPos++
		}
		written += n
	}
	return written
}

// Peek returns the byte dist+1 positions back in the window (dist == 0 is
// the most recently written byte).
func (sw *SlidingWindow) Peek(dist int) byte {
	return sw.hist[sw.wrPos-1-dist]
}

// ReadFlush returns every byte written since the last ReadFlush call and
// advances the read boundary to the current write position.
func (sw *SlidingWindow) ReadFlush() []byte {
	out := sw.hist[sw.rdPos:sw.wrPos]
	sw.rdPos = sw.wrPos
	return out
}

// Pos reports the absolute number of bytes ever written to the window.
func (sw *SlidingWindow) Pos() int { return sw.wrPos }
