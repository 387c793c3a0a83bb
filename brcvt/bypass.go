package brcvt

// Bypass installs bytes into the conversion's sliding window without
// producing a command or consuming any Brotli bitstream — the path for
// catching one direction's window up with bytes the other direction of a
// transcode already produced. Brotli carries no dictionary-checksum
// concept for this path to feed (unlike zcvt's FDICT Adler-32), so this is
// simpler than zcvt.State.Bypass.
func (s *State) Bypass(buf []byte) error {
	if !s.ready {
		return ErrInit
	}
	if s.err != nil {
		return s.err
	}
	s.buffer.Bypass(buf)
	return nil
}
