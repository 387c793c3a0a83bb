package zcvt

import "github.com/codylico/tcmplx-go/internal/adler32"

// Bypass installs bytes into the conversion's sliding window without
// producing a command or consuming compressed input — the path for
// priming a preset dictionary (RFC 1950 FDICT) before the first call to
// In, or for catching one direction's window up with bytes the other
// direction of a transcode already produced.
func (s *State) Bypass(buf []byte) error {
	if !s.ready {
		return ErrInit
	}
	if s.err != nil {
		return s.err
	}
	s.buffer.Bypass(buf)
	s.dictBypass = adler32.Update(s.dictBypass, buf)
	return nil
}
