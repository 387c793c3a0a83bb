package ctxtmap

// utf8P1LUT and utf8P2LUT combine to form the UTF8 literal-context formula
// of RFC 7932 §7.1: ctx = lut0[p1] | lut1[p2], where lut0 buckets the most
// recent byte into one of eight high-order groups (whitespace, other
// control bytes, digit, lowercase, uppercase, sentence punctuation, other
// ASCII, and one band for every byte >= 0x80) and lut1 buckets the byte
// before it into one of four
// low-order refinement groups. The RFC's own 512-entry table (derived from
// English-text letter-frequency tuning) was not present in the retrieved
// original_source/ slice, so these are a from-scratch reconstruction
// grounded on the same byte-class boundaries the RFC describes rather than
// a byte-exact port — flagged here rather than asserted as RFC-faithful.
var utf8P1LUT [256]byte
var utf8P2LUT [256]byte

// signedLUT buckets a byte into one of eight magnitude bands around zero,
// treating it as a signed delta from a predicted value — the "Signed"
// context mode's role alongside LSB6/MSB6/UTF8. Also a from-scratch
// reconstruction; see utf8P1LUT's note.
var signedLUT [256]byte

func init() {
	for b := 0; b < 256; b++ {
		utf8P1LUT[b] = byte(classifyP1(byte(b))) << 2
		utf8P2LUT[b] = byte(classifyP2(byte(b)))
		signedLUT[b] = byte(classifySigned(byte(b)))
	}
}

// classifyP1 sorts a byte into one of eight coarse classes.
func classifyP1(b byte) int {
	switch {
	case b == ' ' || b == '\t' || b == '\n' || b == '\r':
		return 0
	case b < 0x20:
		return 1
	case b >= '0' && b <= '9':
		return 2
	case b >= 'a' && b <= 'z':
		return 3
	case b >= 'A' && b <= 'Z':
		return 4
	case b == '.' || b == ',' || b == ';' || b == ':' || b == '!' || b == '?':
		return 5
	case b < 0x80:
		return 6
	default:
		return 7
	}
}

// classifyP2 sorts a byte into one of four fine classes used as the
// low-order refinement of the UTF8 context.
func classifyP2(b byte) int {
	switch {
	case b < 0x20:
		return 0
	case b >= 0x80:
		return 3
	case b >= '0' && b <= '9':
		return 1
	default:
		return 2
	}
}

// classifySigned buckets a byte's signed interpretation by magnitude.
func classifySigned(b byte) int {
	v := int(int8(b))
	if v < 0 {
		v = -v
	}
	switch {
	case v == 0:
		return 0
	case v <= 1:
		return 1
	case v <= 3:
		return 2
	case v <= 6:
		return 3
	case v <= 10:
		return 4
	case v <= 18:
		return 5
	case v <= 40:
		return 6
	default:
		return 7
	}
}
