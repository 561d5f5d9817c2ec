package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

// Length-indicator byte values controlling how a variable-length wire field's
// size is encoded.
const (
	lenIndNull    = 255
	lenIndBytes2  = 246
	lenIndBytes4  = 247
	maxLenIndLit  = 245
)

// readLength reads a variable-length field's length indicator and returns
// the field size in bytes, or -1 for SQL NULL.
func readLength(dec *encoding.Decoder) (int, error) {
	b := dec.Byte()
	switch {
	case b == lenIndNull:
		return -1, nil
	case b <= maxLenIndLit:
		return int(b), nil
	case b == lenIndBytes2:
		return int(dec.Int16()), nil
	case b == lenIndBytes4:
		return int(dec.Int32()), nil
	default:
		return 0, nil
	}
}

// writeLength writes the length indicator (and, for long fields, the
// trailing length bytes) preceding a variable-length field of the given
// size. size < 0 encodes SQL NULL.
func writeLength(enc *encoding.Encoder, size int) {
	switch {
	case size < 0:
		enc.Byte(lenIndNull)
	case size <= maxLenIndLit:
		enc.Byte(byte(size))
	case size <= 32767:
		enc.Byte(lenIndBytes2)
		enc.Int16(int16(size))
	default:
		enc.Byte(lenIndBytes4)
		enc.Int32(int32(size))
	}
}

// lengthFieldSize returns the number of bytes the length indicator itself
// occupies for a field of the given size (not counting the field's payload).
func lengthFieldSize(size int) int {
	switch {
	case size < 0:
		return 1
	case size <= maxLenIndLit:
		return 1
	case size <= 32767:
		return 3
	default:
		return 5
	}
}
