// Package auth implements the SCRAM-SHA256 and SCRAM-PBKDF2-SHA256
// authentication method negotiation carried inside the Authentication
// part's payload. That payload is itself a small self-describing
// sub-protocol (a count-prefixed list of length-prefixed fields), distinct
// from the outer message/segment/part framing, so it is decoded and
// encoded independently here rather than through the shared scalar codec.
package auth

import (
	"encoding/binary"
	"fmt"
)

// field length-indicator thresholds: a field up to 245 bytes is prefixed
// with a single length byte; longer fields use 0xFF followed by a
// big-endian uint16 length.
const (
	maxFieldLen1Byte = 245
	fieldLenIndicator2Byte = 255
)

func fieldSize(n int) int {
	if n <= maxFieldLen1Byte {
		return 1 + n
	}
	return 3 + n
}

// fields is an ordered list of opaque byte fields, the unit the
// authentication sub-protocol exchanges (usernames, salts, proofs, ...).
type fields [][]byte

// size returns the encoded size of the field list, including its leading
// int16 count.
func (f fields) size() int {
	n := 2
	for _, b := range f {
		n += fieldSize(len(b))
	}
	return n
}

func (f fields) encode() []byte {
	buf := make([]byte, 0, f.size())
	var cnt [2]byte
	binary.LittleEndian.PutUint16(cnt[:], uint16(len(f)))
	buf = append(buf, cnt[:]...)
	for _, b := range f {
		if len(b) <= maxFieldLen1Byte {
			buf = append(buf, byte(len(b)))
		} else {
			buf = append(buf, fieldLenIndicator2Byte)
			var l [2]byte
			binary.BigEndian.PutUint16(l[:], uint16(len(b)))
			buf = append(buf, l[:]...)
		}
		buf = append(buf, b...)
	}
	return buf
}

// decodeFields parses a field list previously produced by fields.encode.
func decodeFields(b []byte) (fields, error) {
	if len(b) < 2 {
		return nil, fmt.Errorf("auth: field list truncated")
	}
	cnt := int(binary.LittleEndian.Uint16(b[:2]))
	b = b[2:]
	out := make(fields, 0, cnt)
	for i := 0; i < cnt; i++ {
		if len(b) < 1 {
			return nil, fmt.Errorf("auth: field list truncated")
		}
		n := int(b[0])
		b = b[1:]
		if n == fieldLenIndicator2Byte {
			if len(b) < 2 {
				return nil, fmt.Errorf("auth: field list truncated")
			}
			n = int(binary.BigEndian.Uint16(b[:2]))
			b = b[2:]
		}
		if len(b) < n {
			return nil, fmt.Errorf("auth: field list truncated")
		}
		out = append(out, b[:n])
		b = b[n:]
	}
	return out, nil
}
