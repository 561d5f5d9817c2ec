package encoding

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"

	"golang.org/x/text/transform"
)

// Encoder encodes HANA wire protocol scalar types onto an io.Writer.
type Encoder struct {
	wr  io.Writer
	b   [32]byte
	tr  transform.Transformer
	err error
}

// NewEncoder returns an Encoder writing to wr. encoder, if non-nil, produces
// the UTF-8-to-CESU-8 transformer used by CESU8Bytes.
func NewEncoder(wr io.Writer, encoder func() transform.Transformer) *Encoder {
	e := &Encoder{wr: wr}
	if encoder != nil {
		e.tr = encoder()
	}
	return e
}

// Error returns the last write error, if any.
func (e *Encoder) Error() error { return e.err }

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.wr.Write(p)
}

// Zeroes writes n zero bytes (used for part padding).
func (e *Encoder) Zeroes(n int) {
	if n <= 0 {
		return
	}
	z := make([]byte, n)
	e.write(z)
}

// Byte writes a single byte.
func (e *Encoder) Byte(b byte) { e.b[0] = b; e.write(e.b[:1]) }

// Bytes writes p verbatim.
func (e *Encoder) Bytes(p []byte) { e.write(p) }

// Bool writes a boolean as a single byte.
func (e *Encoder) Bool(b bool) {
	if b {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Int8 writes a signed byte.
func (e *Encoder) Int8(v int8) { e.Byte(byte(v)) }

// Int16 writes a little-endian int16.
func (e *Encoder) Int16(v int16) {
	binary.LittleEndian.PutUint16(e.b[:2], uint16(v))
	e.write(e.b[:2])
}

// Uint16 writes a little-endian uint16.
func (e *Encoder) Uint16(v uint16) {
	binary.LittleEndian.PutUint16(e.b[:2], v)
	e.write(e.b[:2])
}

// Uint16ByteOrder writes a uint16 in the given byte order.
func (e *Encoder) Uint16ByteOrder(v uint16, bo binary.ByteOrder) {
	bo.PutUint16(e.b[:2], v)
	e.write(e.b[:2])
}

// Int32 writes a little-endian int32.
func (e *Encoder) Int32(v int32) {
	binary.LittleEndian.PutUint32(e.b[:4], uint32(v))
	e.write(e.b[:4])
}

// Uint32 writes a little-endian uint32.
func (e *Encoder) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(e.b[:4], v)
	e.write(e.b[:4])
}

// Uint32ByteOrder writes a uint32 in the given byte order.
func (e *Encoder) Uint32ByteOrder(v uint32, bo binary.ByteOrder) {
	bo.PutUint32(e.b[:4], v)
	e.write(e.b[:4])
}

// Int64 writes a little-endian int64.
func (e *Encoder) Int64(v int64) {
	binary.LittleEndian.PutUint64(e.b[:8], uint64(v))
	e.write(e.b[:8])
}

// Uint64 writes a little-endian uint64.
func (e *Encoder) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(e.b[:8], v)
	e.write(e.b[:8])
}

// Float32 writes a little-endian float32.
func (e *Encoder) Float32(v float32) {
	binary.LittleEndian.PutUint32(e.b[:4], math.Float32bits(v))
	e.write(e.b[:4])
}

// Float64 writes a little-endian float64.
func (e *Encoder) Float64(v float64) {
	binary.LittleEndian.PutUint64(e.b[:8], math.Float64bits(v))
	e.write(e.b[:8])
}

// Decimal writes m*10^exp in HANA's 16-byte DECIMAL wire format: a sign
// bit, a 14-bit biased exponent and a 113-bit mantissa magnitude.
func (e *Encoder) Decimal(m *big.Int, exp int) {
	var bs [decSize]byte

	neg := m.Sign() < 0
	abs := new(big.Int).Abs(m)
	for i := 0; i < 113; i++ {
		if abs.Bit(i) == 1 {
			bs[i/8] |= 1 << uint(i%8)
		}
	}

	biased := uint16(exp + dec128Bias)
	bs[15] = byte(biased>>7) & 0x7f
	bs[14] |= byte(biased<<1) & 0xfe
	if neg {
		bs[15] |= 0x80
	}
	e.write(bs[:])
}

// Fixed writes m in a size-byte two's-complement FIXED8/FIXED12/FIXED16
// wire format.
func (e *Encoder) Fixed(m *big.Int, size int) {
	bs := make([]byte, size)
	neg := m.Sign() < 0
	abs := new(big.Int).Abs(m)
	if neg {
		abs.Sub(abs, natOne)
	}
	bits := abs.Bits()
	for i, w := range bits {
		for j := 0; j < _S && i*_S+j < size; j++ {
			bs[i*_S+j] = byte(w >> (j * 8))
		}
	}
	if neg {
		for i := range bs {
			bs[i] = ^bs[i]
		}
	}
	e.write(bs)
}

// CESU8Bytes writes the CESU-8 encoding of the UTF-8 byte slice p.
func (e *Encoder) CESU8Bytes(p []byte) {
	if e.tr == nil {
		e.write(p)
		return
	}
	e.tr.Reset()
	r, _, err := transform.Bytes(e.tr, p)
	if err != nil {
		e.err = err
		return
	}
	e.write(r)
}
