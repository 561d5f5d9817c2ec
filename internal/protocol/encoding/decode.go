// Package encoding implements the little-endian scalar codec shared by all
// HANA wire protocol parts: fixed-width integers and floats, HANA's 128-bit
// DECIMAL and FIXED8/12/16 wire formats, and CESU-8 byte runs.
package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	"math/bits"

	"golang.org/x/text/transform"
)

const readScratchSize = 4096

const (
	decSize    = 16
	dec128Bias = 6176
	_S         = bits.UintSize / 8 // bytes per big.Word on this platform
)

var natOne = big.NewInt(1)

// Decoder decodes HANA wire protocol scalar types from an io.Reader.
type Decoder struct {
	rd  io.Reader
	err error
	b   []byte
	tr  transform.Transformer
	cnt int
	dfv int
}

// NewDecoder returns a Decoder reading from rd. decoder, if non-nil,
// produces the CESU-8-to-UTF-8 transformer used by CESU8Bytes.
func NewDecoder(rd io.Reader, decoder func() transform.Transformer) *Decoder {
	d := &Decoder{rd: rd, b: make([]byte, readScratchSize)}
	if decoder != nil {
		d.tr = decoder()
	}
	return d
}

// Dfv returns the negotiated data format version.
func (d *Decoder) Dfv() int { return d.dfv }

// SetDfv sets the negotiated data format version.
func (d *Decoder) SetDfv(dfv int) { d.dfv = dfv }

// ResetCnt resets the byte-read counter.
func (d *Decoder) ResetCnt() { d.cnt = 0 }

// Cnt returns the current value of the byte-read counter.
func (d *Decoder) Cnt() int { return d.cnt }

// Error returns the last fatal read error, if any.
func (d *Decoder) Error() error { return d.err }

// ResetError returns and clears the last fatal read error.
func (d *Decoder) ResetError() error {
	err := d.err
	d.err = nil
	return err
}

func (d *Decoder) readFull(buf []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	var n int
	n, d.err = io.ReadFull(d.rd, buf)
	d.cnt += n
	return n, d.err
}

// Remainder reads and returns every undecoded byte left in the stream. It
// is used for the trailing name pools of metadata parts, whose size isn't
// known until the enclosing part's length has been exhausted.
func (d *Decoder) Remainder() []byte {
	var buf []byte
	tmp := make([]byte, readScratchSize)
	for {
		n, err := d.readFull(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf
}

// Skip discards cnt bytes from the stream.
func (d *Decoder) Skip(cnt int) {
	var n int
	for n < cnt {
		to := cnt - n
		if to > readScratchSize {
			to = readScratchSize
		}
		m, err := d.readFull(d.b[:to])
		n += m
		if err != nil {
			return
		}
	}
}

// Byte reads and returns a single byte.
func (d *Decoder) Byte() byte {
	if _, err := d.readFull(d.b[:1]); err != nil {
		return 0
	}
	return d.b[0]
}

// Bytes reads len(p) bytes into p.
func (d *Decoder) Bytes(p []byte) { d.readFull(p) }

// Bool reads and returns a boolean (any nonzero byte is true).
func (d *Decoder) Bool() bool { return d.Byte() != 0 }

// Int8 reads and returns a signed byte.
func (d *Decoder) Int8() int8 { return int8(d.Byte()) }

// Int16 reads and returns a little-endian int16.
func (d *Decoder) Int16() int16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(d.b[:2]))
}

// Uint16 reads and returns a little-endian uint16.
func (d *Decoder) Uint16() uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(d.b[:2])
}

// Uint16ByteOrder reads a uint16 in the given byte order.
func (d *Decoder) Uint16ByteOrder(bo binary.ByteOrder) uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return bo.Uint16(d.b[:2])
}

// Int32 reads and returns a little-endian int32.
func (d *Decoder) Int32() int32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(d.b[:4]))
}

// Uint32 reads and returns a little-endian uint32.
func (d *Decoder) Uint32() uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d.b[:4])
}

// Uint32ByteOrder reads a uint32 in the given byte order.
func (d *Decoder) Uint32ByteOrder(bo binary.ByteOrder) uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return bo.Uint32(d.b[:4])
}

// Int64 reads and returns a little-endian int64.
func (d *Decoder) Int64() int64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(d.b[:8]))
}

// Uint64 reads and returns a little-endian uint64.
func (d *Decoder) Uint64() uint64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(d.b[:8])
}

// Float32 reads and returns a little-endian float32.
func (d *Decoder) Float32() float32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(d.b[:4]))
}

// Float64 reads and returns a little-endian float64.
func (d *Decoder) Float64() float64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(d.b[:8]))
}

// Decimal reads HANA's 16-byte DECIMAL wire format and returns the mantissa
// and decimal exponent. A nil mantissa indicates SQL NULL.
func (d *Decoder) Decimal() (*big.Int, int, error) {
	bs := d.b[:decSize]
	if _, err := d.readFull(bs); err != nil {
		return nil, 0, nil
	}

	if (bs[15] & 0x70) == 0x70 { // null value (bits 4,5,6 set)
		return nil, 0, nil
	}
	if (bs[15] & 0x60) == 0x60 {
		return nil, 0, fmt.Errorf("decimal: format (infinity, nan, ...) not supported: %v", bs)
	}

	neg := (bs[15] & 0x80) != 0
	exp := int((((uint16(bs[15])<<8)|uint16(bs[14]))<<1)>>2) - dec128Bias

	bs[14] &= 0x01 // keep mantissa bit only

	msb := 14
	for msb > 0 && bs[msb] == 0 {
		msb--
	}

	numWords := (msb / _S) + 1
	ws := make([]big.Word, numWords)
	bs = bs[:msb+1]
	for i, b := range bs {
		ws[i/_S] |= big.Word(b) << (i % _S * 8)
	}

	m := new(big.Int).SetBits(ws)
	if neg {
		m.Neg(m)
	}
	return m, exp, nil
}

// Fixed reads a size-byte two's-complement FIXED8/FIXED12/FIXED16 value.
func (d *Decoder) Fixed(size int) *big.Int {
	bs := d.b[:size]
	if _, err := d.readFull(bs); err != nil {
		return nil
	}

	neg := (bs[size-1] & 0x80) != 0

	msb := size - 1
	for msb > 0 && bs[msb] == 0 {
		msb--
	}

	numWords := (msb / _S) + 1
	ws := make([]big.Word, numWords)
	bs = bs[:msb+1]
	for i, b := range bs {
		if neg {
			b = ^b
		}
		ws[i/_S] |= big.Word(b) << (i % _S * 8)
	}

	m := new(big.Int).SetBits(ws)
	if neg {
		m.Add(m, natOne)
		m.Neg(m)
	}
	return m
}

// CESU8Bytes reads a size-byte CESU-8 encoded run and returns its UTF-8
// translation.
func (d *Decoder) CESU8Bytes(size int) ([]byte, error) {
	if d.err != nil {
		return nil, nil
	}

	var p []byte
	if size > readScratchSize {
		p = make([]byte, size)
	} else {
		p = d.b[:size]
	}
	if _, err := d.readFull(p); err != nil {
		return nil, nil
	}
	if d.tr == nil {
		cp := make([]byte, len(p))
		copy(cp, p)
		return cp, nil
	}
	d.tr.Reset()
	r, _, err := transform.Bytes(d.tr, p)
	return r, err
}
