package protocol

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/scramdb/hdb/internal/protocol/encoding"
	"github.com/scramdb/hdb/internal/unicode/cesu8"
)

// TestEncodeValueParameterFraming covers the bound-parameter wire shape:
// encodeValue always leads with its own type-code byte, so a value can be
// parsed back knowing only that byte (its base form, fed to decodeValue,
// reproduces the payload a column of that non-nullable type would have).
func TestEncodeValueParameterFraming(t *testing.T) {
	tests := []struct {
		name     string
		tc       TypeCode
		length   int
		fraction int
		in       any
		want     any
	}{
		{"tinyint", TcTinyint, 0, 0, int64(200), int64(200)},
		{"smallint", TcSmallint, 0, 0, int64(-1234), int64(-1234)},
		{"integer", TcInteger, 0, 0, int64(123456), int64(123456)},
		{"bigint", TcBigint, 0, 0, int64(1) << 40, int64(1) << 40},
		{"double", TcDouble, 0, 0, 3.25, 3.25},
		{"boolean true", TcBoolean, 0, 0, true, true},
		{"boolean false", TcBoolean, 0, 0, false, false},
		{"nvarchar", TcNvarchar, 0, 0, "hello", "hello"},
		{"varchar", TcVarchar, 0, 0, "world", "world"},
		{"binary", TcBinary, 0, 0, []byte{1, 2, 3}, []byte{1, 2, 3}},
		{"longdate", TcLongdate, 0, 0, time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			enc := encoding.NewEncoder(buf, cesu8.NewEncoder)
			if err := encodeValue(enc, tt.tc, tt.in); err != nil {
				t.Fatalf("encodeValue: %v", err)
			}
			if err := enc.Error(); err != nil {
				t.Fatalf("encoder error: %v", err)
			}

			dec := encoding.NewDecoder(buf, cesu8.NewDecoder)
			if prefix := dec.Byte(); prefix != byte(tt.tc.base()) {
				t.Fatalf("leading type-code byte = %#x, want %#x", prefix, byte(tt.tc.base()))
			}

			got, err := decodeValue(dec, tt.tc.base(), tt.length, tt.fraction)
			if err != nil {
				t.Fatalf("decodeValue: %v", err)
			}

			want := tt.want
			if want == nil {
				want = tt.in
			}
			switch w := want.(type) {
			case []byte:
				gb, ok := got.([]byte)
				if !ok || !bytes.Equal(gb, w) {
					t.Errorf("got %#v, want %#v", got, w)
				}
			case time.Time:
				gt, ok := got.(time.Time)
				if !ok || !gt.Equal(w) {
					t.Errorf("got %#v, want %#v", got, w)
				}
			default:
				if got != want {
					t.Errorf("got %#v, want %#v", got, want)
				}
			}
		})
	}
}

// TestEncodeValueNull covers the NULL encoding path for a bound parameter:
// a single byte, the nullable-form type tag, with no payload at all.
func TestEncodeValueNull(t *testing.T) {
	tc := TcInteger

	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	if err := encodeValue(enc, tc, nil); err != nil {
		t.Fatalf("encodeValue(nil): %v", err)
	}
	if got, want := buf.Bytes(), []byte{byte(tc.Nullable())}; !bytes.Equal(got, want) {
		t.Errorf("encodeValue(nil) = %#v, want %#v", got, want)
	}

	secBuf := &bytes.Buffer{}
	secEnc := encoding.NewEncoder(secBuf, nil)
	if err := encodeValue(secEnc, TcSecondtime, nil); err != nil {
		t.Fatalf("encodeValue(SECONDTIME nil): %v", err)
	}
	if got, want := secBuf.Bytes(), []byte{byte(tcSecondtimeNull)}; !bytes.Equal(got, want) {
		t.Errorf("encodeValue(SECONDTIME nil) = %#v, want %#v (0xB0 quirk)", got, want)
	}
}

// TestDecodeValueColumnFraming covers the column/output-value decoding
// path, which carries no per-value type-code byte (the type is already
// known from result/parameter metadata): a nullable fixed-width column is
// preceded only by a single 0/non-zero indicator byte.
func TestDecodeValueColumnFraming(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	enc.Byte(0) // not-null indicator
	enc.Int32(7)
	if err := enc.Error(); err != nil {
		t.Fatalf("encoder error: %v", err)
	}

	dec := encoding.NewDecoder(buf, nil)
	got, err := decodeValue(dec, TcInteger.Nullable(), 0, 0)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	if got != int64(7) {
		t.Errorf("got %#v, want int64(7)", got)
	}

	nullBuf := &bytes.Buffer{}
	nullEnc := encoding.NewEncoder(nullBuf, nil)
	nullEnc.Byte(1) // null indicator: any non-zero byte
	if err := nullEnc.Error(); err != nil {
		t.Fatalf("encoder error: %v", err)
	}
	nullDec := encoding.NewDecoder(nullBuf, nil)
	got2, err := decodeValue(nullDec, TcInteger.Nullable(), 0, 0)
	if err != nil {
		t.Fatalf("decodeValue(NULL): %v", err)
	}
	if got2 != nil {
		t.Errorf("got %#v, want nil", got2)
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	d := Decimal{Mantissa: big.NewInt(-65535), Exp: -3}

	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	if err := encodeValue(enc, TcDecimal, d); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	dec := encoding.NewDecoder(buf, nil)
	dec.Byte() // leading type-code byte, not part of the column format
	got, err := decodeValue(dec, TcDecimal, 0, 0)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	gd, ok := got.(Decimal)
	if !ok {
		t.Fatalf("got %T, want Decimal", got)
	}
	if gd.Rat().Cmp(d.Rat()) != 0 {
		t.Errorf("got %v, want %v", gd.Rat(), d.Rat())
	}
}

func TestFixedRoundTrip(t *testing.T) {
	d := Decimal{Mantissa: big.NewInt(65535), Exp: -5}

	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	if err := encodeValue(enc, TcFixed8, d); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	dec := encoding.NewDecoder(buf, nil)
	dec.Byte() // leading type-code byte, not part of the column format
	got, err := decodeValue(dec, TcFixed8, 0, 5)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	gd, ok := got.(Decimal)
	if !ok {
		t.Fatalf("got %T, want Decimal", got)
	}
	if gd.Mantissa.Cmp(d.Mantissa) != 0 {
		t.Errorf("mantissa = %v, want %v", gd.Mantissa, d.Mantissa)
	}
}
