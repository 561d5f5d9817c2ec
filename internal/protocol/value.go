package protocol

import (
	"fmt"
	"time"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// daydateEpoch is year 1 of the proleptic Gregorian calendar, the epoch
// HANA's DAYDATE (and, before conversion to Unix-relative arithmetic,
// LONGDATE/SECONDDATE) counts from.
var daydateEpoch = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// decodeValue decodes a single column value of the given type code. length
// and fraction carry column metadata needed by the DECIMAL/FIXED* family.
//
// Fixed-width types (everything but the variable-length string/binary
// family, the DECIMAL family and LOBs, which all carry their own null
// marker inline) are preceded by a one-byte null indicator when the column
// is nullable: 0 means a value follows, anything else means SQL NULL.
func decodeValue(dec *encoding.Decoder, tc TypeCode, length, fraction int) (any, error) {
	base := tc.base()

	if tc.IsNullable() && !base.IsVariableLength() && !base.IsDecimalType() {
		if dec.Byte() != 0 {
			return nil, dec.Error()
		}
	}

	if base.IsLob() {
		descr, err := decodeLobDescr(dec, base.IsCharBased())
		if err != nil {
			return nil, err
		}
		if descr.IsNull() {
			return nil, nil
		}
		return descr, nil
	}

	switch base {
	case TcTinyint:
		return int64(dec.Byte()), dec.Error()
	case TcSmallint:
		return int64(dec.Int16()), dec.Error()
	case TcInteger:
		return int64(dec.Int32()), dec.Error()
	case TcBigint:
		return dec.Int64(), dec.Error()
	case TcReal:
		return float64(dec.Float32()), dec.Error()
	case TcDouble:
		return dec.Float64(), dec.Error()
	case TcBoolean:
		return dec.Bool(), dec.Error()
	case TcDate:
		return decodeDate(dec)
	case TcTime:
		return decodeTime(dec)
	case TcTimestamp:
		return decodeTimestamp(dec)
	case TcLongdate:
		return decodeLongdate(dec)
	case TcSeconddate:
		return decodeSeconddate(dec)
	case TcDaydate:
		return decodeDaydate(dec)
	case TcSecondtime:
		return decodeSecondtime(dec)
	case TcDecimal:
		m, exp, err := dec.Decimal()
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, nil
		}
		return Decimal{Mantissa: m, Exp: exp}, dec.Error()
	case TcFixed8, TcFixed12, TcFixed16:
		size := fixedSize(base)
		m := dec.Fixed(size)
		return Decimal{Mantissa: m, Exp: -fraction}, dec.Error()
	case TcChar, TcVarchar, TcString, TcShorttext, TcAlphanum:
		return decodeVarString(dec)
	case TcNchar, TcNvarchar, TcNstring, TcText:
		return decodeVarCESU8(dec)
	case TcBinary, TcVarbinary, TcBstring:
		return decodeVarBytes(dec)
	default:
		return nil, fmt.Errorf("protocol: unsupported type code %s", base)
	}
}

func fixedSize(tc TypeCode) int {
	switch tc {
	case TcFixed8:
		return 8
	case TcFixed12:
		return 12
	case TcFixed16:
		return 16
	}
	return 0
}

func decodeVarString(dec *encoding.Decoder) (any, error) {
	n, err := readLength(dec)
	if err != nil || n < 0 {
		return nil, err
	}
	b := make([]byte, n)
	dec.Bytes(b)
	return string(b), dec.Error()
}

func decodeVarCESU8(dec *encoding.Decoder) (any, error) {
	n, err := readLength(dec)
	if err != nil || n < 0 {
		return nil, err
	}
	b, err := dec.CESU8Bytes(n)
	if err != nil {
		return nil, err
	}
	return string(b), dec.Error()
}

func decodeVarBytes(dec *encoding.Decoder) (any, error) {
	n, err := readLength(dec)
	if err != nil || n < 0 {
		return nil, err
	}
	b := make([]byte, n)
	dec.Bytes(b)
	return b, dec.Error()
}

// encodeValue encodes a bound input parameter. Unlike column values (see
// decodeValue), every parameter value on the wire is self-describing: it
// starts with its own type-code byte, the high bit set in place of a value
// when the argument is SQL NULL, with no payload following.
func encodeValue(enc *encoding.Encoder, tc TypeCode, v any) error {
	base := tc.base()

	if v == nil {
		enc.Byte(byte(tc.Nullable()))
		return enc.Error()
	}
	enc.Byte(byte(base))

	switch base {
	case TcTinyint, TcSmallint, TcInteger, TcBigint:
		return encodeInteger(enc, base, v)
	case TcReal:
		enc.Float32(float32(toFloat64(v)))
	case TcDouble:
		enc.Float64(toFloat64(v))
	case TcBoolean:
		enc.Bool(toBool(v))
	case TcDate:
		return encodeDate(enc, v)
	case TcTime:
		return encodeTime(enc, v)
	case TcTimestamp:
		return encodeTimestamp(enc, v)
	case TcLongdate:
		return encodeLongdate(enc, v)
	case TcSeconddate:
		return encodeSeconddate(enc, v)
	case TcDaydate:
		return encodeDaydate(enc, v)
	case TcSecondtime:
		return encodeSecondtime(enc, v)
	case TcDecimal:
		d, err := toDecimal(v)
		if err != nil {
			return err
		}
		enc.Decimal(d.Mantissa, d.Exp)
	case TcFixed8, TcFixed12, TcFixed16:
		d, err := toDecimal(v)
		if err != nil {
			return err
		}
		enc.Fixed(d.Mantissa, fixedSize(base))
	case TcChar, TcVarchar, TcString, TcShorttext, TcAlphanum, TcBinary, TcVarbinary, TcBstring:
		b := toBytes(v)
		writeLength(enc, len(b))
		enc.Bytes(b)
	case TcNchar, TcNvarchar, TcNstring, TcText:
		s := toString(v)
		writeLength(enc, cesu8Size(s))
		enc.CESU8Bytes([]byte(s))
	case TcClob, TcNclob, TcBlob:
		// The first row always sends an empty locator descriptor (opt 0,
		// size 0, pos 0): no data included yet. The server allocates a
		// locator and returns its ID in a WriteLobReply part of the
		// execute reply; actual bytes stream afterward through follow-up
		// WriteLob requests keyed by that locator (see Session.sendLobInputs).
		enc.Byte(0)
		enc.Int32(0)
		enc.Int32(0)
	default:
		return fmt.Errorf("protocol: unsupported type code %s", base)
	}
	return enc.Error()
}
