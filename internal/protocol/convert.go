package protocol

import (
	"fmt"
	"math/big"

	"github.com/scramdb/hdb/internal/protocol/encoding"
	"github.com/scramdb/hdb/internal/unicode/cesu8"
)

func cesu8Size(s string) int { return cesu8.StringSize(s) }

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	}
	return 0
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func toBytes(v any) []byte {
	switch x := v.(type) {
	case []byte:
		return x
	case string:
		return []byte(x)
	}
	return nil
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}

func toDecimal(v any) (Decimal, error) {
	switch x := v.(type) {
	case Decimal:
		return x, nil
	case *big.Int:
		return Decimal{Mantissa: x, Exp: 0}, nil
	case int64:
		return Decimal{Mantissa: big.NewInt(x), Exp: 0}, nil
	}
	return Decimal{}, fmt.Errorf("protocol: cannot convert %T to DECIMAL", v)
}

func encodeInteger(enc *encoding.Encoder, base TypeCode, v any) error {
	var i int64
	switch x := v.(type) {
	case int64:
		i = x
	case int:
		i = int64(x)
	case int32:
		i = int64(x)
	default:
		return fmt.Errorf("protocol: cannot convert %T to %s", v, base)
	}
	switch base {
	case TcTinyint:
		enc.Byte(byte(i))
	case TcSmallint:
		enc.Int16(int16(i))
	case TcInteger:
		enc.Int32(int32(i))
	case TcBigint:
		enc.Int64(i)
	}
	return enc.Error()
}
