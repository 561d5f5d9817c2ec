package protocol

import (
	"fmt"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// optType tags the wire representation of one option value inside an
// options bag (ConnectOptions, TransactionFlags, StatementContext,
// DBConnectInfo, ClientContext all share this encoding).
type optType int8

const (
	otBoolean  optType = 28
	otInt      optType = 3
	otBigint   optType = 4
	otDouble   optType = 7
	otString   optType = 29
	otBstring  optType = 33
)

// options is a key -> typed-value bag using HANA's generic option wire
// format: each entry is key(1) + type(1) + value.
type options map[int8]any

func (o options) size() int {
	n := 0
	for _, v := range o {
		n += 2 + optValueSize(v)
	}
	return n
}

func (o options) numArg() int { return len(o) }

func optValueSize(v any) int {
	switch x := v.(type) {
	case bool:
		return 1
	case int32:
		return 4
	case int64:
		return 8
	case float64:
		return 8
	case string:
		return 2 + len(x)
	case []byte:
		return 2 + len(x)
	}
	return 0
}

func (o options) encode(enc *encoding.Encoder) error {
	for k, v := range o {
		enc.Int8(k)
		if err := encodeOptValue(enc, v); err != nil {
			return err
		}
	}
	return enc.Error()
}

func encodeOptValue(enc *encoding.Encoder, v any) error {
	switch x := v.(type) {
	case bool:
		enc.Int8(int8(otBoolean))
		enc.Bool(x)
	case int32:
		enc.Int8(int8(otInt))
		enc.Int32(x)
	case int64:
		enc.Int8(int8(otBigint))
		enc.Int64(x)
	case float64:
		enc.Int8(int8(otDouble))
		enc.Float64(x)
	case string:
		enc.Int8(int8(otString))
		enc.Int16(int16(len(x)))
		enc.Bytes([]byte(x))
	case []byte:
		enc.Int8(int8(otBstring))
		enc.Int16(int16(len(x)))
		enc.Bytes(x)
	default:
		return fmt.Errorf("protocol: unsupported option value type %T", v)
	}
	return nil
}

func decodeOptions(dec *encoding.Decoder, numArg int) (options, error) {
	o := make(options, numArg)
	for i := 0; i < numArg; i++ {
		k := dec.Int8()
		v, err := decodeOptValue(dec)
		if err != nil {
			return nil, err
		}
		o[k] = v
	}
	return o, dec.Error()
}

func decodeOptValue(dec *encoding.Decoder) (any, error) {
	t := optType(dec.Int8())
	switch t {
	case otBoolean:
		return dec.Bool(), nil
	case otInt:
		return dec.Int32(), nil
	case otBigint:
		return dec.Int64(), nil
	case otDouble:
		return dec.Float64(), nil
	case otString, otBstring:
		n := int(dec.Int16())
		b := make([]byte, n)
		dec.Bytes(b)
		if t == otString {
			return string(b), nil
		}
		return b, nil
	default:
		return nil, fmt.Errorf("protocol: unknown option type %d", t)
	}
}
