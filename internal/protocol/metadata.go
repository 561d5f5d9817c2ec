package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

const metadataFieldSize = 16

// ParameterMode tags whether a parameter descriptor is for input, output or
// both (a stored-procedure INOUT parameter).
type ParameterMode byte

const (
	PmIn    ParameterMode = 0x01
	PmInout ParameterMode = 0x02
	PmOut   ParameterMode = 0x04
)

// FieldMetadata describes one result-set column or procedure parameter.
type FieldMetadata struct {
	Mode     ParameterMode
	TypeCode TypeCode
	Fraction int16
	Length   int16
	Name     string
}

// Nullable reports whether this field may hold SQL NULL.
func (f FieldMetadata) Nullable() bool { return f.TypeCode.IsNullable() }

// In reports whether this field accepts a bound input value.
func (f FieldMetadata) In() bool { return f.Mode == PmIn || f.Mode == PmInout }

// Out reports whether this field produces an output value.
func (f FieldMetadata) Out() bool { return f.Mode == PmOut || f.Mode == PmInout }

func decodeMetadataFields(dec *encoding.Decoder, numArg int) ([]FieldMetadata, error) {
	type raw struct {
		mode     byte
		tc       TypeCode
		fraction int16
		length   int16
		nameOfs  int32
	}
	raws := make([]raw, numArg)
	for i := range raws {
		raws[i].mode = dec.Byte()
		raws[i].tc = TypeCode(dec.Byte())
		raws[i].fraction = dec.Int16()
		raws[i].length = dec.Int16()
		dec.Skip(2) // reserved
		dec.Skip(4) // table name offset (unused: table name resolution is a metadata-catalog concern, not wire parsing)
		raws[i].nameOfs = dec.Int32()
	}
	if err := dec.Error(); err != nil {
		return nil, err
	}

	// Remaining bytes are a pool of 1-byte-length-prefixed CESU-8 names,
	// addressed by the name offsets collected above. Draining the part to
	// EOF is expected here, so the resulting error is not fatal.
	pool := dec.Remainder()
	dec.ResetError()

	fields := make([]FieldMetadata, numArg)
	for i, r := range raws {
		f := FieldMetadata{Mode: ParameterMode(r.mode), TypeCode: r.tc, Fraction: r.fraction, Length: r.length}
		if r.nameOfs >= 0 && int(r.nameOfs) < len(pool) {
			nlen := int(pool[r.nameOfs])
			start := int(r.nameOfs) + 1
			if start+nlen <= len(pool) {
				f.Name = string(pool[start : start+nlen])
			}
		}
		fields[i] = f
	}
	return fields, nil
}

// ParameterMetadata is the PkParameterMetadata reply part: the shape of a
// prepared statement's bind parameters.
type ParameterMetadata struct {
	Fields []FieldMetadata
}

func (*ParameterMetadata) Kind() PartKind { return PkParameterMetadata }

func decodeParameterMetadata(dec *encoding.Decoder, numArg int) (*ParameterMetadata, error) {
	f, err := decodeMetadataFields(dec, numArg)
	return &ParameterMetadata{Fields: f}, err
}

// ResultMetadata is the PkResultMetadata reply part: the column shape of a
// result set.
type ResultMetadata struct {
	Fields []FieldMetadata
}

func (*ResultMetadata) Kind() PartKind { return PkResultMetadata }

func decodeResultMetadata(dec *encoding.Decoder, numArg int) (*ResultMetadata, error) {
	f, err := decodeMetadataFields(dec, numArg)
	return &ResultMetadata{Fields: f}, err
}
