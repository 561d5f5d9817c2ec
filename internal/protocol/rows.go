package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

func decodeRow(dec *encoding.Decoder, fields []FieldMetadata) ([]any, error) {
	row := make([]any, len(fields))
	for i, f := range fields {
		v, err := decodeValue(dec, f.TypeCode, int(f.Length), int(f.Fraction))
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, dec.Error()
}

func encodeRow(enc *encoding.Encoder, fields []FieldMetadata, row []any) error {
	for i, f := range fields {
		if err := encodeValue(enc, f.TypeCode, row[i]); err != nil {
			return err
		}
	}
	return enc.Error()
}

// Resultset is a decoded PkResultset part: the row data returned by a query
// or a FetchNext continuation, ready to hand to the caller or buffer ahead
// of a lazy fetch. Attrs carries the server's last-packet/row-not-found/
// closed flags for this batch.
type Resultset struct {
	Fields []FieldMetadata
	Rows   [][]any
	Attrs  PartAttributes
}

func (*Resultset) Kind() PartKind { return PkResultset }

func decodeResultset(dec *encoding.Decoder, numArg int, fields []FieldMetadata, attrs PartAttributes) (*Resultset, error) {
	rs := &Resultset{Fields: fields, Rows: make([][]any, numArg), Attrs: attrs}
	for i := 0; i < numArg; i++ {
		row, err := decodeRow(dec, fields)
		if err != nil {
			return nil, err
		}
		rs.Rows[i] = row
	}
	return rs, nil
}

// Parameters is the PkParameters request part: one or more rows of bound
// input values, encoded according to a prepared statement's
// ParameterMetadata.
type Parameters struct {
	Fields []FieldMetadata
	Rows   [][]any
}

func (*Parameters) Kind() PartKind { return PkParameters }

func (p *Parameters) numArg() int { return len(p.Rows) }

func (p *Parameters) encode(enc *encoding.Encoder) error {
	for _, row := range p.Rows {
		if err := encodeRow(enc, p.Fields, row); err != nil {
			return err
		}
	}
	return enc.Error()
}

// OutputParameters is the PkOutputParameters reply part: the single row of
// OUT/INOUT parameter values from a stored-procedure call.
type OutputParameters struct {
	Fields []FieldMetadata
	Values []any
}

func (*OutputParameters) Kind() PartKind { return PkOutputParameters }

func decodeOutputParameters(dec *encoding.Decoder, fields []FieldMetadata) (*OutputParameters, error) {
	row, err := decodeRow(dec, fields)
	if err != nil {
		return nil, err
	}
	return &OutputParameters{Fields: fields, Values: row}, nil
}
