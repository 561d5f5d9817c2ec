package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

// Command wraps a CESU-8 encoded SQL command text (PkCommand part).
type Command string

func (Command) Kind() PartKind { return PkCommand }

func (c Command) encode(enc *encoding.Encoder) error {
	enc.CESU8Bytes([]byte(c))
	return enc.Error()
}

// StatementID identifies a prepared statement on the server.
type StatementID uint64

func (StatementID) Kind() PartKind { return PkStatementID }

func decodeStatementID(dec *encoding.Decoder) StatementID {
	return StatementID(dec.Uint64())
}

func (id StatementID) encode(enc *encoding.Encoder) error {
	enc.Uint64(uint64(id))
	return enc.Error()
}

// ResultsetID identifies an open result set on the server.
type ResultsetID uint64

func (ResultsetID) Kind() PartKind { return PkResultsetID }

func decodeResultsetID(dec *encoding.Decoder) ResultsetID {
	return ResultsetID(dec.Uint64())
}

func (id ResultsetID) encode(enc *encoding.Encoder) error {
	enc.Uint64(uint64(id))
	return enc.Error()
}

// FetchSize is the number of rows requested by a FetchNext/FetchFirst.
type FetchSize int32

func (FetchSize) Kind() PartKind { return PkFetchSize }

func (f FetchSize) encode(enc *encoding.Encoder) error {
	enc.Int32(int32(f))
	return enc.Error()
}

// raSuccessNoInfo and RaExecutionFailed are sentinel per-statement row
// counts reported in a RowsAffected part.
const (
	raSuccessNoInfo   = -2
	RaExecutionFailed = -3
)

// RowsAffected reports the per-statement affected-row counts of a batch.
type RowsAffected struct {
	Rows []int32
}

func (*RowsAffected) Kind() PartKind { return PkRowsAffected }

// Total sums the positive (known) counts, ignoring sentinel values.
func (r *RowsAffected) Total() int64 {
	var total int64
	for _, n := range r.Rows {
		if n > 0 {
			total += int64(n)
		}
	}
	return total
}

func decodeRowsAffected(dec *encoding.Decoder, numArg int) (*RowsAffected, error) {
	r := &RowsAffected{Rows: make([]int32, numArg)}
	for i := range r.Rows {
		r.Rows[i] = dec.Int32()
	}
	return r, dec.Error()
}

// ClientID carries the client process ID and hostname, sent once in the
// final authentication (Connect) request.
type ClientID string

func (ClientID) Kind() PartKind { return PkClientID }

func (c ClientID) encode(enc *encoding.Encoder) error {
	enc.Bytes([]byte(c))
	return enc.Error()
}
