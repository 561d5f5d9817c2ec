package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

// Authentication wraps the raw authentication sub-protocol payload
// exchanged during connect; its contents are interpreted by the auth
// package's Negotiator, not by this part itself.
type Authentication struct {
	Payload []byte
}

func (*Authentication) Kind() PartKind { return PkAuthentication }

func (a *Authentication) encode(enc *encoding.Encoder) error {
	enc.Bytes(a.Payload)
	return enc.Error()
}

func decodeAuthentication(dec *encoding.Decoder) (*Authentication, error) {
	b := dec.Remainder()
	dec.ResetError()
	return &Authentication{Payload: b}, nil
}
