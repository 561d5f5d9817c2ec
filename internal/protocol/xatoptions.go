package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

// XatOptionID tags entries of an XatOptions bag. Values and wire types are
// grounded on the reference XA implementation (Flags/NumberOfXid are
// integers, OnePhase is boolean, XidList is a raw byte string).
type XatOptionID int8

const (
	xoFlags       XatOptionID = 1
	xoReturncode  XatOptionID = 2
	xoOnePhase    XatOptionID = 3
	xoNumberOfXid XatOptionID = 4
	xoXidList     XatOptionID = 5
)

// Xid is a JTA/XA global transaction identifier.
type Xid struct {
	FormatID int32
	Gtrid    []byte
	Bqual    []byte
}

func (x Xid) size() int { return 4 + 4 + 4 + len(x.Gtrid) + len(x.Bqual) }

func (x Xid) encode(enc *encoding.Encoder) {
	enc.Int32(x.FormatID)
	enc.Int32(int32(len(x.Gtrid)))
	enc.Int32(int32(len(x.Bqual)))
	enc.Bytes(x.Gtrid)
	enc.Bytes(x.Bqual)
}

func decodeXid(dec *encoding.Decoder) Xid {
	var x Xid
	x.FormatID = dec.Int32()
	gtridLen := dec.Int32()
	bqualLen := dec.Int32()
	x.Gtrid = make([]byte, gtridLen)
	dec.Bytes(x.Gtrid)
	x.Bqual = make([]byte, bqualLen)
	dec.Bytes(x.Bqual)
	return x
}

// XatOptions carries XA/2PC transaction control for the XOpenXA* message
// family: the transaction branch flags, whether a commit is one-phase, and
// (on XARecover replies) the list of in-doubt transaction IDs.
type XatOptions struct {
	Flags     int32
	OnePhase  bool
	Xids      []Xid
}

func (*XatOptions) Kind() PartKind { return PkXatOptions }

func (x *XatOptions) numArg() int {
	n := 1 // flags always present
	if len(x.Xids) == 1 {
		n++ // one-phase flag only meaningful for a single branch
	}
	if len(x.Xids) > 0 {
		n += 2 // count + xid list
	}
	return n
}

func xidListBytes(xids []Xid) []byte {
	buf := &growBuffer{}
	enc := encoding.NewEncoder(buf, nil)
	for _, x := range xids {
		x.encode(enc)
	}
	return buf.b
}

func (x *XatOptions) encode(enc *encoding.Encoder) error {
	enc.Int8(int8(xoFlags))
	enc.Int8(int8(otInt))
	enc.Int32(x.Flags)
	if len(x.Xids) == 1 {
		enc.Int8(int8(xoOnePhase))
		enc.Int8(int8(otBoolean))
		enc.Bool(x.OnePhase)
	}
	if len(x.Xids) > 0 {
		enc.Int8(int8(xoNumberOfXid))
		enc.Int8(int8(otInt))
		enc.Int32(int32(len(x.Xids)))

		b := xidListBytes(x.Xids)
		enc.Int8(int8(xoXidList))
		enc.Int8(int8(otBstring))
		enc.Int16(int16(len(b)))
		enc.Bytes(b)
	}
	return enc.Error()
}

func decodeXatOptions(dec *encoding.Decoder, numArg int) (*XatOptions, error) {
	x := &XatOptions{}
	var xidList []byte
	var count int32
	for i := 0; i < numArg; i++ {
		id := XatOptionID(dec.Int8())
		v, err := decodeOptValue(dec)
		if err != nil {
			return nil, err
		}
		switch id {
		case xoFlags:
			x.Flags, _ = v.(int32)
		case xoOnePhase:
			x.OnePhase, _ = v.(bool)
		case xoNumberOfXid:
			count, _ = v.(int32)
		case xoXidList:
			xidList, _ = v.([]byte)
		}
	}
	if count > 0 && xidList != nil {
		sub := encoding.NewDecoder(byteReader(xidList), nil)
		x.Xids = make([]Xid, count)
		for i := range x.Xids {
			x.Xids[i] = decodeXid(sub)
		}
	}
	return x, dec.Error()
}
