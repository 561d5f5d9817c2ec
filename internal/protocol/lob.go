package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

// LocatorID identifies a LOB locator held open on the server.
type LocatorID uint64

// lobOptions are the flag bits preceding a LOB descriptor on the wire.
type lobOptions byte

const (
	loNull       lobOptions = 0x01
	loDataIncluded lobOptions = 0x02
	loLastData   lobOptions = 0x04
)

func (o lobOptions) isNull() bool         { return o&loNull != 0 }
func (o lobOptions) isDataIncluded() bool { return o&loDataIncluded != 0 }
func (o lobOptions) isLastData() bool     { return o&loLastData != 0 }

// LobDescr is a column value that refers to a large object either by
// locator (fetched lazily via ReadLob) or with its data already inlined.
type LobDescr struct {
	IsCharBased bool
	Opt         lobOptions
	NumChar     int64
	NumByte     int64
	ID          LocatorID
	B           []byte
}

// IsNull reports whether the descriptor represents SQL NULL.
func (d *LobDescr) IsNull() bool { return d.Opt.isNull() }

// IsLastData reports whether B holds the final chunk of the LOB's data.
func (d *LobDescr) IsLastData() bool { return d.Opt.isLastData() }

const lobDescrSize = 32

func decodeLobDescr(dec *encoding.Decoder, isCharBased bool) (*LobDescr, error) {
	descr := &LobDescr{IsCharBased: isCharBased}
	dec.Skip(2) // type code + filler, already known by caller
	descr.Opt = lobOptions(dec.Byte())
	dec.Skip(1)
	if descr.Opt.isNull() {
		return descr, nil
	}
	descr.NumChar = int64(dec.Int64())
	descr.NumByte = int64(dec.Int64())
	descr.ID = LocatorID(dec.Uint64())
	size := int(dec.Int32())
	if descr.Opt.isDataIncluded() && size > 0 {
		b := make([]byte, size)
		dec.Bytes(b)
		descr.B = b
	}
	return descr, nil
}

// ReadLobRequest asks the server for the next chunk of a LOB identified by
// a locator. Offset is the 0-based count of bytes already consumed; the
// wire field itself is 1-based, so encode adds one.
type ReadLobRequest struct {
	ID       LocatorID
	Offset   int64
	BytesLen int32
}

func (r *ReadLobRequest) size() int { return readLobRequestSize }

const readLobRequestSize = 24

func (r *ReadLobRequest) decode(dec *encoding.Decoder) error {
	r.ID = LocatorID(dec.Uint64())
	r.Offset = dec.Int64() - 1
	r.BytesLen = dec.Int32()
	dec.Skip(4)
	return dec.Error()
}

func (r *ReadLobRequest) encode(enc *encoding.Encoder) error {
	enc.Uint64(uint64(r.ID))
	enc.Int64(r.Offset + 1) // wire offset is 1-based
	enc.Int32(r.BytesLen)
	enc.Zeroes(4)
	return enc.Error()
}

// ReadLobReply carries the chunk of LOB data requested by a ReadLobRequest.
type ReadLobReply struct {
	ID  LocatorID
	Opt lobOptions
	B   []byte
}

// IsLastData reports whether this chunk is the final one for the LOB.
func (r *ReadLobReply) IsLastData() bool { return r.Opt.isLastData() }

func (r *ReadLobReply) decode(dec *encoding.Decoder) error {
	r.ID = LocatorID(dec.Uint64())
	r.Opt = lobOptions(dec.Byte())
	dec.Skip(3)
	if err := dec.Error(); err != nil {
		return err
	}
	r.B = dec.Remainder()
	dec.ResetError()
	return nil
}

// WriteLobRequest streams the next chunk of data for a LOB being written
// via a locator. Opt carries the lobOptions flags (data-included,
// last-data) for this chunk.
type WriteLobRequest struct {
	ID  LocatorID
	Opt lobOptions
	B   []byte
}

func (r *WriteLobRequest) size() int { return 9 + len(r.B) }

func (r *WriteLobRequest) encode(enc *encoding.Encoder) error {
	enc.Uint64(uint64(r.ID))
	enc.Byte(byte(r.Opt))
	enc.Bytes(r.B)
	return enc.Error()
}

// WriteLobReply returns the locator IDs of the LOBs that were updated by a
// preceding WriteLobRequest.
type WriteLobReply struct {
	IDs []LocatorID
}

func (r *WriteLobReply) decode(dec *encoding.Decoder, numArg int) error {
	r.IDs = make([]LocatorID, numArg)
	for i := range r.IDs {
		r.IDs[i] = LocatorID(dec.Uint64())
	}
	return dec.Error()
}
