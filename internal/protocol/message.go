package protocol

import (
	"bufio"
	"io"

	"golang.org/x/text/transform"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// MessageType identifies the operation carried by a request segment.
type MessageType int8

const (
	MtNil             MessageType = 0
	MtExecuteDirect   MessageType = 2
	MtPrepare         MessageType = 3
	MtXAStart         MessageType = 5
	MtXAJoin          MessageType = 6
	MtExecute         MessageType = 13
	MtReadLob         MessageType = 16
	MtWriteLob        MessageType = 17
	MtAuthenticate    MessageType = 65
	MtConnect         MessageType = 66
	MtCommit          MessageType = 67
	MtRollback        MessageType = 68
	MtCloseResultset  MessageType = 69
	MtDropStatementID MessageType = 70
	MtFetchNext       MessageType = 71
	MtDisconnect      MessageType = 77
	MtDBConnectInfo   MessageType = 82
	MtXopenXAStart    MessageType = 83
	MtXopenXAEnd      MessageType = 84
	MtXopenXAPrepare  MessageType = 85
	MtXopenXACommit   MessageType = 86
	MtXopenXARollback MessageType = 87
	MtXopenXARecover  MessageType = 88
	MtXopenXAForget   MessageType = 89
)

// ClientInfoSupported reports whether a client-info part may precede parts
// of this message type.
func (mt MessageType) ClientInfoSupported() bool {
	switch mt {
	case MtPrepare, MtExecuteDirect, MtExecute:
		return true
	}
	return false
}

// SegmentKind identifies whether a segment is a request, a normal reply or
// an error reply.
type SegmentKind int8

const (
	SkInvalid SegmentKind = 0
	SkRequest SegmentKind = 1
	SkReply   SegmentKind = 2
	SkError   SegmentKind = 5
)

// PartAttributes carries the server's state flags for a result-set-bearing
// part: whether this is the last packet of the set, whether the cursor was
// already closed server-side, and whether the query matched no rows.
type PartAttributes int8

const (
	PaLastPacket      PartAttributes = 0x01
	PaNextPacket      PartAttributes = 0x02
	PaFirstPacket     PartAttributes = 0x04
	PaRowNotFound     PartAttributes = 0x08
	PaResultsetClosed PartAttributes = 0x10
)

// LastPacket reports whether no further FetchNext is needed: either this
// packet was flagged as the set's last, or the query matched no rows.
func (a PartAttributes) LastPacket() bool {
	return a&PaLastPacket != 0 || a&PaRowNotFound != 0
}

// ResultsetClosed reports whether the server already discarded the cursor,
// making a CloseResultset request on it redundant.
func (a PartAttributes) ResultsetClosed() bool { return a&PaResultsetClosed != 0 }

const (
	segmentHeaderSize = 24
	partHeaderSize    = 16

	productVersionMajor  = 4
	productVersionMinor  = 20
	protocolVersionMajor = 4
	protocolVersionMinor = 1
)

// Part is implemented by every decodable/encodable part payload.
type Part interface {
	Kind() PartKind
}

// TransformerFactory produces a fresh CESU-8<->UTF-8 transformer; Writer and
// Reader call it once per part they encode or decode.
type TransformerFactory func() transform.Transformer

// Writer serializes request messages (segments of parts) onto a connection.
type Writer struct {
	bw      *bufio.Writer
	enc     *encoding.Encoder
	encoder TransformerFactory
}

// NewWriter returns a Writer that frames requests onto bw, CESU-8 encoding
// string payloads via encoder (may be nil to write raw UTF-8).
func NewWriter(bw *bufio.Writer, encoder TransformerFactory) *Writer {
	return &Writer{bw: bw, enc: encoding.NewEncoder(bw, nil), encoder: encoder}
}

// WriteProlog writes the connection-establishment handshake bytes HANA
// expects before the first message.
func (w *Writer) WriteProlog() error {
	w.enc.Uint32(0xffffffff)
	w.enc.Byte(productVersionMajor)
	w.enc.Int16(productVersionMinor)
	w.enc.Byte(protocolVersionMajor)
	w.enc.Int16(protocolVersionMinor)
	w.enc.Zeroes(1)
	w.enc.Int16(1) // numOptions
	w.enc.Byte(1)  // littleEndian
	if err := w.enc.Error(); err != nil {
		return err
	}
	return w.bw.Flush()
}

// Write frames and flushes a single message made of the given segments.
func (w *Writer) Write(sessionID int64, packetSeqNumber int32, segments ...*SegmentBuilder) error {
	encoded := make([][]byte, len(segments))
	var total int64
	for i, seg := range segments {
		b, err := seg.encode(w.encoder)
		if err != nil {
			return err
		}
		encoded[i] = b
		total += int64(len(b))
	}

	e := w.enc
	e.Int64(sessionID)
	e.Int32(packetSeqNumber)
	e.Int32(int32(total))
	e.Int32(int32(total))
	e.Int16(int16(len(segments)))
	e.Zeroes(1)
	e.Zeroes(1)
	e.Zeroes(4)
	e.Zeroes(4)
	for _, b := range encoded {
		e.Bytes(b)
	}
	if err := e.Error(); err != nil {
		return err
	}
	return w.bw.Flush()
}

// partEncoder describes one not-yet-serialized part.
type partEncoder struct {
	kind  PartKind
	nArg  int
	write func(*encoding.Encoder) error
}

// SegmentBuilder accumulates parts for one request segment.
type SegmentBuilder struct {
	messageType    MessageType
	commandOptions byte
	commit         bool
	parts          []partEncoder
}

// NewSegment begins a request segment of the given message type. The
// default command-options byte holds cursors open across commit, matching
// the reference client's default.
func NewSegment(mt MessageType) *SegmentBuilder {
	return &SegmentBuilder{messageType: mt, commandOptions: 0x08}
}

// SetCommandOptions overrides the segment's command-options byte (bit 3 =
// hold cursors over commit, bit 6 = hold cursors over rollback).
func (s *SegmentBuilder) SetCommandOptions(opts byte) { s.commandOptions = opts }

// SetCommit marks the segment as committing the current transaction.
func (s *SegmentBuilder) SetCommit(commit bool) { s.commit = commit }

// AddPart appends a part, described by its kind, argument count, and an
// encode callback.
func (s *SegmentBuilder) AddPart(kind PartKind, numArg int, write func(*encoding.Encoder) error) {
	s.parts = append(s.parts, partEncoder{kind: kind, nArg: numArg, write: write})
}

func (s *SegmentBuilder) encode(tf TransformerFactory) ([]byte, error) {
	buf := &growBuffer{}
	enc := encoding.NewEncoder(buf, nil)

	partBufs := make([][]byte, len(s.parts))
	for i, p := range s.parts {
		pbuf := &growBuffer{}
		penc := encoding.NewEncoder(pbuf, tf)
		if err := p.write(penc); err != nil {
			return nil, err
		}
		if err := penc.Error(); err != nil {
			return nil, err
		}
		partBufs[i] = pbuf.b
	}

	segLen := int32(segmentHeaderSize)
	for _, pb := range partBufs {
		segLen += partHeaderSize + int32(len(pb)) + int32(padBytes(len(pb)))
	}

	enc.Int32(segLen)
	enc.Int32(0) // segment offset in message
	enc.Int16(int16(len(s.parts)))
	enc.Int16(1) // segment number
	enc.Byte(byte(SkRequest))
	enc.Byte(byte(s.messageType))
	enc.Bool(s.commit)
	enc.Byte(s.commandOptions)
	enc.Zeroes(8)

	for i, p := range s.parts {
		pbuf := partBufs[i]
		enc.Byte(byte(p.kind))
		enc.Byte(0) // part attributes
		enc.Int16(int16(p.nArg))
		enc.Int32(0)
		enc.Int32(int32(len(pbuf)))
		enc.Int32(int32(len(pbuf)))
		enc.Bytes(pbuf)
		enc.Zeroes(padBytes(len(pbuf)))
	}
	if err := enc.Error(); err != nil {
		return nil, err
	}
	return buf.b, nil
}

type growBuffer struct{ b []byte }

func (g *growBuffer) Write(p []byte) (int, error) {
	g.b = append(g.b, p...)
	return len(p), nil
}

// ReplyPart is one decoded part of a reply segment: its kind, argument
// count, and a Decoder scoped to exactly its body (padding already
// consumed by the framer).
type ReplyPart struct {
	Kind   PartKind
	Attrs  PartAttributes
	NumArg int
	Dec    *encoding.Decoder
}

// ReplySegment is one decoded reply or error segment.
type ReplySegment struct {
	Kind         SegmentKind
	FunctionCode int16
	Parts        []ReplyPart
}

// Reader deserializes reply messages from the connection.
type Reader struct {
	dec     *encoding.Decoder
	decoder TransformerFactory
}

// NewReader returns a Reader that parses replies via dec, decoding part
// bodies' CESU-8 string payloads with decoder (may be nil).
func NewReader(dec *encoding.Decoder, decoder TransformerFactory) *Reader {
	return &Reader{dec: dec, decoder: decoder}
}

// ReadReply parses one reply message and returns its session ID, packet
// sequence number and decoded segments.
func (r *Reader) ReadReply() (sessionID int64, packetSeqNumber int32, segments []ReplySegment, err error) {
	d := r.dec
	sessionID = d.Int64()
	packetSeqNumber = d.Int32()
	d.Int32() // varPartLength
	d.Int32() // varPartSize
	noOfSegm := d.Int16()
	d.Skip(1)
	d.Skip(1)
	d.Skip(4)
	d.Skip(4)
	if err := d.Error(); err != nil {
		return 0, 0, nil, err
	}

	segments = make([]ReplySegment, 0, noOfSegm)
	for i := int16(0); i < noOfSegm; i++ {
		seg, err := r.readSegment()
		if err != nil {
			return 0, 0, nil, err
		}
		segments = append(segments, seg)
	}
	return sessionID, packetSeqNumber, segments, d.Error()
}

func (r *Reader) readSegment() (ReplySegment, error) {
	d := r.dec
	d.Int32() // segment length
	d.Int32() // segment offset
	noOfParts := d.Int16()
	d.Int16() // segment number
	kind := SegmentKind(d.Int8())
	var functionCode int16
	if kind == SkReply || kind == SkError {
		functionCode = d.Int16() // reply function code
		d.Skip(9)                // reserved
	} else {
		d.Skip(3) // message type, commit flag, command options
		d.Skip(8) // reserved
	}
	if err := d.Error(); err != nil {
		return ReplySegment{}, err
	}

	seg := ReplySegment{Kind: kind, FunctionCode: functionCode}
	for i := int16(0); i < noOfParts; i++ {
		p, err := r.readPart()
		if err != nil {
			return ReplySegment{}, err
		}
		seg.Parts = append(seg.Parts, p)
	}
	return seg, nil
}

func (r *Reader) readPart() (ReplyPart, error) {
	d := r.dec
	kind := PartKind(d.Int8())
	attrs := PartAttributes(d.Int8())
	numArg := int(d.Int16())
	bigArgCount := d.Int32()
	bufLen := d.Int32()
	d.Skip(4) // buffer size
	if err := d.Error(); err != nil {
		return ReplyPart{}, err
	}
	if bigArgCount > 0 {
		numArg = int(bigArgCount)
	}

	body := make([]byte, bufLen)
	d.Bytes(body)
	d.Skip(padBytes(int(bufLen)))
	if err := d.Error(); err != nil {
		return ReplyPart{}, err
	}

	return ReplyPart{
		Kind:   kind,
		Attrs:  attrs,
		NumArg: numArg,
		Dec:    encoding.NewDecoder(byteReader(body), r.decoder),
	}, nil
}

func byteReader(b []byte) io.Reader { return &sliceReader{b: b} }

type sliceReader struct{ b []byte }

func (r *sliceReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}
