package protocol

import (
	"testing"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// buildReplyMessage hand-assembles a single-segment, single-part reply
// message byte-for-byte the way the server would, so Reader.ReadReply can
// be exercised without a live connection.
func buildReplyMessage(t *testing.T, sessionID int64, packetSeqNumber int32, functionCode int16, partKind PartKind, partNumArg int, partBody []byte) []byte {
	t.Helper()

	pbuf := &growBuffer{}
	penc := encoding.NewEncoder(pbuf, nil)
	penc.Byte(byte(partKind))
	penc.Byte(0) // attributes
	penc.Int16(int16(partNumArg))
	penc.Int32(0) // big arg count
	penc.Int32(int32(len(partBody)))
	penc.Int32(int32(len(partBody)))
	penc.Bytes(partBody)
	penc.Zeroes(padBytes(len(partBody)))
	if err := penc.Error(); err != nil {
		t.Fatalf("encode part: %v", err)
	}
	partBytes := pbuf.b

	sbuf := &growBuffer{}
	senc := encoding.NewEncoder(sbuf, nil)
	segLen := int32(segmentHeaderSize) + int32(len(partBytes))
	senc.Int32(segLen)
	senc.Int32(0) // segment offset
	senc.Int16(1) // number of parts
	senc.Int16(1) // segment number
	senc.Byte(byte(SkReply))
	senc.Int16(functionCode)
	senc.Zeroes(9)
	senc.Bytes(partBytes)
	if err := senc.Error(); err != nil {
		t.Fatalf("encode segment: %v", err)
	}
	segBytes := sbuf.b

	mbuf := &growBuffer{}
	menc := encoding.NewEncoder(mbuf, nil)
	menc.Int64(sessionID)
	menc.Int32(packetSeqNumber)
	menc.Int32(int32(len(segBytes)))
	menc.Int32(int32(len(segBytes)))
	menc.Int16(1) // number of segments
	menc.Zeroes(1)
	menc.Zeroes(1)
	menc.Zeroes(4)
	menc.Zeroes(4)
	menc.Bytes(segBytes)
	if err := menc.Error(); err != nil {
		t.Fatalf("encode message: %v", err)
	}
	return mbuf.b
}

// TestReaderRoundTripsMessageFraming verifies that a segment built the way
// the server builds one parses back to the same session ID, function code,
// part kind and part body.
func TestReaderRoundTripsMessageFraming(t *testing.T) {
	body := []byte{0x2a, 0x00, 0x00, 0x00} // int32(42) little-endian
	raw := buildReplyMessage(t, 1234, 7, 99, PkRowsAffected, 1, body)

	dec := encoding.NewDecoder(byteReader(raw), nil)
	r := NewReader(dec, nil)
	sessionID, seq, segments, err := r.ReadReply()
	if err != nil {
		t.Fatalf("ReadReply: %v", err)
	}
	if sessionID != 1234 {
		t.Errorf("sessionID = %d, want 1234", sessionID)
	}
	if seq != 7 {
		t.Errorf("packetSeqNumber = %d, want 7", seq)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	seg := segments[0]
	if seg.Kind != SkReply {
		t.Errorf("segment kind = %v, want SkReply", seg.Kind)
	}
	if seg.FunctionCode != 99 {
		t.Errorf("functionCode = %d, want 99", seg.FunctionCode)
	}
	if len(seg.Parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(seg.Parts))
	}
	p := seg.Parts[0]
	if p.Kind != PkRowsAffected {
		t.Errorf("part kind = %v, want PkRowsAffected", p.Kind)
	}
	if p.NumArg != 1 {
		t.Errorf("numArg = %d, want 1", p.NumArg)
	}
	got := p.Dec.Int32()
	if err := p.Dec.Error(); err != nil {
		t.Fatalf("decode part body: %v", err)
	}
	if got != 42 {
		t.Errorf("part body = %d, want 42", got)
	}
}

// TestReaderHandlesEmptyPartBody covers a part with zero-length payload
// (numArg present but no body bytes), as seen on several ack-only replies.
func TestReaderHandlesEmptyPartBody(t *testing.T) {
	raw := buildReplyMessage(t, 1, 1, 0, PkTransactionFlags, 0, nil)

	dec := encoding.NewDecoder(byteReader(raw), nil)
	r := NewReader(dec, nil)
	_, _, segments, err := r.ReadReply()
	if err != nil {
		t.Fatalf("ReadReply: %v", err)
	}
	if len(segments[0].Parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(segments[0].Parts))
	}
	if segments[0].Parts[0].NumArg != 0 {
		t.Errorf("numArg = %d, want 0", segments[0].Parts[0].NumArg)
	}
}
