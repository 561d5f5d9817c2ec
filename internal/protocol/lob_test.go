package protocol

import (
	"bytes"
	"testing"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// TestReadLobRequestEncodesOneBasedOffset covers the off-by-one the wire
// format requires: ReadLobRequest.Offset is the 0-based count of bytes
// already consumed, but the server expects a 1-based offset, so encode
// must add one (and decode must subtract it back out).
func TestReadLobRequestEncodesOneBasedOffset(t *testing.T) {
	req := &ReadLobRequest{ID: 7, Offset: 1024, BytesLen: 256}

	wireBuf := &bytes.Buffer{}
	enc := encoding.NewEncoder(wireBuf, nil)
	if err := req.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	wire := wireBuf.Bytes()

	raw := encoding.NewDecoder(bytes.NewReader(wire), nil)
	if id := raw.Uint64(); id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if wireOffset := raw.Int64(); wireOffset != 1025 {
		t.Errorf("wire offset = %d, want 1025 (1-based)", wireOffset)
	}

	out := &ReadLobRequest{}
	dec := encoding.NewDecoder(bytes.NewReader(wire), nil)
	if err := out.decode(dec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Offset != req.Offset {
		t.Errorf("round-tripped offset = %d, want %d", out.Offset, req.Offset)
	}
	if out.ID != req.ID || out.BytesLen != req.BytesLen {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, req)
	}
}
