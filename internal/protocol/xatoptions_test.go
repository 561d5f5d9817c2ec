package protocol

import (
	"bytes"
	"testing"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

func xidsEqual(a, b Xid) bool {
	return a.FormatID == b.FormatID && bytes.Equal(a.Gtrid, b.Gtrid) && bytes.Equal(a.Bqual, b.Bqual)
}

// TestXatOptionsSingleBranch covers the common XAStart/XAEnd/XACommit shape:
// exactly one Xid plus the one-phase flag.
func TestXatOptionsSingleBranch(t *testing.T) {
	in := &XatOptions{
		Flags:    XaFlagNoFlags,
		OnePhase: true,
		Xids:     []Xid{{FormatID: 1, Gtrid: []byte("gtrid-a"), Bqual: []byte("bqual-a")}},
	}

	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	if err := in.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := encoding.NewDecoder(buf, nil)
	out, err := decodeXatOptions(dec, in.numArg())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Flags != in.Flags {
		t.Errorf("flags = %d, want %d", out.Flags, in.Flags)
	}
	if out.OnePhase != in.OnePhase {
		t.Errorf("onePhase = %v, want %v", out.OnePhase, in.OnePhase)
	}
	if len(out.Xids) != 1 || !xidsEqual(out.Xids[0], in.Xids[0]) {
		t.Errorf("xids = %+v, want %+v", out.Xids, in.Xids)
	}
}

// TestXatOptionsRecoverList covers the XARecover reply shape: no one-phase
// flag, multiple branches packed into the xid list.
func TestXatOptionsRecoverList(t *testing.T) {
	in := &XatOptions{
		Xids: []Xid{
			{FormatID: 1, Gtrid: []byte("g1"), Bqual: []byte("b1")},
			{FormatID: 2, Gtrid: []byte("g2-longer"), Bqual: []byte("b2")},
		},
	}

	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	if err := in.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := encoding.NewDecoder(buf, nil)
	out, err := decodeXatOptions(dec, in.numArg())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Xids) != len(in.Xids) {
		t.Fatalf("got %d xids, want %d", len(out.Xids), len(in.Xids))
	}
	for i := range in.Xids {
		if !xidsEqual(out.Xids[i], in.Xids[i]) {
			t.Errorf("xid[%d] = %+v, want %+v", i, out.Xids[i], in.Xids[i])
		}
	}
}

// TestXatOptionsNoXids covers a bare flags-only bag (no branch attached),
// the shape XARecover sends as its request.
func TestXatOptionsNoXids(t *testing.T) {
	in := &XatOptions{Flags: XaFlagFail}

	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	if err := in.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := encoding.NewDecoder(buf, nil)
	out, err := decodeXatOptions(dec, in.numArg())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Flags != in.Flags {
		t.Errorf("flags = %d, want %d", out.Flags, in.Flags)
	}
	if len(out.Xids) != 0 {
		t.Errorf("xids = %+v, want empty", out.Xids)
	}
}
