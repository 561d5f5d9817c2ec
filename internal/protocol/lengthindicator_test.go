package protocol

import (
	"bytes"
	"testing"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

func TestLengthIndicatorRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 245, 246, 247, 32767, 32768, 65535, 65536, 1 << 20} {
		buf := &bytes.Buffer{}
		enc := encoding.NewEncoder(buf, nil)
		writeLength(enc, n)
		if err := enc.Error(); err != nil {
			t.Fatalf("writeLength(%d): %v", n, err)
		}

		dec := encoding.NewDecoder(buf, nil)
		got, err := readLength(dec)
		if err != nil {
			t.Fatalf("readLength after writeLength(%d): %v", n, err)
		}
		if got != n {
			t.Errorf("writeLength(%d) round trip = %d", n, got)
		}
	}
}

func TestLengthIndicatorNull(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	writeLength(enc, -1)

	dec := encoding.NewDecoder(buf, nil)
	got, err := readLength(dec)
	if err != nil {
		t.Fatalf("readLength: %v", err)
	}
	if got != -1 {
		t.Errorf("writeLength(-1) round trip = %d, want -1", got)
	}
}
