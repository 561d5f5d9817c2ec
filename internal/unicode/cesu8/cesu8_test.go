package cesu8

import (
	"testing"

	"golang.org/x/text/transform"
)

func roundTrip(t *testing.T, s string) string {
	t.Helper()
	cesu, _, err := transform.Bytes(NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("encode %q: %v", s, err)
	}
	back, _, err := transform.Bytes(NewDecoder(), cesu)
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return string(back)
}

func TestRoundTripASCII(t *testing.T) {
	const s = "hello, world"
	if got := roundTrip(t, s); got != s {
		t.Errorf("round trip = %q, want %q", got, s)
	}
}

func TestRoundTripBMP(t *testing.T) {
	const s = "héllo wörld éè"
	if got := roundTrip(t, s); got != s {
		t.Errorf("round trip = %q, want %q", got, s)
	}
}

// TestRoundTripSupplementaryPlane verifies that a string containing a code
// point outside the BMP round-trips through CESU-8 as a surrogate pair
// split into two 3-byte sequences rather than one 4-byte UTF-8 run.
func TestRoundTripSupplementaryPlane(t *testing.T) {
	const s = "emoji:\U0001F600end"
	if got := roundTrip(t, s); got != s {
		t.Errorf("round trip = %q, want %q", got, s)
	}

	cesu, _, err := transform.Bytes(NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// The supplementary-plane rune must CESU-8 encode to 6 bytes (two
	// 3-byte surrogate halves), not UTF-8's 4-byte form.
	const prefixLen = len("emoji:")
	if RuneLen('\U0001F600') != 6 {
		t.Fatalf("RuneLen() = %d, want 6", RuneLen('\U0001F600'))
	}
	if len(cesu) != prefixLen+6+len("end") {
		t.Errorf("encoded length = %d, want %d", len(cesu), prefixLen+6+len("end"))
	}
}

func TestSize(t *testing.T) {
	s := "a\U0001F600b"
	if got := StringSize(s); got != 1+6+1 {
		t.Errorf("StringSize(%q) = %d, want %d", s, got, 1+6+1)
	}
}
