package protocol

import (
	"bytes"
	"testing"
	"time"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// TestDecodeSecondtimeNull covers the SECONDTIME NULL sentinel: the wire
// value one past the true max encodable second-of-day (86400) must decode
// to nil rather than falling through and normalizing into a bogus time.
func TestDecodeSecondtimeNull(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	enc.Int32(86401)
	if err := enc.Error(); err != nil {
		t.Fatalf("encoder error: %v", err)
	}

	dec := encoding.NewDecoder(buf, nil)
	got, err := decodeSecondtime(dec)
	if err != nil {
		t.Fatalf("decodeSecondtime: %v", err)
	}
	if got != nil {
		t.Errorf("decodeSecondtime(86401) = %#v, want nil", got)
	}
}

// TestSecondtimeRoundTripsMaxValue checks the true max encodable
// second-of-day, 23:59:59, round-trips without being mistaken for NULL.
func TestSecondtimeRoundTripsMaxValue(t *testing.T) {
	tm := time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)

	buf := &bytes.Buffer{}
	enc := encoding.NewEncoder(buf, nil)
	if err := encodeSecondtime(enc, tm); err != nil {
		t.Fatalf("encodeSecondtime: %v", err)
	}

	dec := encoding.NewDecoder(buf, nil)
	got, err := decodeSecondtime(dec)
	if err != nil {
		t.Fatalf("decodeSecondtime: %v", err)
	}
	gt, ok := got.(time.Time)
	if !ok || !gt.Equal(tm) {
		t.Errorf("got %#v, want %#v", got, tm)
	}
}

// modernDates covers recent, present and near-future timestamps - the
// range where the epoch-since-year-1 span (~2000 years) is far outside
// what a time.Duration can represent, so any accidental use of
// time.Time.Sub/Add instead of plain Unix-second arithmetic would clamp
// to a fixed wrong value for every one of these.
var modernDates = []time.Time{
	time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC),
	time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
}

// TestLongdateRoundTripsModernDates covers LONGDATE encode/decode for
// dates far from year 1, where a Duration-based epoch offset silently
// clamps instead of producing the right tick count.
func TestLongdateRoundTripsModernDates(t *testing.T) {
	for _, tm := range modernDates {
		buf := &bytes.Buffer{}
		enc := encoding.NewEncoder(buf, nil)
		if err := encodeLongdate(enc, tm); err != nil {
			t.Fatalf("encodeLongdate(%v): %v", tm, err)
		}
		dec := encoding.NewDecoder(buf, nil)
		got, err := decodeLongdate(dec)
		if err != nil {
			t.Fatalf("decodeLongdate(%v): %v", tm, err)
		}
		gt, ok := got.(time.Time)
		if !ok || !gt.Equal(tm) {
			t.Errorf("round trip %v: got %#v", tm, got)
		}
	}
}

// TestSeconddateRoundTripsModernDates covers SECONDDATE encode/decode for
// dates far from year 1.
func TestSeconddateRoundTripsModernDates(t *testing.T) {
	for _, tm := range modernDates {
		tm = tm.Truncate(time.Second)
		buf := &bytes.Buffer{}
		enc := encoding.NewEncoder(buf, nil)
		if err := encodeSeconddate(enc, tm); err != nil {
			t.Fatalf("encodeSeconddate(%v): %v", tm, err)
		}
		dec := encoding.NewDecoder(buf, nil)
		got, err := decodeSeconddate(dec)
		if err != nil {
			t.Fatalf("decodeSeconddate(%v): %v", tm, err)
		}
		gt, ok := got.(time.Time)
		if !ok || !gt.Equal(tm) {
			t.Errorf("round trip %v: got %#v", tm, got)
		}
	}
}

// TestDaydateRoundTripsModernDates covers DAYDATE encode/decode for dates
// far from year 1.
func TestDaydateRoundTripsModernDates(t *testing.T) {
	for _, tm := range modernDates {
		day := time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC)
		buf := &bytes.Buffer{}
		enc := encoding.NewEncoder(buf, nil)
		if err := encodeDaydate(enc, day); err != nil {
			t.Fatalf("encodeDaydate(%v): %v", day, err)
		}
		dec := encoding.NewDecoder(buf, nil)
		got, err := decodeDaydate(dec)
		if err != nil {
			t.Fatalf("decodeDaydate(%v): %v", day, err)
		}
		gt, ok := got.(time.Time)
		if !ok || !gt.Equal(day) {
			t.Errorf("round trip %v: got %#v", day, got)
		}
	}
}
