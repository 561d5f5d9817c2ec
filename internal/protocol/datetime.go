package protocol

import (
	"time"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// HANA's DATE/TIME wire forms carry calendar fields (big-endian year, month,
// day; hour with the 0x80 bit set, minute, big-endian milliseconds), while
// LONGDATE/SECONDDATE/DAYDATE/SECONDTIME use 100ns-tick or day counts from
// year 1 of the proleptic Gregorian calendar. These offsets are taken from
// the reference driver's conversion tables rather than re-derived, since an
// off-by-one here is invisible until a round-trip test catches it.

func decodeDate(dec *encoding.Decoder) (any, error) {
	y := dec.Uint16ByteOrder(bigEndian)
	m := dec.Byte()
	d := dec.Byte()
	if y == 0 && m == 0 && d == 0 {
		return nil, dec.Error()
	}
	return time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, time.UTC), dec.Error()
}

func encodeDate(enc *encoding.Encoder, v any) error {
	t := v.(time.Time)
	enc.Uint16ByteOrder(uint16(t.Year()), bigEndian)
	enc.Byte(byte(t.Month()))
	enc.Byte(byte(t.Day()))
	return enc.Error()
}

func decodeTime(dec *encoding.Decoder) (any, error) {
	h := dec.Byte() &^ 0x80
	m := dec.Byte()
	s := dec.Uint16ByteOrder(bigEndian)
	return time.Date(1, 1, 1, int(h), int(m), 0, int(s)*1e6, time.UTC), dec.Error()
}

func encodeTime(enc *encoding.Encoder, v any) error {
	t := v.(time.Time)
	enc.Byte(byte(t.Hour()) | 0x80)
	enc.Byte(byte(t.Minute()))
	ms := t.Second()*1000 + t.Nanosecond()/1e6
	enc.Uint16ByteOrder(uint16(ms), bigEndian)
	return enc.Error()
}

func decodeTimestamp(dec *encoding.Decoder) (any, error) {
	dv, err := decodeDate(dec)
	if err != nil || dv == nil {
		return nil, err
	}
	tv, err := decodeTime(dec)
	if err != nil || tv == nil {
		return nil, err
	}
	d := dv.(time.Time)
	t := tv.(time.Time)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
}

func encodeTimestamp(enc *encoding.Encoder, v any) error {
	if err := encodeDate(enc, v); err != nil {
		return err
	}
	return encodeTime(enc, v)
}

// unixEpochSeconds is the number of seconds from 0001-01-01 (the epoch
// LONGDATE/SECONDDATE/DAYDATE count from) to the Unix epoch. It is a plain
// integer calendar constant rather than something derived through
// time.Time.Sub: that ~1969-year span is far outside the ~292 years a
// time.Duration can hold, so Sub silently clamps to its max value instead
// of returning the true difference.
const unixEpochSeconds = 62135596800

// longdateUnixEpochTicks is unixEpochSeconds expressed in the 100ns ticks
// LONGDATE counts in.
const longdateUnixEpochTicks = unixEpochSeconds * 10000000

func decodeLongdate(dec *encoding.Decoder) (any, error) {
	ticks := dec.Int64()
	if ticks == 3155380704000000001 { // documented NULL sentinel for LONGDATE
		return nil, dec.Error()
	}
	ticks-- // HANA ticks are 1-based
	nanos := (ticks - longdateUnixEpochTicks) * 100
	return time.Unix(0, nanos).UTC(), dec.Error()
}

func encodeLongdate(enc *encoding.Encoder, v any) error {
	t := v.(time.Time).UTC()
	ticks := t.UnixNano()/100 + longdateUnixEpochTicks + 1
	enc.Int64(ticks)
	return enc.Error()
}

func decodeSeconddate(dec *encoding.Decoder) (any, error) {
	secs := dec.Int64()
	if secs == 315538070401 {
		return nil, dec.Error()
	}
	secs--
	return time.Unix(secs-unixEpochSeconds, 0).UTC(), dec.Error()
}

func encodeSeconddate(enc *encoding.Encoder, v any) error {
	t := v.(time.Time).UTC()
	secs := t.Unix() + unixEpochSeconds + 1
	enc.Int64(secs)
	return enc.Error()
}

func decodeDaydate(dec *encoding.Decoder) (any, error) {
	days := dec.Int32()
	if days == 3652062 {
		return nil, dec.Error()
	}
	days--
	return daydateEpoch.AddDate(0, 0, int(days)), dec.Error()
}

func encodeDaydate(enc *encoding.Encoder, v any) error {
	t := v.(time.Time).UTC()
	days := int32((t.Unix()+unixEpochSeconds)/secondsPerDay) + 1
	enc.Int32(days)
	return enc.Error()
}

func decodeSecondtime(dec *encoding.Decoder) (any, error) {
	secs := dec.Int32()
	if secs == 86401 { // documented NULL sentinel, one past the 86400 max encodable value
		return nil, dec.Error()
	}
	secs--
	return time.Date(1, 1, 1, 0, 0, int(secs), 0, time.UTC), dec.Error()
}

func encodeSecondtime(enc *encoding.Encoder, v any) error {
	t := v.(time.Time)
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second() + 1
	enc.Int32(int32(secs))
	return enc.Error()
}
