package hdb

import (
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/scramdb/hdb/internal/protocol"
)

// TestToDriverValuePassesScalarsThrough checks the scalar kinds
// database/sql/driver.Value already accepts are returned unmodified.
func TestToDriverValuePassesScalarsThrough(t *testing.T) {
	r := &Rows{}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []any{nil, true, int64(42), 3.5, "text", []byte{1, 2, 3}, now}
	for _, in := range tests {
		got := r.toDriverValue(in)
		if !reflect.DeepEqual(got, in) {
			t.Errorf("toDriverValue(%#v) = %#v, want unchanged", in, got)
		}
	}
}

// TestToDriverValueStringifiesDecimal checks DECIMAL/FIXED columns surface
// as their canonical string form rather than the internal Decimal type,
// since database/sql callers expect Scan targets like string or
// sql.NullString to work without importing this driver's internal types.
func TestToDriverValueStringifiesDecimal(t *testing.T) {
	r := &Rows{}
	d := protocol.Decimal{Mantissa: big.NewInt(125), Exp: -2}
	got := r.toDriverValue(d)
	want := d.String()
	if got != want {
		t.Errorf("toDriverValue(Decimal) = %#v, want %q", got, want)
	}
}

// TestScanTypeMapsLobColumns checks LOB-bearing type codes scan into the
// driver's own Lob reader type rather than a plain byte slice, since LOB
// content is streamed rather than buffered whole.
func TestScanTypeMapsLobColumns(t *testing.T) {
	for _, tc := range []protocol.TypeCode{protocol.TcClob, protocol.TcNclob, protocol.TcBlob} {
		got := scanType(tc)
		want := reflect.TypeOf(Lob{})
		if got != want {
			t.Errorf("scanType(%v) = %v, want %v", tc, got, want)
		}
	}
}

// TestScanTypeMapsNumericColumns checks the non-decimal numeric, temporal and
// binary type codes map to the Go types Scan/Value callers for this driver will actually see.
func TestScanTypeMapsNumericColumns(t *testing.T) {
	tests := []struct {
		tc   protocol.TypeCode
		want reflect.Type
	}{
		{protocol.TcInteger, reflect.TypeOf(int64(0))},
		{protocol.TcBigint, reflect.TypeOf(int64(0))},
		{protocol.TcDouble, reflect.TypeOf(float64(0))},
		{protocol.TcBoolean, reflect.TypeOf(false)},
		{protocol.TcLongdate, reflect.TypeOf(time.Time{})},
		{protocol.TcBinary, reflect.TypeOf([]byte{})},
	}
	for _, tt := range tests {
		got := scanType(tt.tc)
		if got != tt.want {
			t.Errorf("scanType(%v) = %v, want %v", tt.tc, got, tt.want)
		}
	}
}

// TestColumnsReturnsFieldNamesInOrder checks Columns reports names in the
// same order FieldMetadata carries them, since database/sql matches Scan
// destinations to this slice positionally.
func TestColumnsReturnsFieldNamesInOrder(t *testing.T) {
	r := &Rows{fields: []protocol.FieldMetadata{
		{Name: "id"},
		{Name: "name"},
		{Name: "created_at"},
	}}
	got := r.Columns()
	want := []string{"id", "name", "created_at"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}
