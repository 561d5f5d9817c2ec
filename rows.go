package hdb

import (
	"context"
	"database/sql/driver"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/scramdb/hdb/internal/protocol"
)

// Rows streams a result set, fetching additional batches lazily from the
// server as the consumer advances past what's already buffered.
type Rows struct {
	c             *Conn
	fields        []protocol.FieldMetadata
	id            protocol.ResultsetID
	hasMore       bool
	resultsetDone bool
	rows          [][]any
	pos           int
	closed        bool
}

func newRows(c *Conn, res *protocol.ExecuteResult) *Rows {
	r := &Rows{c: c, fields: res.ResultFields}
	if res.Resultset != nil {
		r.rows = res.Resultset.Rows
		r.resultsetDone = res.Resultset.Attrs.ResultsetClosed()
		r.id = res.ResultsetID
		r.hasMore = !res.Resultset.Attrs.LastPacket()
	}
	return r
}

// Columns implements driver.Rows.
func (r *Rows) Columns() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Close implements driver.Rows. Closing before the server-side cursor is
// exhausted drops it fire-and-forget, the same tradeoff Stmt.Close makes;
// a cursor the server already reported closed is left alone rather than
// sent a redundant CloseResultset.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.id != 0 && !r.resultsetDone {
		go func() {
			if err := r.c.sess.CloseResultset(context.Background(), r.id); err != nil {
				slog.Warn("hdb: close result set failed", "resultsetID", r.id, "error", err)
			}
		}()
	}
	return nil
}

// Next implements driver.Rows.
func (r *Rows) Next(dest []driver.Value) error {
	for r.pos >= len(r.rows) {
		if !r.hasMore {
			return io.EOF
		}
		if err := r.fetchMore(); err != nil {
			return err
		}
	}
	row := r.rows[r.pos]
	r.pos++
	for i, v := range row {
		dest[i] = r.toDriverValue(v)
	}
	return nil
}

func (r *Rows) fetchMore() error {
	rs, err := r.c.sess.FetchNext(context.Background(), r.id, r.fields, int32(r.c.connector.fetchSize))
	if err != nil {
		return wrapError(err)
	}
	r.rows = rs.Rows
	r.pos = 0
	r.resultsetDone = rs.Attrs.ResultsetClosed()
	r.hasMore = !rs.Attrs.LastPacket()
	if len(rs.Rows) == 0 && !r.hasMore {
		return io.EOF
	}
	return nil
}

func (r *Rows) toDriverValue(v any) driver.Value {
	switch x := v.(type) {
	case nil, bool, int64, float64, string, []byte, time.Time:
		return x
	case protocol.Decimal:
		return x.String()
	case *protocol.LobDescr:
		return newLob(r.c.sess, x, r.c.connector.lobChunkSize)
	}
	return v
}

// ColumnTypeDatabaseTypeName implements driver.RowsColumnTypeDatabaseTypeName.
func (r *Rows) ColumnTypeDatabaseTypeName(index int) string {
	return r.fields[index].TypeCode.String()
}

// ColumnTypeNullable implements driver.RowsColumnTypeNullable.
func (r *Rows) ColumnTypeNullable(index int) (nullable, ok bool) {
	return r.fields[index].Nullable(), true
}

// ColumnTypeScanType implements driver.RowsColumnTypeScanType.
func (r *Rows) ColumnTypeScanType(index int) reflect.Type {
	return scanType(r.fields[index].TypeCode)
}

func scanType(tc protocol.TypeCode) reflect.Type {
	switch {
	case tc.IsLob():
		return reflect.TypeOf(Lob{})
	case tc.IsDecimalType():
		return reflect.TypeOf("")
	}
	switch tc {
	case protocol.TcBoolean:
		return reflect.TypeOf(false)
	case protocol.TcTinyint, protocol.TcSmallint, protocol.TcInteger, protocol.TcBigint:
		return reflect.TypeOf(int64(0))
	case protocol.TcReal, protocol.TcDouble:
		return reflect.TypeOf(float64(0))
	case protocol.TcDate, protocol.TcTime, protocol.TcTimestamp, protocol.TcLongdate,
		protocol.TcSeconddate, protocol.TcDaydate, protocol.TcSecondtime:
		return reflect.TypeOf(time.Time{})
	case protocol.TcBinary, protocol.TcVarbinary, protocol.TcBstring:
		return reflect.TypeOf([]byte{})
	}
	return reflect.TypeOf("")
}

var (
	_ driver.Rows                           = (*Rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*Rows)(nil)
	_ driver.RowsColumnTypeNullable         = (*Rows)(nil)
	_ driver.RowsColumnTypeScanType         = (*Rows)(nil)
)
