package hdb

import (
	"context"
	"database/sql/driver"
	"io"
	"log/slog"

	"github.com/scramdb/hdb/internal/protocol"
)

// Stmt is a prepared statement handle. Closing it drops the server-side
// handle; the drop is fire-and-forget since by the time Close runs the
// caller has already moved on and a failed drop only leaks a handle the
// session teardown will reclaim anyway.
type Stmt struct {
	c       *Conn
	query   string
	id      protocol.StatementID
	params  *protocol.ParameterMetadata
	results *protocol.ResultMetadata
	closed  bool
}

func newStmt(c *Conn, query string, res *protocol.PrepareResult) *Stmt {
	return &Stmt{c: c, query: query, id: res.StatementID, params: res.ParameterMetadata, results: res.ResultMetadata}
}

// NumInput implements driver.Stmt.
func (s *Stmt) NumInput() int {
	if s.params == nil {
		return 0
	}
	return len(s.params.Fields)
}

// Close implements driver.Stmt.
func (s *Stmt) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	go func() {
		if err := s.c.sess.DropStatementID(context.Background(), s.id); err != nil {
			slog.Warn("hdb: drop statement failed", "statementID", s.id, "error", err)
		}
	}()
	return nil
}

func (s *Stmt) bindRow(args []driver.Value) []any {
	row := make([]any, len(args))
	for i, a := range args {
		row[i] = a
	}
	return row
}

func (s *Stmt) bindRowNamed(args []driver.NamedValue) []any {
	row := make([]any, len(args))
	for i, a := range args {
		row[i] = a.Value
	}
	return row
}

// Exec implements driver.Stmt.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	res, err := s.c.sess.Execute(context.Background(), s.id, s.params, nil, s.bindRow(args), !s.c.inTx, s.c.connector.lobChunkSize)
	if err != nil {
		return nil, wrapError(err)
	}
	return newResult(res), nil
}

// ExecContext implements driver.StmtExecContext.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	var outFields []protocol.FieldMetadata
	if s.results != nil {
		outFields = s.results.Fields
	}
	res, err := s.c.sess.Execute(ctx, s.id, s.params, outFields, s.bindRowNamed(args), !s.c.inTx, s.c.connector.lobChunkSize)
	if err != nil {
		return nil, wrapError(err)
	}
	return newResult(res), nil
}

// Query implements driver.Stmt.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	res, err := s.c.sess.Execute(context.Background(), s.id, s.params, nil, s.bindRow(args), !s.c.inTx, s.c.connector.lobChunkSize)
	if err != nil {
		return nil, wrapError(err)
	}
	return newRows(s.c, res), nil
}

// QueryContext implements driver.StmtQueryContext.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	res, err := s.c.sess.Execute(ctx, s.id, s.params, nil, s.bindRowNamed(args), !s.c.inTx, s.c.connector.lobChunkSize)
	if err != nil {
		return nil, wrapError(err)
	}
	return newRows(s.c, res), nil
}

var (
	_ driver.Stmt             = (*Stmt)(nil)
	_ driver.StmtExecContext  = (*Stmt)(nil)
	_ driver.StmtQueryContext = (*Stmt)(nil)
	_ io.Closer               = (*Stmt)(nil)
)
