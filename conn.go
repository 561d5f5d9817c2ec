package hdb

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/scramdb/hdb/internal/protocol"
)

// isolationLevel maps database/sql's driver.IsolationLevel constants (which
// this driver treats as the stdlib's default numeric LevelXxx values) to
// the SQL keywords HANA's SET TRANSACTION ISOLATION LEVEL expects.
var isolationLevel = map[driver.IsolationLevel]string{
	0: "READ COMMITTED",
	2: "READ COMMITTED",
	4: "REPEATABLE READ",
	6: "SERIALIZABLE",
}

// ErrUnsupportedIsolationLevel is returned when BeginTx is asked for an
// isolation level HANA cannot express.
var ErrUnsupportedIsolationLevel = errors.New("hdb: unsupported isolation level")

// ErrNestedTransaction is returned by BeginTx when a transaction is already
// open on this connection; HANA sessions have exactly one transaction.
var ErrNestedTransaction = errors.New("hdb: nested transactions are not supported")

const pingQuery = "select 1 from dummy"

// Conn is one physical connection to a HANA session, implementing
// database/sql/driver's full optional interface set so database/sql can
// drive it efficiently (context cancellation, batched exec/query, typed
// parameter passthrough, session reuse across pool checkouts).
type Conn struct {
	sess      *protocol.Session
	connector *Connector
	inTx      bool
}

func newConn(sess *protocol.Session, c *Connector) *Conn {
	return &Conn{sess: sess, connector: c}
}

// Prepare implements driver.Conn.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext.
func (c *Conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	res, err := c.sess.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return newStmt(c, query, res), nil
}

// Close implements driver.Conn.
func (c *Conn) Close() error { return c.sess.Close() }

// Begin implements driver.Conn.
func (c *Conn) Begin() (driver.Tx, error) { return c.BeginTx(context.Background(), driver.TxOptions{}) }

// BeginTx implements driver.ConnBeginTx. HANA has no explicit BEGIN;
// transactions start implicitly with the first statement and are scoped by
// disabling auto-commit for the duration of the driver.Tx.
func (c *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if c.inTx {
		return nil, ErrNestedTransaction
	}
	level, ok := isolationLevel[opts.Isolation]
	if !ok {
		return nil, ErrUnsupportedIsolationLevel
	}
	if level != "READ COMMITTED" {
		if _, err := c.sess.ExecuteDirect(ctx, "SET TRANSACTION ISOLATION LEVEL "+level, 0, false); err != nil {
			return nil, err
		}
	}
	if opts.ReadOnly {
		if _, err := c.sess.ExecuteDirect(ctx, "SET TRANSACTION READ ONLY", 0, false); err != nil {
			return nil, err
		}
	}
	c.inTx = true
	return &tx{c: c}, nil
}

// Ping implements driver.Pinger.
func (c *Conn) Ping(ctx context.Context) error {
	_, err := c.sess.ExecuteDirect(ctx, pingQuery, 1, true)
	return err
}

// ResetSession implements driver.SessionResetter: it rejects a broken
// connection so the pool discards it instead of handing it out again.
func (c *Conn) ResetSession(ctx context.Context) error {
	if err := c.sess.Broken(); err != nil {
		return driver.ErrBadConn
	}
	c.inTx = false
	return nil
}

// IsValid implements driver.Validator.
func (c *Conn) IsValid() bool { return c.sess.Broken() == nil }

// CallCount reports the number of request/reply round trips this
// connection's session has sent so far.
func (c *Conn) CallCount() uint64 { return c.sess.CallCount() }

// ServerUsage reports the cumulative server processing time, CPU time and
// memory this connection's session has caused, per StatementContext
// replies.
func (c *Conn) ServerUsage() protocol.ServerUsage { return c.sess.ServerUsage() }

// Spawn opens a new, independent Connection to the same endpoint with the
// same credentials. It is the only supported way to obtain a sibling
// session: the driver never implicitly reconnects a broken one.
func (c *Conn) Spawn(ctx context.Context) (*Conn, error) {
	drvConn, err := c.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return drvConn.(*Conn), nil
}

// ExecContext implements driver.ExecerContext, executing without the
// overhead of a separate Prepare round trip when there are no unnamed
// bind parameters `database/sql` couldn't push down via NamedValueChecker.
func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if len(args) == 0 {
		res, err := c.sess.ExecuteDirect(ctx, query, 0, !c.inTx)
		if err != nil {
			return nil, err
		}
		return newResult(res), nil
	}
	return nil, driver.ErrSkip
}

// QueryContext implements driver.QueryerContext, mirroring ExecContext's
// fast path for parameter-free queries.
func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if len(args) == 0 {
		res, err := c.sess.ExecuteDirect(ctx, query, int32(c.connector.fetchSize), !c.inTx)
		if err != nil {
			return nil, err
		}
		return newRows(c, res), nil
	}
	return nil, driver.ErrSkip
}

// CheckNamedValue implements driver.NamedValueChecker, accepting the value
// types value.go's typed-value codec understands and letting database/sql
// fall back to its default conversion for everything else.
func (c *Conn) CheckNamedValue(nv *driver.NamedValue) error {
	switch nv.Value.(type) {
	case nil, bool, int64, float64, string, []byte:
		return nil
	}
	return driver.ErrSkip
}

var (
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.Pinger             = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.ExecerContext      = (*Conn)(nil)
	_ driver.QueryerContext     = (*Conn)(nil)
	_ driver.NamedValueChecker  = (*Conn)(nil)
	_ driver.SessionResetter    = (*Conn)(nil)
	_ driver.Validator          = (*Conn)(nil)
)

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var herrs *protocol.HdbErrors
	if errors.As(err, &herrs) {
		return fmt.Errorf("hdb: %w", herrs)
	}
	return err
}
