package hdb

import (
	"context"

	"github.com/scramdb/hdb/internal/protocol"
)

// Xid is a JTA/XA global transaction identifier: a format ID plus the
// global transaction ID and branch qualifier byte strings.
type Xid struct {
	FormatID int32
	Gtrid    []byte
	Bqual    []byte
}

func (x Xid) toProtocol() protocol.Xid {
	return protocol.Xid{FormatID: x.FormatID, Gtrid: x.Gtrid, Bqual: x.Bqual}
}

// XA flag values accepted by XAConn's methods, matching the XA
// specification's TM_* constants.
const (
	XAFlagNoFlags = protocol.XaFlagNoFlags
	XAFlagJoin    = protocol.XaFlagJoin
	XAFlagResume  = protocol.XaFlagResume
	XAFlagFail    = protocol.XaFlagFail
)

// XAConn exposes the two-phase-commit operations of a HANA session to an
// external XA transaction manager. Obtain one from a *Conn returned by a
// Connector to drive distributed transactions outside of database/sql's
// own (single-phase) transaction model.
type XAConn struct {
	conn *Conn
}

// NewXAConn wraps c in an XAConn.
func NewXAConn(c *Conn) *XAConn { return &XAConn{conn: c} }

func (x *XAConn) Start(ctx context.Context, xid Xid, flags int32) error {
	return wrapError(x.conn.sess.XAStart(ctx, xid.toProtocol(), flags))
}

func (x *XAConn) End(ctx context.Context, xid Xid, flags int32) error {
	return wrapError(x.conn.sess.XAEnd(ctx, xid.toProtocol(), flags))
}

func (x *XAConn) Prepare(ctx context.Context, xid Xid) error {
	return wrapError(x.conn.sess.XAPrepare(ctx, xid.toProtocol()))
}

func (x *XAConn) Commit(ctx context.Context, xid Xid, onePhase bool) error {
	return wrapError(x.conn.sess.XACommit(ctx, xid.toProtocol(), onePhase))
}

func (x *XAConn) Rollback(ctx context.Context, xid Xid) error {
	return wrapError(x.conn.sess.XARollback(ctx, xid.toProtocol()))
}

func (x *XAConn) Forget(ctx context.Context, xid Xid) error {
	return wrapError(x.conn.sess.XAForget(ctx, xid.toProtocol()))
}

func (x *XAConn) Recover(ctx context.Context) ([]Xid, error) {
	pxids, err := x.conn.sess.XARecover(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	xids := make([]Xid, len(pxids))
	for i, p := range pxids {
		xids[i] = Xid{FormatID: p.FormatID, Gtrid: p.Gtrid, Bqual: p.Bqual}
	}
	return xids, nil
}
