package hdb

import (
	"bytes"
	"context"
	"database/sql/driver"
	"io"

	"github.com/scramdb/hdb/internal/protocol"
)

// Lob is a database/sql scan target for CLOB/NCLOB/BLOB/TEXT columns. It
// streams its content from the server in bounded chunks via ReadLob rather
// than buffering the whole value, so scanning a Lob column never pulls
// more than one chunk into memory at a time until the caller reads it all.
type Lob struct {
	sess      *protocol.Session
	descr     *protocol.LobDescr
	chunkSize int32

	buf    bytes.Buffer
	offset int64
	done   bool
}

func newLob(sess *protocol.Session, descr *protocol.LobDescr, chunkSize int32) *Lob {
	l := &Lob{sess: sess, descr: descr, chunkSize: chunkSize}
	if descr.B != nil {
		l.buf.Write(descr.B)
		l.offset = int64(len(descr.B))
	}
	l.done = descr.IsLastData()
	return l
}

// Read implements io.Reader, fetching additional chunks from the server as
// the buffered prefix is exhausted.
func (l *Lob) Read(p []byte) (int, error) {
	for l.buf.Len() == 0 {
		if l.done {
			return 0, io.EOF
		}
		if err := l.fetch(); err != nil {
			return 0, err
		}
	}
	return l.buf.Read(p)
}

func (l *Lob) fetch() error {
	reply, err := l.sess.ReadLob(context.Background(), l.descr.ID, l.offset, l.chunkSize)
	if err != nil {
		return wrapError(err)
	}
	l.buf.Write(reply.B)
	l.offset += int64(len(reply.B))
	if reply.IsLastData() || len(reply.B) == 0 {
		l.done = true
	}
	return nil
}

// Bytes reads the Lob's entire content into memory and returns it.
func (l *Lob) Bytes() ([]byte, error) { return io.ReadAll(l) }

// String reads the Lob's entire content and returns it as a string; it is
// only meaningful for character-based (CLOB/NCLOB/TEXT) LOBs.
func (l *Lob) String() (string, error) {
	b, err := l.Bytes()
	return string(b), err
}

// Value implements driver.Valuer so a Lob can be used directly as a bind
// parameter, reading it to completion and sending it as BLOB/CLOB data.
func (l *Lob) Value() (driver.Value, error) { return l.Bytes() }
