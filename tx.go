package hdb

import "context"

// tx implements driver.Tx. HANA has no explicit transaction handle; commit
// and rollback are Commit/Rollback requests sent over the owning connection, after
// which auto-commit resumes for subsequent statements.
type tx struct {
	c *Conn
}

func (t *tx) Commit() error {
	t.c.inTx = false
	return wrapError(t.c.sess.Commit(context.Background()))
}

func (t *tx) Rollback() error {
	t.c.inTx = false
	return wrapError(t.c.sess.Rollback(context.Background()))
}
