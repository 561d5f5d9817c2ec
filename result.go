package hdb

import "github.com/scramdb/hdb/internal/protocol"

// result implements driver.Result for a completed Exec.
type result struct {
	affected int64
}

func newResult(r *protocol.ExecuteResult) *result {
	if r.RowsAffected == nil {
		return &result{}
	}
	return &result{affected: r.RowsAffected.Total()}
}

func (r *result) LastInsertId() (int64, error) { return 0, errNoLastInsertID }
func (r *result) RowsAffected() (int64, error)  { return r.affected, nil }

var errNoLastInsertID = &unsupportedError{"LastInsertId"}

type unsupportedError struct{ op string }

func (e *unsupportedError) Error() string { return "hdb: " + e.op + " is not supported" }
