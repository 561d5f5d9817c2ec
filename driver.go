// Package hdb is a native Go client driver for the SAP HANA SQL wire
// protocol. It implements database/sql/driver directly against the wire
// protocol in internal/protocol rather than wrapping a C client library.
package hdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

func init() {
	sql.Register(DriverName, &sqlDriver{})
}

// DriverName is the name this package registers itself under with
// database/sql.
const DriverName = "hdb"

type sqlDriver struct{}

// Open implements driver.Driver by parsing dsn and connecting immediately.
// Prefer OpenConnector (or sql.OpenDB with a Connector) for configuration
// beyond what a DSN string expresses.
func (d *sqlDriver) Open(dsn string) (driver.Conn, error) {
	c, err := NewDSNConnector(dsn)
	if err != nil {
		return nil, err
	}
	return c.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext.
func (d *sqlDriver) OpenConnector(dsn string) (driver.Connector, error) {
	return NewDSNConnector(dsn)
}

var (
	_ driver.Driver        = (*sqlDriver)(nil)
	_ driver.DriverContext = (*sqlDriver)(nil)
)
