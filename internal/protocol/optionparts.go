package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

// ConnectOptions negotiates session-wide behavior during the connect
// handshake (data format version, locale, distribution mode, ...).
type ConnectOptions struct{ options }

func (*ConnectOptions) Kind() PartKind { return PkConnectOptions }

func decodeConnectOptions(dec *encoding.Decoder, numArg int) (*ConnectOptions, error) {
	o, err := decodeOptions(dec, numArg)
	return &ConnectOptions{o}, err
}

func (c *ConnectOptions) encode(enc *encoding.Encoder) error { return c.options.encode(enc) }

// DataFormatVersion2 returns the negotiated data format version, or 0 if
// the server didn't echo one.
func (c *ConnectOptions) DataFormatVersion2() int32 {
	if v, ok := c.options[coDataFormatVersion2].(int32); ok {
		return v
	}
	return 0
}

// ClientContext announces the client library's identity to the server.
type ClientContext struct{ options }

func (*ClientContext) Kind() PartKind { return PkClientContext }

func (c *ClientContext) encode(enc *encoding.Encoder) error { return c.options.encode(enc) }

func newClientContext(version, clientType, application string) *ClientContext {
	return &ClientContext{options{
		ccoClientVersion:            version,
		ccoClientType:               clientType,
		ccoClientApplicationProgram: application,
	}}
}

// TransactionFlags reports transaction state changes (commit, rollback,
// isolation level change) that occurred while processing a request.
type TransactionFlags struct{ options }

func (*TransactionFlags) Kind() PartKind { return PkTransactionFlags }

func decodeTransactionFlags(dec *encoding.Decoder, numArg int) (*TransactionFlags, error) {
	o, err := decodeOptions(dec, numArg)
	return &TransactionFlags{o}, err
}

// Committed reports whether the server committed the transaction.
func (t *TransactionFlags) Committed() bool {
	v, _ := t.options[tfCommitted].(bool)
	return v
}

// RolledBack reports whether the server rolled back the transaction.
func (t *TransactionFlags) RolledBack() bool {
	v, _ := t.options[tfRolledBack].(bool)
	return v
}

// StatementContext carries server-side statement bookkeeping (sequence
// info used to correlate per-statement errors in a batch, timing stats).
type StatementContext struct{ options }

func (*StatementContext) Kind() PartKind { return PkStatementContext }

func decodeStatementContext(dec *encoding.Decoder, numArg int) (*StatementContext, error) {
	o, err := decodeOptions(dec, numArg)
	return &StatementContext{o}, err
}

// SessionContext carries server-assigned session bookkeeping echoed back on
// replies after authentication (nothing beyond acknowledgement is required
// of the client today, but unknown keys are preserved like any options bag).
type SessionContext struct{ options }

func (*SessionContext) Kind() PartKind { return PkSessionContext }

func decodeSessionContext(dec *encoding.Decoder, numArg int) (*SessionContext, error) {
	o, err := decodeOptions(dec, numArg)
	return &SessionContext{o}, err
}

// DBConnectInfo answers an MDC tenant database lookup with host/port/name.
type DBConnectInfo struct{ options }

func (*DBConnectInfo) Kind() PartKind { return PkDBConnectInfo }

func decodeDBConnectInfo(dec *encoding.Decoder, numArg int) (*DBConnectInfo, error) {
	o, err := decodeOptions(dec, numArg)
	return &DBConnectInfo{o}, err
}

func (c *DBConnectInfo) encode(enc *encoding.Encoder) error { return c.options.encode(enc) }

// IsConnected reports whether the queried database is already the one this
// physical connection is attached to.
func (c *DBConnectInfo) IsConnected() bool {
	v, _ := c.options[ciIsConnected].(bool)
	return v
}

// Host and Port return the redirect target for the tenant database.
func (c *DBConnectInfo) Host() string {
	s, _ := c.options[ciHost].(string)
	return s
}
func (c *DBConnectInfo) Port() int32 {
	v, _ := c.options[ciPort].(int32)
	return v
}

func newDBConnectInfo(databaseName string) *DBConnectInfo {
	return &DBConnectInfo{options{ciDatabaseName: databaseName}}
}

// TopologyInformation reports the cluster's volume/host topology; the
// client only needs to acknowledge and discard it.
type TopologyInformation struct{ options }

func (*TopologyInformation) Kind() PartKind { return PkTopologyInformation }

func decodeTopologyInformation(dec *encoding.Decoder, numArg int) (*TopologyInformation, error) {
	o, err := decodeOptions(dec, numArg)
	return &TopologyInformation{o}, err
}
