package protocol

import "github.com/scramdb/hdb/internal/protocol/encoding"

// ClientInfo carries client-supplied session variables (application name,
// user, etc.) as CESU-8 key/value pairs, sent ahead of the first
// command/parameters part on message types that support it.
type ClientInfo struct {
	Vars map[string]string
}

func (*ClientInfo) Kind() PartKind { return PkClientInfo }

func (c *ClientInfo) numArg() int { return len(c.Vars) }

func (c *ClientInfo) encode(enc *encoding.Encoder) error {
	for k, v := range c.Vars {
		enc.CESU8Bytes([]byte(k))
		enc.Byte(clientInfoSeparator)
		enc.CESU8Bytes([]byte(v))
		enc.Byte(0)
	}
	return enc.Error()
}
