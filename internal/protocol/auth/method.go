package auth

import "fmt"

// Method names as they appear on the wire.
const (
	MethodSCRAMSHA256       = "SCRAMSHA256"
	MethodSCRAMPBKDF2SHA256 = "SCRAMPBKDF2SHA256"
)

// method drives one authentication method through its two-round exchange:
// an initial request/reply that exchanges salt and challenge material,
// then a final request/reply that exchanges proofs.
type method interface {
	name() string
	initRequest() fields
	initReply(f fields) error
	finalRequest() (fields, error)
	finalReply(f fields) error
}

// Negotiator drives the SCRAM handshake across both rounds for a single
// connection attempt, picking the strongest method the server accepts.
type Negotiator struct {
	username string
	password []byte
	methods  []method
	selected method
}

// NewNegotiator builds a Negotiator that will offer every SCRAM method it
// knows for the given username/password, preferring PBKDF2 over plain
// SHA256 since the server picks the first method name it recognizes.
func NewNegotiator(username, password string) *Negotiator {
	return &Negotiator{
		username: username,
		password: []byte(password),
		methods: []method{
			newScramPBKDF2SHA256(username, []byte(password)),
			newScramSHA256(username, []byte(password)),
		},
	}
}

// InitRequest returns the wire payload for the authentication part's first
// round: the username plus, for every candidate method, its name and
// client challenge.
func (n *Negotiator) InitRequest() []byte {
	f := fields{[]byte(n.username)}
	for _, m := range n.methods {
		f = append(f, []byte(m.name()))
		f = append(f, m.initRequest().encode())
	}
	return f.encode()
}

// InitReply consumes the server's response to the first round, selecting
// whichever of our candidate methods the server replied with.
func (n *Negotiator) InitReply(payload []byte) error {
	f, err := decodeFields(payload)
	if err != nil {
		return err
	}
	if len(f) < 2 {
		return fmt.Errorf("auth: malformed init reply")
	}
	name := string(f[0])
	for _, m := range n.methods {
		if m.name() == name {
			sub, err := decodeFields(f[1])
			if err != nil {
				return err
			}
			if err := m.initReply(sub); err != nil {
				return err
			}
			n.selected = m
			return nil
		}
	}
	return fmt.Errorf("auth: server selected unsupported method %q", name)
}

// FinalRequest returns the wire payload for the authentication part's
// second round: the username, the selected method's name, and its proof.
func (n *Negotiator) FinalRequest() ([]byte, error) {
	if n.selected == nil {
		return nil, fmt.Errorf("auth: no method selected")
	}
	sub, err := n.selected.finalRequest()
	if err != nil {
		return nil, err
	}
	f := fields{[]byte(n.username), []byte(n.selected.name()), sub.encode()}
	return f.encode(), nil
}

// FinalReply validates the server's proof that it also knows the
// password, completing mutual authentication.
func (n *Negotiator) FinalReply(payload []byte) error {
	if n.selected == nil {
		return fmt.Errorf("auth: no method selected")
	}
	f, err := decodeFields(payload)
	if err != nil {
		return err
	}
	if len(f) < 2 {
		return fmt.Errorf("auth: malformed final reply")
	}
	sub, err := decodeFields(f[1])
	if err != nil {
		return err
	}
	return n.selected.finalReply(sub)
}
