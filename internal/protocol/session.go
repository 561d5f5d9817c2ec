package protocol

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/scramdb/hdb/internal/protocol/auth"
	"github.com/scramdb/hdb/internal/protocol/encoding"
	"github.com/scramdb/hdb/internal/unicode/cesu8"
)

// Config describes how to dial and authenticate a session.
type Config struct {
	Host     string
	Username string
	Password string
	Locale   string

	// DatabaseName, if set, requests a tenant database lookup against Host
	// (taken as a system-database endpoint) before authenticating; Dial
	// follows at most one resulting redirect to the tenant's own host:port.
	DatabaseName string

	Dfv int32

	TLSConfig *tls.Config

	DialTimeout time.Duration
}

// Session owns one physical connection to a HANA tenant: the framed
// request/reply exchange, negotiated server options and the current
// transaction state. Exchange serializes round trips on the Session's own
// mutex, held for the whole request/reply.
type Session struct {
	cfg Config

	conn net.Conn
	bw   *bufio.Writer
	br   *bufio.Reader

	w *Writer
	r *Reader

	mu              sync.Mutex
	sessionID       int64
	packetSeq       int32
	serverOptions   *ConnectOptions
	inTransaction   bool
	broken          error

	callCount            uint64
	usage                ServerUsage
	statementSequenceInfo []byte
	transactionFlags     *TransactionFlags
}

// ServerUsage accumulates the server-side cost of processing requests on a
// Session, as reported in StatementContext reply parts.
type ServerUsage struct {
	ProcessingTime time.Duration
	CPUTime        time.Duration
	MemorySize     int64
}

func (u *ServerUsage) add(processingTimeUs, cpuTimeUs int64, memSize int64) {
	u.ProcessingTime += time.Duration(processingTimeUs) * time.Microsecond
	u.CPUTime += time.Duration(cpuTimeUs) * time.Microsecond
	u.MemorySize += memSize
}

// CallCount returns the number of request/reply round trips sent on this
// Session so far.
func (s *Session) CallCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

// ServerUsage returns the cumulative server processing time, CPU time and
// memory usage this Session has caused, as reported by StatementContext
// parts on replies.
func (s *Session) ServerUsage() ServerUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// StatementSequenceInfo returns the opaque bytes the server last attached
// to enforce per-statement ordering; it must be echoed on related requests.
func (s *Session) StatementSequenceInfo() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statementSequenceInfo
}

// Dial opens a TCP (optionally TLS) connection to cfg.Host and runs the
// protocol handshake: version exchange, connect options and SCRAM
// authentication.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	s, err := dialOnce(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseName != "" {
		redirectHost, err := s.lookupTenant(ctx, cfg.DatabaseName)
		if err != nil {
			s.conn.Close()
			return nil, err
		}
		if redirectHost != "" {
			s.conn.Close()
			// Only one hop is followed: the tenant lookup itself is only
			// meaningful against a system-database endpoint, so a second
			// redirect would indicate a misconfigured or looping server.
			redirCfg := cfg
			redirCfg.Host = redirectHost
			redirCfg.DatabaseName = ""
			return dialOnce(ctx, redirCfg)
		}
	}
	return s, nil
}

func dialOnce(ctx context.Context, cfg Config) (*Session, error) {
	d := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.Host)
	if err != nil {
		return nil, err
	}
	if cfg.TLSConfig != nil {
		conn = tls.Client(conn, cfg.TLSConfig)
	}

	s := &Session{
		cfg:  cfg,
		conn: conn,
		bw:   bufio.NewWriter(conn),
		br:   bufio.NewReader(conn),
	}
	s.w = NewWriter(s.bw, cesu8.NewEncoder)
	s.r = NewReader(encoding.NewDecoder(s.br, nil), cesu8.NewDecoder)

	if err := s.w.WriteProlog(); err != nil {
		conn.Close()
		return nil, err
	}
	// The server echoes the same 8-byte handshake form back; its contents
	// (negotiated protocol version) aren't renegotiated further so we only
	// need to consume them before the framed exchange begins.
	echo := make([]byte, 8)
	if _, err := ioReadFull(s.br, echo); err != nil {
		conn.Close()
		return nil, err
	}

	if err := s.authenticate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// lookupTenant asks a system-database endpoint for the host:port of the
// named tenant database. It returns "" when the session is already
// connected to that tenant directly, so the caller should keep using it.
func (s *Session) lookupTenant(ctx context.Context, databaseName string) (string, error) {
	info := newDBConnectInfo(databaseName)
	seg := NewSegment(MtDBConnectInfo)
	seg.AddPart(PkDBConnectInfo, info.numArg(), info.encode)
	reply, err := s.Exchange(ctx, seg)
	if err != nil {
		return "", err
	}
	for _, rs := range reply {
		for _, p := range rs.Parts {
			if p.Kind == PkDBConnectInfo {
				got, err := decodeDBConnectInfo(p.Dec, p.NumArg)
				if err != nil {
					return "", err
				}
				if got.IsConnected() {
					return "", nil
				}
				return fmt.Sprintf("%s:%d", got.Host(), got.Port()), nil
			}
		}
	}
	return "", nil
}

func ioReadFull(r interface{ Read([]byte) (int, error) }, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Close shuts down the session after sending a best-effort disconnect.
func (s *Session) Close() error {
	seg := NewSegment(MtDisconnect)
	if err := s.w.Write(s.sessionID, s.nextSeq(), seg); err != nil {
		slog.Warn("hdb: disconnect notification failed", "sessionID", s.sessionID, "error", err)
	}
	return s.conn.Close()
}

// Broken reports the error that poisoned this session, if any. Once
// broken, a Session must be discarded rather than reused.
func (s *Session) Broken() error { return s.broken }

func (s *Session) markBroken(err error) error {
	if err != nil {
		s.broken = err
	}
	return err
}

func (s *Session) nextSeq() int32 {
	s.packetSeq++
	return s.packetSeq
}

// authenticate drives the two-round SCRAM exchange and then exchanges
// connect options, mirroring the reference client's four-message dance:
// ClientContext+Authentication -> Authentication reply -> Authentication+
// ClientID+ConnectOptions -> Authentication+ConnectOptions reply.
func (s *Session) authenticate(ctx context.Context) error {
	neg := auth.NewNegotiator(s.cfg.Username, s.cfg.Password)

	seg := NewSegment(MtAuthenticate)
	seg.AddPart(PkClientContext, newClientContext("1.0", "hdb", "").numArg(), newClientContext("1.0", "hdb", "").encode)
	initPayload := neg.InitRequest()
	seg.AddPart(PkAuthentication, 1, (&Authentication{Payload: initPayload}).encode)
	if err := s.send(ctx, seg); err != nil {
		return s.markBroken(err)
	}
	reply, err := s.recv(ctx)
	if err != nil {
		return s.markBroken(err)
	}
	authPart, err := findAuthentication(reply)
	if err != nil {
		return s.markBroken(err)
	}
	if err := neg.InitReply(authPart.Payload); err != nil {
		return s.markBroken(err)
	}

	finalPayload, err := neg.FinalRequest()
	if err != nil {
		return s.markBroken(err)
	}

	opts := defaultClientOptions(s.cfg.Dfv, s.cfg.Locale)
	seg2 := NewSegment(MtConnect)
	seg2.AddPart(PkAuthentication, 1, (&Authentication{Payload: finalPayload}).encode)
	seg2.AddPart(PkClientID, 1, ClientID(clientIdentity()).encode)
	seg2.AddPart(PkConnectOptions, opts.numArg(), (&ConnectOptions{opts}).encode)
	if err := s.send(ctx, seg2); err != nil {
		return s.markBroken(err)
	}
	reply2, err := s.recv(ctx)
	if err != nil {
		return s.markBroken(err)
	}
	authPart2, err := findAuthentication(reply2)
	if err != nil {
		return s.markBroken(err)
	}
	if err := neg.FinalReply(authPart2.Payload); err != nil {
		return s.markBroken(err)
	}

	for _, seg := range reply2 {
		for _, p := range seg.Parts {
			if p.Kind == PkConnectOptions {
				co, err := decodeConnectOptions(p.Dec, p.NumArg)
				if err != nil {
					return s.markBroken(err)
				}
				s.serverOptions = co
			}
		}
	}
	return nil
}

func findAuthentication(segments []ReplySegment) (*Authentication, error) {
	for _, seg := range segments {
		for _, p := range seg.Parts {
			if p.Kind == PkAuthentication {
				return decodeAuthentication(p.Dec)
			}
		}
	}
	return nil, fmt.Errorf("protocol: reply missing authentication part")
}

func clientIdentity() string {
	host, _ := osHostname()
	return fmt.Sprintf("%d@%s", osPid(), host)
}

// send frames and writes seg using the session's current session ID.
func (s *Session) send(ctx context.Context, segs ...*SegmentBuilder) error {
	if dl, ok := ctx.Deadline(); ok {
		s.conn.SetWriteDeadline(dl)
	} else {
		s.conn.SetWriteDeadline(time.Time{})
	}
	return s.w.Write(s.sessionID, s.nextSeq(), segs...)
}

// recv reads one reply message and updates the session ID the server
// assigned (only meaningful on the very first reply).
func (s *Session) recv(ctx context.Context) ([]ReplySegment, error) {
	if dl, ok := ctx.Deadline(); ok {
		s.conn.SetReadDeadline(dl)
	} else {
		s.conn.SetReadDeadline(time.Time{})
	}
	sessionID, _, segs, err := s.r.ReadReply()
	if err != nil {
		return nil, s.markBroken(err)
	}
	s.callCount++
	if s.sessionID == 0 {
		s.sessionID = sessionID
	}
	for _, seg := range segs {
		for _, p := range seg.Parts {
			switch p.Kind {
			case PkStatementContext:
				sc, err := decodeStatementContext(p.Dec, p.NumArg)
				if err != nil {
					return nil, s.markBroken(err)
				}
				s.trackStatementContext(sc)
			case PkTransactionFlags:
				tf, err := decodeTransactionFlags(p.Dec, p.NumArg)
				if err != nil {
					return nil, s.markBroken(err)
				}
				s.transactionFlags = tf
			case PkSessionContext:
				if _, err := decodeSessionContext(p.Dec, p.NumArg); err != nil {
					return nil, s.markBroken(err)
				}
			}
		}
		if seg.Kind == SkError {
			for _, p := range seg.Parts {
				if p.Kind == PkError {
					herrs, err := decodeHdbErrors(p.Dec, p.NumArg)
					if err != nil {
						return nil, s.markBroken(err)
					}
					if !herrs.HasWarnings() {
						for _, e := range herrs.Errors {
							if e.IsFatal() {
								s.broken = herrs
								break
							}
						}
						return segs, herrs
					}
				}
			}
		}
	}
	return segs, nil
}

// trackStatementContext folds a StatementContext reply part's server-usage
// figures and statement sequence info into the session's running totals.
func (s *Session) trackStatementContext(sc *StatementContext) {
	procTime := optInt64(sc.options[scServerProcessingTime])
	cpuTime := optInt64(sc.options[scServerCPUTime])
	memSize := optInt64(sc.options[scServerMemoryUsage])
	s.usage.add(procTime, cpuTime, memSize)
	if seq, ok := sc.options[scStatementSequenceInfo].([]byte); ok {
		s.statementSequenceInfo = seq
	}
}

// optInt64 reads an options-bag value that the server may have encoded as
// either a 4-byte or 8-byte integer.
func optInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	}
	return 0
}

// Exchange sends one request segment and returns the decoded reply
// segments, after checking for a hard error reply.
func (s *Session) Exchange(ctx context.Context, seg *SegmentBuilder) ([]ReplySegment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken != nil {
		return nil, s.broken
	}
	if err := s.send(ctx, seg); err != nil {
		return nil, err
	}
	return s.recv(ctx)
}

// HdbVersion reports the server's full version string, if the server sent
// one during connect.
func (s *Session) HdbVersion() string {
	if s.serverOptions == nil {
		return ""
	}
	v, _ := s.serverOptions.options[coFullVersionString].(string)
	return v
}
