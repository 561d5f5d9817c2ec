package protocol

import "context"

// XA branch association flags, as passed to Start/End (TMNOFLAGS,
// TMJOIN, TMRESUME, TMSUCCESS, TMFAIL in the XA specification's terms).
const (
	XaFlagNoFlags int32 = 0
	XaFlagJoin    int32 = 1 << 21
	XaFlagResume  int32 = 1 << 27
	XaFlagSuccess int32 = 1 << 26
	XaFlagFail    int32 = 1 << 29
)

func (s *Session) xaExchange(ctx context.Context, mt MessageType, opts *XatOptions) (*XatOptions, error) {
	seg := NewSegment(mt)
	seg.AddPart(PkXatOptions, opts.numArg(), opts.encode)
	reply, err := s.Exchange(ctx, seg)
	if err != nil {
		return nil, err
	}
	for _, rs := range reply {
		for _, p := range rs.Parts {
			if p.Kind == PkXatOptions {
				return decodeXatOptions(p.Dec, p.NumArg)
			}
		}
	}
	return &XatOptions{}, nil
}

// XAStart associates the session with a global transaction branch.
func (s *Session) XAStart(ctx context.Context, xid Xid, flags int32) error {
	_, err := s.xaExchange(ctx, MtXopenXAStart, &XatOptions{Flags: flags, Xids: []Xid{xid}})
	return err
}

// XAEnd disassociates the session from the current branch.
func (s *Session) XAEnd(ctx context.Context, xid Xid, flags int32) error {
	_, err := s.xaExchange(ctx, MtXopenXAEnd, &XatOptions{Flags: flags, Xids: []Xid{xid}})
	return err
}

// XAPrepare votes on whether the branch can be committed.
func (s *Session) XAPrepare(ctx context.Context, xid Xid) error {
	_, err := s.xaExchange(ctx, MtXopenXAPrepare, &XatOptions{Xids: []Xid{xid}})
	return err
}

// XACommit commits the branch, onePhase indicating a single-resource
// shortcut that skips the prepare round.
func (s *Session) XACommit(ctx context.Context, xid Xid, onePhase bool) error {
	_, err := s.xaExchange(ctx, MtXopenXACommit, &XatOptions{OnePhase: onePhase, Xids: []Xid{xid}})
	return err
}

// XARollback rolls back the branch.
func (s *Session) XARollback(ctx context.Context, xid Xid) error {
	_, err := s.xaExchange(ctx, MtXopenXARollback, &XatOptions{Xids: []Xid{xid}})
	return err
}

// XAForget discards a heuristically completed branch's bookkeeping.
func (s *Session) XAForget(ctx context.Context, xid Xid) error {
	_, err := s.xaExchange(ctx, MtXopenXAForget, &XatOptions{Xids: []Xid{xid}})
	return err
}

// XARecover returns the in-doubt transaction branches the server knows
// about for this resource manager.
func (s *Session) XARecover(ctx context.Context) ([]Xid, error) {
	opts, err := s.xaExchange(ctx, MtXopenXARecover, &XatOptions{})
	if err != nil {
		return nil, err
	}
	return opts.Xids, nil
}
