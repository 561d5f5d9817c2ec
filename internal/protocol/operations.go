package protocol

import (
	"context"
	"fmt"
	"log/slog"
)

// PrepareResult is everything the server returns from preparing a
// statement: its handle and the shape of its parameters and (if it is a
// query) result columns.
type PrepareResult struct {
	StatementID    StatementID
	ParameterMetadata *ParameterMetadata
	ResultMetadata    *ResultMetadata
	FunctionCode      int16
}

// Prepare sends a Prepare request and returns the statement handle and
// metadata the server replies with.
func (s *Session) Prepare(ctx context.Context, query string) (*PrepareResult, error) {
	seg := NewSegment(MtPrepare)
	seg.AddPart(PkCommand, 1, Command(query).encode)
	reply, err := s.Exchange(ctx, seg)
	if err != nil {
		return nil, err
	}

	res := &PrepareResult{}
	for _, rs := range reply {
		res.FunctionCode = rs.FunctionCode
		for _, p := range rs.Parts {
			switch p.Kind {
			case PkStatementID:
				res.StatementID = decodeStatementID(p.Dec)
			case PkParameterMetadata:
				pm, err := decodeParameterMetadata(p.Dec, p.NumArg)
				if err != nil {
					return nil, err
				}
				res.ParameterMetadata = pm
			case PkResultMetadata:
				rm, err := decodeResultMetadata(p.Dec, p.NumArg)
				if err != nil {
					return nil, err
				}
				res.ResultMetadata = rm
			default:
				slog.Debug("protocol: skipping unhandled prepare reply part", "kind", p.Kind)
			}
		}
	}
	return res, nil
}

// ExecuteResult is everything an Execute/ExecuteDirect call may return:
// affected-row counts, an opened result set, or OUT parameter values.
type ExecuteResult struct {
	FunctionCode  int16
	RowsAffected  *RowsAffected
	ResultsetID   ResultsetID
	Resultset     *Resultset
	ResultFields  []FieldMetadata
	OutputParams  *OutputParameters
	TransactionFlags *TransactionFlags

	// LobWriteIDs holds the locator IDs the server assigned to the LOB
	// input parameters sent as empty placeholders, one per LOB parameter
	// in field-declaration order, in case content still needs streaming.
	LobWriteIDs []LocatorID
}

// ExecuteDirect runs a SQL statement with no bind parameters in a single
// round trip.
func (s *Session) ExecuteDirect(ctx context.Context, query string, fetchSize int32, commit bool) (*ExecuteResult, error) {
	seg := NewSegment(MtExecuteDirect)
	seg.SetCommit(commit)
	seg.AddPart(PkCommand, 1, Command(query).encode)
	reply, err := s.Exchange(ctx, seg)
	if err != nil {
		return nil, err
	}
	return decodeExecuteReply(reply, nil)
}

// Execute runs a previously prepared statement with one row of bind
// parameters. lobChunkSize bounds each follow-up WriteLob round trip for
// any bound BLOB/CLOB/NCLOB value; it is ignored when the statement binds
// no LOB input parameters.
func (s *Session) Execute(ctx context.Context, stmtID StatementID, params *ParameterMetadata, outFields []FieldMetadata, row []any, commit bool, lobChunkSize int32) (*ExecuteResult, error) {
	seg := NewSegment(MtExecute)
	seg.SetCommit(commit)
	seg.AddPart(PkStatementID, 1, stmtID.encode)
	if params != nil && len(params.Fields) > 0 {
		p := &Parameters{Fields: params.Fields, Rows: [][]any{row}}
		seg.AddPart(PkParameters, p.numArg(), p.encode)
	}
	reply, err := s.Exchange(ctx, seg)
	if err != nil {
		return nil, err
	}
	res, err := decodeExecuteReply(reply, outFields)
	if err != nil {
		return nil, err
	}
	if len(res.LobWriteIDs) > 0 {
		if err := s.sendLobInputs(ctx, res.LobWriteIDs, params.Fields, row, lobChunkSize); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// sendLobInputs streams the real content for each bound LOB input
// parameter, matching the server-assigned locator IDs to their fields in
// declaration order: the parameter row itself only ever carries an empty
// placeholder for these (see encodeValue), so every non-NULL LOB value
// needs this follow-up before the statement's data is actually on the
// server.
func (s *Session) sendLobInputs(ctx context.Context, ids []LocatorID, fields []FieldMetadata, row []any, chunkSize int32) error {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	j := 0
	for i, f := range fields {
		if !f.In() || !f.TypeCode.IsLob() || row[i] == nil {
			continue
		}
		if j >= len(ids) {
			return fmt.Errorf("protocol: server returned fewer lob locator ids than lob parameters")
		}
		if err := s.writeLobChunks(ctx, ids[j], toBytes(row[i]), chunkSize); err != nil {
			return err
		}
		j++
	}
	return nil
}

func (s *Session) writeLobChunks(ctx context.Context, id LocatorID, b []byte, chunkSize int32) error {
	if len(b) == 0 {
		return s.WriteLob(ctx, id, nil, true)
	}
	for off := 0; off < len(b); {
		end := off + int(chunkSize)
		if end > len(b) {
			end = len(b)
		}
		if err := s.WriteLob(ctx, id, b[off:end], end == len(b)); err != nil {
			return err
		}
		off = end
	}
	return nil
}

func decodeExecuteReply(reply []ReplySegment, outFields []FieldMetadata) (*ExecuteResult, error) {
	res := &ExecuteResult{}
	for _, rs := range reply {
		res.FunctionCode = rs.FunctionCode
		var fields []FieldMetadata
		for _, p := range rs.Parts {
			switch p.Kind {
			case PkResultMetadata:
				rm, err := decodeResultMetadata(p.Dec, p.NumArg)
				if err != nil {
					return nil, err
				}
				fields = rm.Fields
				res.ResultFields = fields
			}
		}
		for _, p := range rs.Parts {
			switch p.Kind {
			case PkRowsAffected:
				ra, err := decodeRowsAffected(p.Dec, p.NumArg)
				if err != nil {
					return nil, err
				}
				res.RowsAffected = ra
			case PkResultsetID:
				res.ResultsetID = decodeResultsetID(p.Dec)
			case PkResultset:
				rs2, err := decodeResultset(p.Dec, p.NumArg, fields, p.Attrs)
				if err != nil {
					return nil, err
				}
				res.Resultset = rs2
			case PkOutputParameters:
				op, err := decodeOutputParameters(p.Dec, outFields)
				if err != nil {
					return nil, err
				}
				res.OutputParams = op
			case PkTransactionFlags:
				tf, err := decodeTransactionFlags(p.Dec, p.NumArg)
				if err != nil {
					return nil, err
				}
				res.TransactionFlags = tf
			case PkWriteLobReply:
				wr := &WriteLobReply{}
				if err := wr.decode(p.Dec, p.NumArg); err != nil {
					return nil, err
				}
				res.LobWriteIDs = wr.IDs
			case PkStatementContext, PkResultMetadata:
				// StatementContext is folded into session state by Session.recv
				// before decodeExecuteReply ever runs; ResultMetadata was already
				// consumed in the pass above.
			default:
				slog.Debug("protocol: skipping unhandled execute reply part", "kind", p.Kind)
			}
		}
	}
	return res, nil
}

// FetchNext requests the next batch of rows from an open result set.
func (s *Session) FetchNext(ctx context.Context, id ResultsetID, fields []FieldMetadata, fetchSize int32) (*Resultset, error) {
	seg := NewSegment(MtFetchNext)
	seg.AddPart(PkResultsetID, 1, id.encode)
	seg.AddPart(PkFetchSize, 1, FetchSize(fetchSize).encode)
	reply, err := s.Exchange(ctx, seg)
	if err != nil {
		return nil, err
	}
	for _, rs := range reply {
		for _, p := range rs.Parts {
			if p.Kind == PkResultset {
				return decodeResultset(p.Dec, p.NumArg, fields, p.Attrs)
			}
		}
	}
	return &Resultset{Fields: fields, Attrs: PaLastPacket}, nil
}

// CloseResultset tells the server to discard an open result set's cursor.
func (s *Session) CloseResultset(ctx context.Context, id ResultsetID) error {
	seg := NewSegment(MtCloseResultset)
	seg.AddPart(PkResultsetID, 1, id.encode)
	_, err := s.Exchange(ctx, seg)
	return err
}

// DropStatementID tells the server to discard a prepared statement handle.
func (s *Session) DropStatementID(ctx context.Context, id StatementID) error {
	seg := NewSegment(MtDropStatementID)
	seg.AddPart(PkStatementID, 1, id.encode)
	_, err := s.Exchange(ctx, seg)
	return err
}

// Commit commits the current transaction.
func (s *Session) Commit(ctx context.Context) error {
	seg := NewSegment(MtCommit)
	seg.SetCommit(true)
	_, err := s.Exchange(ctx, seg)
	return err
}

// Rollback rolls back the current transaction.
func (s *Session) Rollback(ctx context.Context) error {
	seg := NewSegment(MtRollback)
	_, err := s.Exchange(ctx, seg)
	return err
}

// ReadLob fetches the next chunk of a LOB identified by a locator,
// starting at the given byte offset.
func (s *Session) ReadLob(ctx context.Context, id LocatorID, offset int64, length int32) (*ReadLobReply, error) {
	seg := NewSegment(MtReadLob)
	req := &ReadLobRequest{ID: id, Offset: offset, BytesLen: length}
	seg.AddPart(PkReadLobRequest, 1, req.encode)
	reply, err := s.Exchange(ctx, seg)
	if err != nil {
		return nil, err
	}
	for _, rs := range reply {
		for _, p := range rs.Parts {
			if p.Kind == PkReadLobReply {
				out := &ReadLobReply{}
				if err := out.decode(p.Dec); err != nil {
					return nil, err
				}
				return out, nil
			}
		}
	}
	return nil, fmt.Errorf("protocol: reply missing ReadLobReply part")
}

// WriteLob streams the next chunk of a LOB being written through a
// locator.
func (s *Session) WriteLob(ctx context.Context, id LocatorID, chunk []byte, lastData bool) error {
	seg := NewSegment(MtWriteLob)
	opt := loDataIncluded
	if lastData {
		opt |= loLastData
	}
	req := &WriteLobRequest{ID: id, Opt: opt, B: chunk}
	seg.AddPart(PkWriteLobRequest, 1, req.encode)
	_, err := s.Exchange(ctx, seg)
	return err
}
