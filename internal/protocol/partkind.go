package protocol

import "fmt"

// PartKind identifies the concrete payload carried by a wire protocol part.
type PartKind int8

// Part kind tag values (wire-exact).
const (
	PkNil                  PartKind = 0
	PkCommand              PartKind = 3
	PkResultset            PartKind = 5
	PkError                PartKind = 6
	PkStatementID          PartKind = 10
	PkTransactionID        PartKind = 11
	PkRowsAffected         PartKind = 12
	PkResultsetID          PartKind = 13
	PkTopologyInformation  PartKind = 15
	PkTableLocation        PartKind = 16
	PkReadLobRequest       PartKind = 17
	PkReadLobReply         PartKind = 18
	PkCommandInfo          PartKind = 27
	PkWriteLobRequest      PartKind = 28
	PkClientContext        PartKind = 29
	PkWriteLobReply        PartKind = 30
	PkParameters           PartKind = 32
	PkAuthentication       PartKind = 33
	PkSessionContext       PartKind = 34
	PkClientID             PartKind = 35
	PkStatementContext     PartKind = 39
	PkPartitionInformation PartKind = 40
	PkOutputParameters     PartKind = 41
	PkConnectOptions       PartKind = 42
	PkCommitOptions        PartKind = 43
	PkFetchSize            PartKind = 45
	PkParameterMetadata    PartKind = 47
	PkResultMetadata       PartKind = 48
	PkFindLobRequest       PartKind = 49
	PkFindLobReply         PartKind = 50
	PkClientInfo           PartKind = 57
	PkStreamData           PartKind = 58
	PkOStreamResult        PartKind = 59
	PkFdaRequestMetadata   PartKind = 60
	PkFdaReplyMetadata     PartKind = 61
	PkTransactionFlags     PartKind = 64
	PkRowSlotImageParam    PartKind = 65
	PkRowSlotImageResultset PartKind = 66
	PkDBConnectInfo        PartKind = 67
	PkLobFlags             PartKind = 68
	PkResultsetOptions     PartKind = 69
	PkXatOptions           PartKind = 70
)

var partKindNames = map[PartKind]string{
	PkNil:                  "Nil",
	PkCommand:              "Command",
	PkResultset:            "ResultSet",
	PkError:                "Error",
	PkStatementID:          "StatementID",
	PkTransactionID:        "TransactionID",
	PkRowsAffected:         "RowsAffected",
	PkResultsetID:          "ResultsetID",
	PkTopologyInformation:  "TopologyInformation",
	PkTableLocation:        "TableLocation",
	PkReadLobRequest:       "ReadLobRequest",
	PkReadLobReply:         "ReadLobReply",
	PkCommandInfo:          "CommandInfo",
	PkWriteLobRequest:      "WriteLobRequest",
	PkClientContext:        "ClientContext",
	PkWriteLobReply:        "WriteLobReply",
	PkParameters:           "Parameters",
	PkAuthentication:       "Authentication",
	PkSessionContext:       "SessionContext",
	PkClientID:             "ClientID",
	PkStatementContext:     "StatementContext",
	PkPartitionInformation: "PartitionInformation",
	PkOutputParameters:     "OutputParameters",
	PkConnectOptions:       "ConnectOptions",
	PkCommitOptions:        "CommitOptions",
	PkFetchSize:            "FetchSize",
	PkParameterMetadata:    "ParameterMetadata",
	PkResultMetadata:       "ResultMetadata",
	PkFindLobRequest:       "FindLobRequest",
	PkFindLobReply:         "FindLobReply",
	PkClientInfo:           "ClientInfo",
	PkStreamData:           "StreamData",
	PkOStreamResult:        "OStreamResult",
	PkFdaRequestMetadata:   "FdaRequestMetadata",
	PkFdaReplyMetadata:     "FdaReplyMetadata",
	PkTransactionFlags:     "TransactionFlags",
	PkRowSlotImageParam:    "RowSlotImageParam",
	PkRowSlotImageResultset: "RowSlotImageResultset",
	PkDBConnectInfo:        "DBConnectInfo",
	PkLobFlags:             "LobFlags",
	PkResultsetOptions:     "ResultsetOptions",
	PkXatOptions:           "XatOptions",
}

func (k PartKind) String() string {
	if name, ok := partKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PartKind(%d)", int8(k))
}
