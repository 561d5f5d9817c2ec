package protocol

// ConnectOptions key constants (PkConnectOptions part).
const (
	coConnectionID              int8 = 1
	coCompleteArrayExecution    int8 = 2
	coClientLocale              int8 = 3
	coSupportsLargeBulkOperations int8 = 4
	coDistributionEnabled       int8 = 5
	coPrimaryConnectionID       int8 = 7
	coPrimaryConnectionHost     int8 = 8
	coPrimaryConnectionPort     int8 = 9
	coCompleteArrayExecution2   int8 = 10
	coClientDistributionMode    int8 = 19
	coEngineDataFormatVersion   int8 = 23
	coDistributionProtocolVersion int8 = 24
	coSplitBatchCommands        int8 = 25
	coUseTransactionFlagsOnly   int8 = 26
	coRowSlotImageParameter     int8 = 27
	coIgnoreUnknownParts        int8 = 29
	coDataFormatVersion2        int8 = 32
	coSelectForUpdateSupported  int8 = 14
	coFullVersionString         int8 = 18
)

// ClientDistributionMode values.
const (
	cdmOff int32 = 0
)

// ClientContext key constants (PkClientContext part).
const (
	ccoClientVersion int8 = 1
	ccoClientType    int8 = 2
	ccoClientApplicationProgram int8 = 3
)

// DBConnectInfo key constants (PkDBConnectInfo part).
const (
	ciDatabaseName int8 = 1
	ciHost         int8 = 2
	ciPort         int8 = 3
	ciIsConnected  int8 = 4
)

// TransactionFlags key constants (PkTransactionFlags part).
const (
	tfRolledBack               int8 = 0
	tfCommitted                int8 = 1
	tfNewIsolationLevel        int8 = 2
	tfDdlCommitModeChanged     int8 = 3
	tfWriteTransactionStarted  int8 = 4
	tfNoWriteTransactionStarted int8 = 5
	tfSessionClosingTransactionError int8 = 6
)

// StatementContext key constants (PkStatementContext part).
const (
	scStatementSequenceInfo int8 = 1
	scServerProcessingTime  int8 = 2
	scSchemaName            int8 = 3
	scFlagSet               int8 = 4
	scServerCPUTime         int8 = 5
	scServerMemoryUsage     int8 = 6
)

// ClientInfo type constant used when sending session-variable client info.
const clientInfoSeparator = '\x01'

func defaultClientOptions(dfv int32, locale string) options {
	o := options{
		coDistributionProtocolVersion: false,
		coSelectForUpdateSupported:    false,
		coSplitBatchCommands:          true,
		coDataFormatVersion2:          dfv,
		coCompleteArrayExecution:      true,
		coClientDistributionMode:      cdmOff,
	}
	if locale != "" {
		o[coClientLocale] = locale
	}
	return o
}
