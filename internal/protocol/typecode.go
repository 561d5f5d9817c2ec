package protocol

// TypeCode is the wire tag identifying a column or parameter's SQL type.
// The high bit (0x80) marks the nullable form of a type, except for
// SecondTime whose nullable tag is 0xB0 due to a longstanding HANA server
// quirk.
type TypeCode byte

const (
	TcNull        TypeCode = 0
	TcTinyint     TypeCode = 1
	TcSmallint    TypeCode = 2
	TcInteger     TypeCode = 3
	TcBigint      TypeCode = 4
	TcDecimal     TypeCode = 5
	TcReal        TypeCode = 6
	TcDouble      TypeCode = 7
	TcChar        TypeCode = 8
	TcVarchar     TypeCode = 9
	TcNchar       TypeCode = 10
	TcNvarchar    TypeCode = 11
	TcBinary      TypeCode = 12
	TcVarbinary   TypeCode = 13
	TcDate        TypeCode = 14
	TcTime        TypeCode = 15
	TcTimestamp   TypeCode = 16
	TcBoolean     TypeCode = 28
	TcClob        TypeCode = 25
	TcNclob       TypeCode = 26
	TcBlob        TypeCode = 27
	TcSeconddate  TypeCode = 29
	TcDaydate     TypeCode = 30
	TcSecondtime  TypeCode = 31
	TcLongdate    TypeCode = 61
	TcText        TypeCode = 51
	TcShorttext   TypeCode = 52
	TcAlphanum    TypeCode = 55
	TcFixed8      TypeCode = 81
	TcFixed12     TypeCode = 82
	TcFixed16     TypeCode = 76
	TcString      TypeCode = 71
	TcNstring     TypeCode = 72
	TcBstring     TypeCode = 73

	tcSecondtimeNull TypeCode = 0xB0
)

var typeCodeNames = map[TypeCode]string{
	TcNull: "NULL", TcTinyint: "TINYINT", TcSmallint: "SMALLINT", TcInteger: "INTEGER",
	TcBigint: "BIGINT", TcDecimal: "DECIMAL", TcReal: "REAL", TcDouble: "DOUBLE",
	TcChar: "CHAR", TcVarchar: "VARCHAR", TcNchar: "NCHAR", TcNvarchar: "NVARCHAR",
	TcBinary: "BINARY", TcVarbinary: "VARBINARY", TcDate: "DATE", TcTime: "TIME",
	TcTimestamp: "TIMESTAMP", TcBoolean: "BOOLEAN", TcClob: "CLOB", TcNclob: "NCLOB",
	TcBlob: "BLOB", TcSeconddate: "SECONDDATE", TcDaydate: "DAYDATE", TcSecondtime: "SECONDTIME",
	TcLongdate: "LONGDATE", TcText: "TEXT", TcShorttext: "SHORTTEXT", TcAlphanum: "ALPHANUM",
	TcFixed8: "FIXED8", TcFixed12: "FIXED12", TcFixed16: "FIXED16",
	TcString: "STRING", TcNstring: "NSTRING", TcBstring: "BSTRING",
}

func (tc TypeCode) String() string {
	if n, ok := typeCodeNames[tc]; ok {
		return n
	}
	return "UNKNOWN"
}

// IsLob reports whether tc identifies a CLOB/NCLOB/BLOB/TEXT large object type.
func (tc TypeCode) IsLob() bool {
	switch tc {
	case TcClob, TcNclob, TcBlob, TcText:
		return true
	}
	return false
}

// IsCharBased reports whether tc's LOB payload is character (CESU-8) data
// rather than raw binary.
func (tc TypeCode) IsCharBased() bool {
	switch tc {
	case TcClob, TcNclob, TcText:
		return true
	}
	return false
}

// IsVariableLength reports whether tc is encoded with a length-indicator
// prefix rather than a fixed wire width.
func (tc TypeCode) IsVariableLength() bool {
	switch tc {
	case TcChar, TcVarchar, TcNchar, TcNvarchar, TcBinary, TcVarbinary,
		TcText, TcShorttext, TcAlphanum, TcString, TcNstring, TcBstring,
		TcClob, TcNclob, TcBlob:
		return true
	}
	return false
}

// IsDecimalType reports whether tc is DECIMAL or one of the FIXED*
// fixed-point types.
func (tc TypeCode) IsDecimalType() bool {
	switch tc {
	case TcDecimal, TcFixed8, TcFixed12, TcFixed16:
		return true
	}
	return false
}

// Nullable returns the nullable-form wire tag for tc.
func (tc TypeCode) Nullable() TypeCode {
	if tc == TcSecondtime {
		return tcSecondtimeNull
	}
	return tc | 0x80
}

// IsNullable reports whether tc is the nullable-form tag.
func (tc TypeCode) IsNullable() bool {
	return tc == tcSecondtimeNull || tc&0x80 != 0
}

// base strips the nullable-form bit, returning the underlying type tag.
func (tc TypeCode) base() TypeCode {
	if tc == tcSecondtimeNull {
		return TcSecondtime
	}
	return tc & 0x7f
}
