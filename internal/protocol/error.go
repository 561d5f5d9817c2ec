package protocol

import (
	"fmt"
	"strings"

	"github.com/scramdb/hdb/internal/protocol/encoding"
)

// ErrorLevel classifies the severity of an HdbError.
type ErrorLevel int8

const (
	ErrorLevelWarning    ErrorLevel = 0
	ErrorLevelError      ErrorLevel = 1
	ErrorLevelFatalError ErrorLevel = 2
)

const (
	sqlStateSize  = 5
	errorFixLength = 2
)

// HdbError is one error or warning reported by the server for a single
// statement within a batch.
type HdbError struct {
	StmtNo  int
	Code    int32
	Position int32
	Level   ErrorLevel
	SQLState string
	Text    string
}

func (e *HdbError) Error() string {
	if e.StmtNo >= 0 {
		return fmt.Sprintf("SQL %s %d - %s (statement no: %d)", e.SQLState, e.Code, e.Text, e.StmtNo)
	}
	return fmt.Sprintf("SQL %s %d - %s", e.SQLState, e.Code, e.Text)
}

// IsWarning reports whether this entry is merely a warning.
func (e *HdbError) IsWarning() bool { return e.Level == ErrorLevelWarning }

// IsFatal reports whether the connection should be considered broken.
func (e *HdbError) IsFatal() bool { return e.Level == ErrorLevelFatalError }

// HdbErrors collects every error/warning entry from one PkError part, one
// per statement in a batch.
type HdbErrors struct {
	Errors []*HdbError
}

func (e *HdbErrors) Kind() PartKind { return PkError }

// HasWarnings reports whether every entry is a mere warning.
func (e *HdbErrors) HasWarnings() bool {
	for _, err := range e.Errors {
		if !err.IsWarning() {
			return false
		}
	}
	return len(e.Errors) > 0
}

func (e *HdbErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors for errors.Is/As.
func (e *HdbErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

func decodeHdbErrors(dec *encoding.Decoder, numArg int) (*HdbErrors, error) {
	errs := &HdbErrors{Errors: make([]*HdbError, numArg)}
	for i := 0; i < numArg; i++ {
		e := &HdbError{StmtNo: -1}
		e.Code = dec.Int32()
		e.Position = dec.Int32()
		textLength := dec.Int32()
		e.Level = ErrorLevel(dec.Int8())
		sqlState := make([]byte, sqlStateSize)
		dec.Bytes(sqlState)
		e.SQLState = string(sqlState)

		text := make([]byte, textLength)
		dec.Bytes(text)
		e.Text = string(text)

		if numArg == 1 {
			dec.Skip(1)
		} else {
			dec.Skip(padBytes(errorFixLength + int(textLength)))
		}
		errs.Errors[i] = e
	}
	return errs, dec.Error()
}
