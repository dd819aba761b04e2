package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrLayoutMismatch marks text that does not satisfy the selected
	// parser's layout markers.
	ErrLayoutMismatch = errors.New("statement layout does not match bank")

	// ErrUnknownBank marks a bank code with no registered parser.
	ErrUnknownBank = errors.New("unsupported bank code")

	// ErrBankNotDetected marks extracted text no registered parser claims.
	ErrBankNotDetected = errors.New("issuing bank could not be identified")
)

// ParseError is the single structured failure type the parsing core raises.
// Message is end-user facing (Portuguese, like the statements themselves);
// the remaining fields exist for the caller's structured logging.
type ParseError struct {
	Message  string
	BankCode string
	FileName string
	Err      error // underlying cause, when available
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.BankCode != "" {
		msg = fmt.Sprintf("[%s] %s", e.BankCode, msg)
	}
	if e.FileName != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.FileName)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError builds a ParseError; cause may be nil.
func NewParseError(bankCode, fileName, message string, cause error) *ParseError {
	return &ParseError{
		Message:  message,
		BankCode: bankCode,
		FileName: fileName,
		Err:      cause,
	}
}

// AsParseError returns err as a *ParseError, wrapping it with the given
// context when it is any other error type. Parsers use it at their return
// boundary so nothing else ever escapes the core; inner rule failures may
// omit the bank code and file name, which are filled in here.
func AsParseError(err error, bankCode, fileName, message string) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		if pe.BankCode == "" {
			pe.BankCode = bankCode
		}
		if pe.FileName == "" {
			pe.FileName = fileName
		}
		return pe
	}
	return NewParseError(bankCode, fileName, message, err)
}
