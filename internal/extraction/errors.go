package extraction

import "fmt"

// ErrorCode classifies extraction failures surfaced to callers.
type ErrorCode string

const (
	ErrInvalidDocument         ErrorCode = "INVALID_DOCUMENT"
	ErrNoTransactionsFound     ErrorCode = "NO_TRANSACTIONS_FOUND"
	ErrOCRUnavailable          ErrorCode = "OCR_UNAVAILABLE"
	ErrNoConfirmedTransactions ErrorCode = "NO_CONFIRMED_TRANSACTIONS"
)

// Error is a structured extraction error. Expected absences (an unmatched
// pattern, a missing field) never produce one of these; they surface as
// warnings or nil values instead.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
