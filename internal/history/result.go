package history

import "fmt"

// ErrorCode classifies a failed cycle for machine consumption.
type ErrorCode string

const (
	CodeInvalidDateFormat     ErrorCode = "INVALID_DATE_FORMAT"
	CodeCommitNotFound        ErrorCode = "COMMIT_NOT_FOUND"
	CodePushedRequiresConfirm ErrorCode = "PUSHED_REQUIRES_CONFIRM"
	CodeDateParsingError      ErrorCode = "DATE_PARSING_ERROR"
	CodeDateOutOfRange        ErrorCode = "DATE_OUT_OF_RANGE"
	CodeExecutionError        ErrorCode = "EXECUTION_ERROR"
)

// Result is the structured outcome of a single non-interactive cycle.
type Result struct {
	Success   bool          `json:"success"`
	Commit    *ResultCommit `json:"commit,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorCode ErrorCode     `json:"errorCode,omitempty"`
}

// ResultCommit echoes the rewritten commit; dates are ISO-8601.
type ResultCommit struct {
	Hash     string `json:"hash"`
	Message  string `json:"message"`
	OldDate  string `json:"oldDate"`
	NewDate  string `json:"newDate"`
	IsPushed bool   `json:"isPushed"`
}

func failure(code ErrorCode, format string, args ...any) Result {
	r := Result{ErrorCode: code}
	if len(args) == 0 {
		r.Error = format
	} else {
		r.Error = fmt.Sprintf(format, args...)
	}
	return r
}
