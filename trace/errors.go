package trace

import (
	"fmt"
)

// ErrorCode classifies trace loading failures.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota

	// The trace could not be opened or read.
	ErrCodeIO

	// The trace holds no references.
	ErrCodeEmptyInput

	// A line does not hold exactly a page number and an access kind.
	ErrCodeMalformedLine

	// The trace is larger than the loader is allowed to hold.
	ErrCodeAllocation

	// The counting pass and the parsing pass disagree.
	ErrCodeLineCountMismatch
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeIO:
		return "io error"
	case ErrCodeEmptyInput:
		return "empty input"
	case ErrCodeMalformedLine:
		return "malformed line"
	case ErrCodeAllocation:
		return "allocation error"
	case ErrCodeLineCountMismatch:
		return "line count mismatch"
	default:
		return "unknown error"
	}
}

// LoadError describes why a trace could not be loaded.
type LoadError struct {
	Code    ErrorCode
	Path    string
	Line    int // 1-based, 0 when not tied to a line
	Text    string
	Message string
	Err     error
}

// Sentinels usable with errors.Is. Only the Code is compared.
var (
	ErrIO                = &LoadError{Code: ErrCodeIO}
	ErrEmptyInput        = &LoadError{Code: ErrCodeEmptyInput}
	ErrMalformedLine     = &LoadError{Code: ErrCodeMalformedLine}
	ErrAllocation        = &LoadError{Code: ErrCodeAllocation}
	ErrLineCountMismatch = &LoadError{Code: ErrCodeLineCountMismatch}
)

// Error implements the error interface
func (e *LoadError) Error() string {
	msg := e.Code.String()
	if e.Message != "" {
		msg = e.Message
	}

	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s (%q)", e.Line, msg, e.Text)
	}

	if e.Path != "" {
		msg = e.Path + ": " + msg
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a LoadError with the same code.
func (e *LoadError) Is(target error) bool {
	if t, ok := target.(*LoadError); ok {
		return e.Code == t.Code
	}

	return false
}

func ioError(path string, err error) *LoadError {
	return &LoadError{Code: ErrCodeIO, Path: path, Message: "cannot read trace", Err: err}
}

func malformedLine(path string, line int, text string, err error) *LoadError {
	return &LoadError{
		Code:    ErrCodeMalformedLine,
		Path:    path,
		Line:    line,
		Text:    text,
		Message: "expected <page> <r|w>",
		Err:     err,
	}
}
