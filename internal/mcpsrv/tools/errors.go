package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/trafficspec/internal/analyze"
	"github.com/usestring/trafficspec/internal/generate"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNoCalls      = "NO_CALLS"
	ErrCodeIOError      = "IO_ERROR"
	ErrCodeAnalyze      = "ANALYZE_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapAnalyzeError converts pipeline errors to coded errors for tool
// responses, logging them on the way out.
func WrapAnalyzeError(err error) error {
	if err == nil {
		return nil
	}

	coded := &CodedError{Code: ErrCodeAnalyze, Message: err.Error(), Cause: err}
	switch {
	case errors.Is(err, analyze.ErrNoCalls):
		coded.Code = ErrCodeNoCalls
	case errors.Is(err, generate.ErrUnsupportedLanguage):
		coded.Code = ErrCodeInvalidInput
	}

	slog.Warn("tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{Code: ErrCodeInvalidInput, Message: message}
}

// ErrIO wraps a file read or write failure.
func ErrIO(err error) error {
	return &CodedError{Code: ErrCodeIOError, Message: err.Error(), Cause: err}
}
