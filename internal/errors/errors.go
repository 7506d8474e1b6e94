package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches AppErrors by code so predefined values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

var (
	ErrConfigInvalid = &AppError{Code: "CONFIG_001", Message: "invalid configuration"}

	ErrInvalidInput       = &AppError{Code: "INPUT_001", Message: "invalid input"}
	ErrInvalidTime        = &AppError{Code: "INPUT_002", Message: "invalid dose time"}
	ErrInvalidMeasurement = &AppError{Code: "INPUT_003", Message: "invalid measurement"}
	ErrAmbiguous          = &AppError{Code: "INPUT_004", Message: "ambiguous reference"}

	ErrStorageOpen  = &AppError{Code: "STORE_001", Message: "cannot open storage"}
	ErrStorageWrite = &AppError{Code: "STORE_003", Message: "storage write failed"}

	ErrNotFound = &AppError{Code: "GEN_001", Message: "resource not found"}
	ErrInternal = &AppError{Code: "GEN_003", Message: "internal error"}
)

// Invalid returns an input error carrying a user-facing message.
func Invalid(base *AppError, format string, args ...any) *AppError {
	return &AppError{Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// ExitCode maps an error to the CLI exit status: 1 for user errors,
// 2 for storage and configuration failures.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch code := GetCode(err); {
	case strings.HasPrefix(code, "STORE_"), strings.HasPrefix(code, "CONFIG_"):
		return 2
	case code == ErrInternal.Code:
		return 2
	default:
		return 1
	}
}
