package interval

import "fmt"

type ErrorCode string

const (
	CodeInvalidFormat  ErrorCode = "INVALID_FORMAT"
	CodeOutOfRangeHigh ErrorCode = "OUT_OF_RANGE_HIGH"
	CodeOutOfRangeLow  ErrorCode = "OUT_OF_RANGE_LOW"
	CodeStartInPast    ErrorCode = "START_IN_PAST"
	CodeEndBeforeStart ErrorCode = "END_BEFORE_START"
	CodeInvalidDate    ErrorCode = "INVALID_DATE"
	CodeRequired       ErrorCode = "REQUIRED"
)

// ValidationError 是字段级别的本地校验错误，不会进入 store
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

// Is 让 errors.Is 可以按错误码比较
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

func newValidationError(field string, code ErrorCode, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// 只带错误码的哨兵值，用于 errors.Is
var (
	ErrInvalidFormat  = &ValidationError{Code: CodeInvalidFormat}
	ErrOutOfRangeHigh = &ValidationError{Code: CodeOutOfRangeHigh}
	ErrOutOfRangeLow  = &ValidationError{Code: CodeOutOfRangeLow}
	ErrStartInPast    = &ValidationError{Code: CodeStartInPast}
	ErrEndBeforeStart = &ValidationError{Code: CodeEndBeforeStart}
	ErrInvalidDate    = &ValidationError{Code: CodeInvalidDate}
	ErrRequired       = &ValidationError{Code: CodeRequired}
)
