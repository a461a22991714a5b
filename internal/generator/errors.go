package generator

import (
	"errors"
	"fmt"
)

// Code identifies a generation failure category. The set is closed: callers
// switch on the code instead of matching message strings.
type Code string

const (
	CodeNoAPIKey         Code = "no_api_key"
	CodeQuotaExceeded    Code = "quota_exceeded"
	CodeAuthError        Code = "auth_error"
	CodeAPIError         Code = "api_error"
	CodeEmptyResponse    Code = "empty_response"
	CodeInvalidResponse  Code = "invalid_response"
	CodeParseError       Code = "parse_error"
	CodeNoQuestions      Code = "no_questions"
	CodeNoValidQuestions Code = "no_valid_questions"
	CodeProcessError     Code = "process_error"
)

type Error struct {
	Code  Code
	cause error
}

func NewError(code Code, cause error) *Error {
	return &Error{Code: code, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("generation failed (%s): %v", e.Code, e.cause)
	}
	return fmt.Sprintf("generation failed (%s)", e.Code)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the failure code from an error chain. The second return is
// false when the error did not originate in the generation pipeline.
func CodeOf(err error) (Code, bool) {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Code, true
	}
	return "", false
}
