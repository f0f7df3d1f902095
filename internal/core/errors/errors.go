package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeConnectionFailure ErrorCode = "CONNECTION_FAILURE"
	CodeModelNotFound     ErrorCode = "MODEL_NOT_FOUND"
	CodeModelFetch        ErrorCode = "MODEL_FETCH_ERROR"
	CodeVariantResolution ErrorCode = "VARIANT_RESOLUTION_FAILURE"
	CodeModuleResolution  ErrorCode = "MODULE_RESOLUTION_FAILURE"
	CodeValidationError   ErrorCode = "VALIDATION_ERROR"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// Context keys shared across layers so log/error output stays greppable.
const (
	CtxModule    = "module"
	CtxModelKind = "model_kind"
	CtxVariant   = "variant"
	CtxOperation = "operation"
	CtxPath      = "path"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
