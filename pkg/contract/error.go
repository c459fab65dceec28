package contract

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ErrorCode string

const (
	ErrorCodeBadRequest             ErrorCode = "BAD_REQUEST"
	ErrorCodeInvalidParameterValue  ErrorCode = "INVALID_PARAMETER_VALUE"
	ErrorCodeResourceDoesNotExist   ErrorCode = "RESOURCE_DOES_NOT_EXIST"
	ErrorCodeTemporarilyUnavailable ErrorCode = "TEMPORARILY_UNAVAILABLE"
	ErrorCodeEndpointNotFound       ErrorCode = "ENDPOINT_NOT_FOUND"
	ErrorCodeInternalError          ErrorCode = "INTERNAL_ERROR"
)

// Error is the service error exposed on the HTTP API.
// It carries a stable error code next to the human readable message.
type Error struct {
	Code    ErrorCode `json:"error_code"`
	Message string    `json:"message"`
	inner   error
}

func NewError(code ErrorCode, message string) *Error {
	return NewErrorWith(code, message, nil)
}

func NewErrorWith(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		inner:   err,
	}
}

func (e *Error) Error() string {
	if e.inner != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.inner)
	}

	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.inner
}

func (e *Error) StatusCode() int {
	switch e.Code {
	case ErrorCodeBadRequest, ErrorCodeInvalidParameterValue:
		return fiber.StatusBadRequest
	case ErrorCodeResourceDoesNotExist, ErrorCodeEndpointNotFound:
		return fiber.StatusNotFound
	case ErrorCodeTemporarilyUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
