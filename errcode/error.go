// Package errcode provides the basic types and functionalities for hierarchical error codes
// Error code format: MMBBBB (MM = module code 2 digits, BBBB = business code 4 digits)
package errcode

import (
	"fmt"
	"net/http"
)

// LayeredError hierarchical error code
// Supports: error chaining, dynamic messages, context data, HTTP status code mapping,
// and a stable wire code exposed to API clients
type LayeredError struct {
	module     string                 // Module name (auth, dependency)
	code       int                    // Complete error code (MMBBBB, e.g., 100002)
	wireCode   string                 // Client-facing code (e.g., "TOKEN INVALID")
	msg        string                 // Internal message (logs, debugging)
	httpStatus int                    // HTTP status code
	data       map[string]interface{} // context data
	cause      error                  // Original error (error chain)
}

// New Create hierarchical error codes
// moduleCode: Module code (10-99)
// businessCode: Business Code (0001-9999)
// module: module name (auth, dependency)
// wireCode: stable client-facing code string
// msg: internal message
// httpStatus: HTTP status code (optional, default is 200)
func New(moduleCode, businessCode int, module, wireCode, msg string, httpStatus ...int) *LayeredError {
	code := moduleCode*10000 + businessCode
	status := http.StatusOK
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &LayeredError{
		module:     module,
		code:       code,
		wireCode:   wireCode,
		msg:        msg,
		httpStatus: status,
		data:       make(map[string]interface{}),
	}
}

// Implement error interface
func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code gets error code
func (e *LayeredError) Code() int {
	return e.code
}

// Module Get module name
func (e *LayeredError) Module() string {
	return e.module
}

// WireCode returns the client-facing code string
func (e *LayeredError) WireCode() string {
	return e.wireCode
}

// Get error message
func (e *LayeredError) Message() string {
	return e.msg
}

// Get HTTP status code
func (e *LayeredError) HTTPStatus() int {
	return e.httpStatus
}

// Retrieve context data
func (e *LayeredError) Data() map[string]interface{} {
	return e.data
}

// Cause get original error
func (e *LayeredError) Cause() error {
	return e.cause
}

// Unwrap supports Go 1.13+ error chains
func (e *LayeredError) Unwrap() error {
	return e.cause
}

// WithMsg replace error message (return new instance, do not modify original instance)
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := *e
	clone.msg = msg
	return &clone
}

// WithMsgf format replacement error message (return new instance)
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// WithData add single context data (return new instance)
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	clone.data[key] = value
	return &clone
}

// Wrap Wraps the original error (returns a new instance)
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Wrap the original error and format the message (return a new instance)
func (e *LayeredError) Wrapf(cause error, format string, args ...interface{}) *LayeredError {
	if cause == nil {
		return e.WithMsgf(format, args...)
	}
	clone := *e
	clone.cause = cause
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// Implements support for errors.Is() (by checking equality through code)
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	if !ok {
		return false
	}
	return e.code == t.code
}

// cloneData Clone context data (deep copy)
func (e *LayeredError) cloneData() map[string]interface{} {
	data := make(map[string]interface{}, len(e.data))
	for k, v := range e.data {
		data[k] = v
	}
	return data
}

// String returns an erroneous string representation (for debugging)
func (e *LayeredError) String() string {
	if e.cause != nil {
		return fmt.Sprintf("LayeredError{code:%d, module:%s, wire:%s, cause:%v}",
			e.code, e.module, e.wireCode, e.cause)
	}
	return fmt.Sprintf("LayeredError{code:%d, module:%s, wire:%s}",
		e.code, e.module, e.wireCode)
}
