package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	errAlpha = errors.New("alpha")
	errBeta  = errors.New("beta")
)

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "http error"
}

func (e *statusError) StatusCode() int {
	return e.code
}

func TestAlwaysRetry(t *testing.T) {
	cond := AlwaysRetry()

	assert.True(t, cond.ShouldRetry(errAlpha, 1))
	assert.False(t, cond.ShouldRetry(nil, 1))
}

func TestNeverRetry(t *testing.T) {
	cond := NeverRetry()

	assert.False(t, cond.ShouldRetry(errAlpha, 1))
	assert.False(t, cond.ShouldRetry(nil, 1))
}

func TestRetryOnError(t *testing.T) {
	cond := RetryOnError(errAlpha)

	assert.True(t, cond.ShouldRetry(errAlpha, 1))
	assert.True(t, cond.ShouldRetry(wrapped(errAlpha), 1), "wrapped error should match")
	assert.False(t, cond.ShouldRetry(errBeta, 1))
	assert.False(t, cond.ShouldRetry(nil, 1))
}

func wrapped(err error) error {
	return &MultiError{Errors: []error{err}, Attempts: 1}
}

func TestRetryOnErrors(t *testing.T) {
	cond := RetryOnErrors(errAlpha, errBeta)

	assert.True(t, cond.ShouldRetry(errAlpha, 1))
	assert.True(t, cond.ShouldRetry(errBeta, 1))
	assert.False(t, cond.ShouldRetry(errors.New("other"), 1))
}

func TestRetryOnCondition(t *testing.T) {
	cond := RetryOnCondition(func(err error) bool {
		return err.Error() == "alpha"
	})

	assert.True(t, cond.ShouldRetry(errAlpha, 1))
	assert.False(t, cond.ShouldRetry(errBeta, 1))
	assert.False(t, cond.ShouldRetry(nil, 1))
}

func TestRetryOnHTTPStatus(t *testing.T) {
	cond := RetryOnHTTPStatus(429, 503)

	assert.True(t, cond.ShouldRetry(&statusError{code: 429}, 1))
	assert.True(t, cond.ShouldRetry(&statusError{code: 503}, 1))
	assert.False(t, cond.ShouldRetry(&statusError{code: 400}, 1))
	assert.False(t, cond.ShouldRetry(errAlpha, 1), "non-http error does not match")
}

func TestRetryOnTemporaryError(t *testing.T) {
	cond := RetryOnTemporaryError()

	assert.True(t, cond.ShouldRetry(context.DeadlineExceeded, 1))
	assert.True(t, cond.ShouldRetry(context.Canceled, 1))
	assert.True(t, cond.ShouldRetry(syscall.ECONNREFUSED, 1))
	assert.True(t, cond.ShouldRetry(syscall.ECONNRESET, 1))
	assert.True(t, cond.ShouldRetry(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, 1))
	assert.False(t, cond.ShouldRetry(errAlpha, 1))
	assert.False(t, cond.ShouldRetry(nil, 1))
}

func TestConditionCombinators(t *testing.T) {
	both := And(RetryOnError(errAlpha), RetryOnCondition(func(err error) bool {
		return true
	}))
	assert.True(t, both.ShouldRetry(errAlpha, 1))
	assert.False(t, both.ShouldRetry(errBeta, 1))

	either := Or(RetryOnError(errAlpha), RetryOnError(errBeta))
	assert.True(t, either.ShouldRetry(errAlpha, 1))
	assert.True(t, either.ShouldRetry(errBeta, 1))
	assert.False(t, either.ShouldRetry(errors.New("other"), 1))

	inverted := Not(RetryOnError(errAlpha))
	assert.False(t, inverted.ShouldRetry(errAlpha, 1))
	assert.True(t, inverted.ShouldRetry(errBeta, 1))
}
