// Package retry 提供带退避策略和重试条件的重试执行器。
package retry

import (
	"context"
	"errors"
	"time"
)

// Do 执行 operation，失败时按配置重试。
// 所有尝试均失败时返回 *MultiError。
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	_, err := DoWithData(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	}, opts...)
	return err
}

// DoWithData 执行带返回值的 operation，失败时按配置重试。
func DoWithData[T any](ctx context.Context, operation func() (T, error), opts ...Option) (T, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var result T
	var attemptErrs []error

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var err error
		if cfg.timeout > 0 {
			opCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
			result, err = runWithContext(opCtx, operation)
			cancel()
		} else {
			result, err = operation()
		}

		if err == nil {
			return result, nil
		}
		attemptErrs = append(attemptErrs, err)

		if !cfg.condition.ShouldRetry(err, attempt) || attempt == cfg.maxAttempts {
			return result, &MultiError{Errors: attemptErrs, Attempts: attempt}
		}

		if cfg.onRetry != nil {
			cfg.onRetry(attempt, err)
		}

		delay := cfg.backoff.Next(attempt)

		// 剩余时间不足以等待退避时提前结束
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			attemptErrs = append(attemptErrs, context.DeadlineExceeded)
			return result, &MultiError{Errors: attemptErrs, Attempts: attempt}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}

	return result, &MultiError{Errors: attemptErrs, Attempts: cfg.maxAttempts}
}

// runWithContext 在独立 goroutine 中执行 operation，超时后放弃等待。
func runWithContext[T any](ctx context.Context, operation func() (T, error)) (T, error) {
	type outcome struct {
		data T
		err  error
	}

	ch := make(chan outcome, 1)
	go func() {
		data, err := operation()
		ch <- outcome{data: data, err: err}
	}()

	select {
	case out := <-ch:
		return out.data, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Attempts 返回重试执行器记录的尝试次数，非重试错误返回 0。
func Attempts(err error) int {
	var multiErr *MultiError
	if errors.As(err, &multiErr) {
		return multiErr.Attempts
	}
	return 0
}
