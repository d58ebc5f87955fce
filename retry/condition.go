package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// RetryCondition 重试条件接口
type RetryCondition interface {
	// ShouldRetry 判断第 attempt 次失败后是否继续重试，attempt 从 1 开始
	ShouldRetry(err error, attempt int) bool
}

type conditionFunc func(err error, attempt int) bool

func (f conditionFunc) ShouldRetry(err error, attempt int) bool {
	return f(err, attempt)
}

// AlwaysRetry 任何非 nil 错误都重试
func AlwaysRetry() RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		return err != nil
	})
}

// NeverRetry 永不重试
func NeverRetry() RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		return false
	})
}

// RetryOnError 匹配目标错误时重试，使用 errors.Is 判断
func RetryOnError(target error) RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		return err != nil && errors.Is(err, target)
	})
}

// RetryOnErrors 匹配任一目标错误时重试
func RetryOnErrors(targets ...error) RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		if err == nil {
			return false
		}
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	})
}

// RetryOnCondition 自定义判断函数
func RetryOnCondition(fn func(error) bool) RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		return err != nil && fn(err)
	})
}

// HTTPError 携带 HTTP 状态码的错误，由调用方定义
type HTTPError interface {
	error
	StatusCode() int
}

// RetryOnHTTPStatus 匹配指定 HTTP 状态码时重试
func RetryOnHTTPStatus(statuses ...int) RetryCondition {
	statusSet := make(map[int]struct{}, len(statuses))
	for _, s := range statuses {
		statusSet[s] = struct{}{}
	}

	return conditionFunc(func(err error, attempt int) bool {
		if err == nil {
			return false
		}
		httpErr, ok := err.(HTTPError)
		if !ok {
			return false
		}
		_, hit := statusSet[httpErr.StatusCode()]
		return hit
	})
}

type temporaryError interface {
	Temporary() bool
}

// RetryOnTemporaryError 针对临时性错误重试：
// 实现 Temporary() 的错误、context 超时/取消、
// 以及连接被拒/重置/超时一类的系统调用错误。
func RetryOnTemporaryError() RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		if err == nil {
			return false
		}

		if te, ok := err.(temporaryError); ok && te.Temporary() {
			return true
		}

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return true
		}

		// 先检查系统调用错误：裸 syscall.Errno 也满足 net.Error，
		// 而 ECONNREFUSED 的 Temporary() 为 false，不能先走 net.Error 分支
		if isTransientSyscall(err) {
			return true
		}

		var netErr net.Error
		if errors.As(err, &netErr) {
			return netErr.Temporary() || netErr.Timeout()
		}

		return false
	})
}

func isTransientSyscall(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		err = opErr.Err
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EPIPE)
}

// And 组合条件，全部满足才重试
func And(conditions ...RetryCondition) RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		for _, cond := range conditions {
			if !cond.ShouldRetry(err, attempt) {
				return false
			}
		}
		return true
	})
}

// Or 组合条件，任一满足即重试
func Or(conditions ...RetryCondition) RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		for _, cond := range conditions {
			if cond.ShouldRetry(err, attempt) {
				return true
			}
		}
		return false
	})
}

// Not 取反条件
func Not(condition RetryCondition) RetryCondition {
	return conditionFunc(func(err error, attempt int) bool {
		return !condition.ShouldRetry(err, attempt)
	})
}
