package retry

import (
	"fmt"
	"strings"
)

// MultiError 聚合所有失败尝试的错误。
// Unwrap 返回最后一次错误，errors.Is/As 可穿透到最终失败原因。
type MultiError struct {
	Errors   []error
	Attempts int
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "retry failed: no errors"
	}
	return e.Errors[len(e.Errors)-1].Error()
}

func (e *MultiError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// AllErrors 返回逐次尝试错误的可读表示，用于日志
func (e *MultiError) AllErrors() string {
	if len(e.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "retry failed after %d attempts:", e.Attempts)
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  attempt %d: %v", i+1, err)
	}
	return b.String()
}
