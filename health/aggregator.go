package health

import (
	"context"
	"sync"
	"time"
)

// Aggregator 统一管理多个健康检查项，并发执行
type Aggregator struct {
	checkers []Checker
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewAggregator 创建健康检查聚合器
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Aggregator{timeout: timeout}
}

// Register 注册检查项
func (a *Aggregator) Register(checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers = append(a.checkers, checker)
}

// Check 并发执行所有检查项。
// 任何一项失败整体视为不健康。
func (a *Aggregator) Check(ctx context.Context) *Response {
	checkCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	results := make(chan CheckResult, len(checkers))
	for _, checker := range checkers {
		go func(c Checker) {
			results <- runCheck(checkCtx, c)
		}(checker)
	}

	checks := make(map[string]CheckResult, len(checkers))
	overall := StatusHealthy
	for i := 0; i < len(checkers); i++ {
		result := <-results
		checks[result.Name] = result
		if result.Status == StatusUnhealthy {
			overall = StatusUnhealthy
		}
	}

	return &Response{
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

func runCheck(ctx context.Context, checker Checker) CheckResult {
	start := time.Now()
	result := CheckResult{Name: checker.Name()}

	if err := checker.Check(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	} else {
		result.Status = StatusHealthy
	}
	result.Duration = time.Since(start)

	return result
}
