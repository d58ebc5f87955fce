package retry

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy 退避策略接口
type BackoffStrategy interface {
	// Next 返回第 attempt 次失败后的等待时间，attempt 从 1 开始
	Next(attempt int) time.Duration
}

// BackoffOption 退避策略选项
type BackoffOption func(*backoffConfig)

type backoffConfig struct {
	multiplier float64
	maxDelay   time.Duration
	jitter     float64
}

func defaultBackoffConfig() *backoffConfig {
	return &backoffConfig{
		multiplier: 2.0,
		maxDelay:   30 * time.Second,
		jitter:     0.2,
	}
}

// WithMultiplier 设置指数倍数
func WithMultiplier(m float64) BackoffOption {
	return func(c *backoffConfig) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithMaxDelay 设置延迟上限
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(c *backoffConfig) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithJitter 设置抖动比例，取值 0.0 - 1.0
func WithJitter(ratio float64) BackoffOption {
	return func(c *backoffConfig) {
		if ratio >= 0 && ratio <= 1.0 {
			c.jitter = ratio
		}
	}
}

type exponentialBackoff struct {
	base   time.Duration
	config *backoffConfig
}

// ExponentialBackoff 创建指数退避策略。
// delay = base * multiplier^(attempt-1)，受 maxDelay 限制并叠加抖动。
func ExponentialBackoff(base time.Duration, opts ...BackoffOption) BackoffStrategy {
	config := defaultBackoffConfig()
	for _, opt := range opts {
		opt(config)
	}
	return &exponentialBackoff{base: base, config: config}
}

func (b *exponentialBackoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(b.base) * math.Pow(b.config.multiplier, float64(attempt-1))
	if delay > float64(b.config.maxDelay) {
		delay = float64(b.config.maxDelay)
	}
	return time.Duration(applyJitter(delay, b.config.jitter))
}

type constantBackoff struct {
	delay  time.Duration
	config *backoffConfig
}

// ConstantBackoff 创建固定间隔退避策略
func ConstantBackoff(delay time.Duration, opts ...BackoffOption) BackoffStrategy {
	config := defaultBackoffConfig()
	for _, opt := range opts {
		opt(config)
	}
	return &constantBackoff{delay: delay, config: config}
}

func (b *constantBackoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return time.Duration(applyJitter(float64(b.delay), b.config.jitter))
}

type noBackoff struct{}

// NoBackoff 创建立即重试策略
func NoBackoff() BackoffStrategy {
	return noBackoff{}
}

func (noBackoff) Next(attempt int) time.Duration {
	return 0
}

// applyJitter 在 [delay*(1-jitter), delay*(1+jitter)] 内随机取值
func applyJitter(delay float64, jitter float64) float64 {
	if jitter <= 0 {
		return delay
	}

	delta := delay * jitter
	result := delay + (rand.Float64()*2-1)*delta
	if result < 0 {
		return 0
	}
	return result
}
