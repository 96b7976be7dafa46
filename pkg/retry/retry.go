// Package retry 提供带指数退避和抖动的重试
//
// 只重试调用方判定为瞬时的错误（如死锁、锁等待超时），其余错误立即返回。
//
// 默认调度：0ms, 10ms, 20ms（30%抖动）
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// Func 可重试的函数
type Func func(ctx context.Context) error

type config struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	retryable    func(error) bool
	onRetry      func(attempt int, err error)
}

// Option 函数式选项
type Option func(*config) error

// WithMaxAttempts 最大尝试次数（含第一次）
func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay 退避基数，实际延迟为 base, base*2, base*4 ...
func WithBaseDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = delay
		return nil
	}
}

// WithJitterFactor 抖动比例，取值 0.0~1.0
func WithJitterFactor(factor float64) Option {
	return func(c *config) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = factor
		return nil
	}
}

// WithRetryable 判定错误是否可重试
func WithRetryable(fn func(error) bool) Option {
	return func(c *config) error {
		c.retryable = fn
		return nil
	}
}

// WithOnRetry 每次决定重试时回调（attempt从1开始）
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *config) error {
		c.onRetry = fn
		return nil
	}
}

// Do 执行fn，遇到可重试错误时按指数退避重试
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryable:    func(error) bool { return false },
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * cfg.jitterFactor //nolint:gosec
			select {
			case <-time.After(delay + time.Duration(jitter)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !cfg.retryable(lastErr) {
			return lastErr
		}
		if attempt < cfg.maxAttempts-1 && cfg.onRetry != nil {
			cfg.onRetry(attempt+1, lastErr)
		}
	}

	return lastErr
}
