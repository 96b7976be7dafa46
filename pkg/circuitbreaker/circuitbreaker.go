// Package circuitbreaker 熔断器
//
// 状态机：
//
//	CLOSED --连续失败达到阈值--> OPEN --超时--> HALF_OPEN --成功--> CLOSED
//	                                              |--失败--> OPEN
//
// 用于包装领域事件发布，消息代理不可用时快速失败，不拖慢借阅/归还请求。
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Counts 当前统计窗口内的计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// ErrOpenState 熔断器打开时拒绝请求
var ErrOpenState = errors.New("circuit breaker is open")

// Option 熔断器选项
type Option func(*CircuitBreaker)

// WithMaxRequests 半开状态允许通过的试探请求数
func WithMaxRequests(n uint32) Option {
	return func(cb *CircuitBreaker) { cb.maxRequests = n }
}

// WithInterval 关闭状态下统计窗口长度，0表示不重置
func WithInterval(d time.Duration) Option {
	return func(cb *CircuitBreaker) { cb.interval = d }
}

// WithTimeout 打开状态持续时间
func WithTimeout(d time.Duration) Option {
	return func(cb *CircuitBreaker) { cb.timeout = d }
}

// WithReadyToTrip 自定义跳闸条件
func WithReadyToTrip(fn func(Counts) bool) Option {
	return func(cb *CircuitBreaker) { cb.readyToTrip = fn }
}

// WithStateChange 状态变化回调(日志、指标)
func WithStateChange(fn func(name string, from, to State)) Option {
	return func(cb *CircuitBreaker) { cb.onStateChange = fn }
}

func withClock(now func() time.Time) Option {
	return func(cb *CircuitBreaker) { cb.now = now }
}

// ConsecutiveFailures 连续失败n次跳闸
func ConsecutiveFailures(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

type CircuitBreaker struct {
	name          string
	maxRequests   uint32
	interval      time.Duration
	timeout       time.Duration
	readyToTrip   func(Counts) bool
	onStateChange func(name string, from, to State)
	now           func() time.Time

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，丢弃跨代的结果
	counts     Counts
	expiry     time.Time
}

// New 创建熔断器，默认连续失败5次跳闸，打开30秒
func New(name string, opts ...Option) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:        name,
		maxRequests: 1,
		interval:    time.Minute,
		timeout:     30 * time.Second,
		readyToTrip: ConsecutiveFailures(5),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	cb.toNewGeneration(cb.now())
	return cb
}

func (cb *CircuitBreaker) Name() string { return cb.name }

// Execute 在熔断保护下执行fn
// context取消不计为失败
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	generation, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	err = fn(ctx)

	cb.afterRequest(generation, err == nil || errors.Is(err, context.Canceled))
	return err
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.currentState(cb.now())
	if state == StateOpen {
		return generation, ErrOpenState
	}
	if state == StateHalfOpen && cb.counts.Requests >= cb.maxRequests {
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.currentState(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.onSuccess()
		if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.maxRequests {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.onFailure()
	switch state {
	case StateClosed:
		if cb.readyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.toNewGeneration(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}
	prev := cb.state
	cb.state = state
	cb.toNewGeneration(now)

	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) toNewGeneration(now time.Time) {
	cb.generation++
	cb.counts = Counts{}

	switch cb.state {
	case StateClosed:
		if cb.interval == 0 {
			cb.expiry = time.Time{}
		} else {
			cb.expiry = now.Add(cb.interval)
		}
	case StateOpen:
		cb.expiry = now.Add(cb.timeout)
	default:
		cb.expiry = time.Time{}
	}
}

// State 返回当前状态(会触发超时切换)
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.currentState(cb.now())
	return state
}

func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}
