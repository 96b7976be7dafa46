// Package metrics 定义服务的Prometheus指标
//
// 指标类型：
//   - Counter：只增不减（请求总数、借阅次数、事务重试次数）
//   - Gauge：可增可减（处理中的请求数、熔断器状态）
//   - Histogram：分布统计（请求耗时、用例耗时）
//
// 使用方式：
//
//	metrics.InitMetrics()
//	start := time.Now()
//	err := uc.Execute(ctx, cmd)
//	metrics.ObserveOperation("borrow", start, err)
//
// 指标通过 /metrics 暴露，见 Handler。
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用例结果标签
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected" // 校验失败、不存在、冲突
	ResultError    = "error"
)

var (
	initOnce sync.Once

	// HTTP请求指标

	// HTTPRequestsTotal 标签：method、path（路由模板）、status
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// OperationsTotal 用例执行次数，标签：operation（borrow/return/archive_copy…）、result
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// TxRetriesTotal 事务因死锁/锁等待被重试的次数
	TxRetriesTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 标签：routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
	MessagesConsumedTotal  *prometheus.CounterVec

	// LogStreamWritesTotal 请求/异常日志写入Redis Stream，标签：stream、result
	LogStreamWritesTotal *prometheus.CounterVec
)

// InitMetrics 注册全部指标，可重复调用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_operations_total",
			Help: "用例执行次数",
		},
		[]string{"operation", "result"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "library_operation_duration_seconds",
			Help: "用例耗时（秒，含事务重试）",
			// 借阅/归还包含条件更新与重试退避
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	TxRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_tx_retries_total",
			Help: "事务重试次数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // success/failure/rejected
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "领域事件发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	LogStreamWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_stream_writes_total",
			Help: "日志写入Redis Stream次数",
		},
		[]string{"stream", "result"},
	)
}

// Result 把用例错误归类为结果标签
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case apperrors.IsValidation(err), apperrors.IsNotFound(err), apperrors.IsConflict(err):
		return ResultRejected
	default:
		return ResultError
	}
}

// ObserveOperation 记录一次用例执行
func ObserveOperation(operation string, start time.Time, err error) {
	OperationsTotal.WithLabelValues(operation, Result(err)).Inc()
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveTxRetry 事务重试回调，签名与 TxManager 的重试观察者一致
func ObserveTxRetry(int, error) {
	TxRetriesTotal.Inc()
}

// Handler 返回 /metrics 处理器
func Handler() http.Handler {
	return promhttp.Handler()
}
