// Package messaging 领域事件通过RabbitMQ发布
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/tracing"
)

// sender mq.Publisher中发布所需的部分
type sender interface {
	Publish(ctx context.Context, msg mq.Message) error
}

// EventPublisher 经熔断器保护的事件发布者
// 代理不可用时熔断器打开，后续发布立即失败，不阻塞业务请求
type EventPublisher struct {
	sender  sender
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

// NewEventPublisher 包装mq发布者
func NewEventPublisher(s sender, breaker *circuitbreaker.CircuitBreaker) *EventPublisher {
	metrics.InitMetrics()
	return &EventPublisher{sender: s, breaker: breaker, timeout: 2 * time.Second}
}

// NewBreaker 创建事件发布熔断器，状态变化写入日志与指标
func NewBreaker() *circuitbreaker.CircuitBreaker {
	metrics.InitMetrics()
	return circuitbreaker.New("event-publisher",
		circuitbreaker.WithReadyToTrip(circuitbreaker.ConsecutiveFailures(5)),
		circuitbreaker.WithTimeout(30*time.Second),
		circuitbreaker.WithStateChange(func(name string, from, to circuitbreaker.State) {
			slog.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		}),
	)
}

// Publish 序列化事件并发布，路由键为事件类型
func (p *EventPublisher) Publish(ctx context.Context, e shared.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeBrokerError, "事件序列化失败")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := mq.Message{
		ID:         e.ID,
		RoutingKey: e.Type,
		Body:       body,
		Timestamp:  e.OccurredAt,
		Headers:    map[string]any{"trace_id": tracing.ExtractTraceID(ctx)},
	}
	err = p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.sender.Publish(ctx, msg)
	})

	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = metrics.ResultRejected
	case err != nil:
		result = metrics.ResultError
	}
	metrics.CircuitBreakerRequests.WithLabelValues(p.breaker.Name(), result).Inc()
	metrics.MessagesPublishedTotal.WithLabelValues(e.Type, result).Inc()

	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeBrokerError, "事件发布失败")
	}
	return nil
}

// New 按配置创建事件发布者，未启用时返回NoopPublisher
// 返回的closer用于关闭连接
func New(cfg config.MQConfig) (shared.EventPublisher, func() error, error) {
	if !cfg.Enabled {
		return shared.NoopPublisher{}, func() error { return nil }, nil
	}
	pub, err := mq.NewPublisher(cfg.URL, cfg.Exchange, mq.ExchangeTopic)
	if err != nil {
		return nil, nil, fmt.Errorf("创建事件发布者失败: %w", err)
	}
	return NewEventPublisher(pub, NewBreaker()), pub.Close, nil
}

// DecodeEvent 解析消费到的事件消息
func DecodeEvent(body []byte) (shared.Event, error) {
	var e shared.Event
	if err := json.Unmarshal(body, &e); err != nil {
		return e, fmt.Errorf("事件解析失败: %w", err)
	}
	return e, nil
}
