// Package mq RabbitMQ发布/消费封装
//
// 领域事件发布到topic类型的Exchange，路由键形如 borrow.created、copy.archived；
// 消费者按通配符（borrow.*、#）绑定队列，手动确认，处理失败重新入队。
package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeTopic 默认Exchange类型
const ExchangeTopic = "topic"

// ErrChannelClosed 消息通道被代理关闭
var ErrChannelClosed = errors.New("mq: delivery channel closed")

// publishChannel *amqp.Channel 中发布所需的部分
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Message 待发布的消息
type Message struct {
	ID         string
	RoutingKey string
	Body       []byte
	Headers    map[string]any
	Timestamp  time.Time
}

type Publisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
}

// NewPublisher 连接RabbitMQ并声明持久化Exchange
func NewPublisher(url, exchange, exchangeType string) (*Publisher, error) {
	conn, ch, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}
	slog.Info("消息发布者已创建", "exchange", exchange, "type", exchangeType)
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func dial(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}
	// durable, 非autoDelete
	if err := ch.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, ch, nil
}

// Publish 发布一条持久化JSON消息
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	err := p.channel.PublishWithContext(ctx, p.exchange, msg.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    msg.ID,
		Headers:      amqp.Table(msg.Headers),
		Body:         msg.Body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
	})
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}
	slog.DebugContext(ctx, "消息已发布", "routing_key", msg.RoutingKey, "message_id", msg.ID)
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// Delivery 消费到的消息
type Delivery struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Handler 返回错误时消息重新入队
type Handler func(ctx context.Context, d Delivery) error

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewConsumer 声明队列并按routingKeys绑定到Exchange
// queue为空时创建独占的临时队列
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, ch, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	durable, exclusive := true, false
	if queue == "" {
		durable, exclusive = false, true
	}
	q, err := ch.QueueDeclare(queue, durable, !durable, exclusive, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	slog.Info("消息消费者已创建", "queue", q.Name, "routing_keys", routingKeys)
	return &Consumer{conn: conn, channel: ch, queue: q.Name}, nil
}

// Consume 阻塞消费直到ctx取消
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}
	return consumeLoop(ctx, c.queue, msgs, handler)
}

func consumeLoop(ctx context.Context, queue string, msgs <-chan amqp.Delivery, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("消费者退出", "queue", queue)
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return ErrChannelClosed
			}
			d := Delivery{
				MessageID:  msg.MessageId,
				RoutingKey: msg.RoutingKey,
				Body:       msg.Body,
				Timestamp:  msg.Timestamp,
			}
			if err := handler(ctx, d); err != nil {
				slog.WarnContext(ctx, "消息处理失败，重新入队", "routing_key", d.RoutingKey, "error", err)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
