package shared

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// 领域事件类型，同时作为消息路由键
const (
	EventBorrowCreated  = "borrow.created"
	EventBorrowReturned = "borrow.returned"
	EventCopyCreated    = "copy.created"
	EventCopyArchived   = "copy.archived"
	EventBookArchived   = "book.archived"
)

// Event 领域事件
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	ActorID    int64     `json:"actorId"`
	Payload    any       `json:"payload"`
}

// NewEvent 创建事件
func NewEvent(eventType string, actorID int64, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
		Payload:    payload,
	}
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

// NoopPublisher 未启用消息队列时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// PublishAll 事务提交后发布事件
// 发布失败只记录日志，不影响已提交的业务结果
func PublishAll(ctx context.Context, pub EventPublisher, events ...Event) {
	if pub == nil {
		return
	}
	for _, e := range events {
		if err := pub.Publish(ctx, e); err != nil {
			slog.WarnContext(ctx, "领域事件发布失败", "type", e.Type, "event_id", e.ID, "error", err)
		}
	}
}

// BorrowPayload borrow.created / borrow.returned
type BorrowPayload struct {
	BorrowID   int64      `json:"borrowId"`
	CopyID     int64      `json:"copyId"`
	UserID     int64      `json:"userId"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
}

// CopyPayload copy.created / copy.archived
type CopyPayload struct {
	CopyID   int64  `json:"copyId"`
	BookID   int64  `json:"bookId"`
	CopyCode string `json:"copyCode"`
}

// BookPayload book.archived
type BookPayload struct {
	BookID int64 `json:"bookId"`
	// Cascade 由最后一个副本归档触发
	Cascade bool `json:"cascade"`
}
