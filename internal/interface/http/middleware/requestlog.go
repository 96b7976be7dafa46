package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
	"github.com/xiebiao/library/pkg/tracing"
)

// LogSink 请求/异常日志的写入端，由redis.LogStore实现
type LogSink interface {
	AppendRequest(ctx context.Context, l redis.RequestLog) error
	AppendException(ctx context.Context, l redis.ExceptionLog) error
}

// RequestLog 记录每个请求的访问日志；响应携带AppError时额外写一条异常日志
// sink为nil时只写slog
func RequestLog(sink LogSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		entry := redis.RequestLog{
			RequestID: c.GetString(RequestIDKey),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			Latency:   time.Since(start),
			ActorID:   GetActorID(c),
			ClientIP:  c.ClientIP(),
			TraceID:   tracing.ExtractTraceID(ctx),
			Time:      start,
		}

		slog.InfoContext(ctx, "http request",
			"request_id", entry.RequestID,
			"method", entry.Method,
			"path", entry.Path,
			"status", entry.Status,
			"latency", entry.Latency,
			"actor_id", entry.ActorID,
		)

		if sink == nil {
			return
		}
		// 日志写入失败不影响响应
		if err := sink.AppendRequest(ctx, entry); err != nil {
			slog.WarnContext(ctx, "写入请求日志失败", "error", err)
		}

		v, ok := c.Get(response.ErrorKey)
		if !ok {
			return
		}
		appErr, ok := v.(*apperrors.AppError)
		if !ok {
			return
		}
		exc := redis.ExceptionLog{
			RequestID: entry.RequestID,
			Method:    entry.Method,
			Path:      entry.Path,
			Code:      appErr.Code,
			Message:   appErr.Message,
			TraceID:   entry.TraceID,
			Time:      start,
		}
		if appErr.Err != nil {
			exc.Cause = appErr.Err.Error()
		}
		if err := sink.AppendException(ctx, exc); err != nil {
			slog.WarnContext(ctx, "写入异常日志失败", "error", err)
		}
	}
}
