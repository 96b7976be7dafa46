package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

// RequestLog 一次HTTP请求的日志文档
type RequestLog struct {
	ID        string
	RequestID string
	Method    string
	Path      string
	Status    int
	Latency   time.Duration
	ActorID   int64
	ClientIP  string
	TraceID   string
	Time      time.Time
}

// ExceptionLog 请求失败(5xx或业务拒绝)时记录的异常文档
type ExceptionLog struct {
	ID        string
	RequestID string
	Method    string
	Path      string
	Code      int
	Message   string
	Cause     string
	TraceID   string
	Time      time.Time
}

// LogStore 基于Redis Stream的请求/异常日志存储
// 每条文档 XADD 到对应stream，MAXLEN ~ 近似截断
type LogStore struct {
	client          *redis.Client
	requestStream   string
	exceptionStream string
	maxLen          int64
}

func NewLogStore(client *redis.Client, requestStream, exceptionStream string, maxLen int64) *LogStore {
	metrics.InitMetrics()
	return &LogStore{
		client:          client,
		requestStream:   requestStream,
		exceptionStream: exceptionStream,
		maxLen:          maxLen,
	}
}

// AppendRequest 写入请求日志，ID为空时生成UUID
func (s *LogStore) AppendRequest(ctx context.Context, l RequestLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return s.add(ctx, s.requestStream, map[string]any{
		"id":         l.ID,
		"request_id": l.RequestID,
		"method":     l.Method,
		"path":       l.Path,
		"status":     l.Status,
		"latency_us": l.Latency.Microseconds(),
		"actor_id":   l.ActorID,
		"client_ip":  l.ClientIP,
		"trace_id":   l.TraceID,
		"time":       l.Time.UTC().Format(time.RFC3339Nano),
	})
}

// AppendException 写入异常日志
func (s *LogStore) AppendException(ctx context.Context, l ExceptionLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return s.add(ctx, s.exceptionStream, map[string]any{
		"id":         l.ID,
		"request_id": l.RequestID,
		"method":     l.Method,
		"path":       l.Path,
		"code":       l.Code,
		"message":    l.Message,
		"cause":      l.Cause,
		"trace_id":   l.TraceID,
		"time":       l.Time.UTC().Format(time.RFC3339Nano),
	})
}

func (s *LogStore) add(ctx context.Context, stream string, values map[string]any) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	metrics.LogStreamWritesTotal.WithLabelValues(stream, metrics.Result(err)).Inc()
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "写入日志失败")
	}
	return nil
}

// RecentRequests 按时间倒序返回最近n条请求日志
func (s *LogStore) RecentRequests(ctx context.Context, n int64) ([]RequestLog, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.requestStream, "+", "-", n).Result()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取请求日志失败")
	}
	logs := make([]RequestLog, 0, len(msgs))
	for _, m := range msgs {
		v := fields(m.Values)
		latency, _ := strconv.ParseInt(v["latency_us"], 10, 64)
		logs = append(logs, RequestLog{
			ID:        v["id"],
			RequestID: v["request_id"],
			Method:    v["method"],
			Path:      v["path"],
			Status:    atoi(v["status"]),
			Latency:   time.Duration(latency) * time.Microsecond,
			ActorID:   int64(atoi(v["actor_id"])),
			ClientIP:  v["client_ip"],
			TraceID:   v["trace_id"],
			Time:      parseTime(v["time"]),
		})
	}
	return logs, nil
}

// RecentExceptions 按时间倒序返回最近n条异常日志
func (s *LogStore) RecentExceptions(ctx context.Context, n int64) ([]ExceptionLog, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.exceptionStream, "+", "-", n).Result()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取异常日志失败")
	}
	logs := make([]ExceptionLog, 0, len(msgs))
	for _, m := range msgs {
		v := fields(m.Values)
		logs = append(logs, ExceptionLog{
			ID:        v["id"],
			RequestID: v["request_id"],
			Method:    v["method"],
			Path:      v["path"],
			Code:      atoi(v["code"]),
			Message:   v["message"],
			Cause:     v["cause"],
			TraceID:   v["trace_id"],
			Time:      parseTime(v["time"]),
		})
	}
	return logs, nil
}

func fields(values map[string]any) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
