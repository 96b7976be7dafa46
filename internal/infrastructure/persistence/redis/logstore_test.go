package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func newStore(t *testing.T, maxLen int64) (*LogStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLogStore(client, "test:requests", "test:exceptions", maxLen), mr
}

func streamLen(t *testing.T, s *LogStore, stream string) int64 {
	t.Helper()
	n, err := s.client.XLen(context.Background(), stream).Result()
	require.NoError(t, err)
	return n
}

func TestLogStore_AppendAndReadRequests(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, 100)
	at := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)

	require.NoError(t, store.AppendRequest(ctx, RequestLog{
		RequestID: "req-1", Method: "POST", Path: "/api/v1/borrows", Status: 201,
		Latency: 1500 * time.Microsecond, ActorID: 5, ClientIP: "10.0.0.1", Time: at,
	}))
	require.NoError(t, store.AppendRequest(ctx, RequestLog{
		RequestID: "req-2", Method: "GET", Path: "/api/v1/borrows/overdue", Status: 200, Time: at.Add(time.Second),
	}))

	logs, err := store.RecentRequests(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "req-2", logs[0].RequestID)
	first := logs[1]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "POST", first.Method)
	assert.Equal(t, 201, first.Status)
	assert.Equal(t, 1500*time.Microsecond, first.Latency)
	assert.Equal(t, int64(5), first.ActorID)
	assert.True(t, at.Equal(first.Time))
}

func TestLogStore_Exceptions(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, 100)

	require.NoError(t, store.AppendException(ctx, ExceptionLog{
		RequestID: "req-9", Method: "POST", Path: "/api/v1/borrows",
		Code: apperrors.ErrCodeDatabaseError, Message: "借阅失败", Cause: "deadlock",
	}))

	logs, err := store.RecentExceptions(ctx, 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, apperrors.ErrCodeDatabaseError, logs[0].Code)
	assert.Equal(t, "deadlock", logs[0].Cause)

	assert.Equal(t, int64(0), streamLen(t, store, "test:requests"))
}

func TestLogStore_TrimsStream(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.AppendRequest(ctx, RequestLog{RequestID: fmt.Sprintf("req-%d", i)}))
	}

	n := streamLen(t, store, "test:requests")
	assert.LessOrEqual(t, n, int64(10))
	assert.GreaterOrEqual(t, n, int64(3))

	logs, err := store.RecentRequests(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-9", logs[0].RequestID)
}

func TestLogStore_RedisDown(t *testing.T) {
	store, mr := newStore(t, 100)
	mr.Close()

	err := store.AppendRequest(context.Background(), RequestLog{RequestID: "req-1"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeRedisError, appErr.Code)
}
