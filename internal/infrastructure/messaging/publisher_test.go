package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/mq"
)

type fakeSender struct {
	msgs []mq.Message
	err  error
}

func (s *fakeSender) Publish(_ context.Context, msg mq.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func TestPublish_RoutesByEventType(t *testing.T) {
	s := &fakeSender{}
	p := NewEventPublisher(s, NewBreaker())
	e := shared.NewEvent(shared.EventBorrowCreated, 5, shared.BorrowPayload{BorrowID: 9, CopyID: 3, UserID: 5})

	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, s.msgs, 1)
	assert.Equal(t, "borrow.created", s.msgs[0].RoutingKey)
	assert.Equal(t, e.ID, s.msgs[0].ID)

	decoded, err := DecodeEvent(s.msgs[0].Body)
	require.NoError(t, err)
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, int64(5), decoded.ActorID)
	payload, ok := decoded.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(9), payload["borrowId"])
}

func TestPublish_BreakerOpensAfterFailures(t *testing.T) {
	s := &fakeSender{err: errors.New("connection refused")}
	breaker := circuitbreaker.New("test-publisher", circuitbreaker.WithReadyToTrip(circuitbreaker.ConsecutiveFailures(2)))
	p := NewEventPublisher(s, breaker)
	e := shared.NewEvent(shared.EventCopyArchived, 1, nil)

	for i := 0; i < 2; i++ {
		err := p.Publish(context.Background(), e)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrCodeBrokerError, appErr.Code)
	}

	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())
	assert.ErrorIs(t, p.Publish(context.Background(), e), circuitbreaker.ErrOpenState)
}

func TestNew_DisabledReturnsNoop(t *testing.T) {
	pub, closeFn, err := New(config.MQConfig{Enabled: false})

	require.NoError(t, err)
	assert.IsType(t, shared.NoopPublisher{}, pub)
	assert.NoError(t, closeFn())
}

func TestDecodeEvent_Invalid(t *testing.T) {
	_, err := DecodeEvent([]byte("not json"))
	assert.Error(t, err)
}
