package cascade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/audit"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type mockReassigner struct {
	mock.Mock
}

func (m *mockReassigner) Reassign(ctx context.Context, target Target, fromID, toID, actorID int64, at time.Time) (int64, error) {
	args := m.Called(ctx, target, fromID, toID, actorID, at)
	return args.Get(0).(int64), args.Error(1)
}

type parent struct {
	audit.Metadata
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newPolicy(r Reassigner) *Policy {
	return NewPolicy(r, audit.NewPolicy(func() time.Time { return now }))
}

func TestArchive_ReassignsThenPersists(t *testing.T) {
	ctx := context.Background()
	r := new(mockReassigner)
	r.On("Reassign", ctx, TargetCategory, int64(4), int64(-1), int64(9), now).Return(int64(3), nil)

	p := &parent{}
	persisted := false
	moved, err := newPolicy(r).Archive(ctx, Request{
		Target: TargetCategory, Entity: p, ID: 4, SentinelID: -1, ActorID: 9,
		Persist: func(ctx context.Context) error {
			persisted = true
			return nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), moved)
	assert.True(t, p.Archived())
	assert.True(t, persisted)
	r.AssertExpectations(t)
}

func TestArchive_SentinelIsLocked(t *testing.T) {
	r := new(mockReassigner)

	_, err := newPolicy(r).Archive(context.Background(), Request{
		Target: TargetAuthor, Entity: &parent{}, ID: -1, SentinelID: -1, ActorID: 1,
	})

	assert.True(t, apperrors.IsConflict(err))
	r.AssertNotCalled(t, "Reassign", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArchive_AlreadyArchivedDoesNotReassign(t *testing.T) {
	r := new(mockReassigner)
	p := &parent{}
	p.SetArchived(1, now)

	_, err := newPolicy(r).Archive(context.Background(), Request{
		Target: TargetAuthor, Entity: p, ID: 5, SentinelID: -1, ActorID: 1,
	})

	assert.True(t, apperrors.IsConflict(err))
	r.AssertNotCalled(t, "Reassign", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArchive_ReassignFailureSkipsPersist(t *testing.T) {
	ctx := context.Background()
	r := new(mockReassigner)
	r.On("Reassign", ctx, TargetPublisher, int64(2), int64(-1), int64(1), now).Return(int64(0), errors.New("lock timeout"))

	_, err := newPolicy(r).Archive(ctx, Request{
		Target: TargetPublisher, Entity: &parent{}, ID: 2, SentinelID: -1, ActorID: 1,
		Persist: func(ctx context.Context) error {
			t.Fatal("persist must not run")
			return nil
		},
	})

	assert.Error(t, err)
}
