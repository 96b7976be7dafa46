package borrow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type memRepo struct {
	records map[int64]*Record
	nextID  int64
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[int64]*Record{}}
}

func (m *memRepo) Create(_ context.Context, r *Record) error {
	m.nextID++
	r.ID = m.nextID
	m.records[r.ID] = r
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id int64) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, ErrBorrowNotFound
	}
	return r, nil
}

func (m *memRepo) MarkReturned(_ context.Context, id int64, returnDate time.Time, actorID int64) error {
	r, ok := m.records[id]
	if !ok {
		return ErrBorrowNotFound
	}
	if !r.Outstanding() {
		return ErrAlreadyReturned
	}
	r.ReturnDate = &returnDate
	r.StampModified(actorID, returnDate)
	return nil
}

func (m *memRepo) detail(r *Record) *Detail {
	return &Detail{Record: *r, CopyCode: "AB-01", Username: "reader"}
}

func (m *memRepo) FindDetail(_ context.Context, id int64) (*Detail, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, ErrBorrowNotFound
	}
	return m.detail(r), nil
}

func (m *memRepo) ListOverdue(_ context.Context, cutoff time.Time) ([]*Detail, error) {
	var out []*Detail
	for id := int64(1); id <= m.nextID; id++ {
		if r := m.records[id]; r.Outstanding() && r.DueDate.Before(cutoff) {
			out = append(out, m.detail(r))
		}
	}
	return out, nil
}

func (m *memRepo) ListDetails(_ context.Context) ([]*Detail, error) {
	var out []*Detail
	for id := int64(1); id <= m.nextID; id++ {
		out = append(out, m.detail(m.records[id]))
	}
	return out, nil
}

func (m *memRepo) ListByUser(_ context.Context, userID int64) ([]*Detail, error) {
	var out []*Detail
	for id := int64(1); id <= m.nextID; id++ {
		if r := m.records[id]; r.UserID == userID {
			out = append(out, m.detail(r))
		}
	}
	return out, nil
}

// memCopies 模拟库存服务的状态翻转
type memCopies struct {
	copies map[int64]*inventory.Copy
	logs   []int64
}

func (m *memCopies) Checkout(_ context.Context, id, _ int64) (*inventory.Copy, error) {
	c, ok := m.copies[id]
	if !ok {
		return nil, inventory.ErrCopyNotFound
	}
	if !c.Borrowable() {
		return nil, inventory.ErrCopyUnavailable
	}
	c.IsAvailable = false
	return c, nil
}

func (m *memCopies) ReturnCopy(_ context.Context, id, _ int64) error {
	c, ok := m.copies[id]
	if !ok {
		return inventory.ErrCopyNotFound
	}
	c.IsAvailable = true
	return nil
}

func (m *memCopies) LogBorrowed(_ context.Context, _ *inventory.Copy, borrowID, _ int64) error {
	m.logs = append(m.logs, borrowID)
	return nil
}

type memUsers map[int64]*user.User

func (m memUsers) LockUser(_ context.Context, id int64) (*user.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

type fixture struct {
	svc    Service
	repo   *memRepo
	copies *memCopies
	now    time.Time
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		repo:   newMemRepo(),
		copies: &memCopies{copies: map[int64]*inventory.Copy{1: {ID: 1, BookID: 10, CopyCode: "AB-01", IsAvailable: true}}},
		now:    time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	archived := &user.User{ID: 6}
	archived.IsArchived = true
	users := memUsers{5: {ID: 5, Username: "reader"}, 6: archived}
	clock := func() time.Time { return f.now }
	f.svc = NewService(f.repo, f.copies, users, audit.NewPolicy(clock), opts...)
	return f
}

func TestBorrow_DefaultDueDate(t *testing.T) {
	f := newFixture()

	r, err := f.svc.Borrow(context.Background(), 1, 5, nil)

	require.NoError(t, err)
	assert.Equal(t, f.now, r.BorrowDate)
	assert.Equal(t, f.now.AddDate(0, 0, 14), r.DueDate)
	assert.Nil(t, r.ReturnDate)
	assert.Equal(t, int64(5), r.CreatedBy)
	assert.False(t, f.copies.copies[1].IsAvailable)
	assert.Equal(t, []int64{r.ID}, f.copies.logs)
}

func TestBorrow_LoanDaysOption(t *testing.T) {
	f := newFixture(WithLoanDays(7))

	r, err := f.svc.Borrow(context.Background(), 1, 5, nil)

	require.NoError(t, err)
	assert.Equal(t, f.now.AddDate(0, 0, 7), r.DueDate)
}

func TestBorrow_Failures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Borrow(ctx, 0, 5, nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Borrow(ctx, 1, 0, nil)
	assert.True(t, apperrors.IsValidation(err))

	past := f.now.AddDate(0, 0, -1)
	_, err = f.svc.Borrow(ctx, 1, 5, &past)
	assert.ErrorIs(t, err, ErrDueBeforeBorrow)

	_, err = f.svc.Borrow(ctx, 99, 5, nil)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.Borrow(ctx, 1, 404, nil)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.Borrow(ctx, 1, 6, nil)
	assert.ErrorIs(t, err, ErrBorrowerArchived)

	assert.True(t, f.copies.copies[1].IsAvailable, "failed borrows leave the copy untouched")
}

func TestBorrow_SameDayDueDateAccepted(t *testing.T) {
	f := newFixture()
	due := f.now.Add(-time.Hour)

	r, err := f.svc.Borrow(context.Background(), 1, 5, &due)

	require.NoError(t, err)
	assert.Equal(t, due, r.DueDate)
}

func TestBorrow_SecondBorrowConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Borrow(ctx, 1, 5, nil)
	require.NoError(t, err)

	_, err = f.svc.Borrow(ctx, 1, 5, nil)
	assert.True(t, apperrors.IsConflict(err))
}

func TestReturn(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	r, err := f.svc.Borrow(ctx, 1, 5, nil)
	require.NoError(t, err)

	f.now = r.DueDate.AddDate(0, 0, 3)
	returned, err := f.svc.Return(ctx, r.ID, 5)

	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, f.now, *returned.ReturnDate)
	assert.Equal(t, 3, returned.OverdueDays(f.now.AddDate(0, 1, 0)))
	assert.True(t, f.copies.copies[1].IsAvailable)

	_, err = f.svc.Return(ctx, r.ID, 5)
	assert.ErrorIs(t, err, ErrAlreadyReturned)

	_, err = f.svc.Return(ctx, 42, 5)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.Return(ctx, r.ID, 0)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListOverdueAndDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.copies.copies[2] = &inventory.Copy{ID: 2, BookID: 10, CopyCode: "AB-02", IsAvailable: true}

	due := f.now
	late, err := f.svc.Borrow(ctx, 1, 5, &due)
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, 2, 5, nil)
	require.NoError(t, err)

	f.now = f.now.AddDate(0, 0, 2)

	overdue, err := f.svc.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
	assert.True(t, overdue[0].Overdue)
	assert.Equal(t, 2, overdue[0].OverdueDays)

	got, err := f.svc.GetBorrowDetail(ctx, late.ID)
	require.NoError(t, err)
	assert.True(t, got.Overdue)
	assert.Equal(t, 2, got.OverdueDays)
	_, err = f.svc.GetBorrowDetail(ctx, 0)
	assert.True(t, apperrors.IsValidation(err))

	mine, err := f.svc.ListForUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].Overdue)
	assert.False(t, mine[1].Overdue)

	details, err := f.svc.ListBorrowDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.True(t, details[0].Overdue)
	assert.Equal(t, 2, details[0].OverdueDays)
	assert.False(t, details[1].Overdue)
	assert.Equal(t, 0, details[1].OverdueDays)
}
