package mysql

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/cascade"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/user"
)

// copyRepoLendingAfterCheck 查询未归还借阅之后插入一次借阅
// 模拟检查与写入之间另一个请求借走副本
type copyRepoLendingAfterCheck struct {
	inventory.Repository
	once sync.Once
	lend func()
}

func (r *copyRepoLendingAfterCheck) HasOutstandingBorrow(ctx context.Context, copyID int64) (bool, error) {
	onLoan, err := r.Repository.HasOutstandingBorrow(ctx, copyID)
	r.once.Do(r.lend)
	return onLoan, err
}

type userRepoLendingAfterCheck struct {
	user.Repository
	once sync.Once
	lend func()
}

func (r *userRepoLendingAfterCheck) HasOutstandingBorrows(ctx context.Context, userID int64) (bool, error) {
	outstanding, err := r.Repository.HasOutstandingBorrows(ctx, userID)
	r.once.Do(r.lend)
	return outstanding, err
}

func (l *library) openLoans(t *testing.T, copyID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, l.db.Model(&BorrowModel{}).
		Where("copy_id = ? AND return_date IS NULL", copyID).
		Count(&n).Error)
	return n
}

func (l *library) copyServiceWith(repo inventory.Repository) inventory.Service {
	return inventory.NewService(repo, NewCopyLogRepository(l.db), l.catalog, audit.NewPolicy(l.clock.Now))
}

func TestArchiveCopy_BorrowedBetweenCheckAndWrite(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "reader")
	c := l.mustCopy(t, 1, "AB-01")

	var lendErr error
	repo := &copyRepoLendingAfterCheck{Repository: NewCopyRepository(l.db)}
	repo.lend = func() { _, lendErr = l.lend(context.Background(), c.ID, 5, nil) }

	_, err := l.copyServiceWith(repo).ArchiveCopy(ctx, c.ID, 1)
	require.NoError(t, lendErr)
	assert.ErrorIs(t, err, inventory.ErrCopyOnLoan)

	stored, err := l.copies.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, stored.Archived(), "loaned copy must not be archived")
	assert.False(t, stored.IsAvailable)
	assert.Equal(t, int64(1), l.openLoans(t, c.ID))

	book, err := l.catalog.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.False(t, book.Archived())
}

func TestReturnCopy_BorrowedBetweenCheckAndWrite(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "reader")
	c := l.mustCopy(t, 1, "AB-01")

	var lendErr error
	repo := &copyRepoLendingAfterCheck{Repository: NewCopyRepository(l.db)}
	repo.lend = func() { _, lendErr = l.lend(context.Background(), c.ID, 5, nil) }

	err := l.copyServiceWith(repo).ReturnCopy(ctx, c.ID, 1)
	require.NoError(t, lendErr)
	assert.ErrorIs(t, err, inventory.ErrCopyOnLoan)

	stored, err := l.copies.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable, "loaned copy must stay unavailable")
	assert.Equal(t, int64(1), l.openLoans(t, c.ID))

	// 日志中没有多余的归还记录
	history, err := l.copies.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, inventory.ChangeTypeBorrowed, history[1].ChangeType)
}

func TestArchiveUser_BorrowedBetweenCheckAndWrite(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "reader")
	c := l.mustCopy(t, 1, "AB-01")

	var lendErr error
	repo := &userRepoLendingAfterCheck{Repository: NewUserRepository(l.db)}
	repo.lend = func() { _, lendErr = l.lend(context.Background(), c.ID, 5, nil) }

	ap := audit.NewPolicy(l.clock.Now)
	users := user.NewService(repo, NewUserTypeRepository(l.db), ap,
		cascade.NewPolicy(NewReassigner(l.db), ap), user.WithHashCost(bcrypt.MinCost))

	err := users.ArchiveUser(ctx, 5, 1)
	require.NoError(t, lendErr)
	assert.ErrorIs(t, err, user.ErrOutstandingLoans)

	u, err := l.users.GetUser(ctx, 5)
	require.NoError(t, err)
	assert.False(t, u.Archived(), "borrower with an open loan must stay active")
	assert.Equal(t, int64(1), l.openLoans(t, c.ID))
}

type interleaveKey struct{}

// TestBorrow_CompetingBorrowLandsBeforeCheckout 第一个借阅完成用户校验后、
// 写副本之前，第二个借阅完整提交。第一个借阅的条件更新不再命中
func TestBorrow_CompetingBorrowLandsBeforeCheckout(t *testing.T) {
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "first")
	l.mustUser(t, 6, "second")
	c := l.mustCopy(t, 1, "AB-01")

	var (
		once      sync.Once
		competing *borrow.Record
		lendErr   error
	)
	err := l.db.Callback().Update().Before("gorm:update").Register("test:competing_borrow", func(tx *gorm.DB) {
		if tx.Statement.Table != "inventory_records" || tx.Statement.Context.Value(interleaveKey{}) == nil {
			return
		}
		once.Do(func() {
			competing, lendErr = l.lend(context.Background(), c.ID, 6, nil)
		})
	})
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), interleaveKey{}, true)
	_, err = l.borrows.Borrow(ctx, c.ID, 5, nil)
	assert.ErrorIs(t, err, inventory.ErrCopyUnavailable)

	require.NoError(t, lendErr)
	require.NotNil(t, competing)
	assert.Equal(t, int64(6), competing.UserID)
	assert.Equal(t, int64(1), l.openLoans(t, c.ID))

	var firstLoans int64
	require.NoError(t, l.db.Model(&BorrowModel{}).Where("user_id = ?", 5).Count(&firstLoans).Error)
	assert.Zero(t, firstLoans)
}
