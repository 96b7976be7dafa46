package mysql

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/cascade"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/user"
)

// testClock 可调的测试时钟
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// library 基于临时SQLite文件装配的全部领域服务
type library struct {
	db      *gorm.DB
	tx      *TxManager
	clock   *testClock
	catalog catalog.Service
	copies  inventory.Service
	users   user.Service
	borrows borrow.Service
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newLibrary(t *testing.T) *library {
	t.Helper()
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}

	ap := audit.NewPolicy(clock.Now)
	cp := cascade.NewPolicy(NewReassigner(db), ap)
	catalogSvc := catalog.NewService(NewLookupRepository(db), NewBookRepository(db), ap, cp)
	copySvc := inventory.NewService(NewCopyRepository(db), NewCopyLogRepository(db), catalogSvc, ap)
	userSvc := user.NewService(NewUserRepository(db), NewUserTypeRepository(db), ap, cp, user.WithHashCost(bcrypt.MinCost))

	return &library{
		db:      db,
		tx:      NewTxManager(db),
		clock:   clock,
		catalog: catalogSvc,
		copies:  copySvc,
		users:   userSvc,
		borrows: borrow.NewService(NewBorrowRepository(db), copySvc, userSvc, ap),
	}
}

// mustBook 直接写入指定ID的图书(引用Unknown保留行)
func (l *library) mustBook(t *testing.T, id int64) {
	t.Helper()
	require.NoError(t, l.db.Create(&BookModel{
		ID:           id,
		Title:        "Book",
		PublishDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		AuthorID:     catalog.UnknownID,
		CategoryID:   catalog.UnknownID,
		PublisherID:  catalog.UnknownID,
		AuditColumns: AuditColumns{CreatedBy: 1, CreatedDate: l.clock.Now()},
	}).Error)
}

// mustUser 直接写入指定ID的用户
func (l *library) mustUser(t *testing.T, id int64, username string) {
	t.Helper()
	require.NoError(t, l.db.Create(&UserModel{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		UserTypeID:   user.NormalTypeID,
		AuditColumns: AuditColumns{CreatedBy: 1, CreatedDate: l.clock.Now()},
	}).Error)
}

func (l *library) mustCopy(t *testing.T, bookID int64, code string) *inventory.Copy {
	t.Helper()
	var c *inventory.Copy
	require.NoError(t, l.tx.Transaction(context.Background(), func(ctx context.Context) error {
		var err error
		c, err = l.copies.CreateCopy(ctx, bookID, code, 1)
		return err
	}))
	return c
}

func (l *library) lend(ctx context.Context, copyID, userID int64, due *time.Time) (*borrow.Record, error) {
	var r *borrow.Record
	err := l.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = l.borrows.Borrow(ctx, copyID, userID, due)
		return err
	})
	return r, err
}

func (l *library) giveBack(ctx context.Context, borrowID, actorID int64) (*borrow.Record, error) {
	var r *borrow.Record
	err := l.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = l.borrows.Return(ctx, borrowID, actorID)
		return err
	})
	return r, err
}
