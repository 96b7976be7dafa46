package inventory

import (
	"context"
	"time"
)

// Repository 副本仓储接口
type Repository interface {
	// Create 创建副本，副本编号重复返回ErrCopyCodeDuplicate(由唯一索引保证)
	Create(ctx context.Context, c *Copy) error

	// FindByID 按ID查询（包含已归档副本）
	FindByID(ctx context.Context, id int64) (*Copy, error)

	// ListByBook 图书的全部副本（包含已归档），按ID升序
	ListByBook(ctx context.Context, bookID int64) ([]*Copy, error)

	// ListAvailableByBook 可借且未归档的副本，按ID升序
	ListAvailableByBook(ctx context.Context, bookID int64) ([]*Copy, error)

	// CountActiveByBook 图书未归档副本数
	CountActiveByBook(ctx context.Context, bookID int64) (int64, error)

	// HasOutstandingBorrow 副本是否存在未归还的借阅记录
	HasOutstandingBorrow(ctx context.Context, copyID int64) (bool, error)

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE)，只能在事务内使用
	// 锁持有到事务结束，与Checkout的条件更新互斥
	LockByID(ctx context.Context, id int64) (*Copy, error)

	// Archive 条件更新归档副本
	// UPDATE ... WHERE id = ? AND is_archived = false AND is_available = true
	// 影响行数为0时再查一次区分ErrCopyNotFound、ErrCopyArchived与ErrCopyOnLoan
	Archive(ctx context.Context, id, actorID int64, at time.Time) error

	// Restore 条件更新恢复可借，存在未归还借阅时不更新并返回ErrCopyOnLoan
	// UPDATE ... WHERE id = ? AND NOT EXISTS (未归还借阅)
	Restore(ctx context.Context, id, actorID int64, at time.Time) error

	// Checkout 原子地把副本从可借改为不可借
	// UPDATE ... WHERE id = ? AND is_available = true AND is_archived = false
	// 影响行数为0时再查一次区分ErrCopyNotFound与ErrCopyUnavailable
	Checkout(ctx context.Context, id, actorID int64, at time.Time) error
}

// LogRepository 副本变更日志仓储
type LogRepository interface {
	Append(ctx context.Context, log *CopyLog) error

	// ListByCopy 按时间顺序返回副本的全部变更
	ListByCopy(ctx context.Context, copyID int64) ([]*CopyLog, error)
}
