package borrow

import (
	"context"
	"time"
)

// Repository 借阅记录仓储接口
type Repository interface {
	Create(ctx context.Context, r *Record) error

	// FindByID 不存在返回ErrBorrowNotFound
	FindByID(ctx context.Context, id int64) (*Record, error)

	// MarkReturned 原子地关闭借阅记录
	// UPDATE ... WHERE id = ? AND return_date IS NULL
	// 影响行数为0时再查一次区分ErrBorrowNotFound与ErrAlreadyReturned
	MarkReturned(ctx context.Context, id int64, returnDate time.Time, actorID int64) error

	// FindDetail 关联副本编号与用户名的单条记录，不存在返回ErrBorrowNotFound
	FindDetail(ctx context.Context, id int64) (*Detail, error)

	// ListOverdue 未归还且应还日期早于cutoff的记录，关联副本编号与用户名
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*Detail, error)

	// ListDetails 关联副本编号与用户名的报表查询，按ID升序
	ListDetails(ctx context.Context) ([]*Detail, error)

	// ListByUser 用户的全部借阅记录，按ID升序
	ListByUser(ctx context.Context, userID int64) ([]*Detail, error)
}
