package borrow

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/borrow"
)

// BorrowCopyUseCase 借出副本用例
// 副本占用、借阅记录与副本日志在同一事务中写入；
// 两个请求同时借同一副本时，条件更新保证只有一个成功，另一个得到冲突错误
type BorrowCopyUseCase struct {
	borrows borrow.Service
	tx      shared.Transactor
	events  shared.EventPublisher
}

// NewBorrowCopyUseCase 创建借出用例
func NewBorrowCopyUseCase(borrows borrow.Service, tx shared.Transactor, events shared.EventPublisher) *BorrowCopyUseCase {
	return &BorrowCopyUseCase{borrows: borrows, tx: tx, events: events}
}

// BorrowCopyRequest 借出请求
type BorrowCopyRequest struct {
	CopyID  int64
	UserID  int64
	DueDate *time.Time // 为空时按默认借期
}

// Execute 执行借出
func (uc *BorrowCopyUseCase) Execute(ctx context.Context, req BorrowCopyRequest) (*borrow.Record, error) {
	var rec *borrow.Record
	err := shared.InTx(ctx, uc.tx, "borrow_copy", func(ctx context.Context) error {
		var err error
		rec, err = uc.borrows.Borrow(ctx, req.CopyID, req.UserID, req.DueDate)
		return err
	})
	if err != nil {
		return nil, err
	}

	shared.PublishAll(ctx, uc.events, shared.NewEvent(shared.EventBorrowCreated, req.UserID, shared.BorrowPayload{
		BorrowID: rec.ID,
		CopyID:   rec.CopyID,
		UserID:   rec.UserID,
		DueDate:  rec.DueDate,
	}))
	return rec, nil
}
