package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/borrow"
)

// ReturnBorrowUseCase 归还用例
// 关闭借阅记录与恢复副本可借在同一事务中完成
type ReturnBorrowUseCase struct {
	borrows borrow.Service
	tx      shared.Transactor
	events  shared.EventPublisher
}

func NewReturnBorrowUseCase(borrows borrow.Service, tx shared.Transactor, events shared.EventPublisher) *ReturnBorrowUseCase {
	return &ReturnBorrowUseCase{borrows: borrows, tx: tx, events: events}
}

type ReturnBorrowRequest struct {
	BorrowID int64
	ActorID  int64
}

// Execute 执行归还；重复归还返回冲突错误且不修改任何状态
func (uc *ReturnBorrowUseCase) Execute(ctx context.Context, req ReturnBorrowRequest) (*borrow.Record, error) {
	var rec *borrow.Record
	err := shared.InTx(ctx, uc.tx, "return_borrow", func(ctx context.Context) error {
		var err error
		rec, err = uc.borrows.Return(ctx, req.BorrowID, req.ActorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	shared.PublishAll(ctx, uc.events, shared.NewEvent(shared.EventBorrowReturned, req.ActorID, shared.BorrowPayload{
		BorrowID:   rec.ID,
		CopyID:     rec.CopyID,
		UserID:     rec.UserID,
		DueDate:    rec.DueDate,
		ReturnDate: rec.ReturnDate,
	}))
	return rec, nil
}
