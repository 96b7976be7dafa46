package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/borrow"
)

// QueryBorrowsUseCase 借阅查询
type QueryBorrowsUseCase struct {
	borrows borrow.Service
}

func NewQueryBorrowsUseCase(borrows borrow.Service) *QueryBorrowsUseCase {
	return &QueryBorrowsUseCase{borrows: borrows}
}

// Get 单条借阅记录，附带副本编号、用户名与逾期信息
func (uc *QueryBorrowsUseCase) Get(ctx context.Context, id int64) (*borrow.Detail, error) {
	var d *borrow.Detail
	err := shared.Run(ctx, "get_borrow", func(ctx context.Context) error {
		var err error
		d, err = uc.borrows.GetBorrowDetail(ctx, id)
		return err
	})
	return d, err
}

// ListOverdue 逾期未还的借阅
func (uc *QueryBorrowsUseCase) ListOverdue(ctx context.Context) ([]*borrow.Detail, error) {
	var out []*borrow.Detail
	err := shared.Run(ctx, "list_overdue", func(ctx context.Context) error {
		var err error
		out, err = uc.borrows.ListOverdue(ctx)
		return err
	})
	return out, err
}

// ListDetails 借阅明细报表
func (uc *QueryBorrowsUseCase) ListDetails(ctx context.Context) ([]*borrow.Detail, error) {
	var out []*borrow.Detail
	err := shared.Run(ctx, "list_borrow_details", func(ctx context.Context) error {
		var err error
		out, err = uc.borrows.ListBorrowDetails(ctx)
		return err
	})
	return out, err
}

// ListForUser 某用户的全部借阅
func (uc *QueryBorrowsUseCase) ListForUser(ctx context.Context, userID int64) ([]*borrow.Detail, error) {
	var out []*borrow.Detail
	err := shared.Run(ctx, "list_user_borrows", func(ctx context.Context) error {
		var err error
		out, err = uc.borrows.ListForUser(ctx, userID)
		return err
	})
	return out, err
}
