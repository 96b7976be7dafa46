package inventory

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/inventory"
)

// QueryCopiesUseCase 副本查询
type QueryCopiesUseCase struct {
	copies inventory.Service
}

func NewQueryCopiesUseCase(copies inventory.Service) *QueryCopiesUseCase {
	return &QueryCopiesUseCase{copies: copies}
}

func (uc *QueryCopiesUseCase) Get(ctx context.Context, id int64) (*inventory.Copy, error) {
	var c *inventory.Copy
	err := shared.Run(ctx, "get_copy", func(ctx context.Context) error {
		var err error
		c, err = uc.copies.GetCopy(ctx, id)
		return err
	})
	return c, err
}

// ListForBook 图书的全部副本(含已归档)
func (uc *QueryCopiesUseCase) ListForBook(ctx context.Context, bookID int64) ([]*inventory.Copy, error) {
	var out []*inventory.Copy
	err := shared.Run(ctx, "list_copies", func(ctx context.Context) error {
		var err error
		out, err = uc.copies.ListCopiesForBook(ctx, bookID)
		return err
	})
	return out, err
}

// Available 图书当前可借的副本
func (uc *QueryCopiesUseCase) Available(ctx context.Context, bookID int64) ([]*inventory.Copy, error) {
	var out []*inventory.Copy
	err := shared.Run(ctx, "list_available_copies", func(ctx context.Context) error {
		var err error
		out, err = uc.copies.GetAvailableCopies(ctx, bookID)
		return err
	})
	return out, err
}

// History 副本变更日志
func (uc *QueryCopiesUseCase) History(ctx context.Context, id int64) ([]*inventory.CopyLog, error) {
	var out []*inventory.CopyLog
	err := shared.Run(ctx, "copy_history", func(ctx context.Context) error {
		var err error
		out, err = uc.copies.History(ctx, id)
		return err
	})
	return out, err
}
