package inventory

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/inventory"
)

// ManageCopiesUseCase 副本的新增、归还与归档
type ManageCopiesUseCase struct {
	copies inventory.Service
	tx     shared.Transactor
	events shared.EventPublisher
}

func NewManageCopiesUseCase(copies inventory.Service, tx shared.Transactor, events shared.EventPublisher) *ManageCopiesUseCase {
	return &ManageCopiesUseCase{copies: copies, tx: tx, events: events}
}

// Create 新增可借副本
func (uc *ManageCopiesUseCase) Create(ctx context.Context, bookID int64, copyCode string, actorID int64) (*inventory.Copy, error) {
	var c *inventory.Copy
	err := shared.InTx(ctx, uc.tx, "create_copy", func(ctx context.Context) error {
		var err error
		c, err = uc.copies.CreateCopy(ctx, bookID, copyCode, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	shared.PublishAll(ctx, uc.events, shared.NewEvent(shared.EventCopyCreated, actorID, copyPayload(c)))
	return c, nil
}

// Return 把副本恢复为可借(副本仍有未归还借阅时冲突)
func (uc *ManageCopiesUseCase) Return(ctx context.Context, id, actorID int64) (*inventory.Copy, error) {
	var c *inventory.Copy
	err := shared.InTx(ctx, uc.tx, "return_copy", func(ctx context.Context) error {
		if err := uc.copies.ReturnCopy(ctx, id, actorID); err != nil {
			return err
		}
		var err error
		c, err = uc.copies.GetCopy(ctx, id)
		return err
	})
	return c, err
}

// ArchiveCopyResult 归档结果
type ArchiveCopyResult struct {
	Copy         *inventory.Copy
	BookArchived bool // 图书因无剩余副本被一并归档
}

// Archive 归档副本，最后一个副本归档时图书一并归档
func (uc *ManageCopiesUseCase) Archive(ctx context.Context, id, actorID int64) (*ArchiveCopyResult, error) {
	var res ArchiveCopyResult
	err := shared.InTx(ctx, uc.tx, "archive_copy", func(ctx context.Context) error {
		var err error
		if res.BookArchived, err = uc.copies.ArchiveCopy(ctx, id, actorID); err != nil {
			return err
		}
		res.Copy, err = uc.copies.GetCopy(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	events := []shared.Event{shared.NewEvent(shared.EventCopyArchived, actorID, copyPayload(res.Copy))}
	if res.BookArchived {
		events = append(events, shared.NewEvent(shared.EventBookArchived, actorID, shared.BookPayload{
			BookID:  res.Copy.BookID,
			Cascade: true,
		}))
	}
	shared.PublishAll(ctx, uc.events, events...)
	return &res, nil
}

func copyPayload(c *inventory.Copy) shared.CopyPayload {
	return shared.CopyPayload{CopyID: c.ID, BookID: c.BookID, CopyCode: c.CopyCode}
}
