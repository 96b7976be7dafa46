package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/catalog"
)

// BookUseCase 图书维护
type BookUseCase struct {
	catalog catalog.Service
	tx      shared.Transactor
	events  shared.EventPublisher
}

func NewBookUseCase(svc catalog.Service, tx shared.Transactor, events shared.EventPublisher) *BookUseCase {
	return &BookUseCase{catalog: svc, tx: tx, events: events}
}

func (uc *BookUseCase) Create(ctx context.Context, in catalog.BookInput, actorID int64) (*catalog.Book, error) {
	var b *catalog.Book
	err := shared.InTx(ctx, uc.tx, "create_book", func(ctx context.Context) error {
		var err error
		b, err = uc.catalog.CreateBook(ctx, in, actorID)
		return err
	})
	return b, err
}

func (uc *BookUseCase) Get(ctx context.Context, id int64) (*catalog.Book, error) {
	return uc.catalog.GetBook(ctx, id)
}

func (uc *BookUseCase) List(ctx context.Context) ([]*catalog.Book, error) {
	return uc.catalog.ListBooks(ctx)
}

func (uc *BookUseCase) Update(ctx context.Context, id int64, in catalog.BookInput, actorID int64) (*catalog.Book, error) {
	var b *catalog.Book
	err := shared.InTx(ctx, uc.tx, "update_book", func(ctx context.Context) error {
		var err error
		b, err = uc.catalog.UpdateBook(ctx, id, in, actorID)
		return err
	})
	return b, err
}

// Archive 只归档图书本身，副本保持不变
func (uc *BookUseCase) Archive(ctx context.Context, id, actorID int64) (*catalog.Book, error) {
	var b *catalog.Book
	err := shared.InTx(ctx, uc.tx, "archive_book", func(ctx context.Context) error {
		if err := uc.catalog.ArchiveBook(ctx, id, actorID); err != nil {
			return err
		}
		var err error
		b, err = uc.catalog.GetBook(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	shared.PublishAll(ctx, uc.events, shared.NewEvent(shared.EventBookArchived, actorID, shared.BookPayload{BookID: id}))
	return b, nil
}
