package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/catalog"
)

// LookupUseCase 作者/分类/出版社维护
// 归档会把引用它的图书(出版社还包括副本)改指向Unknown，与归档标记在同一事务中提交
type LookupUseCase struct {
	catalog catalog.Service
	tx      shared.Transactor
}

func NewLookupUseCase(svc catalog.Service, tx shared.Transactor) *LookupUseCase {
	return &LookupUseCase{catalog: svc, tx: tx}
}

func (uc *LookupUseCase) Create(ctx context.Context, kind catalog.Kind, name string, actorID int64) (*catalog.Lookup, error) {
	var l *catalog.Lookup
	err := shared.InTx(ctx, uc.tx, "create_"+string(kind), func(ctx context.Context) error {
		var err error
		l, err = uc.catalog.CreateLookup(ctx, kind, name, actorID)
		return err
	})
	return l, err
}

func (uc *LookupUseCase) Get(ctx context.Context, kind catalog.Kind, id int64) (*catalog.Lookup, error) {
	return uc.catalog.GetLookup(ctx, kind, id)
}

func (uc *LookupUseCase) List(ctx context.Context, kind catalog.Kind) ([]*catalog.Lookup, error) {
	return uc.catalog.ListLookups(ctx, kind)
}

func (uc *LookupUseCase) Rename(ctx context.Context, kind catalog.Kind, id int64, name string, actorID int64) (*catalog.Lookup, error) {
	var l *catalog.Lookup
	err := shared.InTx(ctx, uc.tx, "rename_"+string(kind), func(ctx context.Context) error {
		var err error
		l, err = uc.catalog.RenameLookup(ctx, kind, id, name, actorID)
		return err
	})
	return l, err
}

// Archive 级联归档，返回被改指向Unknown的记录数
func (uc *LookupUseCase) Archive(ctx context.Context, kind catalog.Kind, id, actorID int64) (int64, error) {
	var moved int64
	err := shared.InTx(ctx, uc.tx, "archive_"+string(kind), func(ctx context.Context) error {
		var err error
		moved, err = uc.catalog.ArchiveLookup(ctx, kind, id, actorID)
		return err
	})
	return moved, err
}
