package catalog

import (
	"context"
)

// LookupRepository 作者/分类/出版社仓储接口
type LookupRepository interface {
	// Create 创建记录，名称重复返回ErrDuplicateName
	Create(ctx context.Context, l *Lookup) error

	// FindByID 按ID查询（包含已归档记录）
	FindByID(ctx context.Context, kind Kind, id int64) (*Lookup, error)

	// FindByName 按名称查询未归档记录
	FindByName(ctx context.Context, kind Kind, name string) (*Lookup, error)

	// List 查询未归档记录，按ID升序
	List(ctx context.Context, kind Kind) ([]*Lookup, error)

	// Update 保存名称与审计字段
	Update(ctx context.Context, l *Lookup) error
}

// BookRepository 图书仓储接口
type BookRepository interface {
	Create(ctx context.Context, b *Book) error

	// FindByID 按ID查询（包含已归档图书）
	FindByID(ctx context.Context, id int64) (*Book, error)

	// List 查询未归档图书，按ID升序
	List(ctx context.Context) ([]*Book, error)

	Update(ctx context.Context, b *Book) error
}
