package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/catalog"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现
// 负责domain实体与GORM模型之间的转换，并把数据库错误转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) catalog.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *catalog.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}
	// 回填自增ID
	b.ID = model.ID
	return nil
}

// FindByID 包含已归档图书
func (r *bookRepository) FindByID(ctx context.Context, id int64) (*catalog.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) List(ctx context.Context) ([]*catalog.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Where("is_archived = ?", false).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*catalog.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// Update 使用Save更新所有字段
func (r *bookRepository) Update(ctx context.Context, b *catalog.Book) error {
	if err := getDB(ctx, r.db).Save(toBookModel(b)).Error; err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}
	return nil
}
