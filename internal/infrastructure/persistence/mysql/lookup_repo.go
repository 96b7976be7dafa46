package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/catalog"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// lookupRepository 作者/分类/出版社仓储实现
// 三张表结构相同，按catalog.Kind选择表名
type lookupRepository struct {
	db *gorm.DB
}

// NewLookupRepository 创建查找表仓储
func NewLookupRepository(db *gorm.DB) catalog.LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) table(ctx context.Context, kind catalog.Kind) *gorm.DB {
	return getDB(ctx, r.db).Table(lookupTable(kind))
}

func (r *lookupRepository) Create(ctx context.Context, l *catalog.Lookup) error {
	model := &LookupModel{ID: l.ID, Name: l.Name, AuditColumns: auditColumnsOf(l.Metadata)}
	if err := r.table(ctx, l.Kind).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrDuplicateName
		}
		return apperrors.Wrap(err, "创建记录失败")
	}
	l.ID = model.ID
	return nil
}

func (r *lookupRepository) FindByID(ctx context.Context, kind catalog.Kind, id int64) (*catalog.Lookup, error) {
	var model LookupModel
	if err := r.table(ctx, kind).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrLookupNotFound
		}
		return nil, apperrors.Wrap(err, "查询记录失败")
	}
	return toLookupEntity(kind, &model), nil
}

func (r *lookupRepository) FindByName(ctx context.Context, kind catalog.Kind, name string) (*catalog.Lookup, error) {
	var model LookupModel
	err := r.table(ctx, kind).
		Where("name = ? AND is_archived = ?", name, false).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrLookupNotFound
		}
		return nil, apperrors.Wrap(err, "查询记录失败")
	}
	return toLookupEntity(kind, &model), nil
}

func (r *lookupRepository) List(ctx context.Context, kind catalog.Kind) ([]*catalog.Lookup, error) {
	var models []LookupModel
	err := r.table(ctx, kind).
		Where("is_archived = ?", false).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询列表失败")
	}

	out := make([]*catalog.Lookup, len(models))
	for i := range models {
		out[i] = toLookupEntity(kind, &models[i])
	}
	return out, nil
}

func (r *lookupRepository) Update(ctx context.Context, l *catalog.Lookup) error {
	model := &LookupModel{ID: l.ID, Name: l.Name, AuditColumns: auditColumnsOf(l.Metadata)}
	if err := r.table(ctx, l.Kind).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新记录失败")
	}
	return nil
}
