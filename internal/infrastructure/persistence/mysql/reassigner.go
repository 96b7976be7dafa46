package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/cascade"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// reference 从属表中引用父实体的外键列
type reference struct {
	model  any
	column string
}

// references 父实体类型 → 所有引用它的外键列
var references = map[cascade.Target][]reference{
	cascade.TargetAuthor:    {{&BookModel{}, "author_id"}},
	cascade.TargetCategory:  {{&BookModel{}, "category_id"}},
	cascade.TargetPublisher: {{&BookModel{}, "publisher_id"}, {&CopyModel{}, "publisher_id"}},
	cascade.TargetUserType:  {{&UserModel{}, "user_type_id"}},
}

// reassigner 级联改指向实现
// 每个外键列一条批量UPDATE，同时刷新modified_by/modified_date
type reassigner struct {
	db *gorm.DB
}

// NewReassigner 创建级联改指向器
func NewReassigner(db *gorm.DB) cascade.Reassigner {
	return &reassigner{db: db}
}

func (r *reassigner) Reassign(ctx context.Context, target cascade.Target, fromID, toID, actorID int64, at time.Time) (int64, error) {
	refs, ok := references[target]
	if !ok {
		return 0, apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("未知的级联类型: %s", target))
	}

	db := getDB(ctx, r.db)
	var moved int64
	for _, ref := range refs {
		result := db.Model(ref.model).
			Where(ref.column+" = ?", fromID).
			Updates(map[string]any{
				ref.column:      toID,
				"modified_by":   actorID,
				"modified_date": at,
			})
		if result.Error != nil {
			return 0, apperrors.Wrapf(result.Error, "改指向%s失败", ref.column)
		}
		moved += result.RowsAffected
	}
	return moved, nil
}
