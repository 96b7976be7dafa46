package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// systemActorID 保留行的创建人
const systemActorID int64 = 1

// Seed 写入保留行(可重复执行)
// - 作者/分类/出版社: -1 Unknown
// - 用户类型: -1 Admin, -2 Normal
func Seed(ctx context.Context, db *gorm.DB) error {
	now := db.NowFunc()
	stamp := AuditColumns{CreatedBy: systemActorID, CreatedDate: now}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, kind := range []catalog.Kind{catalog.KindAuthor, catalog.KindCategory, catalog.KindPublisher} {
			row := &LookupModel{ID: catalog.UnknownID, Name: "Unknown", AuditColumns: stamp}
			if err := tx.Table(lookupTable(kind)).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return apperrors.Wrapf(err, "写入%s保留行失败", kind)
			}
		}

		types := []UserTypeModel{
			{ID: user.AdminTypeID, Role: "Admin", AuditColumns: stamp},
			{ID: user.NormalTypeID, Role: "Normal", AuditColumns: stamp},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&types).Error; err != nil {
			return apperrors.Wrap(err, "写入用户类型保留行失败")
		}
		return nil
	})
}
