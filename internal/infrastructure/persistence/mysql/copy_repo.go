package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/inventory"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// copyRepository 副本仓储实现
type copyRepository struct {
	db *gorm.DB
}

// NewCopyRepository 创建副本仓储
func NewCopyRepository(db *gorm.DB) inventory.Repository {
	return &copyRepository{db: db}
}

func (r *copyRepository) Create(ctx context.Context, c *inventory.Copy) error {
	model := toCopyModel(c)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return inventory.ErrCopyCodeDuplicate
		}
		if isForeignKeyError(err) {
			return apperrors.WrapCode(err, apperrors.ErrCodeBookNotFound, "副本引用的图书或出版社不存在")
		}
		return apperrors.Wrap(err, "创建副本失败")
	}
	c.ID = model.ID
	return nil
}

func (r *copyRepository) FindByID(ctx context.Context, id int64) (*inventory.Copy, error) {
	var model CopyModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrCopyNotFound
		}
		return nil, apperrors.Wrap(err, "查询副本失败")
	}
	return toCopyEntity(&model), nil
}

func (r *copyRepository) ListByBook(ctx context.Context, bookID int64) ([]*inventory.Copy, error) {
	return r.list(ctx, getDB(ctx, r.db).Where("book_id = ?", bookID))
}

func (r *copyRepository) ListAvailableByBook(ctx context.Context, bookID int64) ([]*inventory.Copy, error) {
	return r.list(ctx, getDB(ctx, r.db).
		Where("book_id = ? AND is_available = ? AND is_archived = ?", bookID, true, false))
}

func (r *copyRepository) list(_ context.Context, query *gorm.DB) ([]*inventory.Copy, error) {
	var models []CopyModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询副本列表失败")
	}

	copies := make([]*inventory.Copy, len(models))
	for i := range models {
		copies[i] = toCopyEntity(&models[i])
	}
	return copies, nil
}

func (r *copyRepository) CountActiveByBook(ctx context.Context, bookID int64) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&CopyModel{}).
		Where("book_id = ? AND is_archived = ?", bookID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计副本失败")
	}
	return n, nil
}

func (r *copyRepository) HasOutstandingBorrow(ctx context.Context, copyID int64) (bool, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&BorrowModel{}).
		Where("copy_id = ? AND return_date IS NULL", copyID).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return n > 0, nil
}

// LockByID 悲观锁查询副本
// SELECT ... FOR UPDATE，必须使用getDB(ctx)拿到事务DB，否则锁在语句结束时就释放了
// SQLite没有行锁，方言会忽略该子句，由库级写锁串行化
func (r *copyRepository) LockByID(ctx context.Context, id int64) (*inventory.Copy, error) {
	var model CopyModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrCopyNotFound
		}
		return nil, apperrors.Wrap(err, "锁定副本失败")
	}
	return toCopyEntity(&model), nil
}

// Archive 条件更新归档副本(原子操作)
// 借出中的副本is_available为false，不会被命中
func (r *copyRepository) Archive(ctx context.Context, id, actorID int64, at time.Time) error {
	db := getDB(ctx, r.db)
	result := db.Model(&CopyModel{}).
		Where("id = ? AND is_archived = ? AND is_available = ?", id, false, true).
		Updates(map[string]any{
			"is_archived":   true,
			"archived_by":   actorID,
			"archived_date": at,
			"modified_by":   actorID,
			"modified_date": at,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "归档副本失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var model CopyModel
	if err := db.Select("id", "is_archived").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.ErrCopyNotFound
		}
		return apperrors.Wrap(err, "查询副本失败")
	}
	if model.IsArchived {
		return inventory.ErrCopyArchived
	}
	return inventory.ErrCopyOnLoan
}

// Restore 条件更新恢复可借(原子操作)
// UPDATE inventory_records SET is_available = true ... WHERE id = ? AND NOT EXISTS (SELECT 1 FROM borrow_records ...)
func (r *copyRepository) Restore(ctx context.Context, id, actorID int64, at time.Time) error {
	db := getDB(ctx, r.db)
	result := db.Model(&CopyModel{}).
		Where("id = ?", id).
		Where("NOT EXISTS (SELECT 1 FROM borrow_records WHERE borrow_records.copy_id = inventory_records.id AND borrow_records.return_date IS NULL)").
		Updates(map[string]any{
			"is_available":  true,
			"modified_by":   actorID,
			"modified_date": at,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新副本状态失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	onLoan, err := r.HasOutstandingBorrow(ctx, id)
	if err != nil {
		return err
	}
	if onLoan {
		return inventory.ErrCopyOnLoan
	}
	// 命中但字段未变化(MySQL按变更行数计数)
	return nil
}

// Checkout 条件更新占用副本(原子操作)
// UPDATE inventory_records SET is_available = false ... WHERE id = ? AND is_available = true AND is_archived = false
// 两个并发借阅中只有一个能命中这一行
func (r *copyRepository) Checkout(ctx context.Context, id, actorID int64, at time.Time) error {
	db := getDB(ctx, r.db)
	result := db.Model(&CopyModel{}).
		Where("id = ? AND is_available = ? AND is_archived = ?", id, true, false).
		Updates(map[string]any{
			"is_available":  false,
			"modified_by":   actorID,
			"modified_date": at,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新副本状态失败")
	}

	if result.RowsAffected == 0 {
		// 可能是副本不存在，或者已借出/已归档，再查一次确定原因
		var model CopyModel
		if err := db.Select("id").First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return inventory.ErrCopyNotFound
			}
			return apperrors.Wrap(err, "查询副本失败")
		}
		return inventory.ErrCopyUnavailable
	}
	return nil
}

// copyLogRepository 副本变更日志仓储实现
type copyLogRepository struct {
	db *gorm.DB
}

// NewCopyLogRepository 创建副本变更日志仓储
func NewCopyLogRepository(db *gorm.DB) inventory.LogRepository {
	return &copyLogRepository{db: db}
}

func (r *copyLogRepository) Append(ctx context.Context, log *inventory.CopyLog) error {
	model := &CopyLogModel{
		CopyID:     log.CopyID,
		BookID:     log.BookID,
		ChangeType: string(log.ChangeType),
		BorrowID:   log.BorrowID,
		ActorID:    log.ActorID,
		CreatedAt:  log.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入副本日志失败")
	}
	log.ID = model.ID
	return nil
}

func (r *copyLogRepository) ListByCopy(ctx context.Context, copyID int64) ([]*inventory.CopyLog, error) {
	var models []CopyLogModel
	err := getDB(ctx, r.db).
		Where("copy_id = ?", copyID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询副本日志失败")
	}

	logs := make([]*inventory.CopyLog, len(models))
	for i := range models {
		logs[i] = toCopyLogEntity(&models[i])
	}
	return logs, nil
}
