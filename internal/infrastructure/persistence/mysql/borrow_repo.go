package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// borrowRepository 借阅记录仓储实现
type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository 创建借阅记录仓储
func NewBorrowRepository(db *gorm.DB) borrow.Repository {
	return &borrowRepository{db: db}
}

func (r *borrowRepository) Create(ctx context.Context, rec *borrow.Record) error {
	model := &BorrowModel{
		CopyID:       rec.CopyID,
		UserID:       rec.UserID,
		BorrowDate:   rec.BorrowDate,
		DueDate:      rec.DueDate,
		ReturnDate:   rec.ReturnDate,
		AuditColumns: auditColumnsOf(rec.Metadata),
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}
	rec.ID = model.ID
	return nil
}

func (r *borrowRepository) FindByID(ctx context.Context, id int64) (*borrow.Record, error) {
	var model BorrowModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrow.ErrBorrowNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return toBorrowEntity(&model), nil
}

// MarkReturned 条件更新关闭借阅记录(原子操作)
// UPDATE borrow_records SET return_date = ? ... WHERE id = ? AND return_date IS NULL
func (r *borrowRepository) MarkReturned(ctx context.Context, id int64, returnDate time.Time, actorID int64) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BorrowModel{}).
		Where("id = ? AND return_date IS NULL", id).
		Updates(map[string]any{
			"return_date":   returnDate,
			"modified_by":   actorID,
			"modified_date": returnDate,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅记录失败")
	}

	if result.RowsAffected == 0 {
		var model BorrowModel
		if err := db.Select("id").First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return borrow.ErrBorrowNotFound
			}
			return apperrors.Wrap(err, "查询借阅记录失败")
		}
		return borrow.ErrAlreadyReturned
	}
	return nil
}

func (r *borrowRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*borrow.Detail, error) {
	return r.details(ctx, "b.return_date IS NULL AND b.due_date < ?", cutoff)
}

func (r *borrowRepository) ListByUser(ctx context.Context, userID int64) ([]*borrow.Detail, error) {
	return r.details(ctx, "b.user_id = ?", userID)
}

// ListDetails 显式关联副本编号与用户名，不做隐式预加载
func (r *borrowRepository) ListDetails(ctx context.Context) ([]*borrow.Detail, error) {
	return r.details(ctx, "")
}

func (r *borrowRepository) FindDetail(ctx context.Context, id int64) (*borrow.Detail, error) {
	details, err := r.details(ctx, "b.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, borrow.ErrBorrowNotFound
	}
	return details[0], nil
}

// borrowDetailRow 报表查询的扫描目标
type borrowDetailRow struct {
	BorrowModel
	CopyCode string
	Username string
}

// details 借阅记录关联副本编号与用户名，按ID升序
func (r *borrowRepository) details(ctx context.Context, where string, args ...any) ([]*borrow.Detail, error) {
	query := getDB(ctx, r.db).
		Table("borrow_records AS b").
		Select("b.*, c.copy_code AS copy_code, u.username AS username").
		Joins("LEFT JOIN inventory_records AS c ON c.id = b.copy_id").
		Joins("LEFT JOIN users AS u ON u.id = b.user_id")
	if where != "" {
		query = query.Where(where, args...)
	}

	var rows []borrowDetailRow
	if err := query.Order("b.id ASC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}

	details := make([]*borrow.Detail, len(rows))
	for i := range rows {
		details[i] = &borrow.Detail{
			Record:   *toBorrowEntity(&rows[i].BorrowModel),
			CopyCode: rows[i].CopyCode,
			Username: rows[i].Username,
		}
	}
	return details, nil
}
