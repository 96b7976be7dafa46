package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户仓储实现
// 用户名、邮箱唯一性由数据库UNIQUE索引保证，捕获重复错误转换为ErrUserDuplicate
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 返回domain层的接口类型(依赖倒置)
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrUserDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}
	u.ID = model.ID
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	var models []UserModel
	err := getDB(ctx, r.db).
		Where("is_archived = ?", false).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	if err := getDB(ctx, r.db).Save(toUserModel(u)).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrUserDuplicate
		}
		return apperrors.Wrap(err, "更新用户失败")
	}
	return nil
}

// LockByID 悲观锁查询用户
func (r *userRepository) LockByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "锁定用户失败")
	}
	return toUserEntity(&model), nil
}

// Archive 条件更新归档用户(原子操作)
// UPDATE users SET is_archived = true ... WHERE id = ? AND is_archived = false AND NOT EXISTS (SELECT 1 FROM borrow_records ...)
func (r *userRepository) Archive(ctx context.Context, id, actorID int64, at time.Time) error {
	db := getDB(ctx, r.db)
	result := db.Model(&UserModel{}).
		Where("id = ? AND is_archived = ?", id, false).
		Where("NOT EXISTS (SELECT 1 FROM borrow_records WHERE borrow_records.user_id = users.id AND borrow_records.return_date IS NULL)").
		Updates(map[string]any{
			"is_archived":   true,
			"archived_by":   actorID,
			"archived_date": at,
			"modified_by":   actorID,
			"modified_date": at,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "归档用户失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	u, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Archived() {
		return user.ErrUserArchived
	}
	return user.ErrOutstandingLoans
}

func (r *userRepository) HasOutstandingBorrows(ctx context.Context, userID int64) (bool, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&BorrowModel{}).
		Where("user_id = ? AND return_date IS NULL", userID).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return n > 0, nil
}

// userTypeRepository 用户类型仓储实现
type userTypeRepository struct {
	db *gorm.DB
}

// NewUserTypeRepository 创建用户类型仓储
func NewUserTypeRepository(db *gorm.DB) user.TypeRepository {
	return &userTypeRepository{db: db}
}

func (r *userTypeRepository) Create(ctx context.Context, t *user.UserType) error {
	model := &UserTypeModel{ID: t.ID, Role: t.Role, AuditColumns: auditColumnsOf(t.Metadata)}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrRoleDuplicate
		}
		return apperrors.Wrap(err, "创建用户类型失败")
	}
	t.ID = model.ID
	return nil
}

func (r *userTypeRepository) FindByID(ctx context.Context, id int64) (*user.UserType, error) {
	var model UserTypeModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserTypeNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户类型失败")
	}
	return toUserTypeEntity(&model), nil
}

func (r *userTypeRepository) List(ctx context.Context) ([]*user.UserType, error) {
	var models []UserTypeModel
	err := getDB(ctx, r.db).
		Where("is_archived = ?", false).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户类型失败")
	}

	types := make([]*user.UserType, len(models))
	for i := range models {
		types[i] = toUserTypeEntity(&models[i])
	}
	return types, nil
}

func (r *userTypeRepository) Update(ctx context.Context, t *user.UserType) error {
	model := &UserTypeModel{ID: t.ID, Role: t.Role, AuditColumns: auditColumnsOf(t.Metadata)}
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrRoleDuplicate
		}
		return apperrors.Wrap(err, "更新用户类型失败")
	}
	return nil
}
