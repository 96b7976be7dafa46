package user

import (
	"context"
	"time"
)

// Repository 用户仓储接口
// 接口定义在domain层，实现在infrastructure/persistence/mysql层
type Repository interface {
	// Create 创建用户
	// 用户名或邮箱重复返回ErrUserDuplicate(由唯一索引保证)
	Create(ctx context.Context, u *User) error

	// FindByID 包含已归档用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id int64) (*User, error)

	// List 未归档用户，按ID升序
	List(ctx context.Context) ([]*User, error)

	Update(ctx context.Context, u *User) error

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE)，只能在事务内使用
	LockByID(ctx context.Context, id int64) (*User, error)

	// Archive 条件更新归档用户
	// UPDATE ... WHERE id = ? AND is_archived = false AND NOT EXISTS (未归还借阅)
	// 影响行数为0时再查一次区分ErrUserNotFound、ErrUserArchived与ErrOutstandingLoans
	Archive(ctx context.Context, id, actorID int64, at time.Time) error

	// HasOutstandingBorrows 用户是否持有未归还的借阅
	HasOutstandingBorrows(ctx context.Context, userID int64) (bool, error)
}

// TypeRepository 用户类型仓储接口
type TypeRepository interface {
	// Create Role重复返回ErrRoleDuplicate
	Create(ctx context.Context, t *UserType) error

	// FindByID 包含已归档，不存在返回ErrUserTypeNotFound
	FindByID(ctx context.Context, id int64) (*UserType, error)

	// List 未归档用户类型
	List(ctx context.Context) ([]*UserType, error)

	Update(ctx context.Context, t *UserType) error
}
