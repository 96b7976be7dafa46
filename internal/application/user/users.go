package user

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/user"
)

// UserUseCase 用户资料维护
type UserUseCase struct {
	users user.Service
	tx    shared.Transactor
}

func NewUserUseCase(users user.Service, tx shared.Transactor) *UserUseCase {
	return &UserUseCase{users: users, tx: tx}
}

func (uc *UserUseCase) Get(ctx context.Context, id int64) (*user.User, error) {
	return uc.users.GetUser(ctx, id)
}

func (uc *UserUseCase) List(ctx context.Context) ([]*user.User, error) {
	return uc.users.ListUsers(ctx)
}

// Update 修改邮箱或用户类型，字段为nil表示不修改
func (uc *UserUseCase) Update(ctx context.Context, id int64, in user.UpdateInput, actorID int64) (*user.User, error) {
	var u *user.User
	err := shared.InTx(ctx, uc.tx, "update_user", func(ctx context.Context) error {
		var err error
		u, err = uc.users.UpdateUser(ctx, id, in, actorID)
		return err
	})
	return u, err
}

// Archive 存在未归还借阅时拒绝
func (uc *UserUseCase) Archive(ctx context.Context, id, actorID int64) (*user.User, error) {
	var u *user.User
	err := shared.InTx(ctx, uc.tx, "archive_user", func(ctx context.Context) error {
		if err := uc.users.ArchiveUser(ctx, id, actorID); err != nil {
			return err
		}
		var err error
		u, err = uc.users.GetUser(ctx, id)
		return err
	})
	return u, err
}

// UserTypeUseCase 用户类型维护
type UserTypeUseCase struct {
	users user.Service
	tx    shared.Transactor
}

func NewUserTypeUseCase(users user.Service, tx shared.Transactor) *UserTypeUseCase {
	return &UserTypeUseCase{users: users, tx: tx}
}

func (uc *UserTypeUseCase) Create(ctx context.Context, role string, actorID int64) (*user.UserType, error) {
	var ut *user.UserType
	err := shared.InTx(ctx, uc.tx, "create_user_type", func(ctx context.Context) error {
		var err error
		ut, err = uc.users.CreateUserType(ctx, role, actorID)
		return err
	})
	return ut, err
}

func (uc *UserTypeUseCase) Get(ctx context.Context, id int64) (*user.UserType, error) {
	return uc.users.GetUserType(ctx, id)
}

func (uc *UserTypeUseCase) List(ctx context.Context) ([]*user.UserType, error) {
	return uc.users.ListUserTypes(ctx)
}

func (uc *UserTypeUseCase) Rename(ctx context.Context, id int64, role string, actorID int64) (*user.UserType, error) {
	var ut *user.UserType
	err := shared.InTx(ctx, uc.tx, "rename_user_type", func(ctx context.Context) error {
		var err error
		ut, err = uc.users.RenameUserType(ctx, id, role, actorID)
		return err
	})
	return ut, err
}

// Archive 该类型下的用户改为Normal，返回受影响用户数
func (uc *UserTypeUseCase) Archive(ctx context.Context, id, actorID int64) (int64, error) {
	var moved int64
	err := shared.InTx(ctx, uc.tx, "archive_user_type", func(ctx context.Context) error {
		var err error
		moved, err = uc.users.ArchiveUserType(ctx, id, actorID)
		return err
	})
	return moved, err
}
