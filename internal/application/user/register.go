package user

import (
	"context"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 密码经bcrypt加密后保存，未指定用户类型时为Normal
type RegisterUseCase struct {
	users user.Service
	tx    shared.Transactor
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(users user.Service, tx shared.Transactor) *RegisterUseCase {
	return &RegisterUseCase{users: users, tx: tx}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username   string
	Email      string
	Password   string
	UserTypeID int64
	ActorID    int64
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*user.User, error) {
	var u *user.User
	err := shared.InTx(ctx, uc.tx, "register_user", func(ctx context.Context) error {
		var err error
		u, err = uc.users.Register(ctx, user.RegisterInput{
			Username:   req.Username,
			Email:      req.Email,
			Password:   req.Password,
			UserTypeID: req.UserTypeID,
		}, req.ActorID)
		return err
	})
	return u, err
}
