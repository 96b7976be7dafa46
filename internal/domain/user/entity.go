package user

import (
	"strings"

	"github.com/xiebiao/library/internal/domain/audit"
)

// 用户类型保留行
const (
	AdminTypeID  int64 = -1
	NormalTypeID int64 = -2 // 注册时的默认类型，也是类型归档后的改指向目标
)

// User 用户实体
// 密码只保存bcrypt哈希值
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	UserTypeID   int64
	audit.Metadata
}

// NewUser 创建新用户(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string, userTypeID int64) *User {
	if userTypeID == 0 {
		userTypeID = NormalTypeID
	}
	return &User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: hashedPassword,
		UserTypeID:   userTypeID,
	}
}

// UserType 用户类型(角色)，Role全局唯一
type UserType struct {
	ID   int64
	Role string
	audit.Metadata
}

// NewUserType 创建用户类型
func NewUserType(role string) *UserType {
	return &UserType{Role: strings.TrimSpace(role)}
}

// IsSentinel 是否为保留行(Admin/Normal)
func (t *UserType) IsSentinel() bool {
	return t.ID == AdminTypeID || t.ID == NormalTypeID
}
