package dto

import "github.com/xiebiao/library/internal/domain/user"

// RegisterRequest HTTP注册请求
// user_type_id为空时使用Normal(-2)
type RegisterRequest struct {
	Username   string `json:"username" binding:"required" example:"alice"`
	Email      string `json:"email" binding:"required" example:"alice@example.com"`
	Password   string `json:"password" binding:"required" example:"secret123"`
	UserTypeID int64  `json:"user_type_id" example:"-2"`
}

// UpdateUserRequest 修改用户，省略的字段保持不变
type UpdateUserRequest struct {
	Email      *string `json:"email" binding:"omitempty,email" example:"alice@example.org"`
	UserTypeID *int64  `json:"user_type_id" example:"-1"`
}

func (r *UpdateUserRequest) ToInput() user.UpdateInput {
	return user.UpdateInput{Email: r.Email, UserTypeID: r.UserTypeID}
}

// UserResponse 不包含密码哈希
type UserResponse struct {
	ID         int64  `json:"id" example:"5"`
	Username   string `json:"username" example:"alice"`
	Email      string `json:"email" example:"alice@example.com"`
	UserTypeID int64  `json:"user_type_id" example:"-2"`
	AuditResponse
}

func NewUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		UserTypeID:    u.UserTypeID,
		AuditResponse: NewAuditResponse(u.Metadata),
	}
}

func NewUserList(us []*user.User) []*UserResponse {
	return mapList(us, NewUserResponse)
}

type UserTypeRequest struct {
	Role string `json:"role" binding:"required,max=50" example:"Librarian"`
}

type UserTypeResponse struct {
	ID   int64  `json:"id" example:"1"`
	Role string `json:"role" example:"Librarian"`
	AuditResponse
}

func NewUserTypeResponse(t *user.UserType) *UserTypeResponse {
	return &UserTypeResponse{ID: t.ID, Role: t.Role, AuditResponse: NewAuditResponse(t.Metadata)}
}

func NewUserTypeList(ts []*user.UserType) []*UserTypeResponse {
	return mapList(ts, NewUserTypeResponse)
}
