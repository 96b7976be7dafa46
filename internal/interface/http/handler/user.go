package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

type Register interface {
	Execute(ctx context.Context, req appuser.RegisterRequest) (*user.User, error)
}

type UserUseCase interface {
	Get(ctx context.Context, id int64) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
	Update(ctx context.Context, id int64, in user.UpdateInput, actorID int64) (*user.User, error)
	Archive(ctx context.Context, id, actorID int64) (*user.User, error)
}

// UserHandler 用户HTTP处理器
type UserHandler struct {
	register Register
	users    UserUseCase
}

func NewUserHandler(register Register, users UserUseCase) *UserHandler {
	return &UserHandler{register: register, users: users}
}

// Create 注册用户
// @Summary      注册用户
// @Description  创建用户，密码以bcrypt哈希保存；未指定类型时为Normal
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=dto.UserResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "用户名或邮箱已存在"
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.RegisterRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.register.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		UserTypeID: req.UserTypeID,
		ActorID:    actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewUserResponse(u))
}

// Get 用户详情
// @Summary      用户详情
// @Tags         用户
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=dto.UserResponse}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserResponse(u))
}

// List 未归档用户
func (h *UserHandler) List(c *gin.Context) {
	us, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserList(us))
}

// Update 修改邮箱或用户类型
// @Summary      修改用户
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "用户ID"
// @Param        request body dto.UpdateUserRequest true "修改内容"
// @Success      200 {object} response.Response{data=dto.UserResponse}
// @Router       /api/v1/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, req.ToInput(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserResponse(u))
}

// Archive 归档用户，存在未归还借阅时拒绝
// @Summary      归档用户
// @Tags         用户
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=dto.UserResponse}
// @Failure      409 {object} response.Response "存在未归还借阅"
// @Router       /api/v1/users/{id}/archive [post]
func (h *UserHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.users.Archive(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserResponse(u))
}

type UserTypeUseCase interface {
	Create(ctx context.Context, role string, actorID int64) (*user.UserType, error)
	Get(ctx context.Context, id int64) (*user.UserType, error)
	List(ctx context.Context) ([]*user.UserType, error)
	Rename(ctx context.Context, id int64, role string, actorID int64) (*user.UserType, error)
	Archive(ctx context.Context, id, actorID int64) (int64, error)
}

type UserTypeHandler struct {
	types UserTypeUseCase
}

func NewUserTypeHandler(types UserTypeUseCase) *UserTypeHandler {
	return &UserTypeHandler{types: types}
}

// Create 新增用户类型
// @Summary      新增用户类型
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        request body dto.UserTypeRequest true "角色"
// @Success      201 {object} response.Response{data=dto.UserTypeResponse}
// @Failure      409 {object} response.Response "角色已存在"
// @Router       /api/v1/user-types [post]
func (h *UserTypeHandler) Create(c *gin.Context) {
	var req dto.UserTypeRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.types.Create(c.Request.Context(), req.Role, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewUserTypeResponse(t))
}

func (h *UserTypeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.types.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserTypeResponse(t))
}

func (h *UserTypeHandler) List(c *gin.Context) {
	ts, err := h.types.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserTypeList(ts))
}

// Rename 修改角色名，保留类型不可修改
// @Summary      修改用户类型
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "类型ID"
// @Param        request body dto.UserTypeRequest true "角色"
// @Success      200 {object} response.Response{data=dto.UserTypeResponse}
// @Failure      409 {object} response.Response "角色已存在"
// @Router       /api/v1/user-types/{id} [put]
func (h *UserTypeHandler) Rename(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UserTypeRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.types.Rename(c.Request.Context(), id, req.Role, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserTypeResponse(t))
}

// Archive 归档用户类型，该类型的用户改为Normal
// @Summary      归档用户类型
// @Tags         用户
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "类型ID"
// @Success      200 {object} response.Response{data=dto.ArchiveResponse}
// @Failure      409 {object} response.Response "保留类型不可归档"
// @Router       /api/v1/user-types/{id}/archive [post]
func (h *UserTypeHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	moved, err := h.types.Archive(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ArchiveResponse{ID: id, Moved: moved})
}
