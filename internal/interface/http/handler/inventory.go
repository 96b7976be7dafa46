package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/library/internal/application/inventory"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

type ManageCopies interface {
	Create(ctx context.Context, bookID int64, copyCode string, actorID int64) (*inventory.Copy, error)
	Return(ctx context.Context, id, actorID int64) (*inventory.Copy, error)
	Archive(ctx context.Context, id, actorID int64) (*appinventory.ArchiveCopyResult, error)
}

type QueryCopies interface {
	Get(ctx context.Context, id int64) (*inventory.Copy, error)
	ListForBook(ctx context.Context, bookID int64) ([]*inventory.Copy, error)
	Available(ctx context.Context, bookID int64) ([]*inventory.Copy, error)
	History(ctx context.Context, id int64) ([]*inventory.CopyLog, error)
}

// CopyHandler 副本(库存)HTTP处理器
type CopyHandler struct {
	manage ManageCopies
	query  QueryCopies
}

func NewCopyHandler(manage ManageCopies, query QueryCopies) *CopyHandler {
	return &CopyHandler{manage: manage, query: query}
}

// Create 新增副本
// @Summary      新增副本
// @Description  为图书新增一个可借的物理副本，出版社取自图书
// @Tags         库存
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        request body dto.CreateCopyRequest true "副本信息"
// @Success      201 {object} response.Response{data=dto.CopyResponse}
// @Failure      400 {object} response.Response "副本编号格式错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "图书已归档"
// @Router       /api/v1/copies [post]
func (h *CopyHandler) Create(c *gin.Context) {
	var req dto.CreateCopyRequest
	if !bind(c, &req) {
		return
	}
	cp, err := h.manage.Create(c.Request.Context(), req.BookID, req.CopyCode, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewCopyResponse(cp))
}

// Get 副本详情
// @Summary      副本详情
// @Tags         库存
// @Produce      json
// @Param        id path int true "副本ID"
// @Success      200 {object} response.Response{data=dto.CopyResponse}
// @Failure      404 {object} response.Response "副本不存在"
// @Router       /api/v1/copies/{id} [get]
func (h *CopyHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cp, err := h.query.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCopyResponse(cp))
}

// ListForBook 图书的全部副本(含已归档)
// @Summary      图书副本列表
// @Tags         库存
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]dto.CopyResponse}
// @Router       /api/v1/books/{id}/copies [get]
func (h *CopyHandler) ListForBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cs, err := h.query.ListForBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCopyList(cs))
}

// Available 图书当前可借的副本
// @Summary      可借副本
// @Tags         库存
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]dto.CopyResponse}
// @Router       /api/v1/books/{id}/copies/available [get]
func (h *CopyHandler) Available(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cs, err := h.query.Available(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCopyList(cs))
}

// Return 直接将副本置为可借
// @Summary      副本归还
// @Tags         库存
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "副本ID"
// @Success      200 {object} response.Response{data=dto.CopyResponse}
// @Failure      409 {object} response.Response "副本未借出"
// @Router       /api/v1/copies/{id}/return [post]
func (h *CopyHandler) Return(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cp, err := h.manage.Return(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCopyResponse(cp))
}

// Archive 归档副本
// @Summary      归档副本
// @Description  借出中的副本不能归档；最后一个副本归档时图书一并归档
// @Tags         库存
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "副本ID"
// @Success      200 {object} response.Response{data=dto.ArchiveCopyResponse}
// @Failure      409 {object} response.Response "借出中或已归档"
// @Router       /api/v1/copies/{id}/archive [post]
func (h *CopyHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.manage.Archive(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ArchiveCopyResponse{
		Copy:         dto.NewCopyResponse(res.Copy),
		BookArchived: res.BookArchived,
	})
}

// History 副本变更日志
// @Summary      副本变更日志
// @Tags         库存
// @Produce      json
// @Param        id path int true "副本ID"
// @Success      200 {object} response.Response{data=[]dto.CopyLogResponse}
// @Router       /api/v1/copies/{id}/history [get]
func (h *CopyHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	logs, err := h.query.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCopyLogList(logs))
}
