package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

type BorrowCopy interface {
	Execute(ctx context.Context, req appborrow.BorrowCopyRequest) (*borrow.Record, error)
}

type ReturnBorrow interface {
	Execute(ctx context.Context, req appborrow.ReturnBorrowRequest) (*borrow.Record, error)
}

type QueryBorrows interface {
	Get(ctx context.Context, id int64) (*borrow.Detail, error)
	ListOverdue(ctx context.Context) ([]*borrow.Detail, error)
	ListDetails(ctx context.Context) ([]*borrow.Detail, error)
	ListForUser(ctx context.Context, userID int64) ([]*borrow.Detail, error)
}

// BorrowHandler 借阅HTTP处理器
type BorrowHandler struct {
	borrowCopy   BorrowCopy
	returnBorrow ReturnBorrow
	query        QueryBorrows
}

func NewBorrowHandler(borrowCopy BorrowCopy, returnBorrow ReturnBorrow, query QueryBorrows) *BorrowHandler {
	return &BorrowHandler{borrowCopy: borrowCopy, returnBorrow: returnBorrow, query: query}
}

// Borrow 借出副本
// @Summary      借书
// @Description  副本必须可借；借阅日期为当天，应还日期默认14天后。借阅人即操作人
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        request body dto.BorrowRequest true "借阅信息"
// @Success      201 {object} response.Response{data=dto.BorrowResponse}
// @Failure      400 {object} response.Response "应还日期早于借阅日期"
// @Failure      404 {object} response.Response "副本或用户不存在"
// @Failure      409 {object} response.Response "副本不可借"
// @Router       /api/v1/borrows [post]
func (h *BorrowHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if !bind(c, &req) {
		return
	}
	rec, err := h.borrowCopy.Execute(c.Request.Context(), appborrow.BorrowCopyRequest{
		CopyID:  req.CopyID,
		UserID:  req.UserID,
		DueDate: req.Due(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewBorrowResponse(rec))
}

// Return 归还借阅
// @Summary      还书
// @Tags         借阅
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=dto.BorrowResponse}
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Failure      409 {object} response.Response "已归还"
// @Router       /api/v1/borrows/{id}/return [post]
func (h *BorrowHandler) Return(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.returnBorrow.Execute(c.Request.Context(), appborrow.ReturnBorrowRequest{
		BorrowID: id,
		ActorID:  actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBorrowResponse(rec))
}

// Get 借阅详情(含逾期信息)
// @Summary      借阅详情
// @Tags         借阅
// @Produce      json
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=dto.BorrowDetailResponse}
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/borrows/{id} [get]
func (h *BorrowHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.query.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBorrowDetail(d))
}

// Overdue 逾期未还列表
// @Summary      逾期借阅
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BorrowDetailResponse}
// @Router       /api/v1/borrows/overdue [get]
func (h *BorrowHandler) Overdue(c *gin.Context) {
	ds, err := h.query.ListOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBorrowDetailList(ds))
}

// Details 借阅报表
// @Summary      借阅报表
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BorrowDetailResponse}
// @Router       /api/v1/borrows/details [get]
func (h *BorrowHandler) Details(c *gin.Context) {
	ds, err := h.query.ListDetails(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBorrowDetailList(ds))
}

// ForUser 用户的借阅记录
// @Summary      用户借阅记录
// @Tags         借阅
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=[]dto.BorrowDetailResponse}
// @Router       /api/v1/users/{id}/borrows [get]
func (h *BorrowHandler) ForUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ds, err := h.query.ListForUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBorrowDetailList(ds))
}
