package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/borrow"
)

// BorrowRequest 借出副本
// due_date为空时按默认借期计算
type BorrowRequest struct {
	CopyID  int64  `json:"copy_id" binding:"required,min=1" example:"10"`
	UserID  int64  `json:"user_id" binding:"required,min=1" example:"5"`
	DueDate string `json:"due_date" binding:"omitempty,datetime=2006-01-02" example:"2025-03-01"`
}

// Due 解析应还日期
func (r *BorrowRequest) Due() *time.Time {
	if r.DueDate == "" {
		return nil
	}
	d, err := time.Parse(DateLayout, r.DueDate)
	if err != nil {
		return nil
	}
	return &d
}

type BorrowResponse struct {
	ID         int64   `json:"id" example:"7"`
	CopyID     int64   `json:"copy_id" example:"10"`
	UserID     int64   `json:"user_id" example:"5"`
	BorrowDate string  `json:"borrow_date" example:"2025-02-01"`
	DueDate    string  `json:"due_date" example:"2025-02-15"`
	ReturnDate *string `json:"return_date,omitempty" example:"2025-02-10"`
	AuditResponse
}

func NewBorrowResponse(r *borrow.Record) *BorrowResponse {
	resp := &BorrowResponse{
		ID:            r.ID,
		CopyID:        r.CopyID,
		UserID:        r.UserID,
		BorrowDate:    r.BorrowDate.Format(DateLayout),
		DueDate:       r.DueDate.Format(DateLayout),
		AuditResponse: NewAuditResponse(r.Metadata),
	}
	if r.ReturnDate != nil {
		s := r.ReturnDate.Format(DateLayout)
		resp.ReturnDate = &s
	}
	return resp
}

// BorrowDetailResponse 借阅报表行，附带逾期信息
type BorrowDetailResponse struct {
	BorrowResponse
	CopyCode    string `json:"copy_code,omitempty" example:"AB-01"`
	Username    string `json:"username,omitempty" example:"alice"`
	Overdue     bool   `json:"overdue" example:"false"`
	OverdueDays int    `json:"overdue_days" example:"0"`
}

func NewBorrowDetail(d *borrow.Detail) *BorrowDetailResponse {
	return &BorrowDetailResponse{
		BorrowResponse: *NewBorrowResponse(&d.Record),
		CopyCode:       d.CopyCode,
		Username:       d.Username,
		Overdue:        d.Overdue,
		OverdueDays:    d.OverdueDays,
	}
}

func NewBorrowDetailList(ds []*borrow.Detail) []*BorrowDetailResponse {
	return mapList(ds, NewBorrowDetail)
}
