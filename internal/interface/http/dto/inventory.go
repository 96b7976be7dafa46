package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/inventory"
)

// CreateCopyRequest 新增副本
// copy_code格式：1-4个大写字母-2位数字
type CreateCopyRequest struct {
	BookID   int64  `json:"book_id" binding:"required,min=1" example:"1"`
	CopyCode string `json:"copy_code" binding:"required" example:"AB-01"`
}

type CopyResponse struct {
	ID          int64  `json:"id" example:"10"`
	BookID      int64  `json:"book_id" example:"1"`
	PublisherID int64  `json:"publisher_id" example:"2"`
	CopyCode    string `json:"copy_code" example:"AB-01"`
	IsAvailable bool   `json:"is_available" example:"true"`
	AuditResponse
}

func NewCopyResponse(c *inventory.Copy) *CopyResponse {
	return &CopyResponse{
		ID:            c.ID,
		BookID:        c.BookID,
		PublisherID:   c.PublisherID,
		CopyCode:      c.CopyCode,
		IsAvailable:   c.IsAvailable,
		AuditResponse: NewAuditResponse(c.Metadata),
	}
}

func NewCopyList(cs []*inventory.Copy) []*CopyResponse {
	return mapList(cs, NewCopyResponse)
}

// ArchiveCopyResponse 归档副本；最后一个副本归档时图书一并归档
type ArchiveCopyResponse struct {
	Copy         *CopyResponse `json:"copy"`
	BookArchived bool          `json:"book_archived" example:"false"`
}

type CopyLogResponse struct {
	ID         int64     `json:"id" example:"1"`
	CopyID     int64     `json:"copy_id" example:"10"`
	BookID     int64     `json:"book_id" example:"1"`
	ChangeType string    `json:"change_type" example:"BORROWED"`
	BorrowID   int64     `json:"borrow_id,omitempty" example:"7"`
	ActorID    int64     `json:"actor_id" example:"1"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCopyLogList(logs []*inventory.CopyLog) []*CopyLogResponse {
	return mapList(logs, func(l *inventory.CopyLog) *CopyLogResponse {
		return &CopyLogResponse{
			ID:         l.ID,
			CopyID:     l.CopyID,
			BookID:     l.BookID,
			ChangeType: string(l.ChangeType),
			BorrowID:   l.BorrowID,
			ActorID:    l.ActorID,
			CreatedAt:  l.CreatedAt,
		}
	})
}
