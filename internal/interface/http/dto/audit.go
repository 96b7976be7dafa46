package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/audit"
)

// DateLayout 请求/响应中的日期格式
const DateLayout = "2006-01-02"

// AuditResponse 审计字段，内嵌到各实体响应中
type AuditResponse struct {
	CreatedBy    int64      `json:"created_by" example:"1"`
	CreatedDate  time.Time  `json:"created_date"`
	ModifiedBy   *int64     `json:"modified_by,omitempty"`
	ModifiedDate *time.Time `json:"modified_date,omitempty"`
	IsArchived   bool       `json:"is_archived"`
	ArchivedBy   *int64     `json:"archived_by,omitempty"`
	ArchivedDate *time.Time `json:"archived_date,omitempty"`
}

func NewAuditResponse(m audit.Metadata) AuditResponse {
	return AuditResponse{
		CreatedBy:    m.CreatedBy,
		CreatedDate:  m.CreatedDate,
		ModifiedBy:   m.ModifiedBy,
		ModifiedDate: m.ModifiedDate,
		IsArchived:   m.IsArchived,
		ArchivedBy:   m.ArchivedBy,
		ArchivedDate: m.ArchivedDate,
	}
}

// ArchiveResponse 归档结果，Moved为改指向保留行的引用数
type ArchiveResponse struct {
	ID    int64 `json:"id" example:"3"`
	Moved int64 `json:"moved" example:"2"`
}

// mapList 列表转换
func mapList[T any, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
