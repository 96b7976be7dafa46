package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/catalog"
)

// LookupRequest 创建/重命名作者、分类、出版社
type LookupRequest struct {
	Name string `json:"name" binding:"required,max=200" example:"Jorge Luis Borges"`
}

type LookupResponse struct {
	ID   int64  `json:"id" example:"3"`
	Name string `json:"name" example:"Jorge Luis Borges"`
	AuditResponse
}

func NewLookupResponse(l *catalog.Lookup) *LookupResponse {
	return &LookupResponse{ID: l.ID, Name: l.Name, AuditResponse: NewAuditResponse(l.Metadata)}
}

func NewLookupList(ls []*catalog.Lookup) []*LookupResponse {
	return mapList(ls, NewLookupResponse)
}

// BookRequest 创建/修改图书
// 引用ID可为-1(Unknown保留行)
type BookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Ficciones"`
	PublishDate string `json:"publish_date" binding:"omitempty,datetime=2006-01-02" example:"1944-01-01"`
	Version     string `json:"version" binding:"max=50" example:"2nd"`
	AuthorID    int64  `json:"author_id" binding:"required" example:"3"`
	CategoryID  int64  `json:"category_id" binding:"required" example:"1"`
	PublisherID int64  `json:"publisher_id" binding:"required" example:"2"`
}

// ToInput 转换为领域输入，日期已由binding校验
func (r *BookRequest) ToInput() catalog.BookInput {
	var published time.Time
	if r.PublishDate != "" {
		published, _ = time.Parse(DateLayout, r.PublishDate)
	}
	return catalog.BookInput{
		Title:       r.Title,
		PublishDate: published,
		Version:     r.Version,
		AuthorID:    r.AuthorID,
		CategoryID:  r.CategoryID,
		PublisherID: r.PublisherID,
	}
}

type BookResponse struct {
	ID          int64  `json:"id" example:"1"`
	Title       string `json:"title" example:"Ficciones"`
	PublishDate string `json:"publish_date,omitempty" example:"1944-01-01"`
	Version     string `json:"version,omitempty" example:"2nd"`
	AuthorID    int64  `json:"author_id" example:"3"`
	CategoryID  int64  `json:"category_id" example:"1"`
	PublisherID int64  `json:"publisher_id" example:"2"`
	AuditResponse
}

func NewBookResponse(b *catalog.Book) *BookResponse {
	resp := &BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Version:       b.Version,
		AuthorID:      b.AuthorID,
		CategoryID:    b.CategoryID,
		PublisherID:   b.PublisherID,
		AuditResponse: NewAuditResponse(b.Metadata),
	}
	if !b.PublishDate.IsZero() {
		resp.PublishDate = b.PublishDate.Format(DateLayout)
	}
	return resp
}

func NewBookList(bs []*catalog.Book) []*BookResponse {
	return mapList(bs, NewBookResponse)
}
