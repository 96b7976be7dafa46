package catalog

import (
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/cascade"
)

// UnknownID 作者/分类/出版社的"Unknown"保留行ID
// 父实体归档后，引用它的记录改指向该行
const UnknownID int64 = -1

// Kind 查找表类型
type Kind = cascade.Target

const (
	KindAuthor    = cascade.TargetAuthor
	KindCategory  = cascade.TargetCategory
	KindPublisher = cascade.TargetPublisher
)

// ValidKind 是否为支持的查找表类型
func ValidKind(k Kind) bool {
	switch k {
	case KindAuthor, KindCategory, KindPublisher:
		return true
	}
	return false
}

// Lookup 简单命名实体（作者、分类、出版社）
type Lookup struct {
	ID   int64
	Kind Kind
	Name string
	audit.Metadata
}

// NewLookup 创建命名实体(工厂方法)
func NewLookup(kind Kind, name string) *Lookup {
	return &Lookup{Kind: kind, Name: strings.TrimSpace(name)}
}

// IsSentinel 是否为保留行
func (l *Lookup) IsSentinel() bool {
	return l.ID == UnknownID
}

// Book 图书实体
// 一本书拥有多个物理副本(见inventory包)，副本不随图书加载
type Book struct {
	ID          int64
	Title       string
	PublishDate time.Time
	Version     string // 可选版本号
	AuthorID    int64
	CategoryID  int64
	PublisherID int64
	audit.Metadata
}

// BookInput 创建/更新图书的输入
type BookInput struct {
	Title       string
	PublishDate time.Time
	Version     string
	AuthorID    int64
	CategoryID  int64
	PublisherID int64
}

// NewBook 创建图书(工厂方法)
func NewBook(in BookInput) *Book {
	return &Book{
		Title:       strings.TrimSpace(in.Title),
		PublishDate: in.PublishDate,
		Version:     strings.TrimSpace(in.Version),
		AuthorID:    in.AuthorID,
		CategoryID:  in.CategoryID,
		PublisherID: in.PublisherID,
	}
}

// Apply 用输入覆盖可修改字段
func (b *Book) Apply(in BookInput) {
	b.Title = strings.TrimSpace(in.Title)
	b.PublishDate = in.PublishDate
	b.Version = strings.TrimSpace(in.Version)
	b.AuthorID = in.AuthorID
	b.CategoryID = in.CategoryID
	b.PublisherID = in.PublisherID
}

// RefOf 返回图书对某类查找表的外键
func (b *Book) RefOf(kind Kind) int64 {
	switch kind {
	case KindAuthor:
		return b.AuthorID
	case KindCategory:
		return b.CategoryID
	case KindPublisher:
		return b.PublisherID
	}
	return 0
}
