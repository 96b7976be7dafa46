package catalog

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/cascade"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 目录领域服务接口
// 业务规则:
// - 作者/分类/出版社名称在未归档记录中唯一
// - 归档作者/分类/出版社时，引用它的图书(出版社还包括副本)改指向Unknown行
// - 图书引用的作者/分类/出版社必须存在且未归档
// 调用方负责事务边界
type Service interface {
	CreateLookup(ctx context.Context, kind Kind, name string, actorID int64) (*Lookup, error)
	GetLookup(ctx context.Context, kind Kind, id int64) (*Lookup, error)
	ListLookups(ctx context.Context, kind Kind) ([]*Lookup, error)
	RenameLookup(ctx context.Context, kind Kind, id int64, name string, actorID int64) (*Lookup, error)

	// ArchiveLookup 级联归档，返回被改指向的记录数
	ArchiveLookup(ctx context.Context, kind Kind, id, actorID int64) (int64, error)

	CreateBook(ctx context.Context, in BookInput, actorID int64) (*Book, error)
	GetBook(ctx context.Context, id int64) (*Book, error)
	ListBooks(ctx context.Context) ([]*Book, error)
	UpdateBook(ctx context.Context, id int64, in BookInput, actorID int64) (*Book, error)

	// ArchiveBook 归档图书本身，不影响其副本
	ArchiveBook(ctx context.Context, id, actorID int64) error
}

type service struct {
	lookups LookupRepository
	books   BookRepository
	audit   *audit.Policy
	cascade *cascade.Policy
}

// NewService 创建目录领域服务
func NewService(lookups LookupRepository, books BookRepository, auditPolicy *audit.Policy, cascadePolicy *cascade.Policy) Service {
	return &service{
		lookups: lookups,
		books:   books,
		audit:   auditPolicy,
		cascade: cascadePolicy,
	}
}

func (s *service) CreateLookup(ctx context.Context, kind Kind, name string, actorID int64) (*Lookup, error) {
	if !ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	l := NewLookup(kind, name)
	if !validName(l.Name) {
		return nil, ErrInvalidName
	}
	if err := s.ensureNameFree(ctx, kind, l.Name, 0); err != nil {
		return nil, err
	}
	if err := s.audit.Created(l, actorID); err != nil {
		return nil, err
	}

	if err := s.lookups.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) GetLookup(ctx context.Context, kind Kind, id int64) (*Lookup, error) {
	if !ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	return s.lookups.FindByID(ctx, kind, id)
}

func (s *service) ListLookups(ctx context.Context, kind Kind) ([]*Lookup, error) {
	if !ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	return s.lookups.List(ctx, kind)
}

func (s *service) RenameLookup(ctx context.Context, kind Kind, id int64, name string, actorID int64) (*Lookup, error) {
	l, err := s.GetLookup(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if l.IsSentinel() {
		return nil, apperrors.ErrSentinelLocked
	}
	if l.Archived() {
		return nil, apperrors.ErrAlreadyArchived
	}

	renamed := NewLookup(kind, name)
	if !validName(renamed.Name) {
		return nil, ErrInvalidName
	}
	if err := s.ensureNameFree(ctx, kind, renamed.Name, id); err != nil {
		return nil, err
	}
	l.Name = renamed.Name
	if err := s.audit.Modified(l, actorID); err != nil {
		return nil, err
	}

	if err := s.lookups.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) ArchiveLookup(ctx context.Context, kind Kind, id, actorID int64) (int64, error) {
	l, err := s.GetLookup(ctx, kind, id)
	if err != nil {
		return 0, err
	}

	return s.cascade.Archive(ctx, cascade.Request{
		Target:     kind,
		Entity:     l,
		ID:         l.ID,
		SentinelID: UnknownID,
		ActorID:    actorID,
		Persist: func(ctx context.Context) error {
			return s.lookups.Update(ctx, l)
		},
	})
}

func (s *service) CreateBook(ctx context.Context, in BookInput, actorID int64) (*Book, error) {
	b := NewBook(in)
	if err := s.validateBook(ctx, b); err != nil {
		return nil, err
	}
	if err := s.audit.Created(b, actorID); err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id int64) (*Book, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.books.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	return s.books.List(ctx)
}

func (s *service) UpdateBook(ctx context.Context, id int64, in BookInput, actorID int64) (*Book, error) {
	b, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Archived() {
		return nil, ErrBookArchived
	}

	b.Apply(in)
	if err := s.validateBook(ctx, b); err != nil {
		return nil, err
	}
	if err := s.audit.Modified(b, actorID); err != nil {
		return nil, err
	}

	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ArchiveBook(ctx context.Context, id, actorID int64) error {
	b, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if err := s.audit.Archive(b, actorID); err != nil {
		return err
	}
	return s.books.Update(ctx, b)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

func (s *service) validateBook(ctx context.Context, b *Book) error {
	if n := utf8.RuneCountInString(b.Title); n == 0 || n > 200 {
		return ErrInvalidTitle
	}
	for _, kind := range []Kind{KindAuthor, KindCategory, KindPublisher} {
		ref, err := s.lookups.FindByID(ctx, kind, b.RefOf(kind))
		if err != nil {
			return err
		}
		if ref.Archived() {
			return ErrArchivedRef
		}
	}
	return nil
}

// ensureNameFree 未归档记录中名称唯一（selfID为正在修改的记录）
func (s *service) ensureNameFree(ctx context.Context, kind Kind, name string, selfID int64) error {
	existing, err := s.lookups.FindByName(ctx, kind, name)
	if err != nil {
		if errors.Is(err, ErrLookupNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return ErrDuplicateName
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n > 0 && n <= 100
}
