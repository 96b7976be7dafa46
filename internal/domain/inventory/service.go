package inventory

import (
	"context"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/catalog"
)

// Books 副本依赖的图书操作（由目录服务提供）
type Books interface {
	GetBook(ctx context.Context, id int64) (*catalog.Book, error)
	ArchiveBook(ctx context.Context, id, actorID int64) error
}

// Service 库存领域服务接口
// 负责副本可借状态，以及副本→图书的归档级联
// 调用方负责事务边界
type Service interface {
	// CreateCopy 新增可借副本
	CreateCopy(ctx context.Context, bookID int64, copyCode string, actorID int64) (*Copy, error)

	GetCopy(ctx context.Context, id int64) (*Copy, error)

	// ListCopiesForBook 全部副本（包含已归档），按ID升序
	ListCopiesForBook(ctx context.Context, bookID int64) ([]*Copy, error)

	// GetAvailableCopies 可借且未归档的副本
	GetAvailableCopies(ctx context.Context, bookID int64) ([]*Copy, error)

	// ReturnCopy 把副本恢复为可借；副本仍有未归还借阅时返回ErrCopyOnLoan
	ReturnCopy(ctx context.Context, id, actorID int64) error

	// ArchiveCopy 归档副本；若图书已无未归档副本，一并归档图书
	// 返回图书是否被级联归档
	ArchiveCopy(ctx context.Context, id, actorID int64) (bool, error)

	// Checkout 借出时原子地占用副本
	Checkout(ctx context.Context, id, actorID int64) (*Copy, error)

	// LogBorrowed 记录借出日志
	LogBorrowed(ctx context.Context, c *Copy, borrowID, actorID int64) error

	// History 副本变更日志
	History(ctx context.Context, id int64) ([]*CopyLog, error)
}

type service struct {
	repo  Repository
	logs  LogRepository
	books Books
	audit *audit.Policy
}

// NewService 创建库存领域服务
func NewService(repo Repository, logs LogRepository, books Books, auditPolicy *audit.Policy) Service {
	return &service{
		repo:  repo,
		logs:  logs,
		books: books,
		audit: auditPolicy,
	}
}

// CreateCopy 新增副本
// 业务规则:
// - bookID、actorID为正数，副本编号符合 ^[A-Z]{1,4}-\d{2}$
// - 图书必须存在且未归档
// - 副本编号全局唯一(唯一索引)
func (s *service) CreateCopy(ctx context.Context, bookID int64, copyCode string, actorID int64) (*Copy, error) {
	if bookID <= 0 {
		return nil, ErrInvalidBookID
	}
	c := NewCopy(bookID, 0, copyCode)
	if !ValidCopyCode(c.CopyCode) {
		return nil, ErrInvalidCopyCode
	}
	if err := s.audit.Created(c, actorID); err != nil {
		return nil, err
	}

	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.Archived() {
		return nil, ErrBookArchived
	}
	c.PublisherID = book.PublisherID

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.logs.Append(ctx, NewCreatedLog(c, actorID, c.CreatedDate)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCopy(ctx context.Context, id int64) (*Copy, error) {
	if id <= 0 {
		return nil, ErrInvalidCopyID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListCopiesForBook(ctx context.Context, bookID int64) ([]*Copy, error) {
	if bookID <= 0 {
		return nil, ErrInvalidBookID
	}
	return s.repo.ListByBook(ctx, bookID)
}

func (s *service) GetAvailableCopies(ctx context.Context, bookID int64) ([]*Copy, error) {
	if bookID <= 0 {
		return nil, ErrInvalidBookID
	}
	return s.repo.ListAvailableByBook(ctx, bookID)
}

func (s *service) ReturnCopy(ctx context.Context, id, actorID int64) error {
	if err := audit.CheckActor(actorID); err != nil {
		return err
	}
	if id <= 0 {
		return ErrInvalidCopyID
	}
	c, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return err
	}

	onLoan, err := s.repo.HasOutstandingBorrow(ctx, id)
	if err != nil {
		return err
	}
	if onLoan {
		return ErrCopyOnLoan
	}

	c.IsAvailable = true
	if err := s.audit.Modified(c, actorID); err != nil {
		return err
	}
	// 只写可借状态与修改信息，条件更新再次确认没有未归还借阅
	if err := s.repo.Restore(ctx, id, actorID, *c.ModifiedDate); err != nil {
		return err
	}
	return s.logs.Append(ctx, NewReturnedLog(c, actorID, *c.ModifiedDate))
}

func (s *service) ArchiveCopy(ctx context.Context, id, actorID int64) (bool, error) {
	if err := audit.CheckActor(actorID); err != nil {
		return false, err
	}
	if id <= 0 {
		return false, ErrInvalidCopyID
	}
	c, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return false, err
	}
	if c.Archived() {
		return false, ErrCopyArchived
	}

	onLoan, err := s.repo.HasOutstandingBorrow(ctx, id)
	if err != nil {
		return false, err
	}
	if onLoan {
		return false, ErrCopyOnLoan
	}

	if err := s.audit.Archive(c, actorID); err != nil {
		return false, err
	}
	if err := s.repo.Archive(ctx, id, actorID, *c.ArchivedDate); err != nil {
		return false, err
	}
	if err := s.logs.Append(ctx, NewArchivedLog(c, actorID, *c.ArchivedDate)); err != nil {
		return false, err
	}

	remaining, err := s.repo.CountActiveByBook(ctx, c.BookID)
	if err != nil {
		return false, err
	}
	if remaining > 0 {
		return false, nil
	}

	book, err := s.books.GetBook(ctx, c.BookID)
	if err != nil {
		return false, err
	}
	if book.Archived() {
		return false, nil
	}
	if err := s.books.ArchiveBook(ctx, c.BookID, actorID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) Checkout(ctx context.Context, id, actorID int64) (*Copy, error) {
	if id <= 0 {
		return nil, ErrInvalidCopyID
	}
	if err := s.repo.Checkout(ctx, id, actorID, s.audit.Now()); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) LogBorrowed(ctx context.Context, c *Copy, borrowID, actorID int64) error {
	return s.logs.Append(ctx, NewBorrowedLog(c.ID, c.BookID, borrowID, actorID, s.audit.Now()))
}

func (s *service) History(ctx context.Context, id int64) ([]*CopyLog, error) {
	if _, err := s.GetCopy(ctx, id); err != nil {
		return nil, err
	}
	return s.logs.ListByCopy(ctx, id)
}
