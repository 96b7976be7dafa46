package borrow

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/user"
)

// Copies 借阅依赖的库存操作（由库存服务提供）
type Copies interface {
	Checkout(ctx context.Context, id, actorID int64) (*inventory.Copy, error)
	ReturnCopy(ctx context.Context, id, actorID int64) error
	LogBorrowed(ctx context.Context, c *inventory.Copy, borrowID, actorID int64) error
}

// Users 借阅依赖的用户操作
// LockUser锁定借阅人直到事务结束，避免借阅与归档用户交错
type Users interface {
	LockUser(ctx context.Context, id int64) (*user.User, error)
}

// Service 借阅领域服务接口
// 副本状态机: Available → Borrowed → Available
// 调用方负责事务边界，Borrow与Return必须在同一事务内完成全部写入
type Service interface {
	// Borrow 借出副本；dueDate为nil时默认借期14天
	Borrow(ctx context.Context, copyID, userID int64, dueDate *time.Time) (*Record, error)

	// Return 归还并把副本恢复为可借
	Return(ctx context.Context, borrowID, actorID int64) (*Record, error)

	GetBorrow(ctx context.Context, id int64) (*Record, error)

	// GetBorrowDetail 单条记录附带副本编号、用户名和逾期信息
	GetBorrowDetail(ctx context.Context, id int64) (*Detail, error)

	// ListOverdue 未归还且已过应还日期
	ListOverdue(ctx context.Context) ([]*Detail, error)

	// ListBorrowDetails 附带副本编号、用户名和逾期信息的报表
	ListBorrowDetails(ctx context.Context) ([]*Detail, error)

	ListForUser(ctx context.Context, userID int64) ([]*Detail, error)
}

// Option 借阅服务选项
type Option func(*service)

// WithLoanDays 设置默认借期(天)
func WithLoanDays(days int) Option {
	return func(s *service) {
		if days > 0 {
			s.loanDays = days
		}
	}
}

type service struct {
	repo     Repository
	copies   Copies
	users    Users
	audit    *audit.Policy
	loanDays int
}

// NewService 创建借阅领域服务
func NewService(repo Repository, copies Copies, users Users, auditPolicy *audit.Policy, opts ...Option) Service {
	s := &service{
		repo:     repo,
		copies:   copies,
		users:    users,
		audit:    auditPolicy,
		loanDays: DefaultLoanDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Borrow 借出副本
// 业务规则:
// - userID为正数，用户存在且未归档
// - 应还日期不早于借阅日期
// - 副本存在、可借且未归档(条件更新保证并发下只有一个借阅成功)
func (s *service) Borrow(ctx context.Context, copyID, userID int64, dueDate *time.Time) (*Record, error) {
	if copyID <= 0 {
		return nil, inventory.ErrInvalidCopyID
	}
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}

	now := s.audit.Now()
	due := now.AddDate(0, 0, s.loanDays)
	if dueDate != nil {
		due = dueDate.UTC()
		if StartOfDay(due).Before(StartOfDay(now)) {
			return nil, ErrDueBeforeBorrow
		}
	}

	borrower, err := s.users.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if borrower.Archived() {
		return nil, ErrBorrowerArchived
	}

	c, err := s.copies.Checkout(ctx, copyID, userID)
	if err != nil {
		return nil, err
	}

	r := NewRecord(copyID, userID, now, due)
	if err := s.audit.Created(r, userID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	if err := s.copies.LogBorrowed(ctx, c, r.ID, userID); err != nil {
		return nil, err
	}
	return r, nil
}

// Return 归还
// 先关闭借阅记录，再恢复副本；两步在调用方的同一事务内
func (s *service) Return(ctx context.Context, borrowID, actorID int64) (*Record, error) {
	if borrowID <= 0 {
		return nil, ErrInvalidBorrowID
	}
	if err := audit.CheckActor(actorID); err != nil {
		return nil, err
	}

	if err := s.repo.MarkReturned(ctx, borrowID, s.audit.Now(), actorID); err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if err := s.copies.ReturnCopy(ctx, r.CopyID, actorID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetBorrow(ctx context.Context, id int64) (*Record, error) {
	if id <= 0 {
		return nil, ErrInvalidBorrowID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetBorrowDetail(ctx context.Context, id int64) (*Detail, error) {
	if id <= 0 {
		return nil, ErrInvalidBorrowID
	}
	d, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.annotate([]*Detail{d})[0], nil
}

func (s *service) ListOverdue(ctx context.Context) ([]*Detail, error) {
	details, err := s.repo.ListOverdue(ctx, StartOfDay(s.audit.Now()))
	if err != nil {
		return nil, err
	}
	return s.annotate(details), nil
}

func (s *service) ListBorrowDetails(ctx context.Context) ([]*Detail, error) {
	details, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, err
	}
	return s.annotate(details), nil
}

func (s *service) ListForUser(ctx context.Context, userID int64) ([]*Detail, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	details, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.annotate(details), nil
}

// annotate 按当前时间填充逾期标记与逾期天数
func (s *service) annotate(details []*Detail) []*Detail {
	today := s.audit.Now()
	for _, d := range details {
		d.Overdue = d.IsOverdue(today)
		d.OverdueDays = d.Record.OverdueDays(today)
	}
	return details
}
