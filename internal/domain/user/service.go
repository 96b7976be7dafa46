package user

import (
	"context"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/cascade"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// RegisterInput 注册参数，UserTypeID为0时使用Normal类型
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	UserTypeID int64
}

// UpdateInput 修改参数，nil字段保持不变
type UpdateInput struct {
	Email      *string
	UserTypeID *int64
}

// Service 用户领域服务
// 业务规则:
// - 用户名、邮箱唯一(唯一索引)
// - 持有未归还借阅的用户不能归档
// - 归档用户类型时，其用户改为Normal类型；Admin/Normal保留行不可归档
type Service interface {
	Register(ctx context.Context, in RegisterInput, actorID int64) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)

	// LockUser 锁定用户行直到事务结束，借阅时与ArchiveUser互斥
	LockUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateInput, actorID int64) (*User, error)
	ArchiveUser(ctx context.Context, id, actorID int64) error

	// ValidatePassword 校验明文密码与哈希
	ValidatePassword(hashedPassword, plainPassword string) error

	CreateUserType(ctx context.Context, role string, actorID int64) (*UserType, error)
	GetUserType(ctx context.Context, id int64) (*UserType, error)
	ListUserTypes(ctx context.Context) ([]*UserType, error)
	RenameUserType(ctx context.Context, id int64, role string, actorID int64) (*UserType, error)

	// ArchiveUserType 级联归档，返回被改为Normal类型的用户数
	ArchiveUserType(ctx context.Context, id, actorID int64) (int64, error)
}

// Option 用户服务选项
type Option func(*service)

// WithHashCost 设置bcrypt cost
func WithHashCost(cost int) Option {
	return func(s *service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.hashCost = cost
		}
	}
}

type service struct {
	repo     Repository
	types    TypeRepository
	audit    *audit.Policy
	cascade  *cascade.Policy
	hashCost int
}

// NewService 创建用户服务
func NewService(repo Repository, types TypeRepository, auditPolicy *audit.Policy, cascadePolicy *cascade.Policy, opts ...Option) Service {
	s := &service{
		repo:     repo,
		types:    types,
		audit:    auditPolicy,
		cascade:  cascadePolicy,
		hashCost: 12,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 用户注册
// 业务规则:
// 1. 用户名、邮箱格式校验
// 2. 密码强度校验(8-20位，包含字母和数字)
// 3. 用户类型存在且未归档
// 4. 密码bcrypt加密
func (s *service) Register(ctx context.Context, in RegisterInput, actorID int64) (*User, error) {
	u := NewUser(in.Username, in.Email, "", in.UserTypeID)
	if !usernamePattern.MatchString(u.Username) {
		return nil, ErrInvalidUsername
	}
	if !emailPattern.MatchString(u.Email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(in.Password); err != nil {
		return nil, err
	}
	if err := audit.CheckActor(actorID); err != nil {
		return nil, err
	}
	if err := s.ensureTypeUsable(ctx, u.UserTypeID); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}
	u.PasswordHash = string(hashed)

	if err := s.audit.Created(u, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateUser(ctx context.Context, id int64, in UpdateInput, actorID int64) (*User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Archived() {
		return nil, ErrUserArchived
	}

	if in.Email != nil {
		u.Email = NewUser("", *in.Email, "", 0).Email
		if !emailPattern.MatchString(u.Email) {
			return nil, ErrInvalidEmail
		}
	}
	if in.UserTypeID != nil {
		if err := s.ensureTypeUsable(ctx, *in.UserTypeID); err != nil {
			return nil, err
		}
		u.UserTypeID = *in.UserTypeID
	}
	if err := s.audit.Modified(u, actorID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) LockUser(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.LockByID(ctx, id)
}

// ArchiveUser 归档用户，持有未归还借阅时返回ErrOutstandingLoans
func (s *service) ArchiveUser(ctx context.Context, id, actorID int64) error {
	u, err := s.LockUser(ctx, id)
	if err != nil {
		return err
	}
	if u.Archived() {
		return ErrUserArchived
	}

	outstanding, err := s.repo.HasOutstandingBorrows(ctx, id)
	if err != nil {
		return err
	}
	if outstanding {
		return ErrOutstandingLoans
	}

	if err := s.audit.Archive(u, actorID); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id, actorID, *u.ArchivedDate)
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return apperrors.Validation("密码错误")
	}
	if err != nil {
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

func (s *service) CreateUserType(ctx context.Context, role string, actorID int64) (*UserType, error) {
	t := NewUserType(role)
	if n := utf8.RuneCountInString(t.Role); n == 0 || n > 50 {
		return nil, ErrInvalidRole
	}
	if err := s.audit.Created(t, actorID); err != nil {
		return nil, err
	}

	if err := s.types.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetUserType(ctx context.Context, id int64) (*UserType, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}
	return s.types.FindByID(ctx, id)
}

func (s *service) ListUserTypes(ctx context.Context) ([]*UserType, error) {
	return s.types.List(ctx)
}

func (s *service) RenameUserType(ctx context.Context, id int64, role string, actorID int64) (*UserType, error) {
	t, err := s.GetUserType(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsSentinel() {
		return nil, apperrors.ErrSentinelLocked
	}
	if t.Archived() {
		return nil, ErrUserTypeArchived
	}

	renamed := NewUserType(role)
	if n := utf8.RuneCountInString(renamed.Role); n == 0 || n > 50 {
		return nil, ErrInvalidRole
	}
	t.Role = renamed.Role
	if err := s.audit.Modified(t, actorID); err != nil {
		return nil, err
	}

	// 角色唯一由存储层唯一索引保证
	if err := s.types.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) ArchiveUserType(ctx context.Context, id, actorID int64) (int64, error) {
	t, err := s.GetUserType(ctx, id)
	if err != nil {
		return 0, err
	}
	if t.IsSentinel() {
		return 0, apperrors.ErrSentinelLocked
	}

	return s.cascade.Archive(ctx, cascade.Request{
		Target:     cascade.TargetUserType,
		Entity:     t,
		ID:         t.ID,
		SentinelID: NormalTypeID,
		ActorID:    actorID,
		Persist: func(ctx context.Context) error {
			return s.types.Update(ctx, t)
		},
	})
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

func (s *service) ensureTypeUsable(ctx context.Context, typeID int64) error {
	t, err := s.GetUserType(ctx, typeID)
	if err != nil {
		return err
	}
	if t.Archived() {
		return ErrUserTypeArchived
	}
	return nil
}

// validatePasswordStrength 8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
