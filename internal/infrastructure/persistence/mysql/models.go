package mysql

import (
	"time"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/user"
)

// AuditColumns 审计字段，所有表内嵌
// 负数ID保留给"Unknown"/Admin/Normal等保留行
type AuditColumns struct {
	CreatedBy    int64      `gorm:"not null;comment:创建人"`
	CreatedDate  time.Time  `gorm:"not null;comment:创建时间"`
	ModifiedBy   *int64     `gorm:"comment:最后修改人"`
	ModifiedDate *time.Time `gorm:"comment:最后修改时间"`
	IsArchived   bool       `gorm:"not null;index;comment:是否归档(软删除)"`
	ArchivedBy   *int64     `gorm:"comment:归档人"`
	ArchivedDate *time.Time `gorm:"comment:归档时间"`
}

func auditColumnsOf(m audit.Metadata) AuditColumns {
	return AuditColumns{
		CreatedBy:    m.CreatedBy,
		CreatedDate:  m.CreatedDate,
		ModifiedBy:   m.ModifiedBy,
		ModifiedDate: m.ModifiedDate,
		IsArchived:   m.IsArchived,
		ArchivedBy:   m.ArchivedBy,
		ArchivedDate: m.ArchivedDate,
	}
}

func (a AuditColumns) metadata() audit.Metadata {
	return audit.Metadata{
		CreatedBy:    a.CreatedBy,
		CreatedDate:  a.CreatedDate.UTC(),
		ModifiedBy:   a.ModifiedBy,
		ModifiedDate: utcPtr(a.ModifiedDate),
		IsArchived:   a.IsArchived,
		ArchivedBy:   a.ArchivedBy,
		ArchivedDate: utcPtr(a.ArchivedDate),
	}
}

// LookupModel 作者/分类/出版社共用的行结构
// 三张表结构相同，查询时通过db.Table指定表名
type LookupModel struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null;index;comment:名称(未归档记录中唯一)"`
	AuditColumns `gorm:"embedded"`
}

// AuthorModel 作者表(仅用于迁移)
type AuthorModel LookupModel

func (AuthorModel) TableName() string { return "authors" }

// CategoryModel 分类表(仅用于迁移)
type CategoryModel LookupModel

func (CategoryModel) TableName() string { return "categories" }

// PublisherModel 出版社表(仅用于迁移)
type PublisherModel LookupModel

func (PublisherModel) TableName() string { return "publishers" }

// lookupTable 查找表类型 → 表名
func lookupTable(kind catalog.Kind) string {
	switch kind {
	case catalog.KindAuthor:
		return "authors"
	case catalog.KindCategory:
		return "categories"
	default:
		return "publishers"
	}
}

func toLookupEntity(kind catalog.Kind, m *LookupModel) *catalog.Lookup {
	return &catalog.Lookup{ID: m.ID, Kind: kind, Name: m.Name, Metadata: m.AuditColumns.metadata()}
}

// BookModel 图书表
type BookModel struct {
	ID           int64     `gorm:"primaryKey"`
	Title        string    `gorm:"size:200;not null;comment:书名"`
	PublishDate  time.Time `gorm:"not null;comment:出版日期"`
	Version      string    `gorm:"size:50;comment:版本"`
	AuthorID     int64     `gorm:"index;not null;comment:作者ID(-1为Unknown)"`
	CategoryID   int64     `gorm:"index;not null;comment:分类ID(-1为Unknown)"`
	PublisherID  int64     `gorm:"index;not null;comment:出版社ID(-1为Unknown)"`
	AuditColumns `gorm:"embedded"`

	// 外键约束，只用于迁移，查询不预加载
	Author    *AuthorModel    `gorm:"foreignKey:AuthorID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Category  *CategoryModel  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Publisher *PublisherModel `gorm:"foreignKey:PublisherID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (BookModel) TableName() string { return "books" }

func toBookModel(b *catalog.Book) *BookModel {
	return &BookModel{
		ID:           b.ID,
		Title:        b.Title,
		PublishDate:  b.PublishDate,
		Version:      b.Version,
		AuthorID:     b.AuthorID,
		CategoryID:   b.CategoryID,
		PublisherID:  b.PublisherID,
		AuditColumns: auditColumnsOf(b.Metadata),
	}
}

func toBookEntity(m *BookModel) *catalog.Book {
	return &catalog.Book{
		ID:          m.ID,
		Title:       m.Title,
		PublishDate: m.PublishDate.UTC(),
		Version:     m.Version,
		AuthorID:    m.AuthorID,
		CategoryID:  m.CategoryID,
		PublisherID: m.PublisherID,
		Metadata:    m.AuditColumns.metadata(),
	}
}

// CopyModel 副本(库存记录)表
type CopyModel struct {
	ID           int64  `gorm:"primaryKey"`
	BookID       int64  `gorm:"index;not null;comment:图书ID"`
	PublisherID  int64  `gorm:"index;not null;comment:出版社ID(-1为Unknown)"`
	CopyCode     string `gorm:"uniqueIndex;size:16;not null;comment:副本编号"`
	IsAvailable  bool   `gorm:"not null;comment:是否可借"`
	AuditColumns `gorm:"embedded"`

	Book      *BookModel      `gorm:"foreignKey:BookID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Publisher *PublisherModel `gorm:"foreignKey:PublisherID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (CopyModel) TableName() string { return "inventory_records" }

func toCopyModel(c *inventory.Copy) *CopyModel {
	return &CopyModel{
		ID:           c.ID,
		BookID:       c.BookID,
		PublisherID:  c.PublisherID,
		CopyCode:     c.CopyCode,
		IsAvailable:  c.IsAvailable,
		AuditColumns: auditColumnsOf(c.Metadata),
	}
}

func toCopyEntity(m *CopyModel) *inventory.Copy {
	return &inventory.Copy{
		ID:          m.ID,
		BookID:      m.BookID,
		PublisherID: m.PublisherID,
		CopyCode:    m.CopyCode,
		IsAvailable: m.IsAvailable,
		Metadata:    m.AuditColumns.metadata(),
	}
}

// CopyLogModel 副本变更日志表(只追加)
type CopyLogModel struct {
	ID         int64     `gorm:"primaryKey"`
	CopyID     int64     `gorm:"index;not null;comment:副本ID"`
	BookID     int64     `gorm:"not null;comment:图书ID"`
	ChangeType string    `gorm:"size:16;not null;comment:CREATED|BORROWED|RETURNED|ARCHIVED"`
	BorrowID   int64     `gorm:"not null;comment:关联借阅记录(0为无)"`
	ActorID    int64     `gorm:"not null;comment:操作人"`
	CreatedAt  time.Time `gorm:"not null;comment:变更时间"`
}

func (CopyLogModel) TableName() string { return "copy_logs" }

func toCopyLogEntity(m *CopyLogModel) *inventory.CopyLog {
	return &inventory.CopyLog{
		ID:         m.ID,
		CopyID:     m.CopyID,
		BookID:     m.BookID,
		ChangeType: inventory.ChangeType(m.ChangeType),
		BorrowID:   m.BorrowID,
		ActorID:    m.ActorID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// BorrowModel 借阅记录表
type BorrowModel struct {
	ID           int64      `gorm:"primaryKey"`
	CopyID       int64      `gorm:"index;not null;comment:副本ID"`
	UserID       int64      `gorm:"index;not null;comment:借阅用户ID"`
	BorrowDate   time.Time  `gorm:"not null;comment:借阅时间"`
	DueDate      time.Time  `gorm:"index;not null;comment:应还时间"`
	ReturnDate   *time.Time `gorm:"index;comment:归还时间(NULL为未归还)"`
	AuditColumns `gorm:"embedded"`

	Copy *CopyModel `gorm:"foreignKey:CopyID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	User *UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (BorrowModel) TableName() string { return "borrow_records" }

func toBorrowEntity(m *BorrowModel) *borrow.Record {
	return &borrow.Record{
		ID:         m.ID,
		CopyID:     m.CopyID,
		UserID:     m.UserID,
		BorrowDate: m.BorrowDate.UTC(),
		DueDate:    m.DueDate.UTC(),
		ReturnDate: utcPtr(m.ReturnDate),
		Metadata:   m.AuditColumns.metadata(),
	}
}

// UserTypeModel 用户类型表，Role唯一
type UserTypeModel struct {
	ID           int64  `gorm:"primaryKey"`
	Role         string `gorm:"uniqueIndex;size:50;not null;comment:角色名"`
	AuditColumns `gorm:"embedded"`
}

func (UserTypeModel) TableName() string { return "user_types" }

func toUserTypeEntity(m *UserTypeModel) *user.UserType {
	return &user.UserType{ID: m.ID, Role: m.Role, Metadata: m.AuditColumns.metadata()}
}

// UserModel 用户表
type UserModel struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Email        string `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	PasswordHash string `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	UserTypeID   int64  `gorm:"index;not null;comment:用户类型ID(-2为Normal)"`
	AuditColumns `gorm:"embedded"`

	UserType *UserTypeModel `gorm:"foreignKey:UserTypeID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (UserModel) TableName() string { return "users" }

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		UserTypeID:   u.UserTypeID,
		AuditColumns: auditColumnsOf(u.Metadata),
	}
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		UserTypeID:   m.UserTypeID,
		Metadata:     m.AuditColumns.metadata(),
	}
}
