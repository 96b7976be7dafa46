package inventory

import "time"

// CopyLog 副本变更日志（只追加，不修改）
// 与状态变更在同一事务中写入
type CopyLog struct {
	ID         int64
	CopyID     int64
	BookID     int64
	ChangeType ChangeType
	BorrowID   int64 // 借出时关联的借阅记录
	ActorID    int64
	CreatedAt  time.Time
}

// ChangeType 变更类型
type ChangeType string

const (
	ChangeTypeCreated  ChangeType = "CREATED"
	ChangeTypeBorrowed ChangeType = "BORROWED"
	ChangeTypeReturned ChangeType = "RETURNED"
	ChangeTypeArchived ChangeType = "ARCHIVED"
)

// NewCreatedLog 副本入库
func NewCreatedLog(c *Copy, actorID int64, at time.Time) *CopyLog {
	return &CopyLog{CopyID: c.ID, BookID: c.BookID, ChangeType: ChangeTypeCreated, ActorID: actorID, CreatedAt: at}
}

// NewBorrowedLog 副本借出
func NewBorrowedLog(copyID, bookID, borrowID, actorID int64, at time.Time) *CopyLog {
	return &CopyLog{CopyID: copyID, BookID: bookID, ChangeType: ChangeTypeBorrowed, BorrowID: borrowID, ActorID: actorID, CreatedAt: at}
}

// NewReturnedLog 副本归还
func NewReturnedLog(c *Copy, actorID int64, at time.Time) *CopyLog {
	return &CopyLog{CopyID: c.ID, BookID: c.BookID, ChangeType: ChangeTypeReturned, ActorID: actorID, CreatedAt: at}
}

// NewArchivedLog 副本归档
func NewArchivedLog(c *Copy, actorID int64, at time.Time) *CopyLog {
	return &CopyLog{CopyID: c.ID, BookID: c.BookID, ChangeType: ChangeTypeArchived, ActorID: actorID, CreatedAt: at}
}
