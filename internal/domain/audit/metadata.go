package audit

import (
	"time"
)

// Metadata 审计元数据，所有实体内嵌
// 设计说明:
// 1. 创建/修改/归档三组操作人与时间
// 2. 归档是软删除，实体仍保留在存储中
type Metadata struct {
	CreatedBy    int64
	CreatedDate  time.Time
	ModifiedBy   *int64
	ModifiedDate *time.Time
	IsArchived   bool
	ArchivedBy   *int64
	ArchivedDate *time.Time
}

// Auditable 可记录创建/修改审计信息的实体
type Auditable interface {
	StampCreated(actorID int64, at time.Time)
	StampModified(actorID int64, at time.Time)
}

// Archivable 可归档的实体
type Archivable interface {
	Archived() bool
	SetArchived(actorID int64, at time.Time)
}

// StampCreated 记录创建人
func (m *Metadata) StampCreated(actorID int64, at time.Time) {
	m.CreatedBy = actorID
	m.CreatedDate = at
}

// StampModified 记录最后修改人
func (m *Metadata) StampModified(actorID int64, at time.Time) {
	m.ModifiedBy = &actorID
	m.ModifiedDate = &at
}

// Archived 是否已归档
func (m *Metadata) Archived() bool {
	return m.IsArchived
}

// SetArchived 标记归档，同时刷新修改信息
func (m *Metadata) SetArchived(actorID int64, at time.Time) {
	m.IsArchived = true
	m.ArchivedBy = &actorID
	m.ArchivedDate = &at
	m.StampModified(actorID, at)
}
