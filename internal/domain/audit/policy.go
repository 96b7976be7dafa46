package audit

import (
	"time"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Clock 当前时间来源
type Clock func() time.Time

// SystemClock 默认使用UTC时间
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Policy 审计策略
// 所有写操作都经由Policy打上操作人和时间戳
type Policy struct {
	now Clock
}

// NewPolicy 创建审计策略，clock为nil时使用系统时间
func NewPolicy(clock Clock) *Policy {
	if clock == nil {
		clock = SystemClock
	}
	return &Policy{now: clock}
}

// Now 当前时间
func (p *Policy) Now() time.Time {
	return p.now()
}

// CheckActor 操作人ID必须为正数
func CheckActor(actorID int64) error {
	if actorID <= 0 {
		return apperrors.ErrInvalidActor
	}
	return nil
}

// Created 记录创建
func (p *Policy) Created(e Auditable, actorID int64) error {
	if err := CheckActor(actorID); err != nil {
		return err
	}
	e.StampCreated(actorID, p.now())
	return nil
}

// Modified 记录修改
func (p *Policy) Modified(e Auditable, actorID int64) error {
	if err := CheckActor(actorID); err != nil {
		return err
	}
	e.StampModified(actorID, p.now())
	return nil
}

// Archive 归档实体；已归档返回冲突错误
func (p *Policy) Archive(e Archivable, actorID int64) error {
	if err := CheckActor(actorID); err != nil {
		return err
	}
	if e.Archived() {
		return apperrors.ErrAlreadyArchived
	}
	e.SetArchived(actorID, p.now())
	return nil
}
