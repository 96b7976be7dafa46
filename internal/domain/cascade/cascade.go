package cascade

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/audit"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Target 被引用的父实体类型
type Target string

const (
	TargetAuthor    Target = "author"
	TargetCategory  Target = "category"
	TargetPublisher Target = "publisher"
	TargetUserType  Target = "user_type"
)

// Reassigner 把引用fromID的所有从属记录改指向toID，返回受影响行数
// 实现方需要同时刷新从属记录的modified_by/modified_date
type Reassigner interface {
	Reassign(ctx context.Context, target Target, fromID, toID, actorID int64, at time.Time) (int64, error)
}

// Policy 归档级联策略
// 归档父实体E时：
// 1. 所有引用E的记录改指向E类型的"Unknown"保留行
// 2. 再把E标记为归档
// 调用方负责在同一事务中执行（两步要么都生效，要么都不生效）
type Policy struct {
	reassigner Reassigner
	audit      *audit.Policy
}

// NewPolicy 创建级联策略
func NewPolicy(reassigner Reassigner, auditPolicy *audit.Policy) *Policy {
	return &Policy{reassigner: reassigner, audit: auditPolicy}
}

// Request 一次级联归档
type Request struct {
	Target     Target
	Entity     audit.Archivable
	ID         int64
	SentinelID int64
	ActorID    int64
	// Persist 持久化已标记归档的父实体
	Persist func(ctx context.Context) error
}

// Archive 执行级联归档，返回被改指向的从属记录数
func (p *Policy) Archive(ctx context.Context, req Request) (int64, error) {
	if req.ID == req.SentinelID {
		return 0, apperrors.ErrSentinelLocked
	}
	if err := p.audit.Archive(req.Entity, req.ActorID); err != nil {
		return 0, err
	}

	moved, err := p.reassigner.Reassign(ctx, req.Target, req.ID, req.SentinelID, req.ActorID, p.audit.Now())
	if err != nil {
		return 0, err
	}

	if err := req.Persist(ctx); err != nil {
		return 0, err
	}
	return moved, nil
}
