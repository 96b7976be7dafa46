package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/pkg/retry"
)

// TxManager 事务管理器
// 1. 通过context传递事务DB，Repository用getDB(ctx)取出
// 2. fn返回error时ROLLBACK，返回nil时COMMIT
// 3. 死锁/锁等待超时等瞬时错误整体重试，其他错误直接返回
type TxManager struct {
	db          *gorm.DB
	maxAttempts int
	baseDelay   time.Duration
	onRetry     func(attempt int, err error)
}

// TxOption 事务管理器选项
type TxOption func(*TxManager)

// WithMaxAttempts 最大尝试次数(包含首次)
func WithMaxAttempts(n int) TxOption {
	return func(m *TxManager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithBaseDelay 重试退避基准时间
func WithBaseDelay(d time.Duration) TxOption {
	return func(m *TxManager) {
		if d >= 0 {
			m.baseDelay = d
		}
	}
}

// WithRetryObserver 每次重试前回调(用于指标)
func WithRetryObserver(fn func(attempt int, err error)) TxOption {
	return func(m *TxManager) {
		m.onRetry = fn
	}
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB, opts ...TxOption) *TxManager {
	m := &TxManager{
		db:          db,
		maxAttempts: 3,
		baseDelay:   10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transaction 执行事务
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 条件更新占用副本
//	    if err := copyRepo.Checkout(ctx, copyID, userID, now); err != nil {
//	        return err
//	    }
//	    // 2. 创建借阅记录
//	    return borrowRepo.Create(ctx, record) // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// 已在事务中时直接复用外层事务
	if _, ok := ctx.Value(ctxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	opts := []retry.Option{
		retry.WithMaxAttempts(m.maxAttempts),
		retry.WithBaseDelay(m.baseDelay),
		retry.WithRetryable(IsTransientError),
	}
	if m.onRetry != nil {
		opts = append(opts, retry.WithOnRetry(m.onRetry))
	}

	return retry.Do(ctx, func(ctx context.Context) error {
		return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txCtx := context.WithValue(ctx, ctxKey{}, tx)
			return fn(txCtx)
		})
	}, opts...)
}
