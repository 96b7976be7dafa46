// Package shared 用例层公共设施：事务边界、埋点与领域事件
package shared

import (
	"context"
	"time"

	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// Transactor 事务管理器(由mysql.TxManager实现)
// fn内的所有仓储调用共享同一事务，fn返回错误时回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Run 以span和指标包裹一次用例执行
func Run(ctx context.Context, operation string, fn func(ctx context.Context) error) (err error) {
	metrics.InitMetrics()
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, operation)
	defer func() {
		tracing.End(span, err)
		metrics.ObserveOperation(operation, start, err)
	}()
	return fn(ctx)
}

// InTx 在事务中执行写用例，并记录span与指标
func InTx(ctx context.Context, tx Transactor, operation string, fn func(ctx context.Context) error) error {
	return Run(ctx, operation, func(ctx context.Context) error {
		return tx.Transaction(ctx, fn)
	})
}
