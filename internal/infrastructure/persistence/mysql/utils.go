package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL错误码
const (
	errDuplicateEntry   = 1062 // Duplicate entry 'xxx' for key 'yyy'
	errNoReferencedRow  = 1452 // Cannot add or update a child row: a foreign key constraint fails
	errLockWaitTimeout  = 1205
	errDeadlockDetected = 1213
)

// isDuplicateError 判断是否为唯一索引冲突错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errDuplicateEntry
	}
	// 兼容检查:MySQL与SQLite的错误信息
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyError 判断是否为外键约束错误(引用的行不存在)
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errNoReferencedRow
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsTransientError 判断是否为可重试的存储错误(死锁、锁等待超时、SQLite忙)
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errDeadlockDetected || myErr.Number == errLockWaitTimeout
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// ctxKey 事务DB在context中的key
type ctxKey struct{}

// getDB 从context获取事务DB，没有则使用默认DB
// 事务内的所有查询都必须经由此函数，否则会绕过事务
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(ctxKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// utcPtr 可空时间统一为UTC
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
