package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestTransaction_RetriesTransientErrors(t *testing.T) {
	db := newTestDB(t)
	var retries []int
	tx := NewTxManager(db, WithBaseDelay(0), WithRetryObserver(func(attempt int, _ error) {
		retries = append(retries, attempt)
	}))

	calls := 0
	err := tx.Transaction(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return apperrors.Wrap(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found"}, "更新副本状态失败")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestTransaction_GivesUpAfterMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	tx := NewTxManager(db, WithBaseDelay(0), WithMaxAttempts(2))

	calls := 0
	err := tx.Transaction(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("database is locked")
	})

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestTransaction_DomainErrorsFailFast(t *testing.T) {
	db := newTestDB(t)
	tx := NewTxManager(db, WithBaseDelay(0))

	calls := 0
	err := tx.Transaction(context.Background(), func(ctx context.Context) error {
		calls++
		return apperrors.Conflict("副本不可借")
	})

	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, 1, calls)
}

func TestTransaction_NestedCallsJoinOuterTransaction(t *testing.T) {
	db := newTestDB(t)
	tx := NewTxManager(db)

	err := tx.Transaction(context.Background(), func(ctx context.Context) error {
		outer := getDB(ctx, db)
		return tx.Transaction(ctx, func(ctx context.Context) error {
			assert.Same(t, outer, getDB(ctx, db))
			return nil
		})
	})

	assert.NoError(t, err)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsTransientError(fmt.Errorf("wrap: %w", &mysqldriver.MySQLError{Number: 1205})))
	assert.False(t, IsTransientError(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, IsTransientError(nil))

	assert.True(t, isDuplicateError(&mysqldriver.MySQLError{Number: 1062}))
	assert.True(t, isDuplicateError(errors.New("constraint failed: UNIQUE constraint failed: inventory_records.copy_code (2067)")))
	assert.False(t, isDuplicateError(errors.New("no such table")))

	assert.True(t, isForeignKeyError(&mysqldriver.MySQLError{Number: 1452}))
	assert.True(t, isForeignKeyError(errors.New("constraint failed: FOREIGN KEY constraint failed (787)")))
	assert.False(t, isForeignKeyError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.False(t, isDuplicateError(errors.New("constraint failed: FOREIGN KEY constraint failed (787)")))
}
