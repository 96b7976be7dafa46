package command

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/pkg/mq"
)

func TestPrintDetails(t *testing.T) {
	due := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer

	printDetails(&out, []*borrow.Detail{{
		Record:      borrow.Record{ID: 7, BorrowDate: due.AddDate(0, 0, -14), DueDate: due},
		CopyCode:    "AB-01",
		Username:    "alice",
		Overdue:     true,
		OverdueDays: 3,
	}})

	assert.Contains(t, out.String(), "AB-01")
	assert.Contains(t, out.String(), "2025-01-15")
	assert.Contains(t, out.String(), "3天")

	out.Reset()
	printDetails(&out, nil)
	assert.Contains(t, out.String(), "没有记录")
}

func TestPrintEvent(t *testing.T) {
	body, err := json.Marshal(shared.NewEvent(shared.EventBorrowCreated, 5, shared.BorrowPayload{BorrowID: 1}))
	require.NoError(t, err)
	var out bytes.Buffer
	handle := printEvent(&out, "")

	require.NoError(t, handle(t.Context(), mq.Delivery{Body: body}))
	assert.Contains(t, out.String(), "borrow.created")
	assert.Contains(t, out.String(), "actor=5")

	assert.Error(t, handle(t.Context(), mq.Delivery{Body: []byte("{")}))
}

func TestLoadConfig_DBFlagForcesSQLite(t *testing.T) {
	t.Setenv("LIBRARY_ENV", "missing")
	sqlitePath = "/tmp/ctl.db"
	t.Cleanup(func() { sqlitePath = "" })

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/ctl.db", cfg.Database.SQLitePath)
}
