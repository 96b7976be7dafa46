package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/application/shared"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
)

type recordingPublisher struct{ types []string }

func (p *recordingPublisher) Publish(_ context.Context, e shared.Event) error {
	p.types = append(p.types, e.Type)
	return nil
}

func newUseCases(t *testing.T) (*UseCases, *recordingPublisher) {
	t.Helper()
	db, err := mysql.OpenSQLite(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Database: config.DatabaseConfig{TxMaxAttempts: 3},
		Borrow:   config.BorrowConfig{DefaultLoanDays: 14},
	}
	pub := &recordingPublisher{}
	return InitializeUseCases(cfg, db, pub), pub
}

func TestUseCases_BorrowLifecycle(t *testing.T) {
	ctx := context.Background()
	uc, pub := newUseCases(t)

	u, err := uc.Register.Execute(ctx, appuser.RegisterRequest{
		Username: "reader_01",
		Email:    "reader@example.com",
		Password: "passw0rd",
		ActorID:  1,
	})
	require.NoError(t, err)

	book, err := uc.Books.Create(ctx, catalog.BookInput{
		Title:       "Ficciones",
		AuthorID:    catalog.UnknownID,
		CategoryID:  catalog.UnknownID,
		PublisherID: catalog.UnknownID,
	}, 1)
	require.NoError(t, err)

	cp, err := uc.ManageCopies.Create(ctx, book.ID, "FI-01", 1)
	require.NoError(t, err)

	rec, err := uc.BorrowCopy.Execute(ctx, appborrow.BorrowCopyRequest{CopyID: cp.ID, UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, 14, int(rec.DueDate.Sub(rec.BorrowDate).Hours()/24))

	_, err = uc.BorrowCopy.Execute(ctx, appborrow.BorrowCopyRequest{CopyID: cp.ID, UserID: u.ID})
	assert.ErrorIs(t, err, inventory.ErrCopyUnavailable)

	available, err := uc.QueryCopies.Available(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = uc.ReturnBorrow.Execute(ctx, appborrow.ReturnBorrowRequest{BorrowID: rec.ID, ActorID: u.ID})
	require.NoError(t, err)

	available, err = uc.QueryCopies.Available(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, available, 1)

	history, err := uc.QueryCopies.History(ctx, cp.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	assert.Equal(t, []string{
		shared.EventCopyCreated,
		shared.EventBorrowCreated,
		shared.EventBorrowReturned,
	}, pub.types)
}

func TestUseCases_ArchiveLastCopyArchivesBook(t *testing.T) {
	ctx := context.Background()
	uc, pub := newUseCases(t)

	book, err := uc.Books.Create(ctx, catalog.BookInput{
		Title:       "Labyrinths",
		AuthorID:    catalog.UnknownID,
		CategoryID:  catalog.UnknownID,
		PublisherID: catalog.UnknownID,
	}, 1)
	require.NoError(t, err)
	cp, err := uc.ManageCopies.Create(ctx, book.ID, "LA-01", 1)
	require.NoError(t, err)

	res, err := uc.ManageCopies.Archive(ctx, cp.ID, 2)
	require.NoError(t, err)
	assert.True(t, res.BookArchived)

	got, err := uc.Books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived())
	assert.Contains(t, pub.types, shared.EventBookArchived)
}
