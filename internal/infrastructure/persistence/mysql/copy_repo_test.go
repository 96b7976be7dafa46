package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/inventory"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestCreateCopy_DuplicateCodeConflicts(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustBook(t, 2)
	l.mustCopy(t, 1, "AB-01")

	err := l.tx.Transaction(ctx, func(ctx context.Context) error {
		_, err := l.copies.CreateCopy(ctx, 2, "AB-01", 1)
		return err
	})

	assert.ErrorIs(t, err, inventory.ErrCopyCodeDuplicate)
	copies, err := l.copies.ListCopiesForBook(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, copies)
}

func TestCreateCopy_UnknownBook(t *testing.T) {
	l := newLibrary(t)

	_, err := l.copies.CreateCopy(context.Background(), 42, "AB-01", 1)

	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func TestListCopies(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "reader")
	a := l.mustCopy(t, 1, "AB-01")
	b := l.mustCopy(t, 1, "AB-02")
	c := l.mustCopy(t, 1, "AB-03")

	_, err := l.lend(ctx, a.ID, 5, nil)
	require.NoError(t, err)
	require.NoError(t, l.tx.Transaction(ctx, func(ctx context.Context) error {
		_, err := l.copies.ArchiveCopy(ctx, c.ID, 1)
		return err
	}))

	all, err := l.copies.ListCopiesForBook(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, all[2].IsArchived)

	available, err := l.copies.GetAvailableCopies(ctx, 1)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, b.ID, available[0].ID)
}

func TestArchiveCopy_LastCopyArchivesBook(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	first := l.mustCopy(t, 1, "AB-01")
	second := l.mustCopy(t, 1, "AB-02")

	archive := func(id int64) bool {
		var bookArchived bool
		require.NoError(t, l.tx.Transaction(ctx, func(ctx context.Context) error {
			var err error
			bookArchived, err = l.copies.ArchiveCopy(ctx, id, 3)
			return err
		}))
		return bookArchived
	}

	assert.False(t, archive(first.ID))
	book, err := l.catalog.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.False(t, book.IsArchived)

	assert.True(t, archive(second.ID))
	book, err = l.catalog.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.True(t, book.IsArchived)
	require.NotNil(t, book.ArchivedBy)
	assert.Equal(t, int64(3), *book.ArchivedBy)

	history, err := l.copies.History(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, inventory.ChangeTypeArchived, history[1].ChangeType)
}

func TestArchiveCopy_Refusals(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "reader")
	c := l.mustCopy(t, 1, "AB-01")

	archive := func(id int64) error {
		return l.tx.Transaction(ctx, func(ctx context.Context) error {
			_, err := l.copies.ArchiveCopy(ctx, id, 1)
			return err
		})
	}

	_, err := l.lend(ctx, c.ID, 5, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, archive(c.ID), inventory.ErrCopyOnLoan)
	assert.ErrorIs(t, archive(404), inventory.ErrCopyNotFound)

	book, err := l.catalog.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.False(t, book.IsArchived)
}

func TestReturnCopy_RefusesWhileOnLoan(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "reader")
	c := l.mustCopy(t, 1, "AB-01")

	_, err := l.lend(ctx, c.ID, 5, nil)
	require.NoError(t, err)

	err = l.copies.ReturnCopy(ctx, c.ID, 1)
	assert.True(t, apperrors.IsConflict(err))

	stored, err := l.copies.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	assert.ErrorIs(t, l.copies.ReturnCopy(ctx, 404, 1), inventory.ErrCopyNotFound)
}

func TestForeignKeys_RejectDanglingReferences(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t)
	l.mustBook(t, 1)
	l.mustUser(t, 5, "reader")
	stamp := AuditColumns{CreatedBy: 1, CreatedDate: l.clock.Now()}

	err := NewCopyRepository(l.db).Create(ctx, &inventory.Copy{
		BookID:      999,
		PublisherID: catalog.UnknownID,
		CopyCode:    "ZZ-01",
		IsAvailable: true,
		Metadata:    audit.Metadata{CreatedBy: 1, CreatedDate: l.clock.Now()},
	})
	assert.True(t, apperrors.IsNotFound(err), "copy of a missing book: %v", err)

	assert.Error(t, l.db.Create(&CopyModel{BookID: 1, PublisherID: 999, CopyCode: "ZZ-02", AuditColumns: stamp}).Error)
	assert.Error(t, l.db.Create(&BookModel{
		ID:           2,
		Title:        "Orphan",
		PublishDate:  l.clock.Now(),
		AuthorID:     999,
		CategoryID:   catalog.UnknownID,
		PublisherID:  catalog.UnknownID,
		AuditColumns: stamp,
	}).Error)
	assert.Error(t, l.db.Create(&UserModel{
		Username: "ghost", Email: "ghost@example.com", PasswordHash: "x", UserTypeID: 999, AuditColumns: stamp,
	}).Error)

	c := l.mustCopy(t, 1, "AB-01")
	assert.Error(t, l.db.Create(&BorrowModel{
		CopyID: c.ID, UserID: 999, BorrowDate: l.clock.Now(), DueDate: l.clock.Now(), AuditColumns: stamp,
	}).Error)
	assert.Error(t, l.db.Create(&BorrowModel{
		CopyID: 999, UserID: 5, BorrowDate: l.clock.Now(), DueDate: l.clock.Now(), AuditColumns: stamp,
	}).Error)

	var n int64
	require.NoError(t, l.db.Model(&BorrowModel{}).Count(&n).Error)
	assert.Zero(t, n)
}
