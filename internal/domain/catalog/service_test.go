package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/cascade"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type memLookups struct {
	rows   map[Kind]map[int64]*Lookup
	nextID int64
}

func newMemLookups() *memLookups {
	m := &memLookups{rows: map[Kind]map[int64]*Lookup{}, nextID: 1}
	for _, k := range []Kind{KindAuthor, KindCategory, KindPublisher} {
		m.rows[k] = map[int64]*Lookup{UnknownID: {ID: UnknownID, Kind: k, Name: "Unknown"}}
	}
	return m
}

func (m *memLookups) Create(_ context.Context, l *Lookup) error {
	l.ID = m.nextID
	m.nextID++
	cp := *l
	m.rows[l.Kind][l.ID] = &cp
	return nil
}

func (m *memLookups) FindByID(_ context.Context, kind Kind, id int64) (*Lookup, error) {
	l, ok := m.rows[kind][id]
	if !ok {
		return nil, ErrLookupNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memLookups) FindByName(_ context.Context, kind Kind, name string) (*Lookup, error) {
	for _, l := range m.rows[kind] {
		if l.Name == name && !l.Archived() {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrLookupNotFound
}

func (m *memLookups) List(_ context.Context, kind Kind) ([]*Lookup, error) {
	var out []*Lookup
	for _, l := range m.rows[kind] {
		if !l.Archived() {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memLookups) Update(_ context.Context, l *Lookup) error {
	cp := *l
	m.rows[l.Kind][l.ID] = &cp
	return nil
}

type memBooks struct {
	rows   map[int64]*Book
	nextID int64
}

func (m *memBooks) Create(_ context.Context, b *Book) error {
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

func (m *memBooks) FindByID(_ context.Context, id int64) (*Book, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBooks) List(_ context.Context) ([]*Book, error) {
	var out []*Book
	for _, b := range m.rows {
		if !b.Archived() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBooks) Update(_ context.Context, b *Book) error {
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

// memReassigner 在内存图书上执行改指向
type memReassigner struct {
	books *memBooks
}

func (r *memReassigner) Reassign(_ context.Context, target cascade.Target, fromID, toID, actorID int64, at time.Time) (int64, error) {
	var n int64
	for _, b := range r.books.rows {
		var ref *int64
		switch target {
		case KindAuthor:
			ref = &b.AuthorID
		case KindCategory:
			ref = &b.CategoryID
		case KindPublisher:
			ref = &b.PublisherID
		}
		if ref != nil && *ref == fromID {
			*ref = toID
			b.StampModified(actorID, at)
			n++
		}
	}
	return n, nil
}

type fixture struct {
	svc     Service
	lookups *memLookups
	books   *memBooks
	now     time.Time
}

func newFixture() *fixture {
	f := &fixture{
		lookups: newMemLookups(),
		books:   &memBooks{rows: map[int64]*Book{}},
		now:     time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	ap := audit.NewPolicy(func() time.Time { return f.now })
	f.svc = NewService(f.lookups, f.books, ap, cascade.NewPolicy(&memReassigner{books: f.books}, ap))
	return f
}

func unknownRefs(title string) BookInput {
	return BookInput{Title: title, AuthorID: UnknownID, CategoryID: UnknownID, PublisherID: UnknownID}
}

func TestCreateLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("名称去除首尾空格", func(t *testing.T) {
		f := newFixture()
		l, err := f.svc.CreateLookup(ctx, KindAuthor, "  Borges ", 1)
		require.NoError(t, err)
		assert.Equal(t, "Borges", l.Name)
		assert.Equal(t, int64(1), l.CreatedBy)
		assert.Equal(t, f.now, l.CreatedDate)
	})

	t.Run("重复名称冲突", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateLookup(ctx, KindCategory, "Poetry", 1)
		require.NoError(t, err)
		_, err = f.svc.CreateLookup(ctx, KindCategory, "Poetry", 1)
		assert.ErrorIs(t, err, ErrDuplicateName)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("不同类型可同名", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateLookup(ctx, KindAuthor, "Penguin", 1)
		require.NoError(t, err)
		_, err = f.svc.CreateLookup(ctx, KindPublisher, "Penguin", 1)
		assert.NoError(t, err)
	})

	t.Run("校验失败", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateLookup(ctx, KindAuthor, "   ", 1)
		assert.ErrorIs(t, err, ErrInvalidName)
		_, err = f.svc.CreateLookup(ctx, Kind("shelf"), "A", 1)
		assert.ErrorIs(t, err, ErrInvalidKind)
		_, err = f.svc.CreateLookup(ctx, KindAuthor, "A", 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidActor)
	})
}

func TestRenameLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a, err := f.svc.CreateLookup(ctx, KindAuthor, "Tolkein", 1)
	require.NoError(t, err)
	_, err = f.svc.CreateLookup(ctx, KindAuthor, "Lewis", 1)
	require.NoError(t, err)

	renamed, err := f.svc.RenameLookup(ctx, KindAuthor, a.ID, "Tolkien", 2)
	require.NoError(t, err)
	assert.Equal(t, "Tolkien", renamed.Name)
	assert.Equal(t, int64(2), *renamed.ModifiedBy)

	_, err = f.svc.RenameLookup(ctx, KindAuthor, a.ID, "Tolkien", 2)
	assert.NoError(t, err, "renaming to its own name is allowed")

	_, err = f.svc.RenameLookup(ctx, KindAuthor, a.ID, "Lewis", 2)
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = f.svc.RenameLookup(ctx, KindAuthor, UnknownID, "Anonymous", 2)
	assert.ErrorIs(t, err, apperrors.ErrSentinelLocked)
}

func TestArchiveLookup_CascadesToSentinel(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author, err := f.svc.CreateLookup(ctx, KindAuthor, "Herbert", 1)
	require.NoError(t, err)

	in := unknownRefs("Dune")
	in.AuthorID = author.ID
	book, err := f.svc.CreateBook(ctx, in, 1)
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	moved, err := f.svc.ArchiveLookup(ctx, KindAuthor, author.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	got, err := f.svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, UnknownID, got.AuthorID)
	assert.False(t, got.Archived())

	archived, err := f.svc.GetLookup(ctx, KindAuthor, author.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived())
	assert.Equal(t, int64(3), *archived.ArchivedBy)
	assert.Equal(t, f.now, *archived.ArchivedDate)

	_, err = f.svc.ArchiveLookup(ctx, KindAuthor, author.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyArchived)
}

func TestArchiveLookup_NoReferences(t *testing.T) {
	f := newFixture()
	c, err := f.svc.CreateLookup(context.Background(), KindCategory, "Empty", 1)
	require.NoError(t, err)

	moved, err := f.svc.ArchiveLookup(context.Background(), KindCategory, c.ID, 1)

	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("引用不存在", func(t *testing.T) {
		f := newFixture()
		in := unknownRefs("X")
		in.CategoryID = 99
		_, err := f.svc.CreateBook(ctx, in, 1)
		assert.ErrorIs(t, err, ErrLookupNotFound)
	})

	t.Run("书名为空", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateBook(ctx, unknownRefs(" "), 1)
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})

	t.Run("引用保留行", func(t *testing.T) {
		f := newFixture()
		b, err := f.svc.CreateBook(ctx, unknownRefs("Anonymous Tales"), 1)
		require.NoError(t, err)
		assert.Positive(t, b.ID)
	})
}

func TestUpdateAndArchiveBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b, err := f.svc.CreateBook(ctx, unknownRefs("Draft"), 1)
	require.NoError(t, err)

	in := unknownRefs("Final")
	in.Version = "2nd"
	updated, err := f.svc.UpdateBook(ctx, b.ID, in, 2)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "2nd", updated.Version)

	require.NoError(t, f.svc.ArchiveBook(ctx, b.ID, 2))
	_, err = f.svc.UpdateBook(ctx, b.ID, in, 2)
	assert.ErrorIs(t, err, ErrBookArchived)
	assert.ErrorIs(t, f.svc.ArchiveBook(ctx, b.ID, 2), apperrors.ErrAlreadyArchived)

	books, err := f.svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	_, err = f.svc.GetBook(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}
