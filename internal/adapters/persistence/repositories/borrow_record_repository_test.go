package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBorrowRecordRepository_OpenAndClose(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewBorrowRecordRepository(db)
	user := testutil.CreateUser(t, db, "reader", "user")
	book := testutil.CreateBook(t, db, "Dune", "Frank Herbert")

	borrowedAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	dueDate := borrowedAt.Add(14 * 24 * time.Hour)

	record, err := repo.CreateOpen(ctx, user.ID, book.ID, borrowedAt, dueDate)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.True(t, record.IsOpen())

	open, err := repo.HasOpen(ctx, user.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, open)

	returnedAt := borrowedAt.Add(3 * 24 * time.Hour)
	closed, err := repo.CloseOpen(ctx, user.ID, book.ID, returnedAt)
	require.NoError(t, err)
	assert.Equal(t, record.ID, closed.ID)
	require.NotNil(t, closed.ReturnedAt)
	assert.True(t, returnedAt.Equal(*closed.ReturnedAt))
	assert.True(t, borrowedAt.Equal(closed.BorrowedAt))
	assert.True(t, dueDate.Equal(closed.DueDate))

	open, err = repo.HasOpen(ctx, user.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, open)

	_, err = repo.CloseOpen(ctx, user.ID, book.ID, returnedAt)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestBorrowRecordRepository_CloseOpenPicksMostRecent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewBorrowRecordRepository(db)
	user := testutil.CreateUser(t, db, "reader", "user")
	book := testutil.CreateBook(t, db, "Dune", "Frank Herbert")

	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	_, err := repo.CreateOpen(ctx, user.ID, book.ID, older, older.Add(14*24*time.Hour))
	require.NoError(t, err)
	latest, err := repo.CreateOpen(ctx, user.ID, book.ID, newer, newer.Add(14*24*time.Hour))
	require.NoError(t, err)

	closed, err := repo.CloseOpen(ctx, user.ID, book.ID, newer.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, latest.ID, closed.ID)
}

func TestBorrowRecordRepository_ReadModels(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewBorrowRecordRepository(db)
	alice := testutil.CreateUser(t, db, "alice", "user")
	bob := testutil.CreateUser(t, db, "bob", "user")
	dune := testutil.CreateBook(t, db, "Dune", "Frank Herbert")
	hobbit := testutil.CreateBook(t, db, "The Hobbit", "J.R.R. Tolkien")

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.CreateOpen(ctx, alice.ID, dune.ID, start, start.Add(14*24*time.Hour))
	require.NoError(t, err)
	_, err = repo.CloseOpen(ctx, alice.ID, dune.ID, start.Add(24*time.Hour))
	require.NoError(t, err)
	_, err = repo.CreateOpen(ctx, bob.ID, dune.ID, start.Add(48*time.Hour), start.Add(16*24*time.Hour))
	require.NoError(t, err)
	_, err = repo.CreateOpen(ctx, alice.ID, hobbit.ID, start.Add(72*time.Hour), start.Add(17*24*time.Hour))
	require.NoError(t, err)

	borrowed, err := repo.OpenForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, borrowed, 1)
	assert.Equal(t, hobbit.ID, borrowed[0].ID)
	assert.Equal(t, "The Hobbit", borrowed[0].Title)
	assert.Nil(t, borrowed[0].ReturnedAt)
	assert.True(t, start.Add(17*24*time.Hour).Equal(borrowed[0].DueDate))

	history, err := repo.AllForBook(ctx, dune.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "bob", history[0].Username)
	assert.Nil(t, history[0].ReturnedAt)
	assert.Equal(t, "alice", history[1].Username)
	assert.Equal(t, "alice@example.com", history[1].Email)
	assert.NotNil(t, history[1].ReturnedAt)

	overdue, err := repo.CountOverdue(ctx, start.Add(30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), overdue)

	overdue, err = repo.CountOverdue(ctx, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), overdue)
}
