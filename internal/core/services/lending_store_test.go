package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"digital-library/internal/adapters/persistence/models"
	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/core/domain"
	"digital-library/internal/core/services"
	"digital-library/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLendingOnDatabase(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", "user")
	bob := testutil.CreateUser(t, db, "bob", "user")
	book := testutil.CreateBook(t, db, "Dune", "Frank Herbert")

	svc := services.NewLendingService(repositories.NewStore(db), services.WithClock(fixedClock(newYear)))

	borrowed, err := svc.Borrow(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-15T00:00:00Z", borrowed.DueDate)

	var stored models.BorrowRecord
	require.NoError(t, db.First(&stored, borrowed.BorrowRecord.ID).Error)
	assert.True(t, stored.BorrowedAt.Equal(newYear))
	assert.True(t, stored.DueDate.Equal(newYear.Add(domain.LoanPeriod)))

	_, err = svc.Borrow(ctx, bob.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)

	_, err = svc.Return(ctx, bob.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrNotBorrowed)

	mine, err := svc.ListBorrowedBooks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, book.ID, mine[0].ID)
	assert.Equal(t, borrowed.BorrowRecord.ID, mine[0].BorrowRecordID)

	returned, err := svc.Return(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, returned.Book.Available)

	_, err = svc.Borrow(ctx, bob.ID, book.ID)
	require.NoError(t, err)

	history, err := svc.BorrowHistory(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "bob", history[0].Username)
	assert.Equal(t, "alice", history[1].Username)
	assert.NotNil(t, history[1].ReturnedAt)

	mine, err = svc.ListBorrowedBooks(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestConcurrentBorrowOnDatabase(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	book := testutil.CreateBook(t, db, "Dune", "Frank Herbert")

	const borrowers = 8
	users := make([]*models.User, borrowers)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, fmt.Sprintf("reader%d", i), "user")
	}

	svc := services.NewLendingService(repositories.NewStore(db))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.Borrow(ctx, userID, book.ID)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrBookNotAvailable)
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	var open int64
	require.NoError(t, db.Model(&models.BorrowRecord{}).Where("returned_at IS NULL").Count(&open).Error)
	assert.Equal(t, int64(1), open)

	var reloaded models.Book
	require.NoError(t, db.First(&reloaded, book.ID).Error)
	assert.Equal(t, 0, reloaded.Available)
}
