package repositories

import (
	"context"
	"time"

	"digital-library/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// BookRepository is the catalog store.
// Lookups of a missing book return gorm.ErrRecordNotFound.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	// GetByIDForUpdate loads the book and holds a row lock on it until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error)
	List(ctx context.Context, offset, limit int) ([]*models.Book, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, term string, offset, limit int) ([]*models.Book, error)
	SearchCount(ctx context.Context, term string) (int64, error)
	SetAvailability(ctx context.Context, id uint, available int) (*models.Book, error)
}

// BorrowRecordRepository is the lending ledger
type BorrowRecordRepository interface {
	CreateOpen(ctx context.Context, userID, bookID uint, borrowedAt, dueDate time.Time) (*models.BorrowRecord, error)
	// CloseOpen closes the most recent open record of the pair and returns it.
	// It returns gorm.ErrRecordNotFound when no row was closed.
	CloseOpen(ctx context.Context, userID, bookID uint, returnedAt time.Time) (*models.BorrowRecord, error)
	HasOpen(ctx context.Context, userID, bookID uint) (bool, error)
	OpenForUser(ctx context.Context, userID uint) ([]*models.BorrowedBook, error)
	AllForBook(ctx context.Context, bookID uint) ([]*models.BorrowHistoryEntry, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Store groups the catalog store and the lending ledger behind one
// transactional boundary.
type Store interface {
	Books() BookRepository
	BorrowRecords() BorrowRecordRepository
	// Transaction runs fn with a Store bound to a single database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
