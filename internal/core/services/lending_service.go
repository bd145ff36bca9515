package services

import (
	"context"
	"errors"
	"time"

	"digital-library/internal/adapters/persistence/models"
	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LendingService enforces the borrow/return rules. Every transition runs in a
// single store transaction that starts by locking the book row, so checks and
// writes for one book never interleave.
type LendingService struct {
	store  repositories.Store
	events LendingEventPublisher
	now    func() time.Time
}

// LendingOption configures a LendingService
type LendingOption func(*LendingService)

// WithClock overrides the time source
func WithClock(now func() time.Time) LendingOption {
	return func(s *LendingService) {
		s.now = now
	}
}

// WithEventPublisher sets the publisher notified after each committed transition
func WithEventPublisher(p LendingEventPublisher) LendingOption {
	return func(s *LendingService) {
		if p != nil {
			s.events = p
		}
	}
}

// NewLendingService creates a new lending service
func NewLendingService(store repositories.Store, opts ...LendingOption) *LendingService {
	s := &LendingService{
		store:  store,
		events: NoopEventPublisher{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BorrowResult is the outcome of a successful borrow
type BorrowResult struct {
	Book         *models.Book         `json:"book"`
	BorrowRecord *models.BorrowRecord `json:"borrow_record"`
	DueDate      string               `json:"due_date"`
}

// ReturnResult is the outcome of a successful return
type ReturnResult struct {
	Book         *models.Book         `json:"book"`
	BorrowRecord *models.BorrowRecord `json:"borrow_record"`
}

// Borrow lends bookID to userID for the fixed loan period
func (s *LendingService) Borrow(ctx context.Context, userID, bookID uint) (*BorrowResult, error) {
	now := s.timestamp()
	dueDate := domain.DueDateFor(now)

	var result *BorrowResult
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		book, err := lockBook(ctx, tx, bookID)
		if err != nil {
			return err
		}

		if !book.IsAvailable() {
			return domain.ErrBookNotAvailable
		}

		open, err := tx.BorrowRecords().HasOpen(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if open {
			return domain.ErrAlreadyBorrowed
		}

		record, err := tx.BorrowRecords().CreateOpen(ctx, userID, bookID, now, dueDate)
		if err != nil {
			return err
		}

		if _, err := tx.Books().SetAvailability(ctx, bookID, 0); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBorrowFailed
			}
			return err
		}

		result = &BorrowResult{
			Book:         book,
			BorrowRecord: record,
			DueDate:      domain.FormatTimestamp(dueDate),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, s.newEvent(domain.EventBookBorrowed, result.BorrowRecord, now))
	return result, nil
}

// Return closes userID's open borrow of bookID and makes the book available again
func (s *LendingService) Return(ctx context.Context, userID, bookID uint) (*ReturnResult, error) {
	now := s.timestamp()

	var result *ReturnResult
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := lockBook(ctx, tx, bookID); err != nil {
			return err
		}

		open, err := tx.BorrowRecords().HasOpen(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if !open {
			return domain.ErrNotBorrowed
		}

		record, err := tx.BorrowRecords().CloseOpen(ctx, userID, bookID, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReturnFailed
			}
			return err
		}

		book, err := tx.Books().SetAvailability(ctx, bookID, 1)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReturnFailed
			}
			return err
		}

		result = &ReturnResult{
			Book:         book,
			BorrowRecord: record,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, s.newEvent(domain.EventBookReturned, result.BorrowRecord, now))
	return result, nil
}

// ListBorrowedBooks lists the books currently borrowed by userID
func (s *LendingService) ListBorrowedBooks(ctx context.Context, userID uint) ([]*models.BorrowedBook, error) {
	books, err := s.store.BorrowRecords().OpenForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*models.BorrowedBook{}
	}
	return books, nil
}

// BorrowHistory lists every borrow record of bookID, most recent first
func (s *LendingService) BorrowHistory(ctx context.Context, bookID uint) ([]*models.BorrowHistoryEntry, error) {
	if _, err := s.store.Books().GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	entries, err := s.store.BorrowRecords().AllForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.BorrowHistoryEntry{}
	}
	return entries, nil
}

// timestamp returns now in UTC at second precision so stored and returned values match
func (s *LendingService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *LendingService) newEvent(eventType domain.LendingEventType, record *models.BorrowRecord, at time.Time) domain.LendingEvent {
	return domain.LendingEvent{
		ID:             uuid.New().String(),
		Type:           eventType,
		UserID:         record.UserID,
		BookID:         record.BookID,
		BorrowRecordID: record.ID,
		BorrowedAt:     record.BorrowedAt,
		DueDate:        record.DueDate,
		ReturnedAt:     record.ReturnedAt,
		OccurredAt:     at,
	}
}

func lockBook(ctx context.Context, tx repositories.Store, bookID uint) (*models.Book, error) {
	book, err := tx.Books().GetByIDForUpdate(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}
