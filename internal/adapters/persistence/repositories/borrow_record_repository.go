package repositories

import (
	"context"
	"time"

	"digital-library/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// borrowRecordRepository implements BorrowRecordRepository interface
type borrowRecordRepository struct {
	db *gorm.DB
}

// NewBorrowRecordRepository creates a new borrow record repository
func NewBorrowRecordRepository(db *gorm.DB) BorrowRecordRepository {
	return &borrowRecordRepository{db: db}
}

// CreateOpen creates a new open borrow record
func (r *borrowRecordRepository) CreateOpen(ctx context.Context, userID, bookID uint, borrowedAt, dueDate time.Time) (*models.BorrowRecord, error) {
	record := &models.BorrowRecord{
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: borrowedAt,
		DueDate:    dueDate,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CloseOpen closes the most recent open record for (userID, bookID)
func (r *borrowRecordRepository) CloseOpen(ctx context.Context, userID, bookID uint, returnedAt time.Time) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	err := r.openScope(ctx, userID, bookID).
		Order("borrowed_at DESC").
		Order("id DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("id = ?", record.ID).
		Where("returned_at IS NULL").
		Update("returned_at", returnedAt)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	record.ReturnedAt = &returnedAt
	return &record, nil
}

// HasOpen checks if an open record exists for (userID, bookID)
func (r *borrowRecordRepository) HasOpen(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := r.openScope(ctx, userID, bookID).Count(&count).Error
	return count > 0, err
}

// OpenForUser lists the books currently borrowed by a user, most recent first
func (r *borrowRecordRepository) OpenForUser(ctx context.Context, userID uint) ([]*models.BorrowedBook, error) {
	var books []*models.BorrowedBook
	err := r.db.WithContext(ctx).
		Table("books AS b").
		Select("b.id, b.title, b.author, b.published_year, b.available, b.created_at, " +
			"br.id AS borrow_record_id, br.borrowed_at, br.due_date, br.returned_at").
		Joins("INNER JOIN borrow_records br ON br.book_id = b.id").
		Where("br.user_id = ? AND br.returned_at IS NULL", userID).
		Order("br.borrowed_at DESC").
		Order("br.id DESC").
		Scan(&books).Error
	return books, err
}

// AllForBook lists every record of a book with the borrower's identity, most recent first
func (r *borrowRecordRepository) AllForBook(ctx context.Context, bookID uint) ([]*models.BorrowHistoryEntry, error) {
	var entries []*models.BorrowHistoryEntry
	err := r.db.WithContext(ctx).
		Table("borrow_records AS br").
		Select("br.id, br.user_id, br.book_id, br.borrowed_at, br.due_date, br.returned_at, u.username, u.email").
		Joins("LEFT JOIN users u ON u.id = br.user_id").
		Where("br.book_id = ?", bookID).
		Order("br.borrowed_at DESC").
		Order("br.id DESC").
		Scan(&entries).Error
	return entries, err
}

// CountOverdue counts open records whose due date has passed
func (r *borrowRecordRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("returned_at IS NULL").
		Where("due_date < ?", now).
		Count(&count).Error
	return count, err
}

func (r *borrowRecordRepository) openScope(ctx context.Context, userID, bookID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Where("returned_at IS NULL")
}
