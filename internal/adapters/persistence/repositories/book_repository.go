package repositories

import (
	"context"
	"strings"

	"digital-library/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByIDForUpdate gets a book by ID and locks its row (SELECT ... FOR UPDATE)
func (r *bookRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List lists books, newest first
func (r *bookRepository) List(ctx context.Context, offset, limit int) ([]*models.Book, error) {
	var books []*models.Book
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error
	return books, err
}

// Count counts all books
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error
	return count, err
}

// Search finds books whose title or author contains term (case-insensitive)
func (r *bookRepository) Search(ctx context.Context, term string, offset, limit int) ([]*models.Book, error) {
	var books []*models.Book
	err := r.searchScope(ctx, term).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error
	return books, err
}

// SearchCount counts books matching term
func (r *bookRepository) SearchCount(ctx context.Context, term string) (int64, error) {
	var count int64
	err := r.searchScope(ctx, term).Count(&count).Error
	return count, err
}

// SetAvailability sets the availability flag and returns the fresh row
func (r *bookRepository) SetAvailability(ctx context.Context, id uint, available int) (*models.Book, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Update("available", available)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.GetByID(ctx, id)
}

func (r *bookRepository) searchScope(ctx context.Context, term string) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(author) LIKE ? ESCAPE '!'", pattern, pattern)
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
