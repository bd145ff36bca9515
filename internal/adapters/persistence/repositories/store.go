package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormStore implements Store on top of a gorm handle
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Books() BookRepository {
	return NewBookRepository(s.db)
}

func (s *gormStore) BorrowRecords() BorrowRecordRepository {
	return NewBorrowRecordRepository(s.db)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
