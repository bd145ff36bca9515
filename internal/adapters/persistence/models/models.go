package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog & Lending
// ============================================================

// Book represents books table.
// Available is 1 while the book may be borrowed and 0 while it is lent out.
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null;index" json:"title"`
	Author        string    `gorm:"size:100;not null;index" json:"author"`
	PublishedYear *int      `json:"published_year,omitempty"`
	Available     int       `gorm:"not null;default:1" json:"available"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

// IsAvailable reports whether the book may be borrowed
func (b *Book) IsAvailable() bool {
	return b.Available > 0
}

// BorrowRecord represents borrow_records table.
// A record is open while ReturnedAt is nil; it is closed exactly once and never deleted.
type BorrowRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index:idx_borrow_user_book_open,priority:1;index:idx_borrow_user_open,priority:1" json:"user_id"`
	BookID     uint       `gorm:"not null;index:idx_borrow_user_book_open,priority:2;index:idx_borrow_book" json:"book_id"`
	BorrowedAt time.Time  `gorm:"not null" json:"borrowed_at"`
	DueDate    time.Time  `gorm:"not null;index" json:"due_date"`
	ReturnedAt *time.Time `gorm:"index:idx_borrow_user_book_open,priority:3;index:idx_borrow_user_open,priority:2" json:"returned_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" json:"-"`
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}

// IsOpen reports whether the record has not been returned yet
func (r *BorrowRecord) IsOpen() bool {
	return r.ReturnedAt == nil
}

// BorrowedBook is a book joined with the open record that lends it out
type BorrowedBook struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	PublishedYear  *int       `json:"published_year,omitempty"`
	Available      int        `json:"available"`
	CreatedAt      time.Time  `json:"created_at"`
	BorrowRecordID uint       `json:"borrow_record_id"`
	BorrowedAt     time.Time  `json:"borrowed_at"`
	DueDate        time.Time  `json:"due_date"`
	ReturnedAt     *time.Time `json:"returned_at"`
}

// BorrowHistoryEntry is a borrow record annotated with the borrower's identity
type BorrowHistoryEntry struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	BookID     uint       `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Book{},
		&BorrowRecord{},
	)
}
