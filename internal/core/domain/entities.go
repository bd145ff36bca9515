package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// LoanPeriod is the fixed lending period applied to every borrow
const LoanPeriod = 14 * 24 * time.Hour

// DueDateFor returns the due date of a borrow started at borrowedAt
func DueDateFor(borrowedAt time.Time) time.Time {
	return borrowedAt.Add(LoanPeriod)
}

// TimestampLayout is the wire format of every lending timestamp (ISO-8601, UTC)
const TimestampLayout = time.RFC3339

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// LendingEventType names a lending state transition
type LendingEventType string

const (
	EventBookBorrowed LendingEventType = "book.borrowed"
	EventBookReturned LendingEventType = "book.returned"
)

// LendingEvent describes a committed borrow or return
type LendingEvent struct {
	ID             string           `json:"event_id"`
	Type           LendingEventType `json:"type"`
	UserID         uint             `json:"user_id"`
	BookID         uint             `json:"book_id"`
	BorrowRecordID uint             `json:"borrow_record_id"`
	BorrowedAt     time.Time        `json:"borrowed_at"`
	DueDate        time.Time        `json:"due_date"`
	ReturnedAt     *time.Time       `json:"returned_at,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

// ExternalBook is a catalog entry found in an external library
type ExternalBook struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name,omitempty"`
	FirstPublishYear *int     `json:"first_publish_year,omitempty"`
	ISBN             []string `json:"isbn,omitempty"`
}

// ExternalSearchResult is one page of an external catalog search
type ExternalSearchResult struct {
	Books []ExternalBook `json:"books"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
