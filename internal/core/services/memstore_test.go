package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"digital-library/internal/adapters/persistence/models"
	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/core/domain"

	"gorm.io/gorm"
)

// memState is an in-memory catalog and ledger
type memState struct {
	books        map[uint]models.Book
	users        map[uint]models.User
	records      []models.BorrowRecord
	nextBookID   uint
	nextRecordID uint

	// failSetAvailability makes SetAvailability behave as if the row vanished
	failSetAvailability bool
	// failCloseOpen makes CloseOpen report that no row was closed
	failCloseOpen bool
}

func (s *memState) clone() *memState {
	c := *s
	c.books = make(map[uint]models.Book, len(s.books))
	for id, b := range s.books {
		c.books[id] = b
	}
	c.users = make(map[uint]models.User, len(s.users))
	for id, u := range s.users {
		c.users[id] = u
	}
	c.records = make([]models.BorrowRecord, len(s.records))
	copy(c.records, s.records)
	return &c
}

// memStore serializes transactions behind a mutex and applies a transaction's
// writes only when it commits
type memStore struct {
	mu    sync.Mutex
	state *memState
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		books: map[uint]models.Book{},
		users: map[uint]models.User{},
	}}
}

func (s *memStore) current() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *memStore) Books() repositories.BookRepository {
	return memBooks{s.current()}
}

func (s *memStore) BorrowRecords() repositories.BorrowRecordRepository {
	return memRecords{s.current()}
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(memTx{snapshot}); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

func (s *memStore) addUser(username string) uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uint(len(s.state.users) + 1)
	s.state.users[id] = models.User{ID: id, Username: username, Email: username + "@example.com"}
	return id
}

func (s *memStore) addBook(title, author string, available int) uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.nextBookID++
	id := s.state.nextBookID
	s.state.books[id] = models.Book{ID: id, Title: title, Author: author, Available: available}
	return id
}

func (s *memStore) set(fn func(st *memState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *memStore) book(id uint) models.Book {
	return s.current().books[id]
}

func (s *memStore) records() []models.BorrowRecord {
	st := s.current()
	out := make([]models.BorrowRecord, len(st.records))
	copy(out, st.records)
	return out
}

// memTx is the Store view handed to a transaction
type memTx struct {
	state *memState
}

func (t memTx) Books() repositories.BookRepository { return memBooks{t.state} }
func (t memTx) BorrowRecords() repositories.BorrowRecordRepository { return memRecords{t.state} }

func (t memTx) Transaction(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(t)
}

type memBooks struct {
	state *memState
}

func (r memBooks) Create(_ context.Context, book *models.Book) error {
	r.state.nextBookID++
	book.ID = r.state.nextBookID
	book.CreatedAt = time.Now().UTC()
	r.state.books[book.ID] = *book
	return nil
}

func (r memBooks) GetByID(_ context.Context, id uint) (*models.Book, error) {
	b, ok := r.state.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r memBooks) GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error) {
	return r.GetByID(ctx, id)
}

func (r memBooks) sorted(match func(models.Book) bool) []*models.Book {
	var out []*models.Book
	for _, b := range r.state.books {
		if match(b) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func page(books []*models.Book, offset, limit int) []*models.Book {
	if offset >= len(books) {
		return nil
	}
	end := offset + limit
	if end > len(books) {
		end = len(books)
	}
	return books[offset:end]
}

func all(models.Book) bool { return true }

func containsFold(term string) func(models.Book) bool {
	term = strings.ToLower(term)
	return func(b models.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), term) ||
			strings.Contains(strings.ToLower(b.Author), term)
	}
}

func (r memBooks) List(_ context.Context, offset, limit int) ([]*models.Book, error) {
	return page(r.sorted(all), offset, limit), nil
}

func (r memBooks) Count(context.Context) (int64, error) {
	return int64(len(r.state.books)), nil
}

func (r memBooks) Search(_ context.Context, term string, offset, limit int) ([]*models.Book, error) {
	return page(r.sorted(containsFold(term)), offset, limit), nil
}

func (r memBooks) SearchCount(_ context.Context, term string) (int64, error) {
	return int64(len(r.sorted(containsFold(term)))), nil
}

func (r memBooks) SetAvailability(_ context.Context, id uint, available int) (*models.Book, error) {
	b, ok := r.state.books[id]
	if !ok || r.state.failSetAvailability {
		return nil, gorm.ErrRecordNotFound
	}
	b.Available = available
	r.state.books[id] = b
	return &b, nil
}

type memRecords struct {
	state *memState
}

func (r memRecords) CreateOpen(_ context.Context, userID, bookID uint, borrowedAt, dueDate time.Time) (*models.BorrowRecord, error) {
	r.state.nextRecordID++
	rec := models.BorrowRecord{
		ID:         r.state.nextRecordID,
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: borrowedAt,
		DueDate:    dueDate,
	}
	r.state.records = append(r.state.records, rec)
	return &rec, nil
}

func (r memRecords) CloseOpen(_ context.Context, userID, bookID uint, returnedAt time.Time) (*models.BorrowRecord, error) {
	if r.state.failCloseOpen {
		return nil, gorm.ErrRecordNotFound
	}
	for i := len(r.state.records) - 1; i >= 0; i-- {
		rec := &r.state.records[i]
		if rec.UserID == userID && rec.BookID == bookID && rec.IsOpen() {
			at := returnedAt
			rec.ReturnedAt = &at
			out := *rec
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memRecords) HasOpen(_ context.Context, userID, bookID uint) (bool, error) {
	for _, rec := range r.state.records {
		if rec.UserID == userID && rec.BookID == bookID && rec.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r memRecords) OpenForUser(_ context.Context, userID uint) ([]*models.BorrowedBook, error) {
	var out []*models.BorrowedBook
	for i := len(r.state.records) - 1; i >= 0; i-- {
		rec := r.state.records[i]
		if rec.UserID != userID || !rec.IsOpen() {
			continue
		}
		b := r.state.books[rec.BookID]
		out = append(out, &models.BorrowedBook{
			ID:             b.ID,
			Title:          b.Title,
			Author:         b.Author,
			PublishedYear:  b.PublishedYear,
			Available:      b.Available,
			CreatedAt:      b.CreatedAt,
			BorrowRecordID: rec.ID,
			BorrowedAt:     rec.BorrowedAt,
			DueDate:        rec.DueDate,
		})
	}
	return out, nil
}

func (r memRecords) AllForBook(_ context.Context, bookID uint) ([]*models.BorrowHistoryEntry, error) {
	var out []*models.BorrowHistoryEntry
	for i := len(r.state.records) - 1; i >= 0; i-- {
		rec := r.state.records[i]
		if rec.BookID != bookID {
			continue
		}
		u := r.state.users[rec.UserID]
		out = append(out, &models.BorrowHistoryEntry{
			ID:         rec.ID,
			UserID:     rec.UserID,
			BookID:     rec.BookID,
			BorrowedAt: rec.BorrowedAt,
			DueDate:    rec.DueDate,
			ReturnedAt: rec.ReturnedAt,
			Username:   u.Username,
			Email:      u.Email,
		})
	}
	return out, nil
}

func (r memRecords) CountOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, rec := range r.state.records {
		if rec.IsOpen() && rec.DueDate.Before(now) {
			n++
		}
	}
	return n, nil
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LendingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.LendingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) published() []domain.LendingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.LendingEvent, len(p.events))
	copy(out, p.events)
	return out
}
