package services

import (
	"context"
	"errors"
	"strings"

	"digital-library/internal/adapters/persistence/models"
	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/core/domain"
	"digital-library/internal/pkg/pagination"

	"gorm.io/gorm"
)

// CatalogService handles catalog queries and book creation
type CatalogService struct {
	books        repositories.BookRepository
	external     ExternalCatalog
	defaultLimit int
}

// NewCatalogService creates a new catalog service.
// external may be nil, in which case SearchExternal reports an internal error.
func NewCatalogService(books repositories.BookRepository, external ExternalCatalog, defaultLimit int) *CatalogService {
	if defaultLimit < 1 {
		defaultLimit = pagination.DefaultLimit
	}
	return &CatalogService{
		books:        books,
		external:     external,
		defaultLimit: defaultLimit,
	}
}

// CreateBookInput represents create book input
type CreateBookInput struct {
	Title         string `json:"title" validate:"required,max=200"`
	Author        string `json:"author" validate:"required,max=100"`
	PublishedYear *int   `json:"published_year" validate:"omitempty,gte=1000,notfutureyear"`
}

// CreateBook adds a new, available book to the catalog
func (s *CatalogService) CreateBook(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)
	if title == "" || author == "" {
		return nil, domain.ErrTitleAuthorRequired
	}

	book := &models.Book{
		Title:         title,
		Author:        author,
		PublishedYear: input.PublishedYear,
		Available:     1,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook gets a book by ID
func (s *CatalogService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// ListBooks returns one page of the catalog, newest first
func (s *CatalogService) ListBooks(ctx context.Context, page, limit int) (*pagination.Result[*models.Book], error) {
	params := pagination.New(page, limit, s.defaultLimit)

	total, err := s.books.Count(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.books.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return pagination.NewResult(books, params, total), nil
}

// SearchBooks returns one page of books whose title or author contains term,
// ignoring case. A blank term lists the whole catalog.
func (s *CatalogService) SearchBooks(ctx context.Context, term string, page, limit int) (*pagination.Result[*models.Book], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListBooks(ctx, page, limit)
	}

	params := pagination.New(page, limit, s.defaultLimit)

	total, err := s.books.SearchCount(ctx, term)
	if err != nil {
		return nil, err
	}

	books, err := s.books.Search(ctx, term, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return pagination.NewResult(books, params, total), nil
}

// SearchExternal searches the external library
func (s *CatalogService) SearchExternal(ctx context.Context, term string, page, limit int) (*domain.ExternalSearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrSearchQueryRequired
	}
	if s.external == nil {
		return nil, domain.ErrInternalServer
	}

	params := pagination.New(page, limit, s.defaultLimit)
	return s.external.Search(ctx, term, params.Page, params.Limit)
}
