package handlers

import (
	"digital-library/internal/config"
	"digital-library/internal/core/services"
	"digital-library/internal/pkg/pagination"
	"digital-library/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog and lending endpoints
type BookHandler struct {
	catalogService *services.CatalogService
	lendingService *services.LendingService
	cfg            *config.Config
}

// NewBookHandler creates a new book handler
func NewBookHandler(
	catalogService *services.CatalogService,
	lendingService *services.LendingService,
	cfg *config.Config,
) *BookHandler {
	return &BookHandler{
		catalogService: catalogService,
		lendingService: lendingService,
		cfg:            cfg,
	}
}

// ListBooks handles listing and searching the catalog
// @Summary List books
// @Description Paginated catalog, newest first. With q, only books whose title or author contains q.
// @Tags Books
// @Produce json
// @Param q query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) ListBooks(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.ListPerPage)

	result, err := h.catalogService.SearchBooks(c.UserContext(), c.Query("q"), params.Page, params.Limit)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch books")
	}

	return response.Success(c, "Books retrieved successfully", result)
}

// SearchExternal handles searching Open Library
// @Summary Search Open Library
// @Description Full-text search in the Open Library catalog
// @Tags Books
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 408 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /books/search [get]
func (h *BookHandler) SearchExternal(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.ListPerPage)

	result, err := h.catalogService.SearchExternal(c.UserContext(), c.Query("q"), params.Page, params.Limit)
	if err != nil {
		return response.FromError(c, err, "Failed to search external library")
	}

	return response.Success(c, "Search completed successfully", result)
}

// GetBook handles getting a single book
// @Summary Get book
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.catalogService.GetBook(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch book")
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// CreateBook handles adding a book (Admin only)
// @Summary Create book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /books [post]
func (h *BookHandler) CreateBook(c *fiber.Ctx) error {
	var req services.CreateBookInput
	if err := parseBody(c, &req); err != nil {
		return invalidRequest(c, err)
	}

	book, err := h.catalogService.CreateBook(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", book)
}

// Borrow handles borrowing a book
// @Summary Borrow book
// @Description Lend the book to the current user for 14 days
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id}/borrow [post]
func (h *BookHandler) Borrow(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	bookID, ok := idParam(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	result, err := h.lendingService.Borrow(c.UserContext(), userID, bookID)
	if err != nil {
		return response.FromError(c, err, "Failed to borrow book")
	}

	return response.Success(c, "Book borrowed successfully", result)
}

// Return handles returning a book
// @Summary Return book
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id}/return [post]
func (h *BookHandler) Return(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	bookID, ok := idParam(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	result, err := h.lendingService.Return(c.UserContext(), userID, bookID)
	if err != nil {
		return response.FromError(c, err, "Failed to return book")
	}

	return response.Success(c, "Book returned successfully", result)
}

// BorrowHistory handles listing every loan of a book (Admin only)
// @Summary Borrow history
// @Description All borrow records of the book, most recent first, with borrower username and email
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id}/borrow-history [get]
func (h *BookHandler) BorrowHistory(c *fiber.Ctx) error {
	bookID, ok := idParam(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	history, err := h.lendingService.BorrowHistory(c.UserContext(), bookID)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch borrow history")
	}

	return response.Success(c, "Borrow history retrieved successfully", history)
}
