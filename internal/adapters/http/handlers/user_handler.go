package handlers

import (
	"digital-library/internal/core/services"
	"digital-library/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles endpoints about the signed-in user
type UserHandler struct {
	userService    *services.UserService
	lendingService *services.LendingService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, lendingService *services.LendingService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		lendingService: lendingService,
	}
}

// GetProfile handles getting own profile
// @Summary Get current user
// @Description Get the currently authenticated user's profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user": user,
	})
}

// ChangePassword handles changing password
// @Summary Change password
// @Description Change the current user's password and revoke every refresh token
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Password data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.ChangePasswordInput
	if err := parseBody(c, &req); err != nil {
		return invalidRequest(c, err)
	}

	if err := h.userService.ChangePassword(c.UserContext(), userID, &req); err != nil {
		return response.FromError(c, err, "Failed to change password")
	}

	return response.Success(c, "Password changed successfully", nil)
}

// BorrowedBooks lists the books the current user has not returned yet
// @Summary List my borrowed books
// @Description Books with an open borrow record for the current user, most recent first
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/me/borrowed-books [get]
func (h *UserHandler) BorrowedBooks(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	books, err := h.lendingService.ListBorrowedBooks(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch borrowed books")
	}

	return response.Success(c, "Borrowed books retrieved successfully", books)
}
