package handlers

import (
	"errors"
	"strconv"

	"digital-library/internal/pkg/response"
	"digital-library/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = errors.New("invalid request body")

// parseBody decodes the JSON body into out and validates it
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validation.Struct(out)
}

// invalidRequest writes the 400 response for a parseBody error
func invalidRequest(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return response.ValidationFailed(c, verrs)
	}
	return response.BadRequest(c, "Invalid request body")
}

// idParam parses a positive numeric path parameter
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the user id set by the auth middleware
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}
