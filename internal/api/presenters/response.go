package presenters

import (
	"Mataam-Backoffice/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFor maps service errors to HTTP status codes. Unknown errors fall
// through to 400 so handler call sites stay uniform.
func StatusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return fiber.StatusUnprocessableEntity
	case domain.IsNotFound(err):
		return fiber.StatusNotFound
	case domain.IsConflict(err):
		return fiber.StatusConflict
	case domain.IsDependency(err):
		return fiber.StatusConflict
	case domain.IsReference(err):
		return fiber.StatusUnprocessableEntity
	case domain.IsStore(err):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrCredentialsInvalid),
		errors.Is(err, domain.ErrUserNotVerified),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}
