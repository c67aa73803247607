package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// classify maps an error to a status code, a client-facing message and a
// short kind. Order matters: ErrWrongPassword also matches
// ErrInvalidCredentials.
func classify(err error) (int, string, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message, kindForStatus(fe.Code)
	case errors.Is(err, common.ErrDuplicateEmail):
		return fiber.StatusBadRequest, common.ErrDuplicateEmail.Error(), "DuplicateEmail"
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest, err.Error(), "Validation"
	case errors.Is(err, common.ErrWrongPassword):
		return fiber.StatusUnauthorized, "wrong password", "InvalidCredentials"
	case errors.Is(err, common.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, common.ErrInvalidCredentials.Error(), "InvalidCredentials"
	case errors.Is(err, common.ErrInvalidRefreshToken):
		return fiber.StatusUnauthorized, common.ErrInvalidRefreshToken.Error(), "InvalidRefreshToken"
	case errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusUnauthorized, common.ErrTokenExpired.Error(), "Unauthorized"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "unauthorized", "Unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		return fiber.StatusForbidden, "forbidden", "Forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "not found", "NotFound"
	case errors.Is(err, common.ErrAvatarStorageDisabled):
		return fiber.StatusServiceUnavailable, common.ErrAvatarStorageDisabled.Error(), "AvatarStorageDisabled"
	default:
		return fiber.StatusInternalServerError, "internal error", "Internal"
	}
}

func kindForStatus(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "Validation"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusForbidden:
		return "Forbidden"
	case fiber.StatusNotFound:
		return "NotFound"
	case fiber.StatusMethodNotAllowed:
		return "MethodNotAllowed"
	case fiber.StatusRequestEntityTooLarge:
		return "Validation"
	case fiber.StatusServiceUnavailable:
		return "Unavailable"
	default:
		return "Internal"
	}
}

func errorHandler(l logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg, kind := classify(err)
		if code >= fiber.StatusInternalServerError {
			l.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(ErrorResponse{StatusCode: code, Message: msg, Error: kind})
	}
}
