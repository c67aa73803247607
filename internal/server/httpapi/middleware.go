package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/gofiber/fiber/v2"
)

const localsUserID = "userID"

// bearerAuth rejects requests without a valid access token and stores the
// caller's id in the request locals.
func bearerAuth(users UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			return common.ErrorUnauthorized
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
		if token == "" {
			return common.ErrorUnauthorized
		}

		claims, err := users.ValidateAccessToken(token)
		if err != nil {
			return err
		}
		userID, err := claims.UserID()
		if err != nil {
			return err
		}

		c.Locals(localsUserID, userID)
		c.SetUserContext(logging.ContextWith(c.UserContext(), "user_id", userID))
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) (int64, error) {
	id, ok := c.Locals(localsUserID).(int64)
	if !ok {
		return 0, common.ErrorUnauthorized
	}
	return id, nil
}

// requestLogger tags the request context with its id so that service logs
// can be correlated, then logs one line per request.
func requestLogger(l logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			c.SetUserContext(logging.ContextWith(c.UserContext(), "request_id", id))
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = classify(err)
		}

		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", status,
			"latency", latency,
		}
		if err != nil {
			l.Warn(c.UserContext(), "HTTP Request Error", append(args, "error", err)...)
			return err
		}
		l.Info(c.UserContext(), "HTTP Request", args...)
		return nil
	}
}
