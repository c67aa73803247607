package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type handler struct {
	users    UserService
	profiles ProfileService
	contacts ContactService
	health   func(ctx context.Context) error
}

func (h *handler) routes(app *fiber.App) {
	app.Get("/healthz", h.Healthz)

	requireAuth := bearerAuth(h.users)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/refresh", h.Refresh)
	authGroup.Post("/logout", requireAuth, h.Logout)
	authGroup.Get("/profile", requireAuth, h.Profile)

	users := app.Group("/users", requireAuth)
	users.Get("/:id", h.GetUser)
	users.Patch("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeleteUser)
	users.Post("/:id/avatar", h.UploadAvatar)

	// static segments must be registered before /:id
	contacts := app.Group("/contacts", requireAuth)
	contacts.Post("/", h.CreateContact)
	contacts.Get("/", h.ListContacts)
	contacts.Get("/stats", h.ContactStats)
	contacts.Get("/search", h.SearchContacts)
	contacts.Delete("/bulk", h.BulkDeleteContacts)
	contacts.Get("/:id", h.GetContact)
	contacts.Patch("/:id/favorite", h.ToggleFavorite)
	contacts.Patch("/:id", h.UpdateContact)
	contacts.Delete("/:id", h.DeleteContact)
}

func (h *handler) Healthz(c *fiber.Ctx) error {
	if h.health != nil {
		if err := h.health(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
