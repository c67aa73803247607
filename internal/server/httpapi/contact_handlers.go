package httpapi

import (
	"strconv"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, common.ValidationError(key + " must be true or false")
	}
	return &v, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, common.ValidationError(key + " must be a positive integer")
	}
	return v, nil
}

func parseFilter(c *fiber.Ctx) (models.ContactFilter, error) {
	f := models.ContactFilter{
		Search:    c.Query("search"),
		Company:   c.Query("company"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	var err error
	if f.IsFavorite, err = queryBool(c, "isFavorite"); err != nil {
		return f, err
	}
	if f.IsImportant, err = queryBool(c, "isImportant"); err != nil {
		return f, err
	}
	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *handler) CreateContact(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var in models.Contact
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	created, err := h.contacts.Create(c.UserContext(), userID, &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *handler) ListContacts(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	f, err := parseFilter(c)
	if err != nil {
		return err
	}

	page, err := h.contacts.List(c.UserContext(), userID, f)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *handler) ContactStats(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.contacts.Stats(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *handler) SearchContacts(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	out, err := h.contacts.Search(c.UserContext(), userID, c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *handler) GetContact(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	contact, err := h.contacts.Get(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *handler) UpdateContact(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var patch models.ContactPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	contact, err := h.contacts.Update(c.UserContext(), userID, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *handler) ToggleFavorite(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	contact, err := h.contacts.ToggleFavorite(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *handler) DeleteContact(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.contacts.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handler) BulkDeleteContacts(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	n, err := h.contacts.BulkDelete(c.UserContext(), userID, req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": n})
}
