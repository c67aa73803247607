package httpapi

import (
	"io"
	"strconv"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// selfID resolves :id and makes sure it is the caller.
func selfID(c *fiber.Ctx) (int64, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return 0, err
	}
	id, err := paramID(c)
	if err != nil {
		return 0, err
	}
	if id != userID {
		return 0, common.ErrorForbidden
	}
	return id, nil
}

func (h *handler) GetUser(c *fiber.Ctx) error {
	id, err := selfID(c)
	if err != nil {
		return err
	}

	user, err := h.profiles.Profile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *handler) UpdateUser(c *fiber.Ctx) error {
	id, err := selfID(c)
	if err != nil {
		return err
	}

	var patch models.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, err := h.profiles.UpdateProfile(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *handler) DeleteUser(c *fiber.Ctx) error {
	id, err := selfID(c)
	if err != nil {
		return err
	}

	if err := h.profiles.DeleteAccount(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *handler) UploadAvatar(c *fiber.Ctx) error {
	id, err := selfID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return common.ValidationError("no file uploaded")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	user, err := h.profiles.UploadAvatar(c.UserContext(), id, fh.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"avatar_url": user.AvatarURL,
		"user":       user,
	})
}
