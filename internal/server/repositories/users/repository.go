// Package users declares the server-side repository contract for user
// accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts user and fills its generated fields. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by exact email; common.ErrorNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with id; common.ErrorNotFound if absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// UpdateProfile applies the non-nil fields of patch and returns the
	// updated row.
	UpdateProfile(ctx context.Context, id int64, patch models.ProfilePatch) (*models.User, error)

	UpdateAvatar(ctx context.Context, id int64, avatarURL string) (*models.User, error)

	// Delete removes the user; owned rows go with it via cascade.
	Delete(ctx context.Context, id int64) error
}
