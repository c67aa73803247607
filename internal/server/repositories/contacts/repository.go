// Package contacts declares the repository contract for address-book
// entries. Every operation is scoped by the owning user id.
package contacts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)

	// List returns one page of the owner's contacts matching f. The filter
	// must already be normalized (valid sort column, page and limit set).
	List(ctx context.Context, userID int64, f models.ContactFilter) (*models.ContactPage, error)

	// Get returns common.ErrorNotFound for a missing or foreign contact.
	Get(ctx context.Context, userID, id int64) (*models.Contact, error)

	// Update writes every mutable field of c.
	Update(ctx context.Context, c *models.Contact) (*models.Contact, error)

	// ToggleFavorite flips is_favorite and returns the updated row.
	ToggleFavorite(ctx context.Context, userID, id int64) (*models.Contact, error)

	Delete(ctx context.Context, userID, id int64) error

	// BulkDelete removes the listed ids owned by userID and reports how
	// many rows went away. Foreign or unknown ids are skipped.
	BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error)

	// Stats counts contacts; recent ones were created at or after since.
	Stats(ctx context.Context, userID int64, since time.Time) (*models.ContactStats, error)

	// Search matches q against name, phone, email and company.
	Search(ctx context.Context, userID int64, q string, limit int) ([]models.Contact, error)
}
