package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	LoggedIn() bool
	Ping(ctx context.Context) error
	WaitReady(ctx context.Context, maxElapsed time.Duration) error

	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.User, error)
	DeleteAccount(ctx context.Context) error
	UploadAvatar(ctx context.Context, filename, contentType string, data []byte) (*models.User, error)

	CreateContact(ctx context.Context, c *models.Contact) (*models.Contact, error)
	ListContacts(ctx context.Context, opts models.ListOptions) (*models.ContactPage, error)
	GetContact(ctx context.Context, id int64) (*models.Contact, error)
	UpdateContact(ctx context.Context, id int64, patch models.ContactPatch) (*models.Contact, error)
	ToggleFavorite(ctx context.Context, id int64) (*models.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
	BulkDeleteContacts(ctx context.Context, ids []int64) (int64, error)
	ContactStats(ctx context.Context) (*models.ContactStats, error)
	SearchContacts(ctx context.Context, q string) ([]models.Contact, error)
}
