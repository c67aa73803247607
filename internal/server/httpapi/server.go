// Package httpapi exposes the phonebook over HTTP/JSON using fiber.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/server/auth"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// minBodyLimit is fiber's own default; avatar uploads may need more.
const minBodyLimit = 4 << 20

// UserService is the credential and session side of the API.
type UserService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(token string) (*auth.Claims, error)
}

type ProfileService interface {
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
	UploadAvatar(ctx context.Context, userID int64, contentType string, data []byte) (*models.User, error)
}

type ContactService interface {
	Create(ctx context.Context, userID int64, c *models.Contact) (*models.Contact, error)
	List(ctx context.Context, userID int64, f models.ContactFilter) (*models.ContactPage, error)
	Get(ctx context.Context, userID, id int64) (*models.Contact, error)
	Update(ctx context.Context, userID, id int64, patch models.ContactPatch) (*models.Contact, error)
	ToggleFavorite(ctx context.Context, userID, id int64) (*models.Contact, error)
	Delete(ctx context.Context, userID, id int64) error
	BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error)
	Stats(ctx context.Context, userID int64) (*models.ContactStats, error)
	Search(ctx context.Context, userID int64, q string) ([]models.Contact, error)
}

// Options wires the server. Health may be nil, in which case /healthz
// always reports ok.
type Options struct {
	Address        string
	AvatarMaxBytes int64
	Users          UserService
	Profiles       ProfileService
	Contacts       ContactService
	Health         func(ctx context.Context) error
}

type HTTPServer struct {
	address string
	app     *fiber.App
	logger  logging.Logger
}

func NewHTTPServer(opts Options, l logging.Logger) *HTTPServer {
	l = l.With("module", "http_server")

	bodyLimit := minBodyLimit
	if n := int(opts.AvatarMaxBytes) + 1<<20; n > bodyLimit {
		bodyLimit = n
	}

	app := fiber.New(fiber.Config{
		AppName:               "phonebook",
		Immutable:             true,
		BodyLimit:             bodyLimit,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          errorHandler(l),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestid.New())
	app.Use(requestLogger(l))

	h := &handler{
		users:    opts.Users,
		profiles: opts.Profiles,
		contacts: opts.Contacts,
		health:   opts.Health,
	}
	h.routes(app)

	return &HTTPServer{address: opts.Address, app: app, logger: l}
}

// App exposes the underlying fiber app, mostly for tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
