package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/dbx"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/server/config"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/dmitrijs2005/phonebook/internal/server/repositories/repomanager"
)

const (
	searchLimit = 10
	recentDays  = 30
)

// StatsCache keeps per-user contact stats between mutations.
type StatsCache interface {
	Get(ctx context.Context, userID int64) (*models.ContactStats, bool, error)
	Set(ctx context.Context, userID int64, stats *models.ContactStats, ttl time.Duration) error
	Invalidate(ctx context.Context, userID int64) error
}

// ContactService is the per-owner address book. Every call is scoped to
// userID; foreign contacts look exactly like missing ones.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       StatsCache
	statsTTL    time.Duration
	logger      logging.Logger
	now         func() time.Time
}

// NewContactService builds a ContactService. cache may be nil.
func NewContactService(db *sql.DB, m repomanager.RepositoryManager, cache StatsCache, cfg *config.Config, logger logging.Logger) *ContactService {
	return &ContactService{
		db:          db,
		repomanager: m,
		cache:       cache,
		statsTTL:    cfg.StatsCacheTTL,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ContactService) Create(ctx context.Context, userID int64, c *models.Contact) (*models.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, common.ValidationError("name is required")
	}
	c.UserID = userID

	created, err := s.repomanager.Contacts(s.db).Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return created, nil
}

// NormalizeFilter applies defaults and rejects values List cannot honor.
func NormalizeFilter(f models.ContactFilter) (models.ContactFilter, error) {
	if f.SortBy == "" {
		f.SortBy = models.SortByName
	}
	switch f.SortBy {
	case models.SortByName, models.SortByCompany, models.SortByCreatedAt, models.SortByUpdatedAt:
	default:
		return f, common.ValidationError("sortBy must be one of name, company, created_at, updated_at")
	}

	f.SortOrder = strings.ToUpper(f.SortOrder)
	if f.SortOrder == "" {
		f.SortOrder = models.SortAsc
	}
	if f.SortOrder != models.SortAsc && f.SortOrder != models.SortDesc {
		return f, common.ValidationError("sortOrder must be ASC or DESC")
	}

	switch {
	case f.Page == 0:
		f.Page = 1
	case f.Page < 0:
		return f, common.ValidationError("page must be at least 1")
	}

	switch {
	case f.Limit == 0:
		f.Limit = models.DefaultPageLimit
	case f.Limit < 0:
		return f, common.ValidationError("limit must be at least 1")
	case f.Limit > models.MaxPageLimit:
		f.Limit = models.MaxPageLimit
	}

	return f, nil
}

func (s *ContactService) List(ctx context.Context, userID int64, f models.ContactFilter) (*models.ContactPage, error) {
	f, err := NormalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Contacts(s.db).List(ctx, userID, f)
}

func (s *ContactService) Get(ctx context.Context, userID, id int64) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).Get(ctx, userID, id)
}

// Update applies patch to the contact inside one transaction.
func (s *ContactService) Update(ctx context.Context, userID, id int64, patch models.ContactPatch) (*models.Contact, error) {
	var updated *models.Contact

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		c, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		patch.Apply(c)
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return common.ValidationError("name is required")
		}

		updated, err = repo.Update(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return updated, nil
}

func (s *ContactService) ToggleFavorite(ctx context.Context, userID, id int64) (*models.Contact, error) {
	c, err := s.repomanager.Contacts(s.db).ToggleFavorite(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Contacts(s.db).Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *ContactService) BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, common.ValidationError("no contact ids provided")
	}

	n, err := s.repomanager.Contacts(s.db).BulkDelete(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, userID)
	return n, nil
}

// Stats serves from the cache when possible. Cache failures are logged and
// never fail the request.
func (s *ContactService) Stats(ctx context.Context, userID int64) (*models.ContactStats, error) {
	if s.cache != nil {
		stats, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn(ctx, "stats cache read failed", "user_id", userID, "error", err)
		} else if ok {
			return stats, nil
		}
	}

	since := s.now().AddDate(0, 0, -recentDays)
	stats, err := s.repomanager.Contacts(s.db).Stats(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, stats, s.statsTTL); err != nil {
			s.logger.Warn(ctx, "stats cache write failed", "user_id", userID, "error", err)
		}
	}
	return stats, nil
}

func (s *ContactService) Search(ctx context.Context, userID int64, q string) ([]models.Contact, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Contact{}, nil
	}
	return s.repomanager.Contacts(s.db).Search(ctx, userID, q, searchLimit)
}

func (s *ContactService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn(ctx, "stats cache invalidation failed", "user_id", userID, "error", err)
	}
}
