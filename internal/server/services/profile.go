package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/server/config"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/dmitrijs2005/phonebook/internal/server/repositories/repomanager"
)

// AvatarStore turns an uploaded image into a stored object and returns the
// URL it is served from.
type AvatarStore interface {
	Upload(ctx context.Context, userID int64, r io.Reader) (string, error)
}

var allowedAvatarTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
}

// ProfileService manages the caller's own account.
type ProfileService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	avatars        AvatarStore
	maxAvatarBytes int64
}

// NewProfileService builds a ProfileService. avatars may be nil, in which
// case uploads fail with common.ErrAvatarStorageDisabled.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, avatars AvatarStore, cfg *config.Config) *ProfileService {
	return &ProfileService{
		db:             db,
		repomanager:    m,
		avatars:        avatars,
		maxAvatarBytes: cfg.AvatarMaxBytes,
	}
}

func (s *ProfileService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stripHash(user), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error) {
	if patch.Empty() {
		return s.Profile(ctx, userID)
	}

	user, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	return stripHash(user), nil
}

func (s *ProfileService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.repomanager.Users(s.db).Delete(ctx, userID)
}

// UploadAvatar validates and stores an avatar image, then records its URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID int64, contentType string, data []byte) (*models.User, error) {
	if s.avatars == nil {
		return nil, common.ErrAvatarStorageDisabled
	}

	if _, ok := allowedAvatarTypes[strings.ToLower(contentType)]; !ok {
		return nil, common.ValidationError("only jpeg, png and gif images are allowed")
	}
	if len(data) == 0 {
		return nil, common.ValidationError("no file uploaded")
	}
	if s.maxAvatarBytes > 0 && int64(len(data)) > s.maxAvatarBytes {
		return nil, common.ValidationError(fmt.Sprintf("file exceeds %d bytes", s.maxAvatarBytes))
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	url, err := s.avatars.Upload(ctx, userID, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	user, err := repo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	return stripHash(user), nil
}
