// Package services contains server-side business logic. This file implements
// UserService: registration, credential checks and the access/refresh token
// lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/cryptox"
	"github.com/dmitrijs2005/phonebook/internal/dbx"
	"github.com/dmitrijs2005/phonebook/internal/server/auth"
	"github.com/dmitrijs2005/phonebook/internal/server/config"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/dmitrijs2005/phonebook/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
//   - Register: create users
//   - Login: verify credentials and mint tokens
//   - RefreshToken: consume a refresh token and mint a new pair
//   - Logout: revoke a refresh token
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		bcryptCost:                   cfg.BcryptCost,
		now:                          time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ValidationError("email and password are required")
	}
	if len(password) > cryptox.MaxPasswordBytes {
		return nil, common.ValidationError(fmt.Sprintf("password must be at most %d bytes", cryptox.MaxPasswordBytes))
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := cryptox.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         common.DefaultRole,
		IsActive:     true,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return stripHash(user), nil
}

// Login checks the credentials, records the login time and issues a token
// pair. A wrong password for an existing account is reported as
// common.ErrWrongPassword, which still matches common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, common.ValidationError("email and password are required")
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := cryptox.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, common.ErrWrongPassword
	}

	if !user.IsActive {
		return nil, nil, common.ErrInvalidCredentials
	}

	now := s.now()
	if err := repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, nil, err
	}
	user.LastLogin = &now

	pair, err := s.issueTokens(ctx, s.db, user)
	if err != nil {
		return nil, nil, err
	}

	return stripHash(user), pair, nil
}

// issueTokens mints an access token and persists a fresh refresh token
// through db, which may be a transaction.
func (s *UserService) issueTokens(ctx context.Context, db dbx.DBTX, user *models.User) (*models.TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken, err := common.MakeRandHexString(common.RefreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken consumes refreshToken and issues a new pair inside one
// transaction. The consuming DELETE ... RETURNING guarantees that of several
// concurrent callers presenting the same token at most one succeeds.
// Unknown, expired or orphaned tokens yield common.ErrInvalidRefreshToken;
// in those cases the row stays deleted.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidRefreshToken
	}

	var (
		pair     *models.TokenPair
		rejected bool
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		consumed, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				rejected = true
				return nil
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}

		if consumed.Expired(s.now()) {
			rejected = true
			return nil
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, consumed.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				rejected = true
				return nil
			}
			return fmt.Errorf("error loading user: %w", err)
		}
		if !user.IsActive {
			rejected = true
			return nil
		}

		pair, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rejected {
		return nil, common.ErrInvalidRefreshToken
	}

	return pair, nil
}

// Logout revokes refreshToken. Revoking an unknown token is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// ValidateAccessToken checks signature and expiry only; no database lookup.
func (s *UserService) ValidateAccessToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// PurgeExpired deletes refresh tokens that can no longer be used.
func (s *UserService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

// normalizeEmail is applied on both register and login so stored addresses
// match what users type.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func stripHash(u *models.User) *models.User {
	u.PasswordHash = ""
	return u
}
