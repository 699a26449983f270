// Package auth implements customer account flows: sign-up, sign-in with
// customer-type gating, refresh rotation, sign-out, and password resets.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geolex-tech/storefront-backend/internal/users"
	pkgauth "github.com/geolex-tech/storefront-backend/pkg/auth"
	"github.com/geolex-tech/storefront-backend/pkg/auth/session"
	"github.com/geolex-tech/storefront-backend/pkg/config"
	dbpkg "github.com/geolex-tech/storefront-backend/pkg/db"
	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/geolex-tech/storefront-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid email or password"

// Credentials is the token pair issued after a successful sign-in or
// refresh, with the account profile attached.
type Credentials struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         users.Profile `json:"user"`
}

// SignUpInput carries the registration form.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Service exposes customer authentication flows.
type Service interface {
	SignUp(ctx context.Context, input SignUpInput) (*Credentials, error)
	SignIn(ctx context.Context, email, password string) (*Credentials, error)
	SignOut(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, accessToken, refreshToken string) (*Credentials, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

type accountStore interface {
	Create(ctx context.Context, user *models.WebsiteUser) error
	FindByEmail(ctx context.Context, email string) (*models.WebsiteUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WebsiteUser, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	db       *dbpkg.Client
	accounts accountStore
	resets   *ResetRepository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
}

// NewService constructs an auth service instance.
func NewService(
	client *dbpkg.Client,
	accounts accountStore,
	resets *ResetRepository,
	sessions sessionManager,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	logg *logger.Logger,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if resets == nil {
		return nil, fmt.Errorf("reset repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		db:       client,
		accounts: accounts,
		resets:   resets,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
	}, nil
}

func (s *service) SignUp(ctx context.Context, input SignUpInput) (*Credentials, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking existing account")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.WebsiteUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        optional(input.Phone),
		AccountType:  models.AccountTypeCustomer,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating account")
	}

	return s.issueCredentials(ctx, user)
}

func (s *service) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	// Staff and other back-office accounts exist in the same table but may
	// not use the storefront.
	if user.AccountType != models.AccountTypeCustomer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "this account cannot sign in to the store")
	}

	if err := s.accounts.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logg.Error(ctx, "failed to record last login", err)
	}

	return s.issueCredentials(ctx, user)
}

func (s *service) SignOut(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Credentials, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating session")
	}

	user, err := s.accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
	}
	if user.AccountType != models.AccountTypeCustomer {
		_ = s.sessions.Revoke(ctx, newAccessID)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "this account cannot sign in to the store")
	}

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:      user.ID,
		Email:       user.Email,
		AccountType: user.AccountType,
		JTI:         newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &Credentials{
		AccessToken:  signed,
		RefreshToken: newRefresh,
		User:         users.ProfileFrom(*user),
	}, nil
}

// RequestPasswordReset issues a single-use token and returns its plaintext.
// Unknown emails return an empty token without error so the endpoint never
// confirms which addresses exist.
func (s *service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, "password reset requested for unknown email")
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	plaintext, digest, err := security.GenerateResetToken()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating reset token")
	}

	reset := &models.PasswordReset{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: digest,
		ExpiresAt: time.Now().UTC().Add(s.pwCfg.ResetTokenTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing reset token")
	}

	return plaintext, nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	digest := security.HashResetToken(strings.TrimSpace(token))
	now := time.Now().UTC()

	reset, err := s.resets.FindActiveByHash(ctx, digest, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading reset token")
	}

	hash, err := security.HashPassword(newPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.resets.WithTx(tx).MarkUsed(ctx, reset.ID, now); err != nil {
			return err
		}
		return tx.WithContext(ctx).
			Model(&models.WebsiteUser{}).
			Where("id = ?", reset.UserID).
			Update("password_hash", hash).
			Error
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "applying password reset")
	}
	return nil
}

func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil || !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(next, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.accounts.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating password")
	}
	return nil
}

func (s *service) issueCredentials(ctx context.Context, user *models.WebsiteUser) (*Credentials, error) {
	accessID := session.NewAccessID()

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:      user.ID,
		Email:       user.Email,
		AccountType: user.AccountType,
		JTI:         accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session")
	}

	return &Credentials{
		AccessToken:  signed,
		RefreshToken: refresh,
		User:         users.ProfileFrom(*user),
	}, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
