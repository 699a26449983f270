package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes customer profile reads and checkout-field updates.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*Profile, error)
}

type accountStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.WebsiteUser, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type service struct {
	repo accountStore
}

// NewService constructs a users service instance.
func NewService(repo accountStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}
	profile := ProfileFrom(*row)
	return &profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*Profile, error) {
	fields := profileFields(update)
	if err := s.repo.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating profile")
	}
	return s.GetProfile(ctx, userID)
}

// profileFields flattens the update into column assignments. Blank optional
// fields clear the stored value.
func profileFields(update ProfileUpdate) map[string]any {
	return map[string]any{
		"first_name":      strings.TrimSpace(update.FirstName),
		"last_name":       strings.TrimSpace(update.LastName),
		"phone":           optional(update.Phone),
		"alternate_phone": optional(update.AlternatePhone),
		"address":         optional(update.Address),
		"city":            optional(update.City),
		"postal_code":     optional(update.PostalCode),
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
