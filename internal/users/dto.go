package users

import (
	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Profile is the customer-facing view of a website_users row.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Phone          string    `json:"phone"`
	AlternatePhone string    `json:"alternatePhone"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	PostalCode     string    `json:"postalCode"`
}

// ProfileUpdate carries the editable checkout contact fields. Email is not
// part of the update surface.
type ProfileUpdate struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternatePhone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
}

// ProfileFrom flattens the persisted row into the API shape.
func ProfileFrom(row models.WebsiteUser) Profile {
	return Profile{
		ID:             row.ID,
		Email:          row.Email,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Phone:          deref(row.Phone),
		AlternatePhone: deref(row.AlternatePhone),
		Address:        deref(row.Address),
		City:           deref(row.City),
		PostalCode:     deref(row.PostalCode),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
