package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

// Form is the checkout contact and delivery form.
type Form struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternatePhone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
	Notes          string `json:"notes"`
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// Validate checks the whole form and reports every violation, not just the
// first one.
func Validate(form Form) error {
	var err error

	if strings.TrimSpace(form.FirstName) == "" {
		err = multierr.Append(err, fmt.Errorf("first name is required"))
	}
	if strings.TrimSpace(form.LastName) == "" {
		err = multierr.Append(err, fmt.Errorf("last name is required"))
	}

	if strings.TrimSpace(form.Phone) == "" {
		err = multierr.Append(err, fmt.Errorf("phone number is required"))
	} else if len(nonDigitPattern.ReplaceAllString(form.Phone, "")) != 10 {
		err = multierr.Append(err, fmt.Errorf("phone number must be 10 digits"))
	}

	if strings.TrimSpace(form.Address) == "" {
		err = multierr.Append(err, fmt.Errorf("address is required"))
	}
	if strings.TrimSpace(form.City) == "" {
		err = multierr.Append(err, fmt.Errorf("city is required"))
	}
	if strings.TrimSpace(form.PostalCode) == "" {
		err = multierr.Append(err, fmt.Errorf("postal code is required"))
	}

	if strings.TrimSpace(form.Email) == "" {
		err = multierr.Append(err, fmt.Errorf("email is required"))
	} else if !emailPattern.MatchString(strings.TrimSpace(form.Email)) {
		err = multierr.Append(err, fmt.Errorf("valid email is required"))
	}

	// The alternate phone is optional and deliberately permissive; shoppers
	// paste numbers with spacing and punctuation.
	return err
}

// Violations flattens a Validate error into display messages.
func Violations(err error) []string {
	if err == nil {
		return nil
	}
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
