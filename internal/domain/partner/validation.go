package partner

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9+\-\s().]+$`)
)

// Contact groups the optional reach-out fields shared by clients and suppliers
type Contact struct {
	Email   string
	Phone   string
	Address string
}

// Normalize trims every field
func (c Contact) Normalize() Contact {
	return Contact{
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// Validate checks the optional fields that are set
func (c Contact) Validate() error {
	if c.Email != "" {
		if err := validateEmail(c.Email); err != nil {
			return err
		}
	}
	if c.Phone != "" {
		if err := validatePhone(c.Phone); err != nil {
			return err
		}
	}
	if len(c.Address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	return nil
}

func validateName(code, name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError(code, "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(code, "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateWebsite(website string) error {
	if len(website) > 200 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 200 characters")
	}
	candidate := website
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return shared.NewDomainError("INVALID_WEBSITE", "Invalid website address")
	}
	return nil
}
